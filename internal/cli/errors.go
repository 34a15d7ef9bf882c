package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/otsimple/otlresolve/runtime/macros"
	"github.com/otsimple/otlresolve/runtime/resolver"
)

// CLIError represents a formatted CLI error with context
type CLIError struct {
	Type    string // "config", "input", "catalog"
	Message string
	Details string // Additional context
	Hint    string // How to fix it
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Details != "" {
		b.WriteString("\n")
		b.WriteString(e.Details)
	}
	if e.Hint != "" {
		b.WriteString("\n")
		b.WriteString(e.Hint)
	}
	return b.String()
}

// FormatError formats an error for CLI output with colors
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}

	var cliErr *CLIError
	var resolveErr *resolver.Error
	switch {
	case errors.As(err, &cliErr):
		formatCLIError(w, cliErr, useColor)
	case errors.As(err, &resolveErr):
		formatResolveError(w, resolveErr, useColor)
	default:
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())
	}
}

// formatResolveError prints the failing stage, the cause chain and any
// suggestion, including one carried by a macro error underneath.
func formatResolveError(w io.Writer, err *resolver.Error, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s: %s\n", Colorize("Error: ", ColorRed, useColor), err.Kind, err.Message)

	if err.Cause != nil {
		_, _ = fmt.Fprintf(w, "%s\n", Colorize("  Cause: "+err.Cause.Error(), ColorGray, useColor))
	}

	suggestion := err.Suggestion
	var macroErr *macros.Error
	if suggestion == "" && errors.As(err, &macroErr) {
		suggestion = macroErr.Suggestion
	}
	if suggestion != "" {
		_, _ = fmt.Fprintf(w, "%s%q?\n", Colorize("Hint: ", ColorYellow, useColor)+"did you mean ", suggestion)
	}
}

// formatCLIError formats CLI errors
func formatCLIError(w io.Writer, err *CLIError, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Message)

	if err.Details != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", err.Details)
	}

	if err.Hint != "" {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", ColorYellow, useColor), err.Hint)
	}
}
