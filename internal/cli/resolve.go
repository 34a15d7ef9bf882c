package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/otsimple/otlresolve/runtime/resolver"
)

func newResolveCommand(app *App) *cobra.Command {
	var (
		file        string
		format      string
		metricsFile string
	)

	cmd := &cobra.Command{
		Use:   "resolve [query]",
		Short: "Resolve one query and print its service form",
		Long: `Resolve one query and print the result envelope. The query is taken from
the argument, from --file, or from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("format") {
				app.cfg.Format = format
			}
			query, err := app.readQuery(args, file)
			if err != nil {
				return err
			}

			s, err := app.open(metricsFile != "")
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			res, resolveErr := s.resolver.Resolve(cmd.Context(), query)
			if metricsFile != "" {
				if err := prometheus.WriteToTextfile(metricsFile, s.registry); err != nil {
					return fmt.Errorf("write metrics: %w", err)
				}
			}
			if resolveErr != nil {
				return resolveErr
			}
			return writeResult(app.Out, res, app.cfg.Format)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the query from a file (- for stdin)")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or cbor")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")
	return cmd
}

// readQuery handles the 3 modes of input:
// 1. Query as the argument
// 2. Explicit file, or stdin with -f -
// 3. Piped stdin
func (a *App) readQuery(args []string, file string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	var r io.Reader
	switch {
	case file == "-":
		r = a.In
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return "", fmt.Errorf("error opening file %s: %w", file, err)
		}
		defer func() { _ = f.Close() }()
		r = f
	case hasPipedInput(a.In):
		r = a.In
	default:
		return "", &CLIError{
			Type:    "input",
			Message: "no query given",
			Hint:    "pass the query as an argument, with --file, or on stdin",
		}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read query: %w", err)
	}
	query := strings.TrimRight(string(data), "\r\n")
	if strings.TrimSpace(query) == "" {
		return "", &CLIError{Type: "input", Message: "empty query"}
	}
	return query, nil
}

// hasPipedInput reports whether r has data that is not typed at a terminal.
// Readers other than files always count as piped.
func hasPipedInput(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return r != nil
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	// Pipes may not report a size, so only the mode is checked
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// writeResult prints res as indented JSON or as CBOR.
func writeResult(w io.Writer, res *resolver.Result, format string) error {
	if format == "cbor" {
		data, err := res.MarshalCBOR()
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	data, err := res.MarshalJSON()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}
