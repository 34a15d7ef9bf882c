package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/ergochat/readline"
	"github.com/spf13/cobra"

	"github.com/otsimple/otlresolve/runtime/resolver"
)

// lineReader is the part of *readline.Instance the loop uses.
type lineReader interface {
	Readline() (string, error)
	Close() error
}

var completer = readline.NewPrefixCompleter(
	readline.PcItem(":quit"),
	readline.PcItem(":help"),
)

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func newREPLCommand(app *App) *cobra.Command {
	var history string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Resolve queries interactively, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.open(false)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          "otl> ",
				HistoryFile:     history,
				AutoComplete:    completer,
				InterruptPrompt: "^C",
				EOFPrompt:       ":quit",

				HistorySearchFold:   true,
				FuncFilterInputRune: filterInput,
			})
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			if s.macros != nil {
				// Edits to the definitions apply to the next line typed
				go func() {
					if err := s.macros.Watch(ctx); err != nil {
						app.logger.Warn("macro watch stopped", "error", err)
					}
				}()
			}
			return app.repl(ctx, rl, s.resolver)
		},
	}

	cmd.Flags().StringVar(&history, "history", "", "History file (none by default)")
	return cmd
}

// repl resolves each line read from rl until :quit, end of input or an
// interrupt on an empty line. A failed resolution is reported and the loop
// goes on.
func (a *App) repl(ctx context.Context, rl lineReader, r *resolver.Resolver) error {
	defer func() { _ = rl.Close() }()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) != 0 {
				continue
			}
			return nil
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case ":quit", ":q", ":exit":
			return nil
		case ":help":
			_, _ = io.WriteString(a.Out, "Type a query to resolve it, :quit to leave.\n")
			continue
		}

		res, err := r.Resolve(ctx, line)
		if err != nil {
			FormatError(a.Err, err, a.useColor)
			continue
		}
		if err := writeResult(a.Out, res, "json"); err != nil {
			return err
		}
	}
}
