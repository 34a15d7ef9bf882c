package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/otsimple/otlresolve/runtime/macros"
)

func newMacrosCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "macros",
		Short: "Inspect the macro library",
	}

	macrosDir := func() (string, error) {
		if app.cfg.MacrosDir == "" {
			return "", &CLIError{
				Type:    "config",
				Message: "no macros directory configured",
				Hint:    "pass --macros-dir or set macros_dir in the config file",
			}
		}
		return app.cfg.MacrosDir, nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List macro names and versions with the library digest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := macrosDir()
			if err != nil {
				return err
			}
			lib, err := macros.Load(dir, macros.WithLogger(app.logger))
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(app.Out, 0, 4, 2, ' ', 0)
			for _, def := range lib.Definitions() {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", def.Name, def.Version, def.Description)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(app.Out, "digest %s\n", lib.Digest())
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate every definition in the macros directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := macrosDir()
			if err != nil {
				return err
			}
			if err := macros.Check(dir); err != nil {
				return err
			}
			_, err = fmt.Fprintf(app.Out, "%s: %s\n", dir, Colorize("ok", ColorGreen, app.useColor))
			return err
		},
	})

	return cmd
}
