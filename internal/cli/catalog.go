package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCatalogCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the stored datamodels and jobs",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "put-datamodel NAME QUERY",
		Short: "Store or replace a datamodel query",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.openStore()
			if err != nil {
				return err
			}
			if err := store.PutDatamodel(args[0], args[1]); err != nil {
				_ = store.Close()
				return err
			}
			return store.Close()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "put-job SID OTL",
		Short: "Store the OTL of a job, owned by --source-ip when set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.openStore()
			if err != nil {
				return err
			}
			if err := store.PutJob(args[0], args[1], app.cfg.SourceIP); err != nil {
				_ = store.Close()
				return err
			}
			return store.Close()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored datamodels and jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			datamodels, err := store.Datamodels(cmd.Context())
			if err != nil {
				return err
			}
			jobs, err := store.Jobs(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(app.Out, 0, 4, 2, ' ', 0)
			for _, d := range datamodels {
				_, _ = fmt.Fprintf(tw, "datamodel\t%s\t\t%s\n", d.Name, d.Query)
			}
			for _, j := range jobs {
				owner := j.SourceIP
				if owner == "" {
					owner = "-"
				}
				_, _ = fmt.Fprintf(tw, "job\t%s\t%s\t%s\n", j.SID, owner, j.OTL)
			}
			return tw.Flush()
		},
	})

	return cmd
}
