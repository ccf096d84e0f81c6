package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"animedex/internal/enrich"
)

func newEnrichCommand(ctx *commandContext) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Add AniList metadata to the configured titles of the catalog file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if file != "" {
				cfg.Enrich.File = file
			}

			client := enrich.NewClient(cfg.Enrich.Endpoint, cfg.Enrich.Interval)
			res, err := enrich.New(cfg.Enrich, client).Run(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, o := range res.Outcomes {
				switch {
				case o.Matched:
					fmt.Fprintf(w, "ok       %s\n", o.Key)
				case o.Err != nil:
					fmt.Fprintf(w, "skipped  %s: %v\n", o.Key, o.Err)
				}
			}
			fmt.Fprintf(w, "%d updated, written to %s\n", res.Updated, cfg.Enrich.File)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Catalog JSON file to rewrite (overrides enrich.file)")
	return cmd
}
