package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"animedex/internal/blog"
	"animedex/internal/build"
	"animedex/internal/catalog"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var out string
	var allowEmpty bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Write a static export of the catalog and the blog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if out != "" {
				cfg.Build.PublicDir = out
			}

			b := &build.Builder{
				Cfg:     cfg,
				Catalog: catalog.New(catalog.NewSource(cfg.Catalog.Source)),
				Blog:    blog.NewLibrary(cfg.Blog.SourceDir, blog.Options{}),
			}
			res, err := b.Run(cmd.Context())
			if errors.Is(err, build.ErrEmptyCatalog) && allowEmpty {
				err = nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d files (%d titles, %d posts) to %s\nexport %s\n",
				res.Pages, res.Records, res.Posts, cfg.Build.PublicDir, res.Fingerprint.ExportHash)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output directory (overrides build.public_dir)")
	cmd.Flags().BoolVar(&allowEmpty, "allow-empty", false, "Succeed even when the catalog is empty")
	return cmd
}
