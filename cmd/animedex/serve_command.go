package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"animedex/internal/blog"
	"animedex/internal/catalog"
	"animedex/internal/logging"
	"animedex/internal/serve"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string
	var drafts bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog and the blog over HTTP, reloading on file changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			store, st, err := ctx.openPrefs()
			if err != nil {
				return err
			}
			defer st.Close()

			cat := catalog.New(catalog.NewSource(cfg.Catalog.Source))
			lib := blog.NewLibrary(cfg.Blog.SourceDir, blog.Options{IncludeDraft: drafts})

			srv, err := serve.New(cfg, serve.Deps{Catalog: cat, Prefs: store, Blog: lib})
			if err != nil {
				return err
			}
			defer srv.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log := logging.Component("cli")
			g, gctx := errgroup.WithContext(runCtx)
			g.Go(func() error {
				return srv.ListenAndServe(gctx, cfg.Server.Addr)
			})
			if cfg.Catalog.Watch {
				g.Go(func() error {
					err := cat.Watch(gctx)
					if errors.Is(err, catalog.ErrNotWatchable) {
						log.Info().Str("source", cat.Source().String()).Msg("remote catalog, not watching")
						return nil
					}
					return err
				})
			}
			if _, err := os.Stat(lib.Dir()); err == nil {
				g.Go(func() error {
					return lib.Watch(gctx, func() { srv.Broadcast("reload") })
				})
			} else {
				log.Info().Str("dir", lib.Dir()).Msg("no blog directory, not watching")
			}

			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&drafts, "drafts", true, "Include draft blog posts")
	return cmd
}
