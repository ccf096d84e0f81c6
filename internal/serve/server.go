// Package serve is the live HTTP front end: catalog grid, detail pages,
// preference toggles, recommend/avoid, the blog and a small JSON API.
package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"animedex/internal/app"
	"animedex/internal/blog"
	"animedex/internal/browse"
	"animedex/internal/catalog"
	"animedex/internal/domain/config"
	"animedex/internal/domain/media"
	"animedex/internal/logging"
	"animedex/internal/prefs"
	"animedex/internal/render"
)

type Server struct {
	cfg     config.Config
	catalog *catalog.Store
	prefs   *prefs.Store
	blog    *blog.Library
	tpl     render.Renderer
	pages   *app.Pages
	log     zerolog.Logger

	session *browse.Session
	events  *broker
}

type Deps struct {
	Catalog *catalog.Store
	Prefs   *prefs.Store
	Blog    *blog.Library
	// Renderer defaults to the embedded templates.
	Renderer render.Renderer
}

func New(cfg config.Config, d Deps) (*Server, error) {
	if d.Catalog == nil || d.Prefs == nil || d.Blog == nil {
		return nil, errors.New("serve: catalog, prefs and blog are required")
	}
	tpl := d.Renderer
	if tpl == nil {
		r, err := render.NewTemplateRenderer()
		if err != nil {
			return nil, fmt.Errorf("serve: failed to create template renderer: %w", err)
		}
		tpl = r
	}

	s := &Server{
		cfg:     cfg,
		catalog: d.Catalog,
		prefs:   d.Prefs,
		blog:    d.Blog,
		tpl:     tpl,
		pages:   app.NewPages(cfg),
		log:     logging.Component("serve"),
		session: browse.NewSession(browse.DefaultCriteria(), browse.WithPageSize(cfg.Catalog.PageSize)),
		events:  newBroker(),
	}

	// 目录重新加载后通知浏览器刷新
	d.Catalog.OnLoad(func(recs []media.Record) {
		s.session.FitYears(recs)
		s.Broadcast("reload")
	})
	return s, nil
}

// Broadcast sends msg to every connected /dev/events client.
func (s *Server) Broadcast(msg string) { s.events.publish(msg) }

func (s *Server) Close() {
	s.session.Close()
	s.events.close()
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.observe)

	r.Get("/", s.handleCatalog)
	r.Get("/anime/{key}", s.handleDetail)
	r.Get("/trailer/{key}", s.handleTrailer)
	r.Post("/prefs/{set}/{key}", s.handleToggle)
	r.Post("/rating/{key}", s.handleRating)
	r.Get("/recommend", s.handleSimilar(render.ModeRecommend))
	r.Get("/avoid", s.handleSimilar(render.ModeAvoid))
	r.Get("/random", s.handleRandom)

	r.Get("/blog", s.handleBlogList)
	r.Get("/blog/{slug}", s.handleBlogPost)

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.handleAPICatalog)
		r.Get("/status", s.handleAPIStatus)
		r.Post("/reload", s.handleAPIReload)
		r.Get("/session", s.handleAPISession)
		r.Post("/session", s.handleAPISessionUpdate)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/dev/events", s.handleSSE)

	r.NotFound(s.handleNotFound)
	return r
}

// ListenAndServe loads the catalog and the blog, then serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if err := s.blog.Reload(ctx); err != nil {
		return fmt.Errorf("serve: load blog: %w", err)
	}
	go s.catalog.Load(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 支持 ctx 取消
	go func() {
		<-ctx.Done()
		s.events.close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info().Str("addr", addr).Msg("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
