// Package build writes a static export of the catalog and the blog.
package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"animedex/internal/app"
	"animedex/internal/blog"
	"animedex/internal/browse"
	"animedex/internal/catalog"
	domainbuild "animedex/internal/domain/build"
	"animedex/internal/domain/config"
	"animedex/internal/domain/content"
	"animedex/internal/domain/media"
	"animedex/internal/domain/site"
	"animedex/internal/extract"
	"animedex/internal/logging"
	"animedex/internal/render"
)

// ErrEmptyCatalog is returned when the catalog source yields no records.
// The export still writes the blog and an empty grid before returning it.
var ErrEmptyCatalog = errors.New("build: catalog is empty")

type Builder struct {
	Cfg     config.Config
	Catalog *catalog.Store
	Blog    *blog.Library
	// Renderer defaults to the embedded templates.
	Renderer render.Renderer
}

type Result struct {
	Records     int
	Pages       int
	Posts       int
	Fingerprint domainbuild.Fingerprint
}

// fingerprintFile is the JSON form of data/fingerprint.json.
type fingerprintFile struct {
	Catalog   string    `json:"catalog"`
	Blog      string    `json:"blog"`
	Config    string    `json:"config"`
	Export    string    `json:"export"`
	Generated time.Time `json:"generated"`
}

func (b *Builder) Run(ctx context.Context) (*Result, error) {
	log := logging.Component("build")

	records := b.Catalog.Load(ctx)
	if err := b.Blog.Reload(ctx); err != nil {
		return nil, fmt.Errorf("load blog: %w", err)
	}
	posts := b.Blog.Posts()

	tpl := b.Renderer
	if tpl == nil {
		r, err := render.NewTemplateRenderer()
		if err != nil {
			return nil, err
		}
		tpl = r
	}

	outDir := b.Cfg.Build.PublicDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir public: %w", err)
	}

	fp, err := b.fingerprint(posts)
	if err != nil {
		return nil, err
	}

	ex := &export{
		b:       b,
		pages:   app.NewPages(b.Cfg),
		tpl:     tpl,
		outDir:  outDir,
		records: records,
		posts:   posts,
		fp:      fp,
		log:     log,

		pageSize: b.Cfg.Catalog.PageSize,
	}
	if ex.pageSize <= 0 {
		ex.pageSize = browse.PageSize
	}
	n, err := ex.writeAll(ctx)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("dir", outDir).
		Int("records", len(records)).
		Int("posts", len(posts)).
		Int("files", n).
		Msg("export written")

	res := &Result{Records: len(records), Pages: n, Posts: len(posts), Fingerprint: fp}
	if len(records) == 0 {
		return res, ErrEmptyCatalog
	}
	return res, nil
}

func (b *Builder) fingerprint(posts []content.Post) (domainbuild.Fingerprint, error) {
	cfgBytes, err := yaml.Marshal(b.Cfg)
	if err != nil {
		return domainbuild.Fingerprint{}, fmt.Errorf("hash config: %w", err)
	}
	fp := domainbuild.Fingerprint{
		CatalogHash: b.Catalog.Fingerprint(),
		BlogHash:    b.Blog.Hash(),
		ConfigHash:  domainbuild.HashBytes(cfgBytes),
	}
	fp.ComputeExportHash()
	return fp, nil
}

type export struct {
	b       *Builder
	pages   *app.Pages
	tpl     render.Renderer
	outDir  string
	records []media.Record
	posts   []content.Post
	fp      domainbuild.Fingerprint
	log     zerolog.Logger

	pageSize int
}

func (e *export) writeAll(ctx context.Context) (int, error) {
	var rb app.RouteBuilder
	routes := rb.StaticRoutes()
	routes = append(routes, rb.AnimeRoutes(e.records)...)
	routes = append(routes, rb.BlogRoutes(e.posts)...)

	n := 0
	for _, r := range routes {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		data, err := e.renderRoute(ctx, r)
		if err != nil {
			return n, fmt.Errorf("build %s: %w", r, err)
		}
		if err := writeFile(e.outDir, r.OutPath, data); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (e *export) renderRoute(ctx context.Context, r site.Route) ([]byte, error) {
	switch r.Kind {
	case site.RouteIndex:
		page := e.pages.Catalog(e.records, nil, nil, app.CatalogView{
			Criteria: browse.DefaultCriteriaFor(e.records),
			Window:   e.pageSize,
			PageSize: e.pageSize,
		})
		return e.tpl.RenderCatalog(ctx, page)

	case site.RouteAnime:
		a, ok := app.Find(e.records, r.Key)
		if !ok {
			return nil, fmt.Errorf("record %q vanished", r.Key)
		}
		return e.tpl.RenderDetail(ctx, e.pages.Detail(a, e.records, nil, nil, nil))

	case site.RouteBlogIndex:
		return e.tpl.RenderBlogList(ctx, e.pages.BlogList(e.posts))

	case site.RouteBlogPost:
		post, err := e.b.Blog.Find(r.Slug)
		if err != nil {
			return nil, err
		}
		page, err := e.pages.BlogPost(post)
		if err != nil {
			return nil, err
		}
		return e.tpl.RenderBlogPost(ctx, page)

	case site.RouteNotFound:
		return e.tpl.RenderNotFound(ctx, e.pages.NotFound(""))

	case site.RouteCatalogJSON:
		// 导出的是规范化后的视图，不是原始记录
		return json.MarshalIndent(extract.Views(e.records), "", "  ")

	case site.RouteFingerprint:
		return json.MarshalIndent(fingerprintFile{
			Catalog:   e.fp.CatalogHash,
			Blog:      e.fp.BlogHash,
			Config:    e.fp.ConfigHash,
			Export:    e.fp.ExportHash,
			Generated: time.Now().UTC(),
		}, "", "  ")
	}
	return nil, fmt.Errorf("unknown route kind %q", r.Kind)
}

func writeFile(root, rel string, data []byte) error {
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}
