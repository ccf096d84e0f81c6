package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"animedex/internal/debounce"
)

//go:embed templates/*.tmpl
var builtin embed.FS

var requiredTemplates = []string{
	"catalog.tmpl",
	"detail.tmpl",
	"similar.tmpl",
	"blog-list.tmpl",
	"blog-post.tmpl",
	"404.tmpl",
}

type TemplateRenderer struct {
	tpl *template.Template
}

// NewTemplateRenderer parses the built-in theme.
func NewTemplateRenderer() (*TemplateRenderer, error) {
	sub, err := fs.Sub(builtin, "templates")
	if err != nil {
		return nil, err
	}
	return NewTemplateRendererFS(sub)
}

// NewTemplateRendererFS parses every *.tmpl at the root of fsys.
func NewTemplateRendererFS(fsys fs.FS) (*TemplateRenderer, error) {
	tpl, err := template.New("").Funcs(templateFuncs()).ParseFS(fsys, "*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("render: parse templates: %w", err)
	}
	for _, name := range requiredTemplates {
		if tpl.Lookup(name) == nil {
			return nil, fmt.Errorf("render: missing template %s", name)
		}
	}
	return &TemplateRenderer{tpl: tpl}, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"date": func(t time.Time, layout string) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(layout)
		},
		"nowYear":  func() int { return time.Now().Year() },
		"animeURL": AnimeURL,
		"blogURL":  BlogURL,
		"prefsURL": func(set, key string) string {
			return "/prefs/" + url.PathEscape(set) + "/" + url.PathEscape(key)
		},
		"ratingURL": func(key string) string { return "/rating/" + url.PathEscape(key) },
		"join":      strings.Join,
		"stars":     func() []int { return []int{1, 2, 3, 4, 5} },
		"add":       func(a, b int) int { return a + b },
		// 浏览器端选择器的输入防抖
		"pickerDelayMs": func() int64 { return debounce.Picker.Milliseconds() },
	}
}

func AnimeURL(key string) string { return "/anime/" + url.PathEscape(key) }

func BlogURL(slug string) string { return "/blog/" + url.PathEscape(slug) }

func (r *TemplateRenderer) RenderCatalog(ctx context.Context, page CatalogPage) ([]byte, error) {
	return r.exec("catalog.tmpl", page)
}

func (r *TemplateRenderer) RenderDetail(ctx context.Context, page DetailPage) ([]byte, error) {
	return r.exec("detail.tmpl", page)
}

func (r *TemplateRenderer) RenderSimilar(ctx context.Context, page SimilarPage) ([]byte, error) {
	return r.exec("similar.tmpl", page)
}

func (r *TemplateRenderer) RenderBlogList(ctx context.Context, page BlogListPage) ([]byte, error) {
	return r.exec("blog-list.tmpl", page)
}

func (r *TemplateRenderer) RenderBlogPost(ctx context.Context, page BlogPostPage) ([]byte, error) {
	return r.exec("blog-post.tmpl", page)
}

func (r *TemplateRenderer) RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error) {
	return r.exec("404.tmpl", page)
}

func (r *TemplateRenderer) exec(name string, data any) ([]byte, error) {
	t := r.tpl.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
