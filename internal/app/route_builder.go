package app

import (
	"path/filepath"
	"strings"

	"animedex/internal/domain/content"
	"animedex/internal/domain/media"
	"animedex/internal/domain/site"
	"animedex/internal/extract"
)

// RouteBuilder maps catalog records and blog posts to export paths.
type RouteBuilder struct{}

func (RouteBuilder) StaticRoutes() []site.Route {
	return []site.Route{
		{Kind: site.RouteIndex, OutPath: "index.html"},
		{Kind: site.RouteBlogIndex, OutPath: filepath.Join("blog", "index.html")},
		{Kind: site.RouteCatalogJSON, OutPath: filepath.Join("data", "catalog.json")},
		{Kind: site.RouteFingerprint, OutPath: filepath.Join("data", "fingerprint.json")},
		{Kind: site.RouteNotFound, OutPath: "404.html"},
	}
}

// AnimeRoutes gives one detail page per distinct identity key. Records that
// share a composite key collapse onto the first one.
func (RouteBuilder) AnimeRoutes(records []media.Record) []site.Route {
	seen := make(map[string]struct{}, len(records))
	routes := make([]site.Route, 0, len(records))
	for _, a := range records {
		key := extract.Key(a)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		routes = append(routes, site.Route{
			Kind:    site.RouteAnime,
			Key:     key,
			OutPath: filepath.Join("anime", keySegment(key), "index.html"),
		})
	}
	return routes
}

func (RouteBuilder) BlogRoutes(posts []content.Post) []site.Route {
	routes := make([]site.Route, 0, len(posts))
	for _, p := range posts {
		routes = append(routes, site.Route{
			Kind:    site.RouteBlogPost,
			Slug:    p.Meta.Slug,
			OutPath: filepath.Join("blog", SafePathSegment(p.Meta.Slug), "index.html"),
		})
	}
	return routes
}

// keySegment keeps the identity key as the directory name, so that the
// escaped link /anime/<key> resolves on a static file server, unless the key
// cannot be a single path element.
func keySegment(key string) string {
	if key == "." || key == ".." || strings.ContainsAny(key, `/\`+"\x00") {
		return SafePathSegment(key)
	}
	return key
}

// SafePathSegment replaces everything but ASCII letters, digits, '-' and '_'
// so a key can be used as one directory name.
func SafePathSegment(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "untitled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, s)
}
