package site

import (
	"fmt"
	"strings"
)

type RouteKind string

const (
	RouteIndex       RouteKind = "index"
	RouteAnime       RouteKind = "anime"
	RouteBlogIndex   RouteKind = "blog-index"
	RouteBlogPost    RouteKind = "blog-post"
	RouteCatalogJSON RouteKind = "catalog-json"
	RouteFingerprint RouteKind = "fingerprint"
	RouteNotFound    RouteKind = "404"
)

// Route is one file of the static export.
type Route struct {
	Kind    RouteKind
	Slug    string // blog slug
	Key     string // record identity key
	Page    int
	OutPath string
}

func (r Route) String() string {
	parts := []string{string(r.Kind)}
	if r.Slug != "" {
		parts = append(parts, "slug="+r.Slug)
	}
	if r.Key != "" {
		parts = append(parts, "key="+r.Key)
	}
	if r.Page > 0 {
		parts = append(parts, fmt.Sprintf("page=%d", r.Page))
	}
	if r.OutPath != "" {
		parts = append(parts, "out="+r.OutPath)
	}
	return strings.Join(parts, " ")
}
