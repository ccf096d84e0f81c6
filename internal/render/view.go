package render

import (
	"html/template"

	"animedex/internal/browse"
	"animedex/internal/domain/config"
	"animedex/internal/domain/content"
	"animedex/internal/domain/media"
)

// Card is one record as shown in a grid, with the user's marks on it.
type Card struct {
	View     media.View
	Fav      bool
	Seen     bool
	Disliked bool
	Rating   int
	Score    int
}

type CatalogPage struct {
	Site     config.SiteConfig
	Title    string
	Criteria browse.Criteria
	Options  browse.Options
	Cards    []Card
	Total    int
	Loading  bool
	MoreURL  string // empty when every match is shown
	Query    string
}

type MetaRow struct {
	Label     string
	Value     string
	SourceURL string
}

type DetailPage struct {
	Site       config.SiteConfig
	Title      string
	Card       Card
	Meta       []MetaRow
	TrailerURL string
	Embed      bool
	Similar    []Card
}

type SimilarMode string

const (
	ModeRecommend SimilarMode = "recommend"
	ModeAvoid     SimilarMode = "avoid"
)

// SimilarPage is the recommend / avoid screen: a picker on the left and the
// ranked matches for the chosen base title.
type SimilarPage struct {
	Site    config.SiteConfig
	Title   string
	Mode    SimilarMode
	Query   string
	Picker  []Card
	Base    *Card
	Matches []Card
	Limit   int
}

type BlogListPage struct {
	Site  config.SiteConfig
	Title string
	Posts []content.PostMeta
}

type BlogPostPage struct {
	Site  config.SiteConfig
	Title string
	Meta  content.PostMeta
	HTML  template.HTML
	TOC   []content.Heading
}

type NotFoundPage struct {
	Site  config.SiteConfig
	Title string
	Path  string
}
