// Package app assembles render pages from the catalog, preferences and blog.
// Both the live server and the static export build their pages here.
package app

import (
	"fmt"
	"html/template"
	"strings"

	"animedex/internal/blog"
	"animedex/internal/browse"
	"animedex/internal/domain/config"
	"animedex/internal/domain/content"
	"animedex/internal/domain/media"
	"animedex/internal/extract"
	"animedex/internal/prefs"
	"animedex/internal/render"
	"animedex/internal/similar"
)

// ShownMatches is how many ranked matches a page displays.
const ShownMatches = 12

// Marker reports the user's marks on a title. *prefs.Store satisfies it.
type Marker interface {
	Has(k prefs.Kind, key string) bool
	Rating(key string) int
}

type Pages struct {
	Site   config.SiteConfig
	Mature []string
	MD     *render.MarkdownRenderer
}

func NewPages(cfg config.Config) *Pages {
	return &Pages{
		Site:   cfg.Site,
		Mature: cfg.Catalog.MatureGenres,
		MD:     render.NewMarkdownRenderer(),
	}
}

func (p *Pages) Card(a media.Record, m Marker) render.Card {
	c := render.Card{View: extract.View(a)}
	if m != nil {
		k := c.View.Key
		c.Fav = m.Has(prefs.KindFav, k)
		c.Seen = m.Has(prefs.KindSeen, k)
		c.Disliked = m.Has(prefs.KindDisliked, k)
		c.Rating = m.Rating(k)
	}
	return c
}

func (p *Pages) Cards(list []media.Record, m Marker) []render.Card {
	out := make([]render.Card, 0, len(list))
	for _, a := range list {
		out = append(out, p.Card(a, m))
	}
	return out
}

func (p *Pages) scored(ms []similar.Match, m Marker) []render.Card {
	if len(ms) > ShownMatches {
		ms = ms[:ShownMatches]
	}
	out := make([]render.Card, 0, len(ms))
	for _, x := range ms {
		c := p.Card(x.Record, m)
		c.Score = x.Score
		out = append(out, c)
	}
	return out
}

// CatalogView is the browse state a catalog page is built from.
type CatalogView struct {
	Criteria browse.Criteria
	Window   int
	PageSize int // Show more increment, browse.PageSize when zero
	RawQuery string
	Loading  bool
	MoreURL  func(window int) string
}

func (p *Pages) Catalog(catalog []media.Record, favs similar.KeySet, m Marker, v CatalogView) render.CatalogPage {
	all := browse.Apply(catalog, favs, v.Criteria, p.Mature)
	shown := browse.Page(all, v.Window)

	page := render.CatalogPage{
		Site:     p.Site,
		Criteria: v.Criteria,
		Options:  browse.OptionsFor(catalog),
		Cards:    p.Cards(shown, m),
		Total:    len(all),
		Loading:  v.Loading,
		Query:    v.RawQuery,
	}
	if len(shown) < len(all) && v.MoreURL != nil {
		step := v.PageSize
		if step <= 0 {
			step = browse.PageSize
		}
		page.MoreURL = v.MoreURL(v.Window + step)
	}
	return page
}

// Find returns the first record with the given identity key.
func Find(catalog []media.Record, key string) (media.Record, bool) {
	for _, a := range catalog {
		if extract.Key(a) == key {
			return a, true
		}
	}
	return nil, false
}

func (p *Pages) Detail(a media.Record, catalog []media.Record, m Marker, seen, disliked similar.KeySet) render.DetailPage {
	card := p.Card(a, m)
	trailer, embed := extract.TrailerURL(a)
	return render.DetailPage{
		Site:       p.Site,
		Title:      card.View.Title,
		Card:       card,
		Meta:       render.MetaRows(card.View.Meta),
		TrailerURL: trailer,
		Embed:      embed,
		Similar:    p.scored(similar.Recommend(a, catalog, orEmpty(seen), orEmpty(disliked)), m),
	}
}

// Similar builds the recommend or avoid page. baseKey may be empty, in
// which case only the picker is filled.
func (p *Pages) Similar(mode render.SimilarMode, catalog []media.Record, query, baseKey string, m Marker, seen, disliked similar.KeySet) render.SimilarPage {
	page := render.SimilarPage{
		Site:   p.Site,
		Mode:   mode,
		Query:  query,
		Picker: p.Cards(similar.Picker(catalog, query), m),
		Limit:  ShownMatches,
	}
	if mode == render.ModeAvoid {
		page.Title = "Avoid"
	} else {
		page.Title = "Recommend"
	}
	if baseKey == "" {
		return page
	}
	base, ok := Find(catalog, baseKey)
	if !ok {
		return page
	}
	bc := p.Card(base, m)
	page.Base = &bc

	var ms []similar.Match
	if mode == render.ModeAvoid {
		ms = similar.Avoid(base, catalog, orEmpty(seen))
	} else {
		ms = similar.Recommend(base, catalog, orEmpty(seen), orEmpty(disliked))
	}
	page.Matches = p.scored(ms, m)
	return page
}

func (p *Pages) BlogList(posts []content.Post) render.BlogListPage {
	metas := make([]content.PostMeta, 0, len(posts))
	for _, post := range posts {
		metas = append(metas, post.Meta)
	}
	return render.BlogListPage{Site: p.Site, Title: "Blog", Posts: metas}
}

func (p *Pages) BlogPost(post content.Post) (render.BlogPostPage, error) {
	body, err := blog.Body(post)
	if err != nil {
		return render.BlogPostPage{}, err
	}
	res, err := p.MD.Render(body)
	if err != nil {
		return render.BlogPostPage{}, fmt.Errorf("markdown render(%s): %w", post.Meta.Slug, err)
	}
	meta := post.Meta
	meta.Headings = res.Headings
	return render.BlogPostPage{
		Site:  p.Site,
		Title: meta.Title,
		Meta:  meta,
		HTML:  template.HTML(res.HTML),
		TOC:   res.Headings,
	}, nil
}

func (p *Pages) NotFound(path string) render.NotFoundPage {
	return render.NotFoundPage{Site: p.Site, Title: "Not found", Path: strings.TrimSpace(path)}
}

func orEmpty(s similar.KeySet) similar.KeySet {
	if s == nil {
		return prefs.Set{}
	}
	return s
}
