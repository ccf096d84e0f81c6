package render

import (
	"context"
	"strings"
	"testing"
	"time"

	"animedex/internal/browse"
	"animedex/internal/domain/config"
	"animedex/internal/domain/content"
	"animedex/internal/domain/media"
)

func ptr[T any](v T) *T { return &v }

func TestMetaRows(t *testing.T) {
	rows := MetaRows(nil)
	if len(rows) != 6 {
		t.Fatalf("rows = %d, want 6", len(rows))
	}
	for _, r := range rows {
		if r.Value != media.NotAvailable || r.SourceURL != "" {
			t.Errorf("%s = %q / %q", r.Label, r.Value, r.SourceURL)
		}
	}

	m := &media.Meta{
		Filler:     &media.Filler{CanonEpisodes: ptr(180.0), FillerEpisodes: ptr(90.0), SourceURL: ptr("https://example.org/f")},
		Adaptation: &media.Adaptation{DifferencePercent: ptr(12.6)},
		Studio:     &media.Studio{Studios: []string{"Pierrot", "Madhouse"}, SourceURL: ptr("javascript:alert(1)")},
		Creator:    &media.Creator{Name: ptr("Masashi Kishimoto"), Role: ptr("Story & Art")},
	}
	rows = MetaRows(m)
	want := map[string]string{
		"Filler":     "Canon 180 · Filler 90 · Mixed " + media.NotAvailable,
		"Seasons":    media.NotAvailable,
		"Adaptation": "Chapters adapted " + media.NotAvailable + " · Difference 13%",
		"Studio":     "Pierrot, Madhouse",
		"Creator":    "Masashi Kishimoto (Story & Art)",
	}
	for _, r := range rows {
		if w, ok := want[r.Label]; ok && r.Value != w {
			t.Errorf("%s = %q, want %q", r.Label, r.Value, w)
		}
	}
	if rows[0].SourceURL != "https://example.org/f" {
		t.Errorf("filler source = %q", rows[0].SourceURL)
	}
	if rows[4].SourceURL != "" {
		t.Errorf("non-http source kept: %q", rows[4].SourceURL)
	}
}

func TestMarkdownHeadings(t *testing.T) {
	res, err := NewMarkdownRenderer().Render([]byte("# Intro\n\nText with *emphasis*.\n\n## Part `two`\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Headings) != 2 {
		t.Fatalf("headings = %+v", res.Headings)
	}
	if res.Headings[0].ID != "intro" || res.Headings[1].Level != 2 || res.Headings[1].Text != "Part two" {
		t.Errorf("headings = %+v", res.Headings)
	}
	if !strings.Contains(string(res.HTML), "<em>emphasis</em>") {
		t.Errorf("html = %s", res.HTML)
	}
}

func TestTemplatesRender(t *testing.T) {
	r, err := NewTemplateRenderer()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	site := config.Default().Site
	card := Card{View: media.View{Key: "a b", Title: "Naruto <3", Year: 2002, Type: "TV", Genres: []string{"Action"}}, Fav: true, Rating: 4}

	pages := []struct {
		name   string
		render func() ([]byte, error)
		want   string
	}{
		{"catalog", func() ([]byte, error) {
			return r.RenderCatalog(ctx, CatalogPage{Site: site, Criteria: browse.DefaultCriteria(), Options: browse.OptionsFor(nil), Cards: []Card{card}, Total: 1})
		}, "Naruto &lt;3"},
		{"detail", func() ([]byte, error) {
			return r.RenderDetail(ctx, DetailPage{Site: site, Title: "Naruto", Card: card, Meta: MetaRows(nil), TrailerURL: "https://www.youtube.com/embed/x?autoplay=1", Embed: true})
		}, "/prefs/fav/a%20b"},
		{"similar", func() ([]byte, error) {
			return r.RenderSimilar(ctx, SimilarPage{Site: site, Mode: ModeAvoid, Picker: []Card{card}, Base: &card})
		}, "What to avoid"},
		{"similar picker delay", func() ([]byte, error) {
			return r.RenderSimilar(ctx, SimilarPage{Site: site, Mode: ModeRecommend})
		}, `data-delay="200"`},
		{"blog list", func() ([]byte, error) {
			return r.RenderBlogList(ctx, BlogListPage{Site: site, Posts: []content.PostMeta{{Title: "Hi", Slug: "hi", Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}}})
		}, "2024-01-02"},
		{"blog post", func() ([]byte, error) {
			return r.RenderBlogPost(ctx, BlogPostPage{Site: site, Meta: content.PostMeta{Title: "Hi"}, HTML: "<p>body</p>"})
		}, "<p>body</p>"},
		{"404", func() ([]byte, error) {
			return r.RenderNotFound(ctx, NotFoundPage{Site: site, Path: "/nope"})
		}, "/nope"},
	}
	for _, p := range pages {
		t.Run(p.name, func(t *testing.T) {
			out, err := p.render()
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(string(out), p.want) {
				t.Fatalf("output lacks %q", p.want)
			}
		})
	}
}
