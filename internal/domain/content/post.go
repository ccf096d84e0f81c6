package content

import (
	"strings"
	"time"
)

type PostMeta struct {
	Title   string
	Slug    string
	Date    time.Time
	Excerpt string
	Tags    []string

	Hidden bool
	Draft  bool

	// 解析阶段填充
	Headings []Heading
}

type Heading struct {
	Level int
	ID    string
	Text  string
}

type BodyRef struct {
	SourcePath  string
	ContentHash string
}

// Post is one blog entry. The Markdown body is read from Body.SourcePath when rendered.
type Post struct {
	Meta PostMeta
	Body BodyRef
}

func (m *PostMeta) Normalize() {
	m.Title = strings.TrimSpace(m.Title)
	m.Slug = strings.TrimSpace(m.Slug)
	m.Excerpt = strings.TrimSpace(m.Excerpt)
	m.Tags = normalizeStrings(m.Tags)
}

func normalizeStrings(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		item = strings.ToLower(item)
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
