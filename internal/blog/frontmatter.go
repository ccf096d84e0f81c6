package blog

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

var (
	errNoFrontMatter      = errors.New("no front matter found")
	errInvalidFrontMatter = errors.New("invalid front matter")
)

type FrontMatter struct {
	Title   string   `yaml:"title"`
	Slug    string   `yaml:"slug"`
	Date    string   `yaml:"date"`
	Excerpt string   `yaml:"excerpt"`
	Tags    []string `yaml:"tags"`
	Hidden  bool     `yaml:"hidden"`
	Draft   bool     `yaml:"draft"`
}

// SplitFrontMatter separates a leading "---" YAML block from the Markdown
// body. Without a block the whole input is the body and errNoFrontMatter is
// returned.
func SplitFrontMatter(raw []byte) (FrontMatter, []byte, error) {
	norm := bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	norm = bytes.TrimSpace(norm)

	const sep = "---"
	if !bytes.HasPrefix(norm, []byte(sep+"\n")) {
		return FrontMatter{}, norm, errNoFrontMatter
	}
	rest := norm[len(sep)+1:]

	var head, body []byte
	switch {
	case bytes.HasPrefix(rest, []byte(sep+"\n")):
		// 空 front matter
		body = rest[len(sep)+1:]
	case bytes.Equal(rest, []byte(sep)):
	default:
		i := bytes.Index(rest, []byte("\n"+sep+"\n"))
		if i < 0 {
			if !bytes.HasSuffix(rest, []byte("\n"+sep)) {
				return FrontMatter{}, norm, errInvalidFrontMatter
			}
			head = rest[:len(rest)-len(sep)-1]
		} else {
			head, body = rest[:i], rest[i+len(sep)+2:]
		}
	}

	var fm FrontMatter
	if len(bytes.TrimSpace(head)) > 0 {
		if err := yaml.Unmarshal(head, &fm); err != nil {
			return FrontMatter{}, norm, err
		}
	}
	return fm, bytes.TrimSpace(body), nil
}

func resolveSlug(fm FrontMatter, path string) string {
	if s := strings.TrimSpace(fm.Slug); s != "" {
		return slugify(s)
	}
	if t := strings.TrimSpace(fm.Title); t != "" {
		return slugify(t)
	}
	base := filepath.Base(path)
	return slugify(strings.TrimSuffix(base, filepath.Ext(base)))
}

func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly, "2006-01-02 15:04", time.DateTime} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

// slugify keeps letters and digits (ASCII lowercased) and folds every run of
// other characters into a single dash.
func slugify(s string) string {
	var b strings.Builder
	dash := false
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if r <= unicode.MaxASCII {
				r = unicode.ToLower(r)
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
