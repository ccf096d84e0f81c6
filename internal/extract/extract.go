// Package extract reads canonical fields out of loosely shaped catalog records.
//
// Every accessor is total: it accepts any media.Record, including nil or one
// with wrongly typed fields, and falls back to a defined default instead of
// failing. Field names follow the catalog JSON (Spanish keys first, then the
// AniList-style keys).
package extract

import (
	"fmt"
	"math"
	"strings"

	"animedex/internal/domain/media"
)

func Title(a media.Record) string {
	// titulo 原样返回，不去空白
	if t := asString(a["titulo"]); t != "" {
		return t
	}

	switch title := a["title"].(type) {
	case string:
		if t := strings.TrimSpace(title); t != "" {
			return t
		}
	case map[string]any:
		for _, k := range []string{"english", "romaji", "native"} {
			if t := asString(title[k]); t != "" {
				return t
			}
		}
	}
	return media.Untitled
}

// Year returns the first of anio, seasonYear, startDate.year that is > 0, else 0.
func Year(a media.Record) int {
	if y := positiveInt(a["anio"]); y > 0 {
		return y
	}
	if y := positiveInt(a["seasonYear"]); y > 0 {
		return y
	}
	if sd, ok := asRecord(a["startDate"]); ok {
		if y := positiveInt(sd["year"]); y > 0 {
			return y
		}
	}
	return 0
}

func Type(a media.Record) string {
	if t := asString(a["tipo"]); t != "" {
		return t
	}
	if t := asString(a["format"]); t != "" {
		return t
	}
	return media.UnknownType
}

func Episodes(a media.Record) int {
	if e := positiveInt(a["episodios"]); e > 0 {
		return e
	}
	return positiveInt(a["episodes"])
}

// Genres tries genres, then genero, then the name of every tag object.
// Duplicates are kept.
func Genres(a media.Record) []string {
	if g := asStringArray(a["genres"]); len(g) > 0 {
		return g
	}
	if g := asStringArray(a["genero"]); len(g) > 0 {
		return g
	}

	tags, ok := a["tags"].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, t := range tags {
		tag, ok := asRecord(t)
		if !ok {
			continue
		}
		if name := asString(tag["name"]); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func Mood(a media.Record) []string {
	return asStringArray(a["mood"])
}

func Synopsis(a media.Record) string {
	if d := asString(a["desc"]); d != "" {
		return d
	}
	if d := asString(a["description"]); d != "" {
		return StripHTML(d)
	}
	return media.NoSynopsis
}

func SiteURL(a media.Record) string {
	u, _ := httpURL(a["siteUrl"])
	return u
}

// TrailerID is only set for YouTube trailers; other platforms yield "".
func TrailerID(a media.Record) string {
	t, ok := asRecord(a["trailer"])
	if !ok {
		return ""
	}
	id := asString(t["id"])
	if id == "" || strings.ToLower(asString(t["site"])) != "youtube" {
		return ""
	}
	return id
}

func CoverURL(a media.Record) string {
	cover := a["cover"]
	if u, ok := httpURL(cover); ok {
		return u
	}
	if c, ok := asRecord(cover); ok {
		if u, ok := firstHTTP(c, "url", "extraLarge", "large", "medium"); ok {
			return u
		}
	}
	if ci, ok := asRecord(a["coverImage"]); ok {
		if u, ok := firstHTTP(ci, "extraLarge", "large", "medium"); ok {
			return u
		}
	}
	return ""
}

func firstHTTP(m map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if u, ok := httpURL(m[k]); ok {
			return u, true
		}
	}
	return "", false
}

// Key is the identity used by preference sets and lookups: the record id when
// present, otherwise "title-year-type" lowercased. Two records sharing all
// three fields and lacking an id get the same key.
func Key(a media.Record) string {
	switch id := a["id"].(type) {
	case string:
		if id != "" {
			return id
		}
	case float64:
		if !math.IsNaN(id) && !math.IsInf(id, 0) {
			return formatNumber(id)
		}
	case int:
		return fmt.Sprint(id)
	case int64:
		return fmt.Sprint(id)
	}
	return strings.ToLower(fmt.Sprintf("%s-%d-%s", Title(a), Year(a), Type(a)))
}

// View computes the full canonical reading of a.
func View(a media.Record) media.View {
	return media.View{
		Key:       Key(a),
		Title:     Title(a),
		Year:      Year(a),
		Type:      Type(a),
		Episodes:  Episodes(a),
		Genres:    Genres(a),
		Mood:      Mood(a),
		Synopsis:  Synopsis(a),
		CoverURL:  CoverURL(a),
		SiteURL:   SiteURL(a),
		TrailerID: TrailerID(a),
		Meta:      Meta(a),
	}
}

func Views(list []media.Record) []media.View {
	out := make([]media.View, 0, len(list))
	for _, a := range list {
		out = append(out, View(a))
	}
	return out
}
