package extract

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"animedex/internal/domain/media"
)

// Meta reads the optional enrichment block. It returns nil when the record has
// no "meta" object; wrongly typed leaves inside it read as not available.
func Meta(a media.Record) *media.Meta {
	m, ok := asRecord(a["meta"])
	if !ok {
		return nil
	}
	out := &media.Meta{}

	if b, ok := asRecord(m["filler"]); ok {
		out.Filler = &media.Filler{
			CanonEpisodes:         optNumber(b["canonEpisodes"]),
			FillerEpisodes:        optNumber(b["fillerEpisodes"]),
			MixedEpisodes:         optNumber(b["mixedEpisodes"]),
			TotalEpisodesVerified: optNumber(b["totalEpisodesVerified"]),
			Note:                  optString(b["note"]),
			SourceURL:             optString(b["sourceUrl"]),
		}
	}
	if b, ok := asRecord(m["seasons"]); ok {
		out.Seasons = &media.Seasons{
			TotalSeasons: optNumber(b["totalSeasons"]),
			Note:         optString(b["note"]),
			SourceURL:    optString(b["sourceUrl"]),
		}
	}
	if b, ok := asRecord(m["manga"]); ok {
		out.Manga = &media.Manga{
			Volumes:   optNumber(b["volumes"]),
			Chapters:  optNumber(b["chapters"]),
			Note:      optString(b["note"]),
			SourceURL: optString(b["sourceUrl"]),
		}
	}
	if b, ok := asRecord(m["adaptation"]); ok {
		out.Adaptation = &media.Adaptation{
			MangaChaptersAdapted: optNumber(b["mangaChaptersAdapted"]),
			AnimeEpisodes:        optNumber(b["animeEpisodes"]),
			DifferencePercent:    optNumber(b["differencePercent"]),
			Summary:              optString(b["summary"]),
			SourceURL:            optString(b["sourceUrl"]),
		}
	}
	if b, ok := asRecord(m["studio"]); ok {
		out.Studio = &media.Studio{
			Studios:   asStringArray(b["studios"]),
			SourceURL: optString(b["sourceUrl"]),
		}
	}
	if b, ok := asRecord(m["creator"]); ok {
		out.Creator = &media.Creator{
			Name:      optString(b["name"]),
			Role:      optString(b["role"]),
			SourceURL: optString(b["sourceUrl"]),
		}
	}
	return out
}

func optNumber(v any) *float64 {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
		return &x
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return &f
	}
	return nil
}

func optString(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

// Show formats an optional meta value, using media.NotAvailable for nil,
// blank strings, empty lists and non-finite numbers.
func Show(v any) string {
	switch x := v.(type) {
	case nil:
		return media.NotAvailable
	case *string:
		if x == nil {
			return media.NotAvailable
		}
		return Show(*x)
	case string:
		if strings.TrimSpace(x) == "" {
			return media.NotAvailable
		}
		return x
	case *float64:
		if x == nil {
			return media.NotAvailable
		}
		return Show(*x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return media.NotAvailable
		}
		return formatNumber(x)
	case int:
		return fmt.Sprint(x)
	case []string:
		if len(x) == 0 {
			return media.NotAvailable
		}
		return strings.Join(x, ", ")
	default:
		return media.NotAvailable
	}
}

// ShowPercent renders a positive number as a rounded percentage.
func ShowPercent(v *float64) string {
	if v == nil || *v <= 0 || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return media.NotAvailable
	}
	return fmt.Sprintf("%d%%", int(math.Round(*v)))
}

// SourceLink returns the attribution URL only when it is a usable http(s) link.
func SourceLink(u *string) string {
	if u == nil || !IsHTTPURL(*u) {
		return ""
	}
	return *u
}
