// Package browse derives the visible part of the catalog from the user's
// filter criteria, favorites and page window.
package browse

import (
	"math/rand/v2"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"animedex/internal/domain/media"
	"animedex/internal/extract"
	"animedex/internal/similar"
)

// Apply filters and sorts catalog. Stages run in a fixed order: safe mode,
// favorites only, genre, type, year range, title query, then a stable sort.
// favs may be nil when OnlyFavs is false. mature lists the genres safe mode hides.
func Apply(catalog []media.Record, favs similar.KeySet, c Criteria, mature []string) []media.Record {
	matureSet := lowerSet(mature)
	genre := strings.ToLower(strings.TrimSpace(c.Genre))
	q := strings.ToLower(strings.TrimSpace(c.Query))

	out := make([]media.Record, 0, len(catalog))
	for _, a := range catalog {
		if c.SafeMode && hasAnyGenre(a, matureSet) {
			continue
		}
		if c.OnlyFavs && (favs == nil || !favs.Has(extract.Key(a))) {
			continue
		}
		if !isAll(genre) && !hasAnyGenre(a, map[string]struct{}{genre: {}}) {
			continue
		}
		if !isAll(c.Type) && extract.Type(a) != c.Type {
			continue
		}
		if y := extract.Year(a); y <= 0 || y < c.FromYear || y > c.ToYear {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(extract.Title(a)), q) {
			continue
		}
		out = append(out, a)
	}

	Sort(out, c.Sort)
	return out
}

// Sort orders list in place by mode. Unknown modes leave it untouched.
func Sort(list []media.Record, mode string) {
	var less func(a, b media.Record) bool
	switch mode {
	case SortAZ:
		// 按语言习惯排序，接近浏览器的 localeCompare
		col := collate.New(language.Und)
		less = func(a, b media.Record) bool {
			return col.CompareString(extract.Title(a), extract.Title(b)) < 0
		}
	case SortYearDesc:
		less = func(a, b media.Record) bool { return extract.Year(a) > extract.Year(b) }
	case SortYearAsc:
		less = func(a, b media.Record) bool { return extract.Year(a) < extract.Year(b) }
	case SortEpsDesc:
		less = func(a, b media.Record) bool { return extract.Episodes(a) > extract.Episodes(b) }
	case SortEpsAsc:
		less = func(a, b media.Record) bool { return extract.Episodes(a) < extract.Episodes(b) }
	default:
		return
	}
	sort.SliceStable(list, func(i, j int) bool { return less(list[i], list[j]) })
}

// Page returns the first n elements of list.
func Page(list []media.Record, n int) []media.Record {
	if n < 0 {
		n = 0
	}
	if n >= len(list) {
		return list
	}
	return list[:n]
}

// Random picks one record from list, or reports false when list is empty.
// A nil rng uses the global source.
func Random(list []media.Record, rng *rand.Rand) (media.Record, bool) {
	if len(list) == 0 {
		return nil, false
	}
	var i int
	if rng != nil {
		i = rng.IntN(len(list))
	} else {
		i = rand.IntN(len(list))
	}
	return list[i], true
}

func hasAnyGenre(a media.Record, set map[string]struct{}) bool {
	if len(set) == 0 {
		return false
	}
	for _, g := range extract.Genres(a) {
		if _, ok := set[strings.ToLower(g)]; ok {
			return true
		}
	}
	return false
}

func lowerSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it = strings.ToLower(strings.TrimSpace(it)); it != "" {
			out[it] = struct{}{}
		}
	}
	return out
}
