package browse

import (
	"sort"
	"strings"

	"animedex/internal/domain/media"
	"animedex/internal/extract"
)

// GenreOptions returns up to MaxGenreOpts lowercased genres, most frequent
// first. Ties keep the order in which genres first appear.
func GenreOptions(catalog []media.Record) []string {
	counts := map[string]int{}
	var order []string
	for _, a := range catalog {
		for _, g := range extract.Genres(a) {
			k := strings.ToLower(g)
			if _, ok := counts[k]; !ok {
				order = append(order, k)
			}
			counts[k]++
		}
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > MaxGenreOpts {
		order = order[:MaxGenreOpts]
	}
	return order
}

// TypeOptions returns the sorted distinct known type labels.
func TypeOptions(catalog []media.Record) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, a := range catalog {
		t := extract.Type(a)
		if t == media.UnknownType {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// YearRange returns the smallest and largest known year, or the default
// range when no record has one.
func YearRange(catalog []media.Record) (lo, hi int) {
	for _, a := range catalog {
		y := extract.Year(a)
		if y <= 0 {
			continue
		}
		if lo == 0 || y < lo {
			lo = y
		}
		if y > hi {
			hi = y
		}
	}
	if lo == 0 {
		return DefaultFromYear, DefaultToYear
	}
	return lo, hi
}

func YearOptions(catalog []media.Record) []int {
	lo, hi := YearRange(catalog)
	out := make([]int, 0, hi-lo+1)
	for y := lo; y <= hi; y++ {
		out = append(out, y)
	}
	return out
}

// Options bundles every selector list for one catalog snapshot.
type Options struct {
	Genres []string
	Types  []string
	Years  []int
	Sorts  []string
}

func OptionsFor(catalog []media.Record) Options {
	return Options{
		Genres: GenreOptions(catalog),
		Types:  TypeOptions(catalog),
		Years:  YearOptions(catalog),
		Sorts:  SortModes,
	}
}
