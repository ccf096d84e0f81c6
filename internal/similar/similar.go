// Package similar ranks catalog records by content overlap with a base record.
//
// Scoring, per candidate:
//
//	+3  for each candidate genre also in the base genres (case-insensitive)
//	+2  for each candidate mood tag also in the base mood tags (case-insensitive)
//	+1  when the type labels are equal (case-sensitive)
//	+2  when the years differ by at most 1, else +1 when by at most 3
//
// Candidates scoring <= 0 are dropped. The two entry points differ only in
// what they exclude: Recommend skips seen and disliked titles, Avoid skips
// only seen ones so that titles close to a disliked one stay visible.
package similar

import (
	"sort"
	"strings"

	"animedex/internal/domain/media"
	"animedex/internal/extract"
)

const (
	MaxResults = 24
	// PickerSize bounds the base-record picker list.
	PickerSize = 30
)

// KeySet is satisfied by prefs.Set and any other membership test over identity keys.
type KeySet interface {
	Has(key string) bool
}

type Match struct {
	Record media.Record
	Score  int
}

type profile struct {
	key    string
	genres map[string]struct{}
	mood   map[string]struct{}
	typ    string
	year   int
}

func newProfile(base media.Record) profile {
	return profile{
		key:    extract.Key(base),
		genres: lowerSet(extract.Genres(base)),
		mood:   lowerSet(extract.Mood(base)),
		typ:    extract.Type(base),
		year:   extract.Year(base),
	}
}

func lowerSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, it := range items {
		out[strings.ToLower(it)] = struct{}{}
	}
	return out
}

func (p profile) score(a media.Record) int {
	score := 0
	for _, g := range extract.Genres(a) {
		if _, ok := p.genres[strings.ToLower(g)]; ok {
			score += 3
		}
	}
	for _, m := range extract.Mood(a) {
		if _, ok := p.mood[strings.ToLower(m)]; ok {
			score += 2
		}
	}
	if extract.Type(a) == p.typ {
		score++
	}
	score += yearBonus(extract.Year(a) - p.year)
	return score
}

func yearBonus(dy int) int {
	if dy < 0 {
		dy = -dy
	}
	switch {
	case dy <= 1:
		return 2
	case dy <= 3:
		return 1
	default:
		return 0
	}
}

// Score returns the similarity of candidate to base, without any exclusion.
func Score(base, candidate media.Record) int {
	return newProfile(base).score(candidate)
}

// RankScored scores every candidate against base, skipping base itself and
// any key in excluded (nil excludes nothing). The result is sorted by score,
// highest first, ties kept in input order, and holds at most MaxResults.
func RankScored(base media.Record, candidates []media.Record, excluded ...KeySet) []Match {
	p := newProfile(base)

	var out []Match
	for _, a := range candidates {
		k := extract.Key(a)
		if k == p.key || isExcluded(k, excluded) {
			continue
		}
		if s := p.score(a); s > 0 {
			out = append(out, Match{Record: a, Score: s})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > MaxResults {
		out = out[:MaxResults]
	}
	return out
}

func isExcluded(key string, sets []KeySet) bool {
	for _, s := range sets {
		if s != nil && s.Has(key) {
			return true
		}
	}
	return false
}

func Rank(base media.Record, candidates []media.Record, excluded ...KeySet) []media.Record {
	return records(RankScored(base, candidates, excluded...))
}

func records(ms []Match) []media.Record {
	out := make([]media.Record, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Record)
	}
	return out
}

// Recommend suggests titles similar to one the user already watched.
func Recommend(base media.Record, catalog []media.Record, seen, disliked KeySet) []Match {
	return RankScored(base, catalog, seen, disliked)
}

// Avoid lists titles similar to a disliked one. Disliked titles are
// deliberately not excluded here.
func Avoid(base media.Record, catalog []media.Record, seen KeySet) []Match {
	return RankScored(base, catalog, seen)
}

// Picker lists candidate base records whose title contains query, up to PickerSize.
func Picker(catalog []media.Record, query string) []media.Record {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]media.Record, 0, PickerSize)
	for _, a := range catalog {
		if len(out) == PickerSize {
			break
		}
		if q == "" || strings.Contains(strings.ToLower(extract.Title(a)), q) {
			out = append(out, a)
		}
	}
	return out
}
