package browse

import (
	"strings"

	"animedex/internal/domain/media"
)

// Sort modes.
const (
	SortAZ       = "AZ"
	SortYearDesc = "YEAR_DESC"
	SortYearAsc  = "YEAR_ASC"
	SortEpsDesc  = "EPS_DESC"
	SortEpsAsc   = "EPS_ASC"
)

// All disables the genre or type filter.
const All = "all"

const (
	PageSize     = 24
	MaxGenreOpts = 60

	DefaultFromYear = 1990
	DefaultToYear   = 2026
)

var SortModes = []string{SortYearDesc, SortYearAsc, SortAZ, SortEpsDesc, SortEpsAsc}

// Criteria is the user's current filter selection. It is never persisted.
type Criteria struct {
	Query    string
	Genre    string
	Type     string
	FromYear int
	ToYear   int
	Sort     string
	OnlyFavs bool
	SafeMode bool
}

func DefaultCriteria() Criteria {
	return Criteria{
		Genre:    All,
		Type:     All,
		FromYear: DefaultFromYear,
		ToYear:   DefaultToYear,
		Sort:     SortYearDesc,
	}
}

// DefaultCriteriaFor is DefaultCriteria with the year range fitted to the
// catalog's known years.
func DefaultCriteriaFor(catalog []media.Record) Criteria {
	c := DefaultCriteria()
	c.FromYear, c.ToYear = YearRange(catalog)
	return c
}

func isAll(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, All)
}

// ValidSort reports whether mode is one of the known sort modes.
func ValidSort(mode string) bool {
	for _, m := range SortModes {
		if m == mode {
			return true
		}
	}
	return false
}
