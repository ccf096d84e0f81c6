package serve

import (
	"net/url"
	"strconv"
	"strings"

	"animedex/internal/browse"
	"animedex/internal/domain/media"
)

// criteriaFrom reads the catalog filters from query parameters. Missing or
// malformed values keep their defaults; the year range defaults to the
// catalog's own.
func criteriaFrom(q url.Values, catalog []media.Record) browse.Criteria {
	c := browse.DefaultCriteriaFor(catalog)
	c.Query = q.Get("q")
	if g := strings.TrimSpace(q.Get("genre")); g != "" {
		c.Genre = g
	}
	if t := strings.TrimSpace(q.Get("type")); t != "" {
		c.Type = t
	}
	if n, ok := intParam(q, "from"); ok {
		c.FromYear = n
	}
	if n, ok := intParam(q, "to"); ok {
		c.ToYear = n
	}
	if m := q.Get("sort"); browse.ValidSort(m) {
		c.Sort = m
	}
	c.OnlyFavs = boolParam(q, "favs")
	c.SafeMode = boolParam(q, "safe")
	return c
}

// windowFrom is the number of cards to show, at least one page.
func windowFrom(q url.Values, page int) int {
	if n, ok := intParam(q, "n"); ok && n > page {
		return n
	}
	return page
}

func intParam(q url.Values, name string) (int, bool) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func boolParam(q url.Values, name string) bool {
	switch strings.ToLower(strings.TrimSpace(q.Get(name))) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// withParam returns u's path and query with name set to value.
func withParam(u *url.URL, name, value string) string {
	q := u.Query()
	q.Set(name, value)
	return u.Path + "?" + q.Encode()
}
