package browse

import (
	"sync"
	"time"

	"animedex/internal/debounce"
	"animedex/internal/domain/media"
	"animedex/internal/similar"
)

// Session is one user's live browsing state: the criteria, the page window
// and a debounced search query. Changing any criterion resets the window to
// the base page size. The query is applied only once typing has paused.
type Session struct {
	mu       sync.Mutex
	crit     Criteria
	pageSize int
	window   int
	onChange func(Criteria)

	query *debounce.Value[string]
}

type SessionOption func(*Session)

// WithPageSize overrides PageSize for the window base and increment.
func WithPageSize(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithQueryDelay overrides the quiet period for the search query.
func WithQueryDelay(d time.Duration) SessionOption {
	return func(s *Session) {
		s.query = debounce.NewValue(s.crit.Query, d, s.applyQuery)
	}
}

// OnChange registers fn to run after every criteria change, including the
// delayed query application.
func OnChange(fn func(Criteria)) SessionOption {
	return func(s *Session) { s.onChange = fn }
}

func NewSession(c Criteria, opts ...SessionOption) *Session {
	s := &Session{crit: c, pageSize: PageSize}
	s.query = debounce.NewValue(c.Query, debounce.Search, s.applyQuery)
	for _, opt := range opts {
		opt(s)
	}
	s.window = s.pageSize
	return s
}

func (s *Session) applyQuery(q string) {
	s.update(func(c *Criteria) { c.Query = q })
}

// update mutates the criteria, resets the window and notifies the listener.
func (s *Session) update(fn func(*Criteria)) {
	s.mu.Lock()
	fn(&s.crit)
	s.window = s.pageSize
	c := s.crit
	cb := s.onChange
	s.mu.Unlock()
	if cb != nil {
		cb(c)
	}
}

// SetQuery records the raw text immediately; it reaches the criteria after
// the quiet period.
func (s *Session) SetQuery(q string) { s.query.Set(q) }

// FlushQuery applies the raw query now.
func (s *Session) FlushQuery() { s.query.Flush() }

func (s *Session) RawQuery() string { return s.query.Raw() }

func (s *Session) SetGenre(g string) {
	if isAll(g) {
		g = All
	}
	s.update(func(c *Criteria) { c.Genre = g })
}

func (s *Session) SetType(t string) {
	if isAll(t) {
		t = All
	}
	s.update(func(c *Criteria) { c.Type = t })
}

func (s *Session) SetYears(from, to int) {
	s.update(func(c *Criteria) { c.FromYear, c.ToYear = from, to })
}

func (s *Session) SetSort(mode string) {
	s.update(func(c *Criteria) { c.Sort = mode })
}

func (s *Session) SetOnlyFavs(on bool) {
	s.update(func(c *Criteria) { c.OnlyFavs = on })
}

func (s *Session) SetSafeMode(on bool) {
	s.update(func(c *Criteria) { c.SafeMode = on })
}

// FitYears sets the year range to the catalog's known years. An empty
// catalog leaves the range alone.
func (s *Session) FitYears(catalog []media.Record) {
	if len(catalog) == 0 {
		return
	}
	lo, hi := YearRange(catalog)
	s.SetYears(lo, hi)
}

// ShowMore grows the window by one page.
func (s *Session) ShowMore() {
	s.mu.Lock()
	s.window += s.pageSize
	s.mu.Unlock()
}

func (s *Session) Window() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window
}

func (s *Session) Criteria() Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.crit
}

// Visible applies the criteria to catalog and returns the current page along
// with the size of the full filtered list.
func (s *Session) Visible(catalog []media.Record, favs similar.KeySet, mature []string) ([]media.Record, int) {
	s.mu.Lock()
	c, n := s.crit, s.window
	s.mu.Unlock()

	all := Apply(catalog, favs, c, mature)
	return Page(all, n), len(all)
}

// Close cancels a pending query application.
func (s *Session) Close() { s.query.Stop() }
