package serve

import (
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"animedex/internal/browse"
	domainbuild "animedex/internal/domain/build"
	"animedex/internal/domain/media"
	"animedex/internal/extract"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// handleAPICatalog serves the normalized views. The ETag follows the bytes of
// the last successful fetch.
func (s *Server) handleAPICatalog(w http.ResponseWriter, r *http.Request) {
	records := s.catalog.Records()
	if fp := s.catalog.Fingerprint(); fp != "" {
		etag := domainbuild.ETag(fp)
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	writeJSON(w, http.StatusOK, extract.Views(records))
}

type statusResponse struct {
	Loading     bool       `json:"loading"`
	Count       int        `json:"count"`
	Fingerprint string     `json:"fingerprint,omitempty"`
	LoadedAt    *time.Time `json:"loadedAt,omitempty"`
	Source      string     `json:"source"`
	Posts       int        `json:"posts"`
	Clients     int        `json:"clients"`
}

func (s *Server) status() statusResponse {
	records, loading := s.catalog.State()
	st := statusResponse{
		Loading:     loading,
		Count:       len(records),
		Fingerprint: s.catalog.Fingerprint(),
		Source:      s.catalog.Source().String(),
		Posts:       len(s.blog.Posts()),
		Clients:     s.events.clients(),
	}
	if t := s.catalog.LoadedAt(); !t.IsZero() {
		st.LoadedAt = &t
	}
	return st
}

func (s *Server) handleAPIStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.status())
}

// handleAPIReload refetches the catalog and answers once it is loaded.
func (s *Server) handleAPIReload(w http.ResponseWriter, r *http.Request) {
	s.catalog.Load(r.Context())
	writeJSON(w, http.StatusOK, s.status())
}

type sessionResponse struct {
	Criteria browse.Criteria `json:"criteria"`
	RawQuery string          `json:"rawQuery"`
	Window   int             `json:"window"`
	Total    int             `json:"total"`
	Items    []media.View    `json:"items"`
}

func (s *Server) sessionState() sessionResponse {
	page, total := s.session.Visible(s.catalog.Records(), s.prefs.Favs(), s.cfg.Catalog.MatureGenres)
	return sessionResponse{
		Criteria: s.session.Criteria(),
		RawQuery: s.session.RawQuery(),
		Window:   s.session.Window(),
		Total:    total,
		Items:    extract.Views(page),
	}
}

func (s *Server) handleAPISession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sessionState())
}

// handleAPISessionUpdate applies the form fields that are present. The query
// is debounced unless flush is set; more grows the window by one page.
func (s *Server) handleAPISessionUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f := r.Form

	if f.Has("q") {
		s.session.SetQuery(f.Get("q"))
	}
	if f.Has("genre") {
		s.session.SetGenre(f.Get("genre"))
	}
	if f.Has("type") {
		s.session.SetType(f.Get("type"))
	}
	if f.Has("from") || f.Has("to") {
		c := s.session.Criteria()
		from, to := c.FromYear, c.ToYear
		if n, ok := intParam(f, "from"); ok {
			from = n
		}
		if n, ok := intParam(f, "to"); ok {
			to = n
		}
		s.session.SetYears(from, to)
	}
	if f.Has("sort") {
		mode := f.Get("sort")
		if !browse.ValidSort(mode) {
			http.Error(w, "unknown sort "+strconv.Quote(mode), http.StatusBadRequest)
			return
		}
		s.session.SetSort(mode)
	}
	if f.Has("favs") {
		s.session.SetOnlyFavs(boolParam(f, "favs"))
	}
	if f.Has("safe") {
		s.session.SetSafeMode(boolParam(f, "safe"))
	}
	if boolParam(f, "flush") {
		s.session.FlushQuery()
	}
	if boolParam(f, "more") {
		s.session.ShowMore()
	}
	writeJSON(w, http.StatusOK, s.sessionState())
}
