package serve

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"animedex/internal/app"
	"animedex/internal/blog"
	"animedex/internal/browse"
	"animedex/internal/extract"
	"animedex/internal/metrics"
	"animedex/internal/prefs"
	"animedex/internal/render"
)

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	records, loading := s.catalog.State()
	q := r.URL.Query()
	page := s.pages.Catalog(records, s.prefs.Favs(), s.prefs, app.CatalogView{
		Criteria: criteriaFrom(q, records),
		Window:   windowFrom(q, s.cfg.Catalog.PageSize),
		PageSize: s.cfg.Catalog.PageSize,
		RawQuery: q.Get("q"),
		Loading:  loading,
		MoreURL: func(n int) string {
			return withParam(r.URL, "n", strconv.Itoa(n))
		},
	})
	page.Title = s.cfg.Site.Title

	htmlBytes, err := s.tpl.RenderCatalog(r.Context(), page)
	if err != nil {
		s.fail(w, "render catalog", err)
		return
	}
	writeHTML(w, htmlBytes)
}

// keyParam is the unescaped {key} path segment.
func keyParam(r *http.Request) string {
	raw := chi.URLParam(r, "key")
	if k, err := url.PathUnescape(raw); err == nil {
		return k
	}
	return raw
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	records := s.catalog.Records()
	a, ok := app.Find(records, keyParam(r))
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	page := s.pages.Detail(a, records, s.prefs, s.prefs.Seen(), s.prefs.Disliked())
	htmlBytes, err := s.tpl.RenderDetail(r.Context(), page)
	if err != nil {
		s.fail(w, "render detail", err)
		return
	}
	writeHTML(w, htmlBytes)
}

func (s *Server) handleTrailer(w http.ResponseWriter, r *http.Request) {
	a, ok := app.Find(s.catalog.Records(), keyParam(r))
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	u, _ := extract.TrailerURL(a)
	http.Redirect(w, r, u, http.StatusFound)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	kind, err := prefs.ParseKind(chi.URLParam(r, "set"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	key := keyParam(r)
	if strings.TrimSpace(key) == "" {
		http.Error(w, "empty key", http.StatusBadRequest)
		return
	}
	member := s.prefs.Toggle(kind, key)
	metrics.RecordToggle(string(kind), member)

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{"set": kind, "key": key, "member": member})
		return
	}
	back(w, r, render.AnimeURL(key))
}

func (s *Server) handleRating(w http.ResponseWriter, r *http.Request) {
	key := keyParam(r)
	n, err := strconv.Atoi(strings.TrimSpace(r.FormValue("rating")))
	if err != nil {
		http.Error(w, "rating must be a number", http.StatusBadRequest)
		return
	}
	// 超出 1..5 即清除评分
	s.prefs.SetRating(key, n)

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{"key": key, "rating": s.prefs.Rating(key)})
		return
	}
	back(w, r, render.AnimeURL(key))
}

func (s *Server) handleSimilar(mode render.SimilarMode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page := s.pages.Similar(mode, s.catalog.Records(), q.Get("q"), q.Get("from"),
			s.prefs, s.prefs.Seen(), s.prefs.Disliked())
		htmlBytes, err := s.tpl.RenderSimilar(r.Context(), page)
		if err != nil {
			s.fail(w, "render "+string(mode), err)
			return
		}
		writeHTML(w, htmlBytes)
	}
}

// handleRandom picks one record among the current filter results and sends
// the user back to the grid searching for its title.
func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	records := s.catalog.Records()
	list := browse.Apply(records, s.prefs.Favs(), criteriaFrom(q, records), s.cfg.Catalog.MatureGenres)
	a, ok := browse.Random(list, nil)
	if !ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	q.Set("q", extract.Title(a))
	q.Del("n")
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusFound)
}

func (s *Server) handleBlogList(w http.ResponseWriter, r *http.Request) {
	htmlBytes, err := s.tpl.RenderBlogList(r.Context(), s.pages.BlogList(s.blog.Posts()))
	if err != nil {
		s.fail(w, "render blog list", err)
		return
	}
	writeHTML(w, htmlBytes)
}

func (s *Server) handleBlogPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.blog.Find(chi.URLParam(r, "slug"))
	if errors.Is(err, blog.ErrNotFound) {
		s.handleNotFound(w, r)
		return
	}
	if err != nil {
		s.fail(w, "find blog post", err)
		return
	}
	page, err := s.pages.BlogPost(post)
	if err != nil {
		s.fail(w, "render blog post", err)
		return
	}
	htmlBytes, err := s.tpl.RenderBlogPost(r.Context(), page)
	if err != nil {
		s.fail(w, "render blog post", err)
		return
	}
	writeHTML(w, htmlBytes)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	htmlBytes, err := s.tpl.RenderNotFound(r.Context(), s.pages.NotFound(r.URL.Path))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(htmlBytes)
}

func (s *Server) fail(w http.ResponseWriter, what string, err error) {
	s.log.Error().Err(err).Msg(what)
	http.Error(w, what+" error", http.StatusInternalServerError)
}

// ===================== 工具 =====================

func writeHTML(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// back redirects to the referring page, or to fallback when there is none.
func back(w http.ResponseWriter, r *http.Request, fallback string) {
	to := fallback
	if ref := r.Referer(); ref != "" {
		if u, err := url.Parse(ref); err == nil && (u.Host == "" || u.Host == r.Host) {
			to = u.RequestURI()
		}
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}
