package serve

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"animedex/internal/blog"
	"animedex/internal/catalog"
	"animedex/internal/domain/config"
	"animedex/internal/prefs"
)

const catalogJSON = `[
  {"id": 1, "titulo": "Naruto", "anio": 2002, "tipo": "TV", "genres": ["Action", "Adventure"]},
  {"id": 2, "titulo": "Bleach", "anio": 2004, "tipo": "TV", "genres": ["Action", "Supernatural"]},
  {"id": 3, "titulo": "Clannad", "anio": 2007, "tipo": "TV", "genres": ["Drama"]}
]`

type fixture struct {
	srv   *Server
	prefs *prefs.Store
	h     http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, catalogJSON, nil)
}

// newFixtureWith serves data as the catalog; tweak may adjust the config.
func newFixtureWith(t *testing.T, data string, tweak func(*config.Config)) *fixture {
	t.Helper()
	root := t.TempDir()
	catPath := filepath.Join(root, "animes.json")
	if err := os.WriteFile(catPath, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	blogDir := filepath.Join(root, "blog")
	if err := os.MkdirAll(blogDir, 0o755); err != nil {
		t.Fatal(err)
	}
	post := "---\ntitle: Primer\nslug: primer\ndate: 2024-05-01\n---\n# Hola\n"
	if err := os.WriteFile(filepath.Join(blogDir, "primer.md"), []byte(post), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Catalog.Source = catPath
	cfg.Blog.SourceDir = blogDir
	if tweak != nil {
		tweak(&cfg)
	}

	store := prefs.NewStore(prefs.NewMemoryStorage())
	lib := blog.NewLibrary(blogDir, blog.Options{})
	if err := lib.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	cat := catalog.New(catalog.NewSource(catPath))

	s, err := New(cfg, Deps{Catalog: cat, Prefs: store, Blog: lib})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Close)
	cat.Load(context.Background())

	return &fixture{srv: s, prefs: store, h: s.Routes()}
}

func (f *fixture) do(method, target string, body url.Values, hdr map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.h.ServeHTTP(rec, req)
	return rec
}

func TestPages(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name     string
		target   string
		status   int
		contains string
	}{
		{"catalog", "/", http.StatusOK, "Bleach"},
		{"catalog filtered", "/?genre=drama", http.StatusOK, "Clannad"},
		{"detail", "/anime/1", http.StatusOK, "Naruto"},
		{"detail missing", "/anime/999", http.StatusNotFound, ""},
		{"recommend picker", "/recommend?q=bl", http.StatusOK, "Bleach"},
		{"recommend from", "/recommend?from=1", http.StatusOK, "Similar to Naruto"},
		{"avoid", "/avoid?from=2", http.StatusOK, "Naruto"},
		{"blog", "/blog", http.StatusOK, "Primer"},
		{"blog post", "/blog/primer", http.StatusOK, "Hola"},
		{"blog missing", "/blog/nope", http.StatusNotFound, ""},
		{"unknown", "/nowhere", http.StatusNotFound, ""},
		{"metrics", "/metrics", http.StatusOK, "animedex_"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodGet, tt.target, nil, nil)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.contains != "" && !strings.Contains(rec.Body.String(), tt.contains) {
				t.Fatalf("body does not contain %q", tt.contains)
			}
		})
	}
}

func TestCatalogFilterExcludes(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/?genre=drama", nil, nil)
	if strings.Contains(rec.Body.String(), "Bleach") {
		t.Fatal("drama filter shows Bleach")
	}
}

func TestToggle(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/prefs/fav/1", nil, map[string]string{"Referer": "/?q=nar"})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/?q=nar" {
		t.Fatalf("status=%d location=%q", rec.Code, rec.Header().Get("Location"))
	}
	if !f.prefs.Has(prefs.KindFav, "1") {
		t.Fatal("fav not stored")
	}

	rec = f.do(http.MethodPost, "/prefs/fav/1", nil, map[string]string{"Accept": "application/json"})
	var got struct {
		Member bool `json:"member"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Member || f.prefs.Has(prefs.KindFav, "1") {
		t.Fatal("second toggle did not remove")
	}

	if rec := f.do(http.MethodPost, "/prefs/bogus/1", nil, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bogus set status = %d", rec.Code)
	}
}

func TestOnlyFavsAfterToggle(t *testing.T) {
	f := newFixture(t)
	f.do(http.MethodPost, "/prefs/fav/1", nil, nil)
	body := f.do(http.MethodGet, "/?favs=1", nil, nil).Body.String()
	if !strings.Contains(body, "Naruto") || strings.Contains(body, "Bleach") {
		t.Fatal("favorites filter not applied")
	}
}

func TestRating(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPost, "/rating/2", url.Values{"rating": {"4"}}, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if r := f.prefs.Rating("2"); r != 4 {
		t.Fatalf("rating = %d", r)
	}
	f.do(http.MethodPost, "/rating/2", url.Values{"rating": {"0"}}, nil)
	if r := f.prefs.Rating("2"); r != 0 {
		t.Fatalf("rating after clear = %d", r)
	}
	if rec := f.do(http.MethodPost, "/rating/2", url.Values{"rating": {"x"}}, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad rating status = %d", rec.Code)
	}
}

func TestRedirects(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/trailer/1", nil, nil)
	if rec.Code != http.StatusFound || !strings.Contains(rec.Header().Get("Location"), "youtube.com/results") {
		t.Fatalf("trailer: %d %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = f.do(http.MethodGet, "/random?genre=drama", nil, nil)
	loc := rec.Header().Get("Location")
	if rec.Code != http.StatusFound || !strings.Contains(loc, "q=Clannad") {
		t.Fatalf("random: %d %q", rec.Code, loc)
	}

	rec = f.do(http.MethodGet, "/random?genre=horror", nil, nil)
	if rec.Header().Get("Location") != "/" {
		t.Fatalf("random with no match: %q", rec.Header().Get("Location"))
	}
}

func TestAPICatalogETag(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/api/catalog", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("no etag")
	}
	var views []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &views); err != nil {
		t.Fatal(err)
	}
	if len(views) != 3 || views[0]["title"] != "Naruto" {
		t.Fatalf("views = %v", views)
	}

	rec = f.do(http.MethodGet, "/api/catalog", nil, map[string]string{"If-None-Match": etag})
	if rec.Code != http.StatusNotModified {
		t.Fatalf("conditional status = %d", rec.Code)
	}
}

func TestAPIStatus(t *testing.T) {
	f := newFixture(t)
	var st statusResponse
	if err := json.Unmarshal(f.do(http.MethodGet, "/api/status", nil, nil).Body.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	if st.Loading || st.Count != 3 || st.Posts != 1 || st.Fingerprint == "" {
		t.Fatalf("status = %+v", st)
	}
}

func TestAPISession(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPost, "/api/session", url.Values{"q": {"naruto"}, "flush": {"1"}}, nil)
	var got sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Total != 1 || len(got.Items) != 1 || got.Items[0].Title != "Naruto" {
		t.Fatalf("session = %+v", got)
	}

	rec = f.do(http.MethodPost, "/api/session", url.Values{"sort": {"SIDEWAYS"}}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad sort status = %d", rec.Code)
	}
}

func TestBroker(t *testing.T) {
	b := newBroker()
	ch, ok := b.subscribe()
	if !ok {
		t.Fatal("subscribe refused")
	}
	b.publish("reload")
	if msg := <-ch; msg != "reload" {
		t.Fatalf("msg = %q", msg)
	}
	if b.clients() != 1 {
		t.Fatalf("clients = %d", b.clients())
	}
	b.close()
	if _, open := <-ch; open {
		t.Fatal("channel still open after close")
	}
	if _, ok := b.subscribe(); ok {
		t.Fatal("subscribe after close accepted")
	}
	b.unsubscribe(ch)
}

func TestCriteriaFrom(t *testing.T) {
	q, _ := url.ParseQuery("q=x&genre=drama&type=TV&from=2000&to=bad&sort=AZ&favs=on&safe=0")
	c := criteriaFrom(q, nil)
	if c.Query != "x" || c.Genre != "drama" || c.Type != "TV" || c.FromYear != 2000 || c.Sort != "AZ" || !c.OnlyFavs || c.SafeMode {
		t.Fatalf("criteria = %+v", c)
	}
	if c.ToYear == 0 {
		t.Fatal("malformed to replaced default")
	}
}

func TestCatalogDefaultsToCatalogYears(t *testing.T) {
	f := newFixtureWith(t, `[
  {"id": "a", "titulo": "Akira", "anio": 1988},
  {"id": "f", "titulo": "Future", "anio": 2027},
  {"id": "n", "titulo": "Naruto", "anio": 2002}
]`, nil)

	body := f.do(http.MethodGet, "/", nil, nil).Body.String()
	for _, title := range []string{"Akira", "Future", "Naruto"} {
		if !strings.Contains(body, title) {
			t.Errorf("%s hidden by the default year range", title)
		}
	}
	if !strings.Contains(body, `<option value="1988" selected>`) || !strings.Contains(body, `<option value="2027" selected>`) {
		t.Error("year selects do not mark the catalog range")
	}

	// an explicit range still narrows
	body = f.do(http.MethodGet, "/?from=2000&to=2010", nil, nil).Body.String()
	if strings.Contains(body, "Akira") || !strings.Contains(body, "Naruto") {
		t.Error("explicit year range not applied")
	}

	c := criteriaFrom(url.Values{"to": {"1999"}}, f.srv.catalog.Records())
	if c.FromYear != 1988 || c.ToYear != 1999 {
		t.Errorf("criteria years = %d..%d", c.FromYear, c.ToYear)
	}
}

func TestCatalogPageSize(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < 12; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`{"id": ` + strconv.Itoa(i+1) + `, "titulo": "T` + strconv.Itoa(i+1) + `", "anio": 2000}`)
	}
	sb.WriteString("]")
	f := newFixtureWith(t, sb.String(), func(c *config.Config) { c.Catalog.PageSize = 10 })

	body := f.do(http.MethodGet, "/", nil, nil).Body.String()
	if got := strings.Count(body, `class="card"`); got != 10 {
		t.Fatalf("cards = %d, want 10", got)
	}
	if !strings.Contains(body, "n=20") {
		t.Fatal("show more does not step by the configured page size")
	}
	if got := strings.Count(f.do(http.MethodGet, "/?n=20", nil, nil).Body.String(), `class="card"`); got != 12 {
		t.Fatalf("cards after show more = %d, want 12", got)
	}
}
