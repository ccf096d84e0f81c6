package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"animedex/internal/domain/media"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"bare array", `[{"id":1},{"id":2}]`, 2},
		{"animes wins over results", `{"animes":[{"id":1}],"results":[{"id":2},{"id":3}]}`, 1},
		{"results", `{"results":[{"id":1},{"id":2}]}`, 2},
		{"data", `{"data":[{"id":1}]}`, 1},
		{"non-array animes falls through", `{"animes":{"id":1},"data":[{"id":2}]}`, 1},
		{"non objects dropped", `[{"id":1},3,"x",null,[1],{"id":2}]`, 2},
		{"object without list", `{"total":3}`, 0},
		{"scalar", `42`, 0},
		{"invalid json", `{not json`, 0},
		{"empty body", ``, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(Parse([]byte(tt.in)))
			if got == nil {
				t.Fatal("Extract returned nil, want empty slice")
			}
			if len(got) != tt.want {
				t.Fatalf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	if v := Parse([]byte("{")); v != nil {
		t.Fatalf("Parse = %v, want nil", v)
	}
}

func TestNewSource(t *testing.T) {
	tests := []struct {
		in       string
		wantHTTP bool
		wantPath string
	}{
		{"https://example.org/animes.json", true, ""},
		{"HTTP://example.org/a.json", true, ""},
		{"file:///tmp/a.json", false, "/tmp/a.json"},
		{"public/data/animes.json", false, "public/data/animes.json"},
		{"  data.json ", false, "data.json"},
	}
	for _, tt := range tests {
		src := NewSource(tt.in)
		switch s := src.(type) {
		case *HTTPSource:
			if !tt.wantHTTP {
				t.Errorf("NewSource(%q) = HTTPSource, want file", tt.in)
			}
		case FileSource:
			if tt.wantHTTP {
				t.Errorf("NewSource(%q) = FileSource, want http", tt.in)
			}
			if s.Path != tt.wantPath {
				t.Errorf("NewSource(%q).Path = %q, want %q", tt.in, s.Path, tt.wantPath)
			}
		}
	}
}

func TestHTTPSourceDisablesCaching(t *testing.T) {
	var cc, pragma string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cc = r.Header.Get("Cache-Control")
		pragma = r.Header.Get("Pragma")
		w.Write([]byte(`[{"id":1,"titulo":"A"}]`))
	}))
	defer srv.Close()

	s := New(NewHTTPSource(srv.URL).WithClient(srv.Client()))
	recs := s.Load(context.Background())
	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
	if cc != "no-cache, no-store" || pragma != "no-cache" {
		t.Fatalf("cache headers = %q / %q", cc, pragma)
	}
	if s.Fingerprint() == "" {
		t.Fatal("fingerprint not set after successful load")
	}
}

func TestLoadFailuresYieldEmpty(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}},
		{"invalid json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>oops</html>"))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			s := New(NewHTTPSource(srv.URL).WithClient(srv.Client()))
			recs := s.Load(context.Background())
			if recs == nil || len(recs) != 0 {
				t.Fatalf("records = %v, want empty", recs)
			}
			if s.Loading() {
				t.Fatal("loading still set after failed load")
			}
		})
	}
}

func TestLoadingFlagDuringFetch(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	s := New(NewHTTPSource(srv.URL).WithClient(srv.Client()))
	done := make(chan struct{})
	go func() {
		s.Load(context.Background())
		close(done)
	}()

	<-entered
	if !s.Loading() {
		t.Fatal("loading = false during fetch")
	}
	close(release)
	<-done
	if s.Loading() {
		t.Fatal("loading = true after fetch")
	}
}

// gateSource blocks each Fetch until its own release channel is closed.
type gateSource struct {
	calls chan chan struct{}
}

func (g *gateSource) Fetch(ctx context.Context) ([]byte, error) {
	release := make(chan struct{})
	g.calls <- release
	<-release
	return []byte(`[{"id": "a"}]`), nil
}

func (g *gateSource) String() string { return "gate" }

func TestLoadingFlagOverlappingLoads(t *testing.T) {
	g := &gateSource{calls: make(chan chan struct{})}
	s := New(g)

	done := make(chan struct{}, 2)
	load := func() {
		s.Load(context.Background())
		done <- struct{}{}
	}
	go load()
	first := <-g.calls
	go load()
	second := <-g.calls

	close(first)
	<-done
	if !s.Loading() {
		t.Fatal("loading cleared while a second load is in flight")
	}
	close(second)
	<-done
	if s.Loading() {
		t.Fatal("loading = true after both loads")
	}
}

func TestFileSourceAndOnLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "animes.json")
	if err := os.WriteFile(path, []byte(`{"data":[{"id":"a"},{"id":"b"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	s := New(NewSource(path))
	var seen int
	s.OnLoad(func(recs []media.Record) { seen = len(recs) })
	s.Load(context.Background())

	recs, loading := s.State()
	if loading || len(recs) != 2 || seen != 2 {
		t.Fatalf("state = (%d, %v), subscriber saw %d", len(recs), loading, seen)
	}

	missing := New(NewSource(filepath.Join(dir, "nope.json")))
	if got := missing.Load(context.Background()); len(got) != 0 {
		t.Fatalf("missing file records = %d", len(got))
	}
	if missing.Fingerprint() != "" {
		t.Fatal("fingerprint set after failed fetch")
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "animes.json")
	if err := os.WriteFile(path, []byte(`[{"id":1}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	s := New(FileSource{Path: path})
	s.Load(context.Background())

	reloaded := make(chan int, 4)
	s.OnLoad(func(recs []media.Record) {
		reloaded <- len(recs)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- s.Watch(ctx) }()

	// fsnotify needs a moment to register the directory
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`[{"id":1},{"id":2},{"id":3}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case n := <-reloaded:
		if n != 3 {
			t.Fatalf("reloaded records = %d, want 3", n)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no reload after write")
	}

	cancel()
	if err := <-errc; err != nil {
		t.Fatalf("Watch: %v", err)
	}
}

func TestWatchRejectsHTTP(t *testing.T) {
	s := New(NewHTTPSource("https://example.org/a.json"))
	if err := s.Watch(context.Background()); err != ErrNotWatchable {
		t.Fatalf("err = %v, want ErrNotWatchable", err)
	}
}
