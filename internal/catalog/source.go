package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Source yields the raw catalog document.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	String() string
}

// NewSource picks an HTTPSource for http(s) URLs and a FileSource otherwise.
func NewSource(loc string) Source {
	loc = strings.TrimSpace(loc)
	l := strings.ToLower(loc)
	switch {
	case strings.HasPrefix(l, "http://"), strings.HasPrefix(l, "https://"):
		return NewHTTPSource(loc)
	case strings.HasPrefix(l, "file://"):
		return FileSource{Path: loc[len("file://"):]}
	default:
		return FileSource{Path: loc}
	}
}

// HTTPSource fetches the document with one GET and caching disabled.
type HTTPSource struct {
	URL        string
	httpClient *http.Client
	userAgent  string
}

func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		URL: url,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		userAgent: "animedex",
	}
}

// WithClient swaps the underlying HTTP client, mainly for tests.
func (s *HTTPSource) WithClient(c *http.Client) *HTTPSource {
	s.httpClient = c
	return s
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: get %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("catalog: get %s: status %d", s.URL, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("catalog: read body: %w", err)
	}
	return body, nil
}

func (s *HTTPSource) String() string { return s.URL }

type FileSource struct {
	Path string
}

func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return b, nil
}

func (s FileSource) String() string { return s.Path }
