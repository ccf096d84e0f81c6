package enrich

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"animedex/internal/logging"
)

const searchQuery = `
query ($search: String, $type: MediaType, $format: MediaFormat, $seasonYear: Int) {
  Page(perPage: 10) {
    media(search: $search, type: $type, format: $format, seasonYear: $seasonYear) {
      id
      title { romaji english native }
      seasonYear
      format
      siteUrl
      studios(isMain: true) { nodes { name } }
      staff(perPage: 50) { edges { role node { name { full } } } }
      relations { nodes { type volumes chapters } }
    }
  }
}
`

type Media struct {
	ID    int `json:"id"`
	Title struct {
		Romaji  string `json:"romaji"`
		English string `json:"english"`
		Native  string `json:"native"`
	} `json:"title"`
	SeasonYear int    `json:"seasonYear"`
	Format     string `json:"format"`
	SiteURL    string `json:"siteUrl"`
	Studios    struct {
		Nodes []struct {
			Name string `json:"name"`
		} `json:"nodes"`
	} `json:"studios"`
	Staff struct {
		Edges []StaffEdge `json:"edges"`
	} `json:"staff"`
	Relations struct {
		Nodes []Relation `json:"nodes"`
	} `json:"relations"`
}

type StaffEdge struct {
	Role *string `json:"role"`
	Node struct {
		Name struct {
			Full string `json:"full"`
		} `json:"name"`
	} `json:"node"`
}

type Relation struct {
	Type     string `json:"type"`
	Volumes  *int   `json:"volumes"`
	Chapters *int   `json:"chapters"`
}

// BestTitle prefers the English title, then romaji, then native.
func (m Media) BestTitle() string {
	for _, t := range []string{m.Title.English, m.Title.Romaji, m.Title.Native} {
		if t != "" {
			return t
		}
	}
	return ""
}

type searchResponse struct {
	Data struct {
		Page struct {
			Media []Media `json:"media"`
		} `json:"Page"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Client queries the AniList GraphQL API. Requests are paced by a limiter
// and stop for a while after repeated failures.
type Client struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]Media]
	log        zerolog.Logger
}

func NewClient(endpoint string, interval time.Duration) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 20 * time.Second},
		log:        logging.Component("anilist"),
	}
	lim := rate.Inf
	if interval > 0 {
		lim = rate.Every(interval)
	}
	c.limiter = rate.NewLimiter(lim, 1)
	c.breaker = gobreaker.NewCircuitBreaker[[]Media](gobreaker.Settings{
		Name:    "anilist",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
	return c
}

// WithHTTPClient swaps the underlying HTTP client, mainly for tests.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.httpClient = h
	return c
}

// Search returns the media matching one target, best match first.
func (c *Client) Search(ctx context.Context, q Query) ([]Media, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.breaker.Execute(func() ([]Media, error) {
		return c.search(ctx, q)
	})
}

// Query is the AniList search input for one target.
type Query struct {
	Search string
	Type   string
	Format string
	Year   int
}

func (c *Client) search(ctx context.Context, q Query) ([]Media, error) {
	vars := map[string]any{"search": q.Search}
	if q.Type != "" {
		vars["type"] = q.Type
	}
	if q.Format != "" {
		vars["format"] = q.Format
	}
	if q.Year > 0 {
		vars["seasonYear"] = q.Year
	}
	payload, err := json.Marshal(map[string]any{"query": searchQuery, "variables": vars})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("anilist: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("anilist: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("anilist: HTTP %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var out searchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("anilist: decode: %w", err)
	}
	if len(out.Errors) > 0 {
		return nil, errors.New("anilist: " + out.Errors[0].Message)
	}
	return out.Data.Page.Media, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
