// Package enrich attaches AniList metadata (studio, creator, manga counts)
// to selected titles of the catalog file and writes the file back.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"animedex/internal/domain/config"
	"animedex/internal/logging"
	"animedex/internal/metrics"
)

var (
	ErrNoMatch    = errors.New("enrich: no AniList match")
	ErrNotInLocal = errors.New("enrich: title not in catalog")
)

// Searcher is the AniList lookup used by the pipeline.
type Searcher interface {
	Search(ctx context.Context, q Query) ([]Media, error)
}

type Outcome struct {
	Key     string
	Matched string // AniList title, when found
	Err     error
}

type Result struct {
	Updated  int
	Outcomes []Outcome
}

type Pipeline struct {
	cfg config.EnrichConfig
	api Searcher
	log zerolog.Logger
}

func New(cfg config.EnrichConfig, api Searcher) *Pipeline {
	return &Pipeline{cfg: cfg, api: api, log: logging.Component("enrich")}
}

// Run enriches cfg.File in place. Per-target failures are logged and
// reported in the result; only reading, decoding or writing the file fail
// the run.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	raw, err := os.ReadFile(p.cfg.File)
	if err != nil {
		return Result{}, fmt.Errorf("enrich: read %s: %w", p.cfg.File, err)
	}
	var arr []any
	if err := json.Unmarshal(raw, &arr); err != nil {
		return Result{}, fmt.Errorf("enrich: %s is not a JSON array: %w", p.cfg.File, err)
	}

	res := p.Apply(ctx, arr)

	out, err := json.MarshalIndent(arr, "", "  ")
	if err != nil {
		return res, fmt.Errorf("enrich: encode: %w", err)
	}
	if err := os.WriteFile(p.cfg.File, out, 0o644); err != nil {
		return res, fmt.Errorf("enrich: write %s: %w", p.cfg.File, err)
	}
	p.log.Info().Int("updated", res.Updated).Str("file", p.cfg.File).Msg("enrichment done")
	return res, nil
}

// Apply runs the enrichment over an already decoded catalog array, mutating it.
func (p *Pipeline) Apply(ctx context.Context, arr []any) Result {
	if t := strings.TrimSpace(p.cfg.DropMetaType); t != "" {
		for _, v := range arr {
			if rec, ok := v.(map[string]any); ok && tipo(rec) == t {
				delete(rec, "meta")
			}
		}
	}

	var res Result
	for _, t := range p.cfg.Targets {
		if ctx.Err() != nil {
			res.Outcomes = append(res.Outcomes, Outcome{Key: t.Key, Err: ctx.Err()})
			continue
		}
		out := p.enrichOne(ctx, arr, t)
		if out.Err == nil {
			res.Updated++
		}
		res.Outcomes = append(res.Outcomes, out)
	}

	// 旧数据里残留的来源链接一并清空
	for _, v := range arr {
		if rec, ok := v.(map[string]any); ok {
			if m, ok := rec["meta"]; ok {
				WipeSourceURLs(m)
			}
		}
	}
	return res
}

func (p *Pipeline) enrichOne(ctx context.Context, arr []any, t config.EnrichTarget) Outcome {
	log := p.log.With().Str("key", t.Key).Logger()

	local := FindLocal(arr, t.Query, p.cfg.AllowedTypes)
	if local == nil {
		log.Warn().Strs("types", p.cfg.AllowedTypes).Msg("not found in catalog")
		metrics.EnrichRequests.WithLabelValues("not_local").Inc()
		return Outcome{Key: t.Key, Err: ErrNotInLocal}
	}

	list, err := p.api.Search(ctx, Query{Search: t.Query, Type: t.Type, Format: t.Format, Year: t.Year})
	if err != nil {
		log.Warn().Err(err).Msg("AniList request failed")
		metrics.EnrichRequests.WithLabelValues("error").Inc()
		return Outcome{Key: t.Key, Err: err}
	}
	if len(list) == 0 {
		log.Warn().Msg("AniList returned no match")
		metrics.EnrichRequests.WithLabelValues("no_match").Inc()
		return Outcome{Key: t.Key, Err: ErrNoMatch}
	}

	// 已按年份和格式过滤，取第一个
	m := list[0]
	local["meta"] = BuildMeta(m, local["episodios"])
	WipeSourceURLs(local["meta"])

	metrics.EnrichRequests.WithLabelValues("ok").Inc()
	log.Info().Str("anilist", m.BestTitle()).Msg("meta added")
	return Outcome{Key: t.Key, Matched: m.BestTitle()}
}

// BuildMeta assembles the meta block for one local record from its AniList
// match. episodes is the local episode count, copied as-is.
func BuildMeta(m Media, episodes any) map[string]any {
	var studios []any
	for _, n := range m.Studios.Nodes {
		if n.Name != "" {
			studios = append(studios, n.Name)
		}
	}
	var studioList any
	if len(studios) > 0 {
		studioList = studios
	}

	return map[string]any{
		"studio":  map[string]any{"studios": studioList, "sourceUrl": nil},
		"creator": PickCreator(m.Staff.Edges),
		"seasons": map[string]any{"totalSeasons": nil, "note": nil, "sourceUrl": nil},
		"manga":   PickManga(m.Relations.Nodes),
		"filler": map[string]any{
			"canonEpisodes": nil, "fillerEpisodes": nil, "mixedEpisodes": nil,
			"totalEpisodesVerified": episodes, "note": nil, "sourceUrl": nil,
		},
		"adaptation": map[string]any{
			"mangaChaptersAdapted": nil, "animeEpisodes": episodes,
			"differencePercent": nil, "summary": nil, "sourceUrl": nil,
		},
	}
}

// FindLocal returns the catalog record of an allowed type whose folded title
// contains the folded query, preferring the one with most episodes.
func FindLocal(arr []any, query string, allowed []string) map[string]any {
	key := Norm(query)
	var best map[string]any
	bestEps := 0.0
	for _, v := range arr {
		rec, ok := v.(map[string]any)
		if !ok || !contains(allowed, tipo(rec)) {
			continue
		}
		title, _ := rec["titulo"].(string)
		if !strings.Contains(Norm(title), key) {
			continue
		}
		eps := episodes(rec["episodios"])
		if best == nil || eps > bestEps {
			best, bestEps = rec, eps
		}
	}
	return best
}

func episodes(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err == nil {
			return f
		}
	}
	return 0
}

func tipo(rec map[string]any) string {
	s, _ := rec["tipo"].(string)
	return strings.TrimSpace(s)
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
