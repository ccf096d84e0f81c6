// Package catalog loads the static catalog document and keeps the last result.
//
// Loading never fails from the caller's point of view: fetch and decode errors
// leave an empty catalog, and the loading flag is cleared on every path.
package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	domainbuild "animedex/internal/domain/build"
	"animedex/internal/domain/media"
	"animedex/internal/logging"
	"animedex/internal/metrics"
)

type Store struct {
	src Source
	log zerolog.Logger

	mu          sync.RWMutex
	records     []media.Record
	inflight    int // 并发 Load 计数
	fingerprint string
	loadedAt    time.Time

	subMu sync.Mutex
	subs  []func([]media.Record)
}

func New(src Source) *Store {
	return &Store{
		src:     src,
		log:     logging.Component("catalog"),
		records: []media.Record{},
	}
}

// Load fetches and decodes the source once and replaces the held records.
// Overlapping loads keep the loading flag set until the last one returns;
// the load that finishes last wins.
func (s *Store) Load(ctx context.Context) []media.Record {
	s.setLoading(true)
	defer s.setLoading(false)

	start := time.Now()
	recs, hash, outcome := s.fetch(ctx)
	took := time.Since(start)

	s.mu.Lock()
	s.records = recs
	s.fingerprint = hash
	s.loadedAt = time.Now()
	s.mu.Unlock()

	metrics.RecordCatalogLoad(outcome, len(recs), took)
	s.log.Info().
		Str("source", s.src.String()).
		Str("outcome", outcome).
		Int("count", len(recs)).
		Dur("took", took).
		Msg("catalog loaded")

	s.notify(recs)
	return recs
}

func (s *Store) fetch(ctx context.Context) (recs []media.Record, hash, outcome string) {
	body, err := s.src.Fetch(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("source", s.src.String()).Msg("catalog fetch failed")
		return []media.Record{}, "", "fetch_error"
	}
	recs = Extract(Parse(body))
	if len(recs) == 0 {
		return recs, domainbuild.HashBytes(body), "empty"
	}
	return recs, domainbuild.HashBytes(body), "ok"
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	if v {
		s.inflight++
	} else {
		s.inflight--
	}
	s.mu.Unlock()
}

// State returns the held records and whether a load is in flight.
func (s *Store) State() ([]media.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records, s.inflight > 0
}

func (s *Store) Records() []media.Record {
	recs, _ := s.State()
	return recs
}

func (s *Store) Loading() bool {
	_, loading := s.State()
	return loading
}

// Fingerprint is the SHA-256 of the last fetched document, "" after a failed fetch.
func (s *Store) Fingerprint() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fingerprint
}

func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

func (s *Store) Source() Source { return s.src }

// OnLoad registers fn to run after every Load with the new records.
func (s *Store) OnLoad(fn func([]media.Record)) {
	s.subMu.Lock()
	s.subs = append(s.subs, fn)
	s.subMu.Unlock()
}

func (s *Store) notify(recs []media.Record) {
	s.subMu.Lock()
	subs := append([]func([]media.Record){}, s.subs...)
	s.subMu.Unlock()
	for _, fn := range subs {
		fn(recs)
	}
}
