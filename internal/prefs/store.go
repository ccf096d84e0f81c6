// Package prefs persists the user's favorite, seen and disliked title sets
// plus per-title ratings. Reads never fail (bad data reads as empty) and
// writes are best effort.
package prefs

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"animedex/internal/logging"
)

type Kind string

const (
	KindFav      Kind = "fav"
	KindSeen     Kind = "seen"
	KindDisliked Kind = "disliked"
)

const (
	KeyFavs     = "anime_favs"
	KeySeen     = "anime_seen"
	KeyDisliked = "anime_disliked"

	// ratingPrefix namespaces per-title ratings away from the set keys.
	ratingPrefix = "anime_rating:"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindFav, KindSeen, KindDisliked:
		return k, nil
	case "favs", "favorite", "favorites":
		return KindFav, nil
	default:
		return "", fmt.Errorf("prefs: unknown set %q", s)
	}
}

func (k Kind) StorageKey() string {
	switch k {
	case KindFav:
		return KeyFavs
	case KindSeen:
		return KeySeen
	case KindDisliked:
		return KeyDisliked
	}
	return ""
}

func RatingKey(identity string) string {
	return ratingPrefix + identity
}

// Store owns the three preference sets. Every toggle replaces the set and
// writes it through to Storage before returning.
type Store struct {
	st  Storage
	log zerolog.Logger

	mu   sync.RWMutex
	sets map[Kind]Set
}

func NewStore(st Storage) *Store {
	s := &Store{
		st:   st,
		log:  logging.Component("prefs"),
		sets: make(map[Kind]Set, 3),
	}
	for _, k := range []Kind{KindFav, KindSeen, KindDisliked} {
		s.sets[k] = LoadSet(st, k.StorageKey())
	}
	s.log.Debug().
		Int("favs", s.sets[KindFav].Len()).
		Int("seen", s.sets[KindSeen].Len()).
		Int("disliked", s.sets[KindDisliked].Len()).
		Msg("preferences loaded")
	return s
}

// Get returns a snapshot of the set of the given kind.
func (s *Store) Get(k Kind) Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sets[k].Clone()
}

func (s *Store) Favs() Set     { return s.Get(KindFav) }
func (s *Store) Seen() Set     { return s.Get(KindSeen) }
func (s *Store) Disliked() Set { return s.Get(KindDisliked) }

func (s *Store) Has(k Kind, key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sets[k].Has(key)
}

// Toggle flips key in the set of kind k, persists it, and reports whether
// key is a member afterwards.
func (s *Store) Toggle(k Kind, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := Toggle(s.sets[k], key)
	s.sets[k] = next
	SaveSet(s.st, k.StorageKey(), next)

	s.log.Debug().Str("set", string(k)).Str("key", key).Bool("member", next.Has(key)).Msg("toggled")
	return next.Has(key)
}

func (s *Store) ToggleFav(key string) bool      { return s.Toggle(KindFav, key) }
func (s *Store) ToggleSeen(key string) bool     { return s.Toggle(KindSeen, key) }
func (s *Store) ToggleDisliked(key string) bool { return s.Toggle(KindDisliked, key) }

// Rating returns the stored 1-5 rating for a title, or 0 when unrated.
func (s *Store) Rating(identity string) int {
	raw, ok, err := s.st.Get(RatingKey(identity))
	if err != nil || !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 || n > 5 {
		return 0
	}
	return n
}

// SetRating stores n for a title; values outside 1..5 clear it.
func (s *Store) SetRating(identity string, n int) {
	var err error
	if n < 1 || n > 5 {
		err = s.st.Delete(RatingKey(identity))
	} else {
		err = s.st.Set(RatingKey(identity), strconv.Itoa(n))
	}
	if err != nil {
		s.log.Debug().Err(err).Str("key", identity).Msg("rating not saved")
	}
}
