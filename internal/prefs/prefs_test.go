package prefs

import (
	"path/filepath"
	"testing"
)

func TestToggleTwiceIsIdentity(t *testing.T) {
	tests := []struct {
		name string
		set  Set
		key  string
	}{
		{"absent key", NewSet("a", "b"), "c"},
		{"present key", NewSet("a", "b"), "a"},
		{"empty set", Set{}, "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := tt.set.Clone()
			once := Toggle(tt.set, tt.key)
			if once.Has(tt.key) == orig.Has(tt.key) {
				t.Errorf("single toggle did not flip membership of %q", tt.key)
			}
			if !tt.set.Equal(orig) {
				t.Errorf("Toggle modified its input: %v", tt.set.Keys())
			}
			twice := Toggle(once, tt.key)
			if !twice.Equal(orig) {
				t.Errorf("toggle twice = %v, want %v", twice.Keys(), orig.Keys())
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	sets := []Set{
		{},
		NewSet("1"),
		NewSet("naruto-2002-tv", "20", "Ω ünïcode", `quote"d`),
	}
	for _, key := range []string{KeyFavs, KeySeen, KeyDisliked} {
		for _, s := range sets {
			st := NewMemoryStorage()
			SaveSet(st, key, s)
			got := LoadSet(st, key)
			if !got.Equal(s) {
				t.Errorf("%s: round trip %v -> %v", key, s.Keys(), got.Keys())
			}
		}
	}
}

func TestLoadSetTolerant(t *testing.T) {
	tests := []struct {
		name string
		raw  *string
		want Set
	}{
		{"missing", nil, Set{}},
		{"garbage", strp("{not json"), Set{}},
		{"object", strp(`{"a":1}`), Set{}},
		{"string", strp(`"abc"`), Set{}},
		{"mixed entries", strp(`["a", 2, true, null]`), NewSet("a", "2", "true", "null")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := NewMemoryStorage()
			if tt.raw != nil {
				_ = st.Set(KeyFavs, *tt.raw)
			}
			if got := LoadSet(st, KeyFavs); !got.Equal(tt.want) {
				t.Errorf("LoadSet = %v, want %v", got.Keys(), tt.want.Keys())
			}
		})
	}
}

func strp(s string) *string { return &s }

func TestSaveSetSwallowsFailures(t *testing.T) {
	st := NewMemoryStorage()
	st.Fail = true
	SaveSet(st, KeyFavs, NewSet("1"))
	if got := LoadSet(st, KeyFavs); got.Len() != 0 {
		t.Errorf("LoadSet after failed save = %v", got.Keys())
	}
}

func TestStoreTogglePersists(t *testing.T) {
	st := NewMemoryStorage()
	s := NewStore(st)

	if !s.ToggleFav("1") {
		t.Fatal("ToggleFav(1) = false, want member")
	}
	raw, ok, _ := st.Get(KeyFavs)
	if !ok || raw != `["1"]` {
		t.Errorf("stored favs = %q (ok=%v), want [\"1\"]", raw, ok)
	}
	if s.ToggleSeen("2"); !s.Has(KindSeen, "2") {
		t.Error("seen missing 2")
	}
	if s.ToggleDisliked("3"); !s.Disliked().Has("3") {
		t.Error("disliked missing 3")
	}

	// a fresh store over the same medium sees the same state
	again := NewStore(st)
	if !again.Favs().Equal(NewSet("1")) || !again.Seen().Equal(NewSet("2")) || !again.Disliked().Equal(NewSet("3")) {
		t.Errorf("reloaded sets = %v %v %v", again.Favs().Keys(), again.Seen().Keys(), again.Disliked().Keys())
	}

	if s.ToggleFav("1") {
		t.Error("second ToggleFav(1) still member")
	}
	if raw, _, _ := st.Get(KeyFavs); raw != `[]` {
		t.Errorf("stored favs = %q, want []", raw)
	}
}

func TestStoreSnapshotsAreCopies(t *testing.T) {
	s := NewStore(NewMemoryStorage())
	snap := s.Favs()
	snap["x"] = struct{}{}
	if s.Has(KindFav, "x") {
		t.Error("mutating a snapshot leaked into the store")
	}
}

func TestStoreToggleWithFailingStorage(t *testing.T) {
	st := NewMemoryStorage()
	st.Fail = true
	s := NewStore(st)
	if !s.ToggleFav("1") {
		t.Error("in-memory state should still change when the write fails")
	}
}

func TestRatings(t *testing.T) {
	st := NewMemoryStorage()
	s := NewStore(st)

	if got := s.Rating("1"); got != 0 {
		t.Errorf("Rating unset = %d", got)
	}
	s.SetRating("1", 4)
	if got := s.Rating("1"); got != 4 {
		t.Errorf("Rating = %d, want 4", got)
	}
	if raw, _, _ := st.Get("anime_rating:1"); raw != "4" {
		t.Errorf("raw rating = %q", raw)
	}
	s.SetRating("1", 9)
	if got := s.Rating("1"); got != 0 {
		t.Errorf("Rating after clear = %d", got)
	}

	_ = st.Set(RatingKey("2"), "seven")
	if got := s.Rating("2"); got != 0 {
		t.Errorf("Rating garbage = %d", got)
	}

	for _, k := range []string{KeyFavs, KeySeen, KeyDisliked} {
		if RatingKey(k) == k {
			t.Errorf("rating key collides with %s", k)
		}
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"fav": KindFav, "Favorites": KindFav, "seen": KindSeen, " disliked ": KindDisliked} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseKind("rating"); err == nil {
		t.Error("ParseKind(rating) succeeded")
	}
}

func TestBoltStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.db")
	st, err := OpenBolt(OpenOptions{Path: path})
	if err != nil {
		t.Fatalf("OpenBolt: %v", err)
	}

	s := NewStore(st)
	s.ToggleFav("1")
	s.ToggleSeen("naruto-2002-tv")
	s.SetRating("1", 5)
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, _, err := st.Get(KeyFavs); err != ErrClosed {
		t.Errorf("Get after close err = %v, want ErrClosed", err)
	}

	st2, err := OpenBolt(OpenOptions{Path: path})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st2.Close()

	s2 := NewStore(st2)
	if !s2.Favs().Equal(NewSet("1")) {
		t.Errorf("favs = %v", s2.Favs().Keys())
	}
	if !s2.Seen().Has("naruto-2002-tv") {
		t.Errorf("seen = %v", s2.Seen().Keys())
	}
	if got := s2.Rating("1"); got != 5 {
		t.Errorf("rating = %d", got)
	}
	if err := st2.Delete(RatingKey("1")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := s2.Rating("1"); got != 0 {
		t.Errorf("rating after delete = %d", got)
	}
}
