package prefs

import (
	"sort"
	"strconv"

	"github.com/goccy/go-json"
)

// Set is a set of record identity keys.
type Set map[string]struct{}

func NewSet(keys ...string) Set {
	s := make(Set, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

func (s Set) Len() int { return len(s) }

// Keys returns the members sorted.
func (s Set) Keys() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

func (s Set) Equal(o Set) bool {
	if len(s) != len(o) {
		return false
	}
	for k := range s {
		if !o.Has(k) {
			return false
		}
	}
	return true
}

// Toggle returns a copy of s with key added if it was absent, removed if present.
// s itself is not modified.
func Toggle(s Set, key string) Set {
	next := s.Clone()
	if next.Has(key) {
		delete(next, key)
	} else {
		next[key] = struct{}{}
	}
	return next
}

// LoadSet reads a JSON array stored under key. A missing key, a read error,
// unparsable content or a non-array value all give an empty set.
func LoadSet(st Storage, key string) Set {
	raw, ok, err := st.Get(key)
	if err != nil || !ok {
		return Set{}
	}
	var arr []any
	if err := json.Unmarshal([]byte(raw), &arr); err != nil {
		return Set{}
	}
	out := make(Set, len(arr))
	for _, v := range arr {
		out[stringify(v)] = struct{}{}
	}
	return out
}

// SaveSet writes s under key as a JSON array. Failures are ignored.
func SaveSet(st Storage, key string, s Set) {
	b, err := json.Marshal(s.Keys())
	if err != nil {
		return
	}
	_ = st.Set(key, string(b))
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return "null"
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}
