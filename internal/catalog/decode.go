package catalog

import (
	"github.com/goccy/go-json"

	"animedex/internal/domain/media"
)

// Parse decodes any JSON value. Invalid JSON yields nil rather than an error.
func Parse(data []byte) any {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	return v
}

// Extract finds the record list in a decoded payload: the payload itself when
// it is an array, else its "animes", "results" or "data" array, in that order.
// Elements that are not objects are dropped.
func Extract(v any) []media.Record {
	if arr, ok := v.([]any); ok {
		return objects(arr)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return []media.Record{}
	}
	for _, k := range []string{"animes", "results", "data"} {
		if arr, ok := obj[k].([]any); ok {
			return objects(arr)
		}
	}
	return []media.Record{}
}

func objects(arr []any) []media.Record {
	out := make([]media.Record, 0, len(arr))
	for _, x := range arr {
		if m, ok := x.(map[string]any); ok && m != nil {
			out = append(out, m)
		}
	}
	return out
}
