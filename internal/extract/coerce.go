package extract

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

func asRecord(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && m != nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// asNumber returns v as a finite number, or 0 when it is neither a finite
// number nor a string that parses to one. Callers treat <= 0 as absent.
func asNumber(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		p, err := n.Float64()
		if err != nil {
			return 0
		}
		f = p
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			// Number("") is 0 as well
			return 0
		}
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = p
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func positiveInt(v any) int {
	n := asNumber(v)
	if n <= 0 {
		return 0
	}
	return int(n)
}

// asStringArray stringifies non-string entries, trims, and drops blanks and nulls.
func asStringArray(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, x := range arr {
		s := strings.TrimSpace(stringify(x))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return formatNumber(x)
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// IsHTTPURL reports whether v is a string starting with http:// or https://.
func IsHTTPURL(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	l := strings.ToLower(s)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

func httpURL(v any) (string, bool) {
	if !IsHTTPURL(v) {
		return "", false
	}
	return v.(string), true
}
