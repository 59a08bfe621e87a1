package normalize

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Coercion helpers for untrusted model output. Every accessor takes a
// fallback so callers can build fully-defaulted structs without nil checks.

func asString(v any, def string) string {
	if v == nil {
		return def
	}
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return def
		}
		return strings.TrimSpace(t)
	case float64, int, int64, bool, json.Number:
		return fmt.Sprint(t)
	default:
		return def
	}
}

func asStringSlice(v any) []string {
	if v == nil {
		return []string{}
	}
	if ss, ok := v.([]string); ok {
		return ss
	}
	a, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(a))
	for _, x := range a {
		s := asString(x, "")
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func asInt(v any, def int) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			return def
		}
		return int(i)
	case string:
		var i int
		if _, err := fmt.Sscanf(strings.TrimSpace(t), "%d", &i); err == nil {
			return i
		}
		return def
	default:
		return def
	}
}

func asIntPtr(v any) *int {
	if v == nil {
		return nil
	}
	i := asInt(v, -1)
	if i < 0 {
		return nil
	}
	return &i
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asSlice(v any) ([]any, bool) {
	a, ok := v.([]any)
	return a, ok
}

// asEnum lowercases and matches v against allowed values, falling back to def.
func asEnum(v any, allowed []string, def string) string {
	s := strings.ToLower(strings.TrimSpace(asString(v, "")))
	for _, a := range allowed {
		if s == a {
			return a
		}
	}
	return def
}

// pick returns the first present key from m, so parsers tolerate both
// camelCase and snake_case output.
func pick(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}
