package normalizer

import (
	"encoding/json"
	"fmt"
	"strings"

	"companyexport/internal/models"
)

// path is a sequence of object keys leading into a nested record.
type path []string

// p builds a path from keys.
func p(keys ...string) path {
	return path(keys)
}

// lookup walks keys from data. It returns nil as soon as an intermediate
// value is not an object or a key is missing.
func lookup(data any, keys path) any {
	current := data
	for _, key := range keys {
		m, ok := asObject(current)
		if !ok {
			return nil
		}

		current = m[key]
	}

	return current
}

// firstOf returns the first scalar value found along paths.
func firstOf(data any, paths ...path) any {
	for _, pp := range paths {
		if v := scalar(lookup(data, pp)); v != nil {
			return v
		}
	}

	return nil
}

func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case models.RawRecord:
		return m, true
	default:
		return nil, false
	}
}

// scalar reduces v to a cell value: strings, numbers and booleans pass
// through, lists of scalars are joined with ", ", anything else is absent.
func scalar(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string, bool, float64, float32, int64, int32:
		return t
	case int:
		return int64(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}

		if f, err := t.Float64(); err == nil {
			return f
		}

		return t.String()
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := scalar(item); s != nil {
				if _, nested := item.([]any); nested {
					continue
				}

				parts = append(parts, fmt.Sprint(s))
			}
		}

		if len(parts) == 0 {
			return nil
		}

		return strings.Join(parts, ", ")
	default:
		return nil
	}
}

// present reports whether v counts as filled when composing text.
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	default:
		return true
	}
}
