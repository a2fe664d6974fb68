package server

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"companyexport/internal/normalizer"
)

// exportRequest is the decoded body of POST /api/export. Values arrive
// loosely typed from browser forms.
type exportRequest map[string]any

// first returns the first of keys that is present.
func (r exportRequest) first(keys ...string) any {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v
		}
	}

	return nil
}

func (r exportRequest) token() string {
	return strings.TrimSpace(stringFromAny(r.first("token")))
}

func (r exportRequest) sandbox() bool {
	return boolFromAny(r.first("sandbox"))
}

func (r exportRequest) filter(defaultLimit, defaultMaxResults int) normalizer.SearchFilter {
	return normalizer.SearchFilter{
		ClassificationCode: stringFromAny(r.first("atecoCode", "ateco")),
		RegionCode:         stringFromAny(r.first("province", "provincia")),
		PerRequestLimit:    intFromAny(r.first("limit"), defaultLimit),
		MaxResults:         intFromAny(r.first("maxResults", "max_results"), defaultMaxResults),
	}
}

// stringFromAny renders scalars as text; anything else is empty.
func stringFromAny(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// intFromAny reads a number or numeric string. Missing values mean def and
// values that are not numbers clamp to the minimum.
func intFromAny(value any, def int) int {
	var f float64

	switch v := value.(type) {
	case nil:
		return def
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return normalizer.MinLimit
		}

		f = parsed
	case float64:
		f = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return normalizer.MinLimit
		}

		f = parsed
	default:
		return normalizer.MinLimit
	}

	if math.IsNaN(f) || f < normalizer.MinLimit {
		return normalizer.MinLimit
	}

	if f > normalizer.MaxLimit {
		return normalizer.MaxLimit
	}

	return int(f)
}

func boolFromAny(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	case json.Number:
		f, err := v.Float64()
		return err == nil && f != 0
	default:
		return false
	}
}
