// Package normalizer canonicalizes export filters and flattens company records into table rows.
package normalizer

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrInvalidFilter is returned when a classification or region code cannot be normalized.
var ErrInvalidFilter = errors.New("invalid filter")

// Bounds applied to per-request and total result limits.
const (
	MinLimit = 1
	MaxLimit = 1000
)

// SearchFilter holds the inputs of one search.
type SearchFilter struct {
	ClassificationCode string
	RegionCode         string
	PerRequestLimit    int
	MaxResults         int
}

// Normalize returns a copy of f with canonical codes and both limits clamped into [MinLimit, MaxLimit].
func (f SearchFilter) Normalize() (SearchFilter, error) {
	code, err := NormalizeClassificationCode(f.ClassificationCode)
	if err != nil {
		return SearchFilter{}, err
	}

	region, err := NormalizeRegionCode(f.RegionCode)
	if err != nil {
		return SearchFilter{}, err
	}

	return SearchFilter{
		ClassificationCode: code,
		RegionCode:         region,
		PerRequestLimit:    ClampLimit(f.PerRequestLimit),
		MaxResults:         ClampLimit(f.MaxResults),
	}, nil
}

// NormalizeClassificationCode keeps only the decimal digits of code, in order.
// "10.71" becomes "1071".
func NormalizeClassificationCode(code string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}

		return -1
	}, code)

	if digits == "" {
		return "", fmt.Errorf("%w: classification code %q contains no digits", ErrInvalidFilter, code)
	}

	return digits, nil
}

// NormalizeRegionCode trims and uppercases code, which must then be exactly two characters.
func NormalizeRegionCode(code string) (string, error) {
	region := strings.ToUpper(strings.TrimSpace(code))
	if utf8.RuneCountInString(region) != 2 {
		return "", fmt.Errorf("%w: region code %q must be exactly 2 characters", ErrInvalidFilter, code)
	}

	return region, nil
}

// Clamp saturates value into [lo, hi].
func Clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}

	if value > hi {
		return hi
	}

	return value
}

// ClampLimit clamps value into the API limit range.
func ClampLimit(value int) int {
	return Clamp(value, MinLimit, MaxLimit)
}
