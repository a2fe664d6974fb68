package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntFromAny(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  int
	}{
		{name: "missing uses default", input: nil, want: 100},
		{name: "number", input: json.Number("250"), want: 250},
		{name: "numeric string", input: " 40 ", want: 40},
		{name: "fraction truncated", input: json.Number("12.9"), want: 12},
		{name: "too large", input: json.Number("5000"), want: 1000},
		{name: "negative", input: json.Number("-3"), want: 1},
		{name: "garbage string", input: "lots", want: 1},
		{name: "object", input: map[string]any{}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, intFromAny(tt.input, 100))
		})
	}
}

func TestBoolFromAny(t *testing.T) {
	assert.True(t, boolFromAny(true))
	assert.True(t, boolFromAny("true"))
	assert.True(t, boolFromAny(json.Number("1")))
	assert.False(t, boolFromAny("no"))
	assert.False(t, boolFromAny(nil))
	assert.False(t, boolFromAny(json.Number("0")))
}

func TestExportRequest_Aliases(t *testing.T) {
	r := exportRequest{
		"ateco":       "10.71",
		"provincia":   "vr",
		"max_results": json.Number("20"),
	}

	f := r.filter(100, 500)
	assert.Equal(t, "10.71", f.ClassificationCode)
	assert.Equal(t, "vr", f.RegionCode)
	assert.Equal(t, 100, f.PerRequestLimit)
	assert.Equal(t, 20, f.MaxResults)

	r["atecoCode"] = "6201"
	assert.Equal(t, "6201", r.filter(100, 500).ClassificationCode, "atecoCode wins over ateco")
}
