package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaders_UniqueAndOrdered(t *testing.T) {
	require.Len(t, Headers, 32)
	assert.Equal(t, FieldID, Headers[0])
	assert.Equal(t, FieldLastUpdate, Headers[len(Headers)-1])

	seen := make(map[string]bool, len(Headers))
	for _, h := range Headers {
		assert.False(t, seen[h], "duplicate header %q", h)
		seen[h] = true
	}
}

func TestNewFlatRow(t *testing.T) {
	row := NewFlatRow()

	assert.Len(t, row, len(Headers))

	for _, h := range Headers {
		v, ok := row[h]
		assert.True(t, ok, h)
		assert.Nil(t, v, h)
	}
}

func TestFlatRow_Get(t *testing.T) {
	row := NewFlatRow()
	row[FieldCompanyName] = "ACME"

	v, ok := row.Get(FieldCompanyName)
	assert.True(t, ok)
	assert.Equal(t, "ACME", v)

	_, ok = row.Get(FieldEmail)
	assert.False(t, ok)

	_, ok = row.Get("unknown")
	assert.False(t, ok)
}

func TestFlatRow_Values(t *testing.T) {
	row := NewFlatRow()
	row[FieldID] = "abc"
	row[FieldLastUpdate] = "2024-01-01 00:00:00"

	values := row.Values()
	require.Len(t, values, len(Headers))
	assert.Equal(t, "abc", values[0])
	assert.Equal(t, "2024-01-01 00:00:00", values[len(values)-1])
	assert.Nil(t, values[1])
}

func TestAsRecord(t *testing.T) {
	tests := []struct {
		name  string
		input any
		ok    bool
	}{
		{"object", map[string]any{"id": "1"}, true},
		{"record", RawRecord{"id": "1"}, true},
		{"string", "not-a-record", false},
		{"list", []any{map[string]any{}}, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := AsRecord(tt.input)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestExportMetadata(t *testing.T) {
	entries := []MetadataEntry{
		{Label: MetaTotalRecords, Value: 3},
		{Label: MetaAtecoCode, Value: "6201"},
		{Label: MetaProvince, Value: "RM"},
	}

	meta := NewExportMetadata(entries...)
	entries[0].Value = 99

	assert.Equal(t, 3, meta.Len())

	got := meta.Entries()
	assert.Equal(t, MetaTotalRecords, got[0].Label)
	assert.Equal(t, 3, got[0].Value)
	assert.Equal(t, MetaProvince, got[2].Label)

	got[1].Value = "mutated"
	v, ok := meta.Lookup(MetaAtecoCode)
	assert.True(t, ok)
	assert.Equal(t, "6201", v)

	_, ok = meta.Lookup(MetaSource)
	assert.False(t, ok)

	assert.Equal(t, map[string]any{
		MetaTotalRecords: 3,
		MetaAtecoCode:    "6201",
		MetaProvince:     "RM",
	}, meta.AsMap())
}
