// Package models holds the data shapes passed between the fetcher, the flattener and the writer.
package models

// RawRecord is one company record as returned by the search API.
// No schema is assumed beyond a JSON object with string keys.
type RawRecord map[string]any

// AsRecord returns v as a RawRecord when it decoded from a JSON object.
func AsRecord(v any) (RawRecord, bool) {
	switch m := v.(type) {
	case map[string]any:
		return RawRecord(m), true
	case RawRecord:
		return m, true
	default:
		return nil, false
	}
}
