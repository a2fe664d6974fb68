package models

// Summary labels used for an export run.
const (
	MetaTotalRecords = "total_records"
	MetaAtecoCode    = "ateco_code"
	MetaProvince     = "province"
	MetaSource       = "source"
	MetaSandbox      = "sandbox"
)

// MetadataEntry is one labelled fact of the summary sheet.
type MetadataEntry struct {
	Value any
	Label string
}

// ExportMetadata is an insertion-ordered set of summary facts.
// It is built once per export and never mutated afterwards.
type ExportMetadata struct {
	entries []MetadataEntry
}

// NewExportMetadata copies entries into a new ExportMetadata.
func NewExportMetadata(entries ...MetadataEntry) ExportMetadata {
	return ExportMetadata{entries: append([]MetadataEntry(nil), entries...)}
}

// Entries returns a copy of the entries in insertion order.
func (m ExportMetadata) Entries() []MetadataEntry {
	return append([]MetadataEntry(nil), m.entries...)
}

// Len returns the number of entries.
func (m ExportMetadata) Len() int {
	return len(m.entries)
}

// Lookup returns the value of the first entry with the given label.
func (m ExportMetadata) Lookup(label string) (any, bool) {
	for _, e := range m.entries {
		if e.Label == label {
			return e.Value, true
		}
	}

	return nil, false
}

// AsMap returns the entries keyed by label, for JSON responses.
func (m ExportMetadata) AsMap() map[string]any {
	out := make(map[string]any, len(m.entries))
	for _, e := range m.entries {
		out[e.Label] = e.Value
	}

	return out
}
