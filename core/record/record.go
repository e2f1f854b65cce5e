// Package record holds the data model shared by the matching engine: an
// unordered bag of multi-valued fields (Record), the Property descriptors
// that say how each field participates in blocking and scoring, and the
// Configuration that ties them together with match thresholds.
package record

// Record is an unordered mapping of field name to a set of non-empty
// string values. Records carry no intrinsic identity other than the
// values of fields whose Property role is Identity.
type Record map[string][]string

// Values returns the non-empty values for a field, or nil if the record
// has none.
func (r Record) Values(field string) []string {
	return r[field]
}

// HasField reports whether the record has at least one value for field.
func (r Record) HasField(field string) bool {
	return len(r[field]) > 0
}

// New builds a Record from raw field values, filtering out empty
// strings at ingest: an empty string is semantically absent, not a
// value.
func New(fields map[string][]string) Record {
	r := make(Record, len(fields))
	for name, values := range fields {
		filtered := make([]string, 0, len(values))
		for _, v := range values {
			if v != "" {
				filtered = append(filtered, v)
			}
		}
		if len(filtered) > 0 {
			r[name] = filtered
		}
	}
	return r
}
