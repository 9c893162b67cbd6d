// Package facts defines the typed, ordered store of values produced by the
// extraction, derivation and constraint phases of the verification pipeline.
package facts

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind tags the extractor (or derivation) that produced a Fact. It mirrors
// the extractor "type" vocabulary of the ontology, plus "computed" for
// built-in and ontology-declared derived fields.
type Kind string

const (
	KindBoolean    Kind = "boolean"
	KindInt        Kind = "int"
	KindFloat      Kind = "float"
	KindMoney      Kind = "money"
	KindPercentage Kind = "percentage"
	KindString     Kind = "string"
	KindDate       Kind = "date"
	KindDatetime   Kind = "datetime"
	KindList       Kind = "list"
	KindEnum       Kind = "enum"
	KindComputed   Kind = "computed"
)

// Value is a single extracted or derived value. Raw holds a native Go
// representation restricted to the JSON scalar/list universe: bool,
// float64, string, or []interface{} of those. Dates and datetimes are
// stored as their normalized ISO-8601 strings.
type Value struct {
	Raw  interface{}
	Kind Kind
}

// Record pairs a Value with its provenance, used when the caller asked for
// confidence-annotated extraction (ExtractionRecord in spec.md §3).
type Record struct {
	Value         Value
	Confidence    float64
	Source        string
	ExtractorType Kind
}

// Facts is the ordered field-name -> value map produced by a single
// verification request. Insertion order is preserved (spec.md §3, §8
// invariant 2: ontology extractors, then built-in derivations, then
// computed fields, each in turn in insertion order) and is the order of
// both Names and JSON serialization.
type Facts struct {
	order          []string
	values         map[string]Value
	records        map[string]Record
	withConfidence bool
}

// New creates an empty Facts container. withConfidence selects whether
// SetRecord and SetComputed also retain an ExtractionRecord (confidence +
// source) per field; Set never does.
func New(withConfidence bool) *Facts {
	return &Facts{
		values:         make(map[string]Value),
		records:        make(map[string]Record),
		withConfidence: withConfidence,
	}
}

// WithConfidence reports whether this Facts instance was created to track
// per-field confidence/source provenance.
func (f *Facts) WithConfidence() bool { return f.withConfidence }

// Set records a plain value for field name, appending it to insertion
// order on first write. Re-setting an existing name updates the value
// in place without moving its position (a field is defined by exactly one
// extractor, per spec.md §3 invariants).
func (f *Facts) Set(name string, v Value) {
	if _, exists := f.values[name]; !exists {
		f.order = append(f.order, name)
	}
	f.values[name] = v
}

// SetRecord records a value together with its confidence/source, as Set
// plus retaining a Record when WithConfidence is true.
func (f *Facts) SetRecord(name string, r Record) {
	f.Set(name, r.Value)
	if f.withConfidence {
		f.records[name] = r
	}
}

// SetComputed records a derived value (built-in derivation or ontology
// computed extractor) with confidence 1.0 and source "computed", per
// spec.md §3 invariants.
func (f *Facts) SetComputed(name string, v Value) {
	f.SetRecord(name, Record{Value: v, Confidence: 1.0, Source: "computed", ExtractorType: KindComputed})
}

// Has reports whether name has been recorded.
func (f *Facts) Has(name string) bool {
	_, ok := f.values[name]
	return ok
}

// Get returns the raw native value for name, and whether it was present.
// Absent fields report (nil, false); this is the "null" of the formula DSL.
func (f *Facts) Get(name string) (interface{}, bool) {
	v, ok := f.values[name]
	if !ok {
		return nil, false
	}
	return v.Raw, true
}

// Value returns the typed Value for name.
func (f *Facts) Value(name string) (Value, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Record returns the provenance record for name, if confidence tracking is
// enabled and the field was recorded via SetRecord/SetComputed.
func (f *Facts) Record(name string) (Record, bool) {
	r, ok := f.records[name]
	return r, ok
}

// Names returns field names in insertion order.
func (f *Facts) Names() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Len returns the number of recorded fields.
func (f *Facts) Len() int { return len(f.order) }

// MarshalJSON renders Facts as a JSON object, preserving insertion order
// (Go's map iteration and encoding/json's map handling both randomize or
// sort keys, neither of which satisfies spec.md §8 invariant 2, so the
// object is built manually field by field).
func (f *Facts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range f.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(name)
		if err != nil {
			return nil, fmt.Errorf("facts: marshal key %q: %w", name, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		var valBytes []byte
		if f.withConfidence {
			rec := f.records[name]
			valBytes, err = json.Marshal(confidenceJSON{
				Value:         rec.Value.Raw,
				Confidence:    rec.Confidence,
				Source:        rec.Source,
				ExtractorType: string(rec.ExtractorType),
			})
		} else {
			valBytes, err = json.Marshal(f.values[name].Raw)
		}
		if err != nil {
			return nil, fmt.Errorf("facts: marshal value %q: %w", name, err)
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type confidenceJSON struct {
	Value         interface{} `json:"value"`
	Confidence    float64     `json:"confidence"`
	Source        string      `json:"source"`
	ExtractorType string      `json:"extractor_type"`
}

// Bool reads name as a boolean, defaulting to def when absent or not a bool.
func (f *Facts) Bool(name string, def bool) bool {
	v, ok := f.Get(name)
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

// Number reads name as a float64 and whether it was present and numeric.
func (f *Facts) Number(name string) (float64, bool) {
	v, ok := f.Get(name)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
