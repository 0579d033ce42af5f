package catalog

import (
	"encoding/json"
	"iter"
	"math"
	"strconv"
	"strings"
)

// Field is one attribute of a record in source order.
type Field struct {
	Key   string
	Value any
	// Raw is the source JSON of Value, nil when the field was not decoded
	// from JSON. Nested objects keep their key order only here.
	Raw json.RawMessage
}

// Record is one catalog entry. It is built once by NewRecord and never
// mutated afterwards.
type Record struct {
	// Name is the display name: the schema's name field when it holds a
	// non-empty string, a non-zero number or true, otherwise the record's
	// key in the source mapping.
	Name string
	// SearchKey is the lowercase Name used for substring matching.
	SearchKey string

	fields []Field
	index  map[string]int
	schema Schema
}

// NewRecord builds a record from its source key and ordered fields. The
// source key only feeds name resolution and is not retained.
func NewRecord(sourceKey string, fields []Field, schema Schema) *Record {
	r := &Record{
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
		schema: schema,
	}
	copy(r.fields, fields)
	for i, f := range r.fields {
		// last occurrence wins, matching JSON object semantics
		r.index[f.Key] = i
	}

	r.Name = sourceKey
	if v, ok := r.Get(schema.Name); ok {
		if s, ok := nameText(v); ok {
			r.Name = s
		}
	}
	r.SearchKey = strings.ToLower(r.Name)
	return r
}

// nameText stringifies a truthy scalar name. Objects and arrays are not
// names.
func nameText(v any) (string, bool) {
	switch n := v.(type) {
	case string:
		return n, n != ""
	case float64:
		if n == 0 || math.IsNaN(n) {
			return "", false
		}
		return strconv.FormatFloat(n, 'f', -1, 64), true
	case json.Number:
		return n.String(), Number(n) != 0
	case bool:
		return "true", n
	default:
		return "", false
	}
}

// Get returns the value of key and whether the key is present.
func (r *Record) Get(key string) (any, bool) {
	i, ok := r.index[key]
	if !ok {
		return nil, false
	}
	return r.fields[i].Value, true
}

// Has reports whether key is present, whatever its value.
func (r *Record) Has(key string) bool {
	_, ok := r.index[key]
	return ok
}

// Fields yields the record's fields in source order.
func (r *Record) Fields() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for i, f := range r.fields {
			if r.index[f.Key] != i {
				continue
			}
			if !yield(f.Key, f.Value) {
				return
			}
		}
	}
}

// Entries yields the record's fields in source order with their raw JSON.
func (r *Record) Entries() iter.Seq[Field] {
	return func(yield func(Field) bool) {
		for i, f := range r.fields {
			if r.index[f.Key] != i {
				continue
			}
			if !yield(f) {
				return
			}
		}
	}
}

// Len returns the number of distinct fields.
func (r *Record) Len() int {
	return len(r.index)
}

// Schema returns the schema the record was built with.
func (r *Record) Schema() Schema {
	return r.schema
}

// Limited reports limited/unobtainable status. The status is the presence
// of the marker field; its value is never inspected.
func (r *Record) Limited() bool {
	return r.Has(r.schema.Limited)
}

// Price returns the numeric price, or 0 when the field is missing or falsy.
func (r *Record) Price() float64 {
	v, _ := r.Get(r.schema.Price)
	return Number(v)
}

// Number converts a JSON value to float64. Numbers and numeric strings
// convert; everything else, including false and null, is 0.
func Number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return 0
	}
}
