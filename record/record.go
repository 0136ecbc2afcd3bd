// Package record defines the in-memory row representation shared by loading,
// normalization and output stages.
package record

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Empty is the single canonical "no value" marker. Loaders collapse missing
// and blank cells into it.
const Empty = ""

// Record is a single row: column name to cell value, iterated in header
// order. Values are one of string, int64, float64 or, after normalization,
// []any holding int64 and string tokens.
type Record struct {
	fields *orderedmap.OrderedMap[string, any]
}

// New creates empty record with room for n columns.
func New(n int) *Record {
	return &Record{fields: orderedmap.New[string, any](orderedmap.WithCapacity[string, any](n))}
}

// FromPairs builds record from alternating column/value arguments, mostly
// useful in tests. Panics on odd number of arguments or non-string columns.
func FromPairs(kv ...any) *Record {
	if len(kv)%2 != 0 {
		panic("record: odd number of arguments")
	}
	r := New(len(kv) / 2)
	for i := 0; i < len(kv); i += 2 {
		r.Set(kv[i].(string), kv[i+1])
	}
	return r
}

// Set stores value under column. New columns are appended at the end,
// existing ones keep their position.
func (r *Record) Set(column string, value any) {
	r.fields.Set(column, value)
}

// Get returns value stored under column.
func (r *Record) Get(column string) (any, bool) {
	return r.fields.Get(column)
}

// Len returns number of columns.
func (r *Record) Len() int {
	return r.fields.Len()
}

// Columns returns column names in order.
func (r *Record) Columns() []string {
	out := make([]string, 0, r.fields.Len())
	for p := r.fields.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}

// Each calls fn for every column in order, stopping on first error.
func (r *Record) Each(fn func(column string, value any) error) error {
	for p := r.fields.Oldest(); p != nil; p = p.Next() {
		if err := fn(p.Key, p.Value); err != nil {
			return err
		}
	}
	return nil
}

// Map returns plain (unordered) copy of the record. List values are copied
// so that the result does not alias record storage.
func (r *Record) Map() map[string]any {
	out := make(map[string]any, r.fields.Len())
	for p := r.fields.Oldest(); p != nil; p = p.Next() {
		if l, ok := p.Value.([]any); ok {
			out[p.Key] = append([]any(nil), l...)
			continue
		}
		out[p.Key] = p.Value
	}
	return out
}
