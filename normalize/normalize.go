// Package normalize applies per-column type coercion to loaded records.
//
// Column classification is static: a column is either an identifier (whole
// number IDs possibly widened to floating point by spreadsheet tooling), a
// list (delimited string of tokens) or opaque (copied as is). Normalization
// never fails - malformed values degrade to their original form.
package normalize

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"genjson/common"
	"genjson/record"
)

// DefaultSeparator splits list fields.
const DefaultSeparator = ","

// Fields maps column name to its kind. Columns not present are opaque.
type Fields map[string]common.FieldKind

// DefaultFields is classification of the family tree sheet.
var DefaultFields = Fields{
	"PersonID":   common.FieldKindIdentifier,
	"PartnerID":  common.FieldKindIdentifier,
	"FatherID":   common.FieldKindIdentifier,
	"MotherID":   common.FieldKindIdentifier,
	"Generation": common.FieldKindIdentifier,
	"SiblingID":  common.FieldKindList,
	"ChildID":    common.FieldKindList,
}

// NewFields builds classification from explicit column lists. When both
// lists are empty DefaultFields is returned. A column present in both lists
// is treated as identifier.
func NewFields(identifiers, lists []string) Fields {
	if len(identifiers) == 0 && len(lists) == 0 {
		return DefaultFields
	}
	f := make(Fields, len(identifiers)+len(lists))
	for _, name := range lists {
		f[name] = common.FieldKindList
	}
	for _, name := range identifiers {
		f[name] = common.FieldKindIdentifier
	}
	return f
}

// Kind returns classification of the column.
func (f Fields) Kind(column string) common.FieldKind {
	if k, ok := f[column]; ok {
		return k
	}
	return common.FieldKindOpaque
}

// Columns returns sorted names of columns of the given kind.
func (f Fields) Columns(kind common.FieldKind) []string {
	names := make([]string, 0, len(f))
	for name, k := range f {
		if k == kind {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Normalizer converts raw records into cleaned ones.
type Normalizer struct {
	fields Fields
	sep    string
}

// New returns normalizer for given classification. Empty separator means
// DefaultSeparator.
func New(fields Fields, sep string) *Normalizer {
	if fields == nil {
		fields = DefaultFields
	}
	if sep == "" {
		sep = DefaultSeparator
	}
	return &Normalizer{fields: fields, sep: sep}
}

// Kind returns classification the normalizer applies to the column.
func (n *Normalizer) Kind(column string) common.FieldKind {
	return n.fields.Kind(column)
}

// All normalizes sequence of records keeping their order.
func (n *Normalizer) All(in []*record.Record) []*record.Record {
	out := make([]*record.Record, len(in))
	for i, r := range in {
		out[i] = n.Record(r)
	}
	return out
}

// Record returns new record with the same columns as "in". Input is never
// modified.
func (n *Normalizer) Record(in *record.Record) *record.Record {
	out := record.New(in.Len())
	_ = in.Each(func(column string, value any) error {
		out.Set(column, n.Value(column, value))
		return nil
	})
	return out
}

// Value normalizes single cell according to column classification.
func (n *Normalizer) Value(column string, value any) any {
	switch n.fields.Kind(column) {
	case common.FieldKindIdentifier:
		return Identifier(value)
	case common.FieldKindList:
		return List(value, n.sep)
	default:
		return value
	}
}

// Identifier turns float with zero fractional part into int64. Anything else,
// including non-integral floats, is returned unchanged.
func Identifier(value any) any {
	f, ok := value.(float64)
	if !ok {
		return value
	}
	// 2^63 is exactly representable, anything at or above it overflows int64
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return value
	}
	return int64(f)
}

// List splits non-empty string into ordered tokens. Whole number tokens
// become int64, others stay trimmed strings, empty tokens are dropped.
// Empty strings and non-string values are returned unchanged.
func List(value any, sep string) any {
	s, ok := value.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return value
	}
	parts := strings.Split(s, sep)
	tokens := make([]any, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if i, err := strconv.ParseInt(p, 10, 64); err == nil {
			tokens = append(tokens, i)
			continue
		}
		tokens = append(tokens, p)
	}
	return tokens
}
