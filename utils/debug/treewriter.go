// Package debug produces human readable dumps for debug reports.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

// TreeWriter builds indented text, one item per line.
type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// Value writes labeled value together with its dynamic type, so "27" and 27
// could be told apart.
func (tw TreeWriter) Value(depth int, label string, value any) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeValue(value))
	tw.w.WriteByte('\n')
}

func encodeValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "<nil>"
	case string:
		return "string " + strconv.Quote(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			parts = append(parts, encodeValue(e))
		}
		return "list [" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("%T %v", v, v)
	}
}
