package source

import (
	"genjson/record"
	"genjson/utils/debug"
)

// String returns a readable tree of the loaded table including value types.
// It exists solely for inspection in debug reports.
func (t *Table) String() string {
	if t == nil {
		return "<nil Table>"
	}

	tw := debug.NewTreeWriter()
	tw.Line(0, "Format: %s", t.Format)
	if len(t.Sheet) > 0 {
		tw.Line(0, "Sheet: %q", t.Sheet)
	}
	tw.Line(0, "Header: %d", len(t.Header))
	for i, name := range t.Header {
		tw.Line(1, "Column[%d] %q", i, name)
	}
	record.WriteTree(tw, 0, t.Records)
	return tw.String()
}
