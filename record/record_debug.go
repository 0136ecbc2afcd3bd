package record

import (
	"genjson/utils/debug"
)

// WriteTree dumps records with value types. It exists solely for inspection
// in debug reports.
func WriteTree(tw *debug.TreeWriter, depth int, records []*Record) {
	tw.Line(depth, "Records: %d", len(records))
	for i, r := range records {
		tw.Line(depth+1, "Record[%d] columns[%d]", i, r.Len())
		_ = r.Each(func(column string, value any) error {
			tw.Value(depth+2, column, value)
			return nil
		})
	}
}

// Dump returns readable tree of records.
func Dump(records []*Record) string {
	tw := debug.NewTreeWriter()
	WriteTree(tw, 0, records)
	return tw.String()
}
