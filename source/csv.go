package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"genjson/record"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// loadDelimited reads delimited text. First non-blank line is the header.
func loadDelimited(ctx context.Context, path string, opts Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := readDelimited(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	return buildDelimitedTable(rows, opts)
}

// readDelimited returns all rows as decoded strings. Line numbers in errors
// are 1-based and count the header.
func readDelimited(ctx context.Context, r io.Reader, opts Options) ([][]string, error) {
	validate := opts.Encoding == nil
	if validate {
		// UTF-8 is read as is and validated field by field so that broken
		// input is reported instead of silently replaced
		br := bufio.NewReader(r)
		if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
			_, _ = br.Discard(len(utf8BOM))
		}
		r = br
	} else {
		r = transform.NewReader(r, unicode.BOMOverride(opts.Encoding.NewDecoder()))
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}

	var rows [][]string
	for line := 1; ; line++ {
		if line%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if validate {
			for i, v := range row {
				if !utf8.ValidString(v) {
					l, _ := cr.FieldPos(i)
					return nil, fmt.Errorf("line %d: column %d is not valid UTF-8", l, i+1)
				}
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func buildDelimitedTable(rows [][]string, opts Options) (*Table, error) {
	// leading blank lines are not a header
	for len(rows) > 0 && isBlankRow(rows[0]) {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return nil, errors.New("source is empty, header row is missing")
	}

	header, err := makeHeader(trimHeader(rows[0]))
	if err != nil {
		return nil, err
	}

	data := make([][]string, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		if err := checkWidth(row, len(header), i+2); err != nil {
			return nil, err
		}
		data = append(data, row)
	}

	var numeric []bool
	if opts.InferTypes {
		numeric = numericColumns(len(header), data)
		if opts.Numeric != nil {
			for i, name := range header {
				numeric[i] = numeric[i] && opts.Numeric(name)
			}
		}
	}

	t := &Table{Header: header, Records: make([]*record.Record, 0, len(data))}
	for _, row := range data {
		rec := record.New(len(header))
		for i, name := range header {
			var v any = record.Empty
			if i < len(row) {
				v = row[i]
				if numeric != nil && numeric[i] {
					if n, ok := parseNumber(row[i]); ok {
						v = n
					} else {
						v = record.Empty
					}
				}
			}
			rec.Set(name, v)
		}
		t.Records = append(t.Records, rec)
	}
	return t, nil
}
