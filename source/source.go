// Package source loads tabular data (delimited text or spreadsheets) into
// ordered records.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"genjson/common"
	"genjson/record"
)

var (
	// ErrSourceNotFound is returned when source path does not exist.
	ErrSourceNotFound = errors.New("source not found")
	// ErrSourceRead wraps any other failure to read or parse the source.
	ErrSourceRead = errors.New("unable to read source")
)

// contextCheckInterval is how often (in rows) cancellation is checked.
const contextCheckInterval = 100

// Options controls how the source is interpreted.
type Options struct {
	// Format of the source, auto-detected when SourceFmtAuto.
	Format common.SourceFmt
	// Sheet selects spreadsheet sheet by name or 1-based index, first sheet
	// when empty.
	Sheet string
	// Delimiter separates fields of delimited text, comma when zero.
	Delimiter rune
	// Encoding of delimited text, UTF-8 when nil.
	Encoding encoding.Encoding
	// InferTypes converts numeric columns of delimited text to numbers.
	InferTypes bool
	// Numeric limits inference to columns it accepts, every column is
	// considered when nil.
	Numeric func(column string) bool
}

// Table is loaded source: header and records in source order.
type Table struct {
	Format  common.SourceFmt
	Sheet   string
	Header  []string
	Records []*record.Record
}

// Load reads source file at path. On failure no partial result is returned,
// error wraps either ErrSourceNotFound or ErrSourceRead.
func Load(ctx context.Context, path string, opts Options, log *zap.Logger) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("%w (%s): %w", ErrSourceRead, path, err)
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%w (%s): not a regular file", ErrSourceRead, path)
	}

	format := opts.Format
	if format == common.SourceFmtAuto {
		if format, err = Detect(path); err != nil {
			return nil, fmt.Errorf("%w (%s): %w", ErrSourceRead, path, err)
		}
		log.Debug("Source format detected", zap.String("file", path), zap.Stringer("format", format))
	}

	var t *Table
	switch format {
	case common.SourceFmtXlsx:
		t, err = loadSpreadsheet(ctx, path, opts.Sheet)
	case common.SourceFmtCsv:
		if len(opts.Sheet) > 0 {
			log.Warn("Sheet selection is ignored for delimited text", zap.String("sheet", opts.Sheet))
		}
		t, err = loadDelimited(ctx, path, opts)
	default:
		err = fmt.Errorf("unsupported source format %s", format)
	}
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return nil, err
		}
		return nil, fmt.Errorf("%w (%s): %w", ErrSourceRead, path, err)
	}
	t.Format = format
	return t, nil
}

// makeHeader validates header row. Empty names get positional placeholders,
// duplicates are rejected since records could not keep all columns.
func makeHeader(cells []string) ([]string, error) {
	header := make([]string, len(cells))
	seen := make(map[string]int, len(cells))
	for i, name := range cells {
		if strings.TrimSpace(name) == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if prev, exists := seen[name]; exists {
			return nil, fmt.Errorf("duplicate column %q in header (columns %d and %d)", name, prev+1, i+1)
		}
		seen[name] = i
		header[i] = name
	}
	if len(header) == 0 {
		return nil, errors.New("header row is missing")
	}
	return header, nil
}

// trimHeader drops trailing empty header cells - spreadsheets and text
// editors often leave them behind.
func trimHeader(cells []string) []string {
	end := len(cells)
	for end > 0 && strings.TrimSpace(cells[end-1]) == "" {
		end--
	}
	return cells[:end]
}

func isBlankRow(cells []string) bool {
	for _, v := range cells {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// checkWidth makes sure data row does not carry values beyond header.
func checkWidth(cells []string, width, row int) error {
	for i := width; i < len(cells); i++ {
		if strings.TrimSpace(cells[i]) != "" {
			return fmt.Errorf("row %d: value in column %d, header has only %d columns", row, i+1, width)
		}
	}
	return nil
}
