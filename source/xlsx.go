package source

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"genjson/record"
)

// loadSpreadsheet reads single sheet of xlsx workbook.
func loadSpreadsheet(ctx context.Context, path, selector string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet, err := resolveSheet(f, selector)
	if err != nil {
		return nil, err
	}

	// formatted values tell us how cell is presented, raw ones give exact
	// numbers without number format applied
	shown, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}

	first := 0
	for first < len(shown) && isBlankRow(shown[first]) {
		first++
	}
	if first == len(shown) {
		return nil, fmt.Errorf("sheet %q is empty, header row is missing", sheet)
	}

	header, err := makeHeader(trimHeader(shown[first]))
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}

	t := &Table{Sheet: sheet, Header: header}
	for r := first + 1; r < len(shown); r++ {
		if (r-first)%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row := shown[r]
		if isBlankRow(row) {
			continue
		}
		if err := checkWidth(row, len(header), r+1); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}
		var rawRow []string
		if r < len(raw) {
			rawRow = raw[r]
		}

		rec := record.New(len(header))
		for c, name := range header {
			v, err := cellValue(f, sheet, c, r, row, rawRow)
			if err != nil {
				return nil, fmt.Errorf("sheet %q: %w", sheet, err)
			}
			rec.Set(name, v)
		}
		t.Records = append(t.Records, rec)
	}
	return t, nil
}

// resolveSheet maps selector (name or 1-based index) to sheet name.
func resolveSheet(f *excelize.File, selector string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", errors.New("workbook has no sheets")
	}
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return sheets[0], nil
	}
	for _, name := range sheets {
		if name == selector {
			return name, nil
		}
	}
	if n, err := strconv.Atoi(selector); err == nil {
		if n < 1 || n > len(sheets) {
			return "", fmt.Errorf("sheet index %d is out of range, workbook has %d sheet(s)", n, len(sheets))
		}
		return sheets[n-1], nil
	}
	return "", fmt.Errorf("sheet %q does not exist, available: %s", selector, strings.Join(sheets, ", "))
}

// cellValue types single cell. Column and row are 0-based indexes into the
// sheet grid.
func cellValue(f *excelize.File, sheet string, c, r int, shown, raw []string) (any, error) {
	var display, value string
	if c < len(shown) {
		display = shown[c]
	}
	if c < len(raw) {
		value = raw[c]
	}
	if strings.TrimSpace(display) == "" && strings.TrimSpace(value) == "" {
		return record.Empty, nil
	}

	n, ok := parseNumber(value)
	if !ok {
		return display, nil
	}
	// date, time, percent and other decorated formats are kept as displayed
	if _, ok := parseNumber(stripGrouping(display)); !ok {
		return display, nil
	}

	axis, err := excelize.CoordinatesToCellName(c+1, r+1)
	if err != nil {
		return nil, err
	}
	kind, err := f.GetCellType(sheet, axis)
	if err != nil {
		return nil, fmt.Errorf("cell %s: %w", axis, err)
	}
	switch kind {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		// numbers entered as text stay text
		return display, nil
	default:
		return n, nil
	}
}

var groupingReplacer = strings.NewReplacer(",", "", " ", "", "\u00a0", "", "'", "")

func stripGrouping(s string) string {
	return groupingReplacer.Replace(s)
}
