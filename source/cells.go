package source

import (
	"regexp"
	"strconv"
	"strings"
)

// numericRegex matches integers, decimals and scientific notation. Unlike
// strconv it does not accept "NaN", "Inf", hex or underscores.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

var integerRegex = regexp.MustCompile(`^[+-]?\d+$`)

// parseNumber converts numeric literal to int64 (integral literals fitting
// int64) or float64. Second value is false for anything else.
func parseNumber(s string) (any, bool) {
	s = strings.TrimSpace(s)
	if !numericRegex.MatchString(s) {
		return nil, false
	}
	if integerRegex.MatchString(s) {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, true
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	return f, true
}

// numericColumns reports for every column whether all of its non-empty
// cells are numbers representable as int64 or finite float64. Columns
// without any value are not numeric.
func numericColumns(width int, rows [][]string) []bool {
	numeric := make([]bool, width)
	seen := make([]bool, width)
	for i := range numeric {
		numeric[i] = true
	}
	for _, row := range rows {
		for i := 0; i < width && i < len(row); i++ {
			v := strings.TrimSpace(row[i])
			if v == "" {
				continue
			}
			seen[i] = true
			if numeric[i] {
				_, numeric[i] = parseNumber(v)
			}
		}
	}
	for i := range numeric {
		numeric[i] = numeric[i] && seen[i]
	}
	return numeric
}
