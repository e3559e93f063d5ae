package table

import (
	"math"
	"strconv"
	"strings"
)

// Row is one data record, positionally aligned with Dataset.Headers.
type Row []string

// Dataset is parsed tabular content. It is built once and never mutated;
// filtered or sorted projections are produced as Views.
type Dataset struct {
	Name    string
	Headers []string
	Rows    []Row
}

// Width returns the number of columns.
func (d *Dataset) Width() int { return len(d.Headers) }

// Len returns the number of data rows.
func (d *Dataset) Len() int { return len(d.Rows) }

// Cell returns the cell at (row, col). Absent positions of short rows read as "".
func (d *Dataset) Cell(row, col int) string {
	if row < 0 || row >= len(d.Rows) {
		return ""
	}
	return cellOf(d.Rows[row], col)
}

// Column returns every raw value of a column in row order.
func (d *Dataset) Column(col int) []string {
	return columnOf(d.Rows, col)
}

// HeaderIndex returns the position of an exact header, or -1.
func (d *Dataset) HeaderIndex(header string) int {
	for i, h := range d.Headers {
		if h == header {
			return i
		}
	}
	return -1
}

// View is a filtered and/or sorted projection of a Dataset's rows.
type View struct {
	Headers []string
	Rows    []Row
}

// Len returns the number of rows in the view.
func (v *View) Len() int { return len(v.Rows) }

// Column returns the raw values of a column in view order.
func (v *View) Column(col int) []string {
	return columnOf(v.Rows, col)
}

func cellOf(r Row, col int) string {
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

func columnOf(rows []Row, col int) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = cellOf(r, col)
	}
	return out
}

// ParseNumber interprets a cell as a number. Thousands separators (',') are
// stripped; the remainder must be a complete float literal. NaN and Inf
// spellings are rejected so they never leak into statistics.
func ParseNumber(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	raw = strings.ReplaceAll(raw, ",", "")
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
