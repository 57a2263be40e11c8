package etl

import (
	"fmt"
	"strconv"
)

// ── Row / Table ────────────────────────────────────────────
// Common intermediate data format.
// All sources produce a Table, every pipeline stage consumes Rows.

// Row is a single line of the source table, keyed by column name.
// CSV sources produce string values; JSON sources may also produce
// float64, bool or nil.
type Row map[string]any

// Clone returns a shallow copy so stages never mutate the loaded table.
func (r Row) Clone() Row {
	c := make(Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// Text returns the text form of a column as found in the input, or ""
// when the value is missing (see IsMissing).
func (r Row) Text(col string) string {
	v, ok := r[col]
	if !ok || IsMissing(v) {
		return ""
	}
	return cellText(v)
}

// Optional returns a pointer to the column's text, or nil when missing.
func (r Row) Optional(col string) *string {
	s := r.Text(col)
	if s == "" {
		return nil
	}
	return &s
}

// Table is the full row set of one input file, with its column order.
type Table struct {
	Headers []string
	Rows    []Row
}

// HasColumn reports whether the header declares the column.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// AddColumn appends a column to the header if it is not already present.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Headers = append(t.Headers, name)
	}
}

// Cells renders a row in header order for writers. Missing values become "".
func (t *Table) Cells(r Row) []string {
	out := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		if v, ok := r[h]; ok && v != nil {
			out[i] = cellText(v)
		}
	}
	return out
}

// cellText converts a decoded value back into its textual form.
func cellText(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(n)
	default:
		return fmt.Sprint(n)
	}
}
