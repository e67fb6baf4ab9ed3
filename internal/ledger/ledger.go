package ledger

import (
	"strconv"
	"strings"
)

// Well-known column names shared across endpoints.
const (
	ColumnTime     = "Time"
	ColumnAmount   = "Amount"
	ColumnCategory = "Category"
	ColumnClass    = "Class"
	ColumnAnomaly  = "is_anomaly"
)

// Row is one transaction keyed by column name. Cells keep their raw CSV
// text; numeric interpretation happens at the point of use so the original
// row can be echoed back untouched in anomaly payloads.
type Row map[string]string

// Ledger is the full set of transaction rows from one uploaded CSV, scoped
// to a single request. Columns preserves the header order of the file.
type Ledger struct {
	Columns []string
	Rows    []Row
}

// HasColumn reports whether the ledger's header contains name.
func (l *Ledger) HasColumn(name string) bool {
	for _, c := range l.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Float parses the named cell of row i as a number. A missing or
// unparseable cell yields a MalformedRowError so the caller can abort the
// whole request instead of producing silently partial results.
func (l *Ledger) Float(i int, column string) (float64, error) {
	raw, ok := l.Rows[i][column]
	if !ok || strings.TrimSpace(raw) == "" {
		return 0, &MalformedRowError{RowIndex: i, Column: column, Cause: "missing value"}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &MalformedRowError{RowIndex: i, Column: column, Cause: "not a number: " + raw}
	}
	return v, nil
}

// Category returns the category cell of row i, trimmed. Missing categories
// come back as the empty string; they are valid rows that simply never match
// a category filter.
func (l *Ledger) Category(i int) string {
	return strings.TrimSpace(l.Rows[i][ColumnCategory])
}

// NumericEcho converts a row into a JSON-friendly map: cells that parse as
// numbers become float64, everything else stays a string. Mirrors how the
// rows looked before CSV flattened them.
func (r Row) NumericEcho() map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		trimmed := strings.TrimSpace(v)
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil && trimmed != "" {
			out[k] = f
			continue
		}
		out[k] = v
	}
	return out
}
