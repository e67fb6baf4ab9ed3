package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ParseCSV reads a comma-separated ledger with a mandatory header row.
// Header names are trimmed; duplicate columns keep the last value, matching
// the usual spreadsheet-export behavior.
func ParseCSV(r io.Reader) (*Ledger, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("parse csv: file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("parse csv: reading header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	l := &Ledger{Columns: columns}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: reading row %d: %w", len(l.Rows)+1, err)
		}

		row := make(Row, len(columns))
		for i, cell := range record {
			if i >= len(columns) {
				break
			}
			row[columns[i]] = cell
		}
		l.Rows = append(l.Rows, row)
	}

	return l, nil
}
