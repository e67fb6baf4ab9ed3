package ledger

import (
	"fmt"
	"strings"
)

// SchemaError reports required columns that are absent from an uploaded
// ledger. The listing is exact so the user can fix the file without
// guessing.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("ledger is missing required columns: %s", strings.Join(e.Missing, ", "))
}

// MalformedRowError reports a cell that could not be interpreted. The
// policy is to fail the whole request rather than skip rows.
type MalformedRowError struct {
	RowIndex int
	Column   string
	Cause    string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("row %d: column %q: %s", e.RowIndex, e.Column, e.Cause)
}
