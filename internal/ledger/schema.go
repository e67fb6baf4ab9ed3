package ledger

import "fmt"

// ExpenditureColumns are required for the spend-analysis path.
var ExpenditureColumns = []string{ColumnCategory, ColumnAmount}

// ClassificationColumns are required for the anomaly-detection path: Time,
// Amount and the 28 anonymized features the model was trained on.
var ClassificationColumns = classificationColumns()

func classificationColumns() []string {
	cols := []string{ColumnTime, ColumnAmount}
	for i := 1; i <= 28; i++ {
		cols = append(cols, fmt.Sprintf("V%d", i))
	}
	return cols
}

// Validate checks the ledger header against a required column set. It is
// pure: the ledger is never mutated. On failure the returned SchemaError
// names exactly the absent columns, in the order of the required set.
func Validate(l *Ledger, required []string) error {
	present := make(map[string]bool, len(l.Columns))
	for _, c := range l.Columns {
		present[c] = true
	}

	var missing []string
	for _, c := range required {
		if !present[c] {
			missing = append(missing, c)
		}
	}

	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}
