package mlmodel

import (
	"fmt"

	"github.com/dsemenov/ledgerlens/internal/ledger"
)

// Derived feature column names produced by scaling. The raw Time and Amount
// columns are dropped once these exist, matching the training schema.
const (
	ScaledAmountColumn = "scaled_amount"
	ScaledTimeColumn   = "scaled_time"
)

// BuildFeatureMatrix reconstructs the training-time feature matrix for a
// ledger: standardize Amount and Time with their own frozen parameter
// pairs, drop the raw columns, then select values in the exact order the
// model artifact declares. A non-numeric or missing cell in any feature
// column aborts the whole request with a MalformedRowError.
func BuildFeatureMatrix(l *ledger.Ledger, scaler *Scaler, model *Classifier) ([][]float64, error) {
	matrix := make([][]float64, len(l.Rows))

	for i := range l.Rows {
		amount, err := l.Float(i, ledger.ColumnAmount)
		if err != nil {
			return nil, err
		}
		t, err := l.Float(i, ledger.ColumnTime)
		if err != nil {
			return nil, err
		}

		derived := map[string]float64{
			ScaledAmountColumn: scaler.Amount.Transform(amount),
			ScaledTimeColumn:   scaler.Time.Transform(t),
		}

		vector := make([]float64, len(model.FeatureNames))
		for j, name := range model.FeatureNames {
			if v, ok := derived[name]; ok {
				vector[j] = v
				continue
			}
			if name == ledger.ColumnAmount || name == ledger.ColumnTime {
				return nil, fmt.Errorf("model artifact requests raw column %q, which is dropped after scaling", name)
			}
			v, err := l.Float(i, name)
			if err != nil {
				return nil, err
			}
			vector[j] = v
		}
		matrix[i] = vector
	}

	return matrix, nil
}
