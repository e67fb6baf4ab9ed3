package mlmodel

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/dsemenov/ledgerlens/internal/ledger"
)

// testClassifier builds a model whose canonical feature order is
// V1..V28, scaled_amount, scaled_time, with all weight on V1 so labels
// are predictable: anomaly iff V1 >= 0.5.
func testClassifier() *Classifier {
	names := make([]string, 0, 30)
	coefs := make([]float64, 0, 30)
	for i := 1; i <= 28; i++ {
		names = append(names, fmt.Sprintf("V%d", i))
		if i == 1 {
			coefs = append(coefs, 1.0)
		} else {
			coefs = append(coefs, 0.0)
		}
	}
	names = append(names, ScaledAmountColumn, ScaledTimeColumn)
	coefs = append(coefs, 0.0, 0.0)

	return &Classifier{
		ModelType:    "logistic_regression",
		FeatureNames: names,
		Coefficients: coefs,
		Intercept:    -0.5,
	}
}

func testScaler() *Scaler {
	return &Scaler{
		Amount: ScalerParams{Mean: 100, Std: 50},
		Time:   ScalerParams{Mean: 30, Std: 15},
	}
}

func testLedgerRow(v1 string, amount, timeVal string) ledger.Row {
	row := ledger.Row{
		ledger.ColumnAmount: amount,
		ledger.ColumnTime:   timeVal,
		"V1":                v1,
	}
	for i := 2; i <= 28; i++ {
		row[fmt.Sprintf("V%d", i)] = "0"
	}
	return row
}

func classificationLedger(rows ...ledger.Row) *ledger.Ledger {
	return &ledger.Ledger{
		Columns: ledger.ClassificationColumns,
		Rows:    rows,
	}
}

func TestBuildFeatureMatrix_ScalesPerColumn(t *testing.T) {
	l := classificationLedger(testLedgerRow("1.5", "150", "45"))

	matrix, err := BuildFeatureMatrix(l, testScaler(), testClassifier())
	if err != nil {
		t.Fatalf("BuildFeatureMatrix() error = %v", err)
	}

	if len(matrix) != 1 || len(matrix[0]) != 30 {
		t.Fatalf("matrix shape = %dx%d, want 1x30", len(matrix), len(matrix[0]))
	}

	// (150-100)/50 = 1.0 with the Amount pair, (45-30)/15 = 1.0 with the
	// Time pair. Swapped parameters would give different values.
	if got := matrix[0][28]; math.Abs(got-1.0) > 1e-9 {
		t.Errorf("scaled_amount = %v, want 1.0", got)
	}
	if got := matrix[0][29]; math.Abs(got-1.0) > 1e-9 {
		t.Errorf("scaled_time = %v, want 1.0", got)
	}
	if got := matrix[0][0]; got != 1.5 {
		t.Errorf("V1 = %v, want 1.5", got)
	}
}

func TestBuildFeatureMatrix_OrderFollowsModelArtifact(t *testing.T) {
	// Reverse the canonical order; values must follow the names.
	model := testClassifier()
	for i, j := 0, len(model.FeatureNames)-1; i < j; i, j = i+1, j-1 {
		model.FeatureNames[i], model.FeatureNames[j] = model.FeatureNames[j], model.FeatureNames[i]
		model.Coefficients[i], model.Coefficients[j] = model.Coefficients[j], model.Coefficients[i]
	}

	l := classificationLedger(testLedgerRow("7", "100", "30"))
	matrix, err := BuildFeatureMatrix(l, testScaler(), model)
	if err != nil {
		t.Fatalf("BuildFeatureMatrix() error = %v", err)
	}

	// scaled_time is now first, V1 last.
	if got := matrix[0][0]; got != 0 {
		t.Errorf("first value = %v, want scaled_time 0", got)
	}
	if got := matrix[0][29]; got != 7 {
		t.Errorf("last value = %v, want V1 7", got)
	}
}

func TestBuildFeatureMatrix_MalformedCellFailsWholeRequest(t *testing.T) {
	bad := testLedgerRow("1", "100", "30")
	bad["V13"] = "not-a-number"
	l := classificationLedger(testLedgerRow("1", "100", "30"), bad)

	_, err := BuildFeatureMatrix(l, testScaler(), testClassifier())

	var rowErr *ledger.MalformedRowError
	if !errors.As(err, &rowErr) {
		t.Fatalf("BuildFeatureMatrix() error = %v, want *MalformedRowError", err)
	}
	if rowErr.RowIndex != 1 || rowErr.Column != "V13" {
		t.Errorf("MalformedRowError = %+v, want row 1 column V13", rowErr)
	}
}
