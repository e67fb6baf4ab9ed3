package analysis

import (
	"context"
	"sync"

	"github.com/dsemenov/ledgerlens/internal/ledger"
	"github.com/dsemenov/ledgerlens/internal/mlmodel"
)

// Result is the combined payload for one uploaded ledger.
type Result struct {
	ModelPerformance *mlmodel.Metrics   `json:"model_performance"`
	UserAnomalies    []map[string]any   `json:"user_anomalies"`
	Expenditure      *ExpenditureReport `json:"expenditure_analysis"`
}

// Analyzer runs the request-time pipeline against the process-wide
// immutable artifacts. Construct once at startup and share.
type Analyzer struct {
	artifacts *mlmodel.Artifacts
}

func NewAnalyzer(artifacts *mlmodel.Artifacts) *Analyzer {
	return &Analyzer{artifacts: artifacts}
}

// Metrics exposes the frozen training-time evaluation record.
func (a *Analyzer) Metrics() *mlmodel.Metrics {
	return a.artifacts.Metrics
}

// Analyze validates, aggregates and classifies one ledger. The expenditure
// report is always produced (with an error marker when its columns are
// absent); a classification schema failure returns a SchemaError the caller
// maps to a 400.
func (a *Analyzer) Analyze(ctx context.Context, l *ledger.Ledger) (*Result, error) {
	expenditure, err := Aggregate(l)
	if err != nil {
		return nil, err
	}

	if err := ledger.Validate(l, ledger.ClassificationColumns); err != nil {
		return nil, err
	}

	labels, err := a.Classify(ctx, l)
	if err != nil {
		return nil, err
	}

	anomalies := []map[string]any{}
	for i, label := range labels {
		if label != 1 {
			continue
		}
		row := l.Rows[i].NumericEcho()
		row[ledger.ColumnAnomaly] = 1
		anomalies = append(anomalies, row)
	}

	return &Result{
		ModelPerformance: a.artifacts.Metrics,
		UserAnomalies:    anomalies,
		Expenditure:      expenditure,
	}, nil
}

// Classify runs feature reconstruction and the classifier, returning one
// label per row in input order. It also annotates the ledger rows with the
// is_anomaly column so later natural-language queries can count them.
func (a *Analyzer) Classify(ctx context.Context, l *ledger.Ledger) ([]int, error) {
	matrix, err := mlmodel.BuildFeatureMatrix(l, a.artifacts.Scaler, a.artifacts.Model)
	if err != nil {
		return nil, err
	}

	labels, err := a.artifacts.Model.Predict(matrix)
	if err != nil {
		return nil, err
	}

	if !l.HasColumn(ledger.ColumnAnomaly) {
		l.Columns = append(l.Columns, ledger.ColumnAnomaly)
	}
	for i, label := range labels {
		if label == 1 {
			l.Rows[i][ledger.ColumnAnomaly] = "1"
		} else {
			l.Rows[i][ledger.ColumnAnomaly] = "0"
		}
	}

	return labels, nil
}

// CurrentLedger holds the most recently analyzed ledger so the /query and
// /simulate endpoints have data to answer against. In-memory only; nothing
// survives a restart and there is no per-user separation.
type CurrentLedger struct {
	mu sync.RWMutex
	l  *ledger.Ledger
}

func NewCurrentLedger() *CurrentLedger {
	return &CurrentLedger{}
}

// Set publishes a ledger as the current one.
func (c *CurrentLedger) Set(l *ledger.Ledger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.l = l
}

// Get returns the current ledger, or nil when nothing has been uploaded.
func (c *CurrentLedger) Get() *ledger.Ledger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.l
}
