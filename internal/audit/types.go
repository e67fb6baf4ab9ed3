package audit

import (
	"context"
	"time"
)

// RunStatus is the outcome of one analysis run.
type RunStatus string

const (
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// AnalysisRecord describes one /analyze request after the fact: what file
// came in, how many rows it had, how many anomalies the model flagged and
// how the run ended. The uploaded ledger itself is never stored.
type AnalysisRecord struct {
	RunID        string     `json:"run_id"`
	Filename     string     `json:"filename"`
	RowCount     int        `json:"row_count"`
	AnomalyCount int        `json:"anomaly_count"`
	Status       RunStatus  `json:"status"`
	Error        string     `json:"error,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// Store persists analysis records for the runs listing.
type Store interface {
	SaveRecord(ctx context.Context, record *AnalysisRecord) error
	ListRecords(ctx context.Context, limit int) ([]*AnalysisRecord, error)
}

// Sink receives records after they land in the store; used to mirror runs
// to BigQuery without blocking the request path.
type Sink interface {
	WriteRecord(ctx context.Context, record *AnalysisRecord) error
}

// History lists analysis records from a durable mirror. The runs listing
// prefers it over the in-memory store when one is configured, since the
// mirror survives restarts.
type History interface {
	ListRecent(ctx context.Context, limit int) ([]*AnalysisRecord, error)
}
