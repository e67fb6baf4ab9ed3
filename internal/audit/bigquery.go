package audit

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

const analysisRunsTable = "analysis_runs"

// runRow is the BigQuery schema for one analysis record.
type runRow struct {
	RunID        string                 `bigquery:"run_id"`
	Filename     string                 `bigquery:"filename"`
	RowCount     int                    `bigquery:"row_count"`
	AnomalyCount int                    `bigquery:"anomaly_count"`
	Status       string                 `bigquery:"status"`
	ErrorMessage string                 `bigquery:"error_message"`
	StartedAt    time.Time              `bigquery:"started_ts"`
	FinishedAt   bigquery.NullTimestamp `bigquery:"finished_ts"`
}

// BigQuerySink mirrors analysis records to a BigQuery table for long-term
// operational history. The table holds run metadata only, never ledger
// contents.
type BigQuerySink struct {
	client  *bigquery.Client
	dataset string
}

func NewBigQuerySink(ctx context.Context, projectID, dataset string) (*BigQuerySink, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("bigquery sink: create client: %w", err)
	}
	return &BigQuerySink{client: client, dataset: dataset}, nil
}

// WriteRecord implements Sink.
func (s *BigQuerySink) WriteRecord(ctx context.Context, record *AnalysisRecord) error {
	row := &runRow{
		RunID:        record.RunID,
		Filename:     record.Filename,
		RowCount:     record.RowCount,
		AnomalyCount: record.AnomalyCount,
		Status:       string(record.Status),
		ErrorMessage: record.Error,
		StartedAt:    record.StartedAt,
	}
	if record.FinishedAt != nil {
		row.FinishedAt = bigquery.NullTimestamp{Timestamp: *record.FinishedAt, Valid: true}
	}

	inserter := s.client.Dataset(s.dataset).Table(analysisRunsTable).Inserter()
	if err := inserter.Put(ctx, row); err != nil {
		return fmt.Errorf("bigquery sink: inserting row: %w", err)
	}
	return nil
}

// ListRecent queries the mirrored history, newest first.
func (s *BigQuerySink) ListRecent(ctx context.Context, limit int) ([]*AnalysisRecord, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT run_id, filename, row_count, anomaly_count, status, error_message, started_ts, finished_ts
		FROM %s.%s
		ORDER BY started_ts DESC
		LIMIT @limit
	`, s.dataset, analysisRunsTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "limit", Value: limit},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("bigquery sink: running query: %w", err)
	}

	var result []*AnalysisRecord
	for {
		var row runRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("bigquery sink: reading row: %w", err)
		}

		record := &AnalysisRecord{
			RunID:        row.RunID,
			Filename:     row.Filename,
			RowCount:     row.RowCount,
			AnomalyCount: row.AnomalyCount,
			Status:       RunStatus(row.Status),
			Error:        row.ErrorMessage,
			StartedAt:    row.StartedAt,
		}
		if row.FinishedAt.Valid {
			finished := row.FinishedAt.Timestamp
			record.FinishedAt = &finished
		}
		result = append(result, record)
	}

	return result, nil
}

// Close releases the underlying client.
func (s *BigQuerySink) Close() error {
	return s.client.Close()
}

var _ Sink = (*BigQuerySink)(nil)
var _ History = (*BigQuerySink)(nil)
