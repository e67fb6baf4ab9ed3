package audit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_SaveAndList(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Now()

	for i, id := range []string{"run-1", "run-2", "run-3"} {
		record := &AnalysisRecord{
			RunID:     id,
			Filename:  "ledger.csv",
			Status:    RunStatusSucceeded,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.SaveRecord(ctx, record); err != nil {
			t.Fatalf("SaveRecord(%s) error = %v", id, err)
		}
	}

	records, err := store.ListRecords(ctx, 0)
	if err != nil {
		t.Fatalf("ListRecords() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len = %d, want 3", len(records))
	}
	// Newest first.
	if records[0].RunID != "run-3" || records[2].RunID != "run-1" {
		t.Errorf("order = %s, %s, %s, want run-3 first", records[0].RunID, records[1].RunID, records[2].RunID)
	}
}

func TestMemoryStore_ListLimit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		store.SaveRecord(ctx, &AnalysisRecord{
			RunID:     string(rune('a' + i)),
			StartedAt: time.Now().Add(time.Duration(i) * time.Second),
		})
	}

	records, err := store.ListRecords(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecords() error = %v", err)
	}
	if len(records) != 2 {
		t.Errorf("len = %d, want 2", len(records))
	}
}

func TestMemoryStore_RequiresRunID(t *testing.T) {
	store := NewMemoryStore()
	if err := store.SaveRecord(context.Background(), &AnalysisRecord{}); err == nil {
		t.Fatal("SaveRecord() = nil, want error for missing run ID")
	}
}

func TestMemoryStore_CopiesOnSave(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	record := &AnalysisRecord{RunID: "run-1", RowCount: 10, StartedAt: time.Now()}
	store.SaveRecord(ctx, record)
	record.RowCount = 999

	records, _ := store.ListRecords(ctx, 0)
	if records[0].RowCount != 10 {
		t.Errorf("RowCount = %d, want the value at save time", records[0].RowCount)
	}
}
