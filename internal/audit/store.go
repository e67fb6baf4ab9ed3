package audit

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is an in-memory implementation of Store. It is safe for
// concurrent use; records are lost on restart, which is acceptable for an
// operational listing.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*AnalysisRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*AnalysisRecord)}
}

// SaveRecord saves or updates a record.
func (s *MemoryStore) SaveRecord(ctx context.Context, record *AnalysisRecord) error {
	if record.RunID == "" {
		return fmt.Errorf("run ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy to avoid external modifications.
	recordCopy := *record
	s.records[record.RunID] = &recordCopy

	return nil
}

// ListRecords returns records newest-first, up to limit (0 = no limit).
func (s *MemoryStore) ListRecords(ctx context.Context, limit int) ([]*AnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*AnalysisRecord, 0, len(s.records))
	for _, record := range s.records {
		recordCopy := *record
		result = append(result, &recordCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.After(result[j].StartedAt)
	})

	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}

	return result, nil
}

var _ Store = (*MemoryStore)(nil)
