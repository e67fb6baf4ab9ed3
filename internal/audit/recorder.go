package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Recorder accepts analysis records from request handlers and writes them
// out in the background so the request path never blocks on the sink. One
// goroutine drains the channel; Stop waits for in-flight records.
type Recorder struct {
	records   chan *AnalysisRecord
	closeChan chan struct{}
	wg        sync.WaitGroup
	mu        sync.RWMutex
	store     Store
	sink      Sink
	log       zerolog.Logger
	closed    bool
}

// NewRecorder creates a recorder. sink may be nil when no external mirror
// is configured. bufferSize bounds how many records can be pending before
// Publish drops with an error.
func NewRecorder(bufferSize int, store Store, sink Sink, log zerolog.Logger) *Recorder {
	return &Recorder{
		records:   make(chan *AnalysisRecord, bufferSize),
		closeChan: make(chan struct{}),
		store:     store,
		sink:      sink,
		log:       log,
	}
}

// Publish enqueues one record without blocking. Missing IDs are generated
// here so callers only describe what happened. A full queue returns an
// error instead of stalling the caller; the record is dropped.
func (r *Recorder) Publish(record *AnalysisRecord) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("recorder is closed")
	}

	if record.RunID == "" {
		record.RunID = uuid.New().String()
	}
	if record.StartedAt.IsZero() {
		record.StartedAt = time.Now()
	}

	select {
	case r.records <- record:
		return nil
	case <-r.closeChan:
		return fmt.Errorf("recorder is closed")
	default:
		return fmt.Errorf("audit queue is full")
	}
}

// Start drains the channel until ctx is cancelled or Stop is called.
func (r *Recorder) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			select {
			case record := <-r.records:
				r.write(record)
			case <-ctx.Done():
				r.drain()
				return
			case <-r.closeChan:
				r.drain()
				return
			}
		}
	}()
}

func (r *Recorder) drain() {
	for {
		select {
		case record := <-r.records:
			r.write(record)
		default:
			return
		}
	}
}

func (r *Recorder) write(record *AnalysisRecord) {
	// Sink writes get their own deadline; a stalled mirror must not wedge
	// the drain loop.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := r.store.SaveRecord(ctx, record); err != nil {
		r.log.Error().Err(err).Str("run_id", record.RunID).Msg("Failed to save analysis record")
		return
	}

	if r.sink != nil {
		if err := r.sink.WriteRecord(ctx, record); err != nil {
			r.log.Error().Err(err).Str("run_id", record.RunID).Msg("Failed to mirror analysis record")
		}
	}
}

// Stop closes the recorder and waits for the background writer.
func (r *Recorder) Stop() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.closeChan)
	r.mu.Unlock()

	r.wg.Wait()
}
