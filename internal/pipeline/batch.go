package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// BatchStatus represents the state of a synchronization batch.
type BatchStatus string

const (
	BatchRunning   BatchStatus = "running"
	BatchCompleted BatchStatus = "completed"
	BatchPartial   BatchStatus = "partial"
	BatchFailed    BatchStatus = "failed"
)

// Batch tracks one run of the synchronizer.
type Batch struct {
	mu sync.Mutex

	ID        string
	Status    BatchStatus
	Progress  Progress
	Failed    int
	errors    []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func newBatch(total int) *Batch {
	now := time.Now()
	return &Batch{
		ID:        uuid.NewString(),
		Status:    BatchRunning,
		Progress:  Progress{Total: total},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RecordResult counts one finished unit.
func (b *Batch) RecordResult(errMsg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Progress.Completed++
	if errMsg != "" {
		b.Failed++
		b.errors = append(b.errors, errMsg)
	}
	b.UpdatedAt = time.Now()
}

// Finish derives the final status from the recorded results.
func (b *Batch) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case b.Failed == 0:
		b.Status = BatchCompleted
	case b.Failed < b.Progress.Total:
		b.Status = BatchPartial
	default:
		b.Status = BatchFailed
	}
	b.UpdatedAt = time.Now()
}

// BatchSnapshot is a read-only, JSON-safe copy of batch state.
type BatchSnapshot struct {
	ID        string      `json:"batch_id"`
	Status    BatchStatus `json:"status"`
	Progress  Progress    `json:"progress"`
	Fraction  float64     `json:"fraction"`
	Failed    int         `json:"failed"`
	Errors    []string    `json:"errors"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the batch state.
func (b *Batch) Snapshot() BatchSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	errs := make([]string, len(b.errors))
	copy(errs, b.errors)
	return BatchSnapshot{
		ID:        b.ID,
		Status:    b.Status,
		Progress:  b.Progress,
		Fraction:  b.Progress.Fraction(),
		Failed:    b.Failed,
		Errors:    errs,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// BatchStore is a thread-safe in-memory batch registry with TTL eviction.
type BatchStore struct {
	mu      sync.Mutex
	batches map[string]*Batch
	ttl     time.Duration
}

func NewBatchStore(ttl time.Duration) *BatchStore {
	return &BatchStore{
		batches: make(map[string]*Batch),
		ttl:     ttl,
	}
}

func (s *BatchStore) Put(b *Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches[b.ID] = b
}

func (s *BatchStore) Get(id string) *Batch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batches[id]
}

// Cleanup removes finished batches older than the TTL.
func (s *BatchStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, b := range s.batches {
		b.mu.Lock()
		expired := b.Status != BatchRunning && now.Sub(b.UpdatedAt) > s.ttl
		b.mu.Unlock()
		if expired {
			delete(s.batches, id)
		}
	}
}
