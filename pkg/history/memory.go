package history

import (
	"context"
	"sync"
)

// MemoryStore keeps the most recent records in memory.
// Once full, each Add overwrites the oldest record.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
	next    int
	full    bool
}

// NewMemoryStore creates a store holding at most capacity records.
// A capacity of zero or less selects DefaultLimit.
func NewMemoryStore(capacity int) *MemoryStore {
	return &MemoryStore{records: make([]Record, normalizeLimit(capacity))}
}

// Add appends a record, evicting the oldest when full.
func (s *MemoryStore) Add(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[s.next] = rec
	s.next = (s.next + 1) % len(s.records)
	if s.next == 0 {
		s.full = true
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *MemoryStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := s.next
	if s.full {
		n = len(s.records)
	}
	limit = normalizeLimit(limit)
	if limit > n {
		limit = n
	}

	out := make([]Record, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (s.next - i + len(s.records)) % len(s.records)
		out = append(out, s.records[idx])
	}
	return out, nil
}

// Close does nothing.
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
