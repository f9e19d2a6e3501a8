package repository

import (
	"context"
	"sync"

	"github.com/okian/crewplan/internal/domain/model"
	"github.com/okian/crewplan/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultMaxRuns = 128
)

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithMaxRuns bounds how many results are retained.
func WithMaxRuns(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.maxRuns = n
		}
	}
}

// MemStore implements Store with a mutex-guarded map plus insertion order
// for eviction and newest-first listing.
type MemStore struct {
	mu      sync.RWMutex
	maxRuns int
	byID    map[string]model.AllocationResult
	order   []string // oldest first
}

// NewMemStore creates a bounded in-memory run store.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		maxRuns: defaultMaxRuns,
		byID:    make(map[string]model.AllocationResult),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put stores a result, evicting the oldest once the bound is hit. Storing an
// existing run id overwrites in place without disturbing its position.
func (s *MemStore) Put(_ context.Context, result model.AllocationResult) error {
	if result.RunID == "" {
		return ErrMissingID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[result.RunID]; !exists {
		for len(s.order) >= s.maxRuns {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.byID, oldest)
		}
		s.order = append(s.order, result.RunID)
	}
	s.byID[result.RunID] = result
	metrics.UpdateRunStoreSize(len(s.order))
	return nil
}

// Get returns one result by run id.
func (s *MemStore) Get(_ context.Context, runID string) (model.AllocationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.byID[runID]
	if !ok {
		return model.AllocationResult{}, ErrNotFound
	}
	return res, nil
}

// Recent returns up to n results, newest first.
func (s *MemStore) Recent(_ context.Context, n int) ([]model.AllocationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || n > len(s.order) {
		n = len(s.order)
	}
	out := make([]model.AllocationResult, 0, n)
	for i := len(s.order) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.byID[s.order[i]])
	}
	return out, nil
}

// Count returns the number of retained results.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
