package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/domain"
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/storage"
)

// PathStatisticsStore is an in-memory implementation of storage.PathStatisticsStore.
type PathStatisticsStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.PathStatistics // keyed by run_id
}

// NewPathStatisticsStore creates a new in-memory path statistics store.
func NewPathStatisticsStore() *PathStatisticsStore {
	return &PathStatisticsStore{
		data: make(map[string][]*domain.PathStatistics),
	}
}

// InsertBulk adds all path statistics for a run. Fails the entire batch with
// ErrDuplicateKey if the run already has stored paths.
func (s *PathStatisticsStore) InsertBulk(_ context.Context, runID string, paths []*domain.PathStatistics) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	for _, p := range paths {
		if p == nil || p.PathID == "" {
			return storage.ErrInvalidInput
		}
	}
	if len(paths) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[runID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store copies to prevent external mutation
	stored := make([]*domain.PathStatistics, 0, len(paths))
	for _, p := range paths {
		pathCopy := *p
		stored = append(stored, &pathCopy)
	}
	s.data[runID] = stored
	return nil
}

// GetByRunID retrieves all path statistics for a run, ordered by path_index ASC.
func (s *PathStatisticsStore) GetByRunID(_ context.Context, runID string) ([]*domain.PathStatistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, exists := s.data[runID]
	if !exists {
		return nil, nil
	}

	result := make([]*domain.PathStatistics, 0, len(stored))
	for _, p := range stored {
		pathCopy := *p
		result = append(result, &pathCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].PathIndex < result[j].PathIndex
	})

	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.PathStatisticsStore = (*PathStatisticsStore)(nil)
