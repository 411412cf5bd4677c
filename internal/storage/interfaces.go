package storage

import (
	"context"
	"time"

	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/domain"
)

// RunStore provides access to simulation run storage.
type RunStore interface {
	// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, r *domain.RunRecord) error

	// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.RunRecord, error)

	// GetByTimeRange retrieves runs created within [start, end] (inclusive),
	// ordered by created_at ASC.
	GetByTimeRange(ctx context.Context, start, end time.Time) ([]*domain.RunRecord, error)

	// GetAll retrieves all runs, ordered by created_at ASC.
	GetAll(ctx context.Context) ([]*domain.RunRecord, error)
}

// PathStatisticsStore provides access to per-path statistics storage.
type PathStatisticsStore interface {
	// InsertBulk adds all path statistics for a run. Fails the entire batch
	// with ErrDuplicateKey if the run already has stored paths.
	InsertBulk(ctx context.Context, runID string, paths []*domain.PathStatistics) error

	// GetByRunID retrieves all path statistics for a run, ordered by
	// path_index ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.PathStatistics, error)
}
