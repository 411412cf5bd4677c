package domain

import "time"

// RunRecord ties together the parameters and the aggregate outcome of one
// Monte-Carlo simulation run, for persistence and later comparison.
type RunRecord struct {
	RunID     string
	CreatedAt time.Time

	Path PathParameters
	Pool PoolParameters

	PathCount int
	Seed      uint64
	Seeded    bool

	Aggregate AggregateStatistics
}
