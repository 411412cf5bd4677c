package reporting

import (
	"time"

	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/domain"
)

// Report is the rendered summary of one simulation run.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	RunID       string
	Seed        uint64
	Seeded      bool

	// Run configuration
	Path domain.PathParameters
	Pool domain.PoolParameters

	// Results
	Aggregate domain.AggregateStatistics

	// Per-path rows (sorted by path index)
	PathRows []PathRow
}

// PathRow is one row in the per-path table.
type PathRow struct {
	PathIndex      int
	PathID         string
	LVR            float64
	LPFees         float64
	ArbProfit      float64
	BasefeesUSD    float64
	VolumeUSD      float64
	Trades         int
	FinalPoolPrice float64
	FinalCEXPrice  float64
}

// Generator produces reports from run records.
type Generator struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds a report from a completed run and its per-path statistics.
// Paths are expected in path-index order, as the runner emits them.
func (g *Generator) Generate(run *domain.RunRecord, paths []*domain.PathStatistics) *Report {
	rows := make([]PathRow, 0, len(paths))
	for _, p := range paths {
		rows = append(rows, PathRow{
			PathIndex:      p.PathIndex,
			PathID:         p.PathID,
			LVR:            p.LVR,
			LPFees:         p.LPFees,
			ArbProfit:      p.ArbProfit,
			BasefeesUSD:    p.BasefeesUSD,
			VolumeUSD:      p.VolumeUSD,
			Trades:         p.Trades,
			FinalPoolPrice: p.FinalPoolPrice,
			FinalCEXPrice:  p.FinalCEXPrice,
		})
	}

	return &Report{
		GeneratedAt: g.now(),
		RunID:       run.RunID,
		Seed:        run.Seed,
		Seeded:      run.Seeded,
		Path:        run.Path,
		Pool:        run.Pool,
		Aggregate:   run.Aggregate,
		PathRows:    rows,
	}
}
