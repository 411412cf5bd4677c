// Package simulation drives Monte-Carlo batches of CEX/DEX arbitrage paths
// and aggregates their statistics.
package simulation

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"

	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/arbitrage"
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/dex"
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/domain"
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/observability"
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/pricepath"
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/runid"
)

// Stream offset for the one redraw allowed after a failed path.
const redrawStreamOffset = 1 << 32

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	Path domain.PathParameters
	Pool domain.PoolParameters

	// Strategy defaults to the maximal arbitrageur when nil.
	Strategy arbitrage.Strategy

	// Workers defaults to GOMAXPROCS. Paths share no mutable state, so any
	// worker count is safe.
	Workers int

	// Seed makes the run reproducible when Seeded is true. Unseeded runs
	// draw a seed from process-wide entropy.
	Seed   uint64
	Seeded bool

	// RandomizeStart places each path's initial CEX price uniformly inside
	// the pool's no-arbitrage band instead of exactly at the pool price.
	RandomizeStart bool

	// Metrics is optional run observability.
	Metrics *observability.Metrics
}

// Runner executes independent simulation paths and aggregates the results.
type Runner struct {
	opts RunnerOptions
	gen  *pricepath.Generator
}

// NewRunner validates parameters and creates a runner.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	gen, err := pricepath.NewGenerator(opts.Path)
	if err != nil {
		return nil, err
	}

	// Probe pool construction so bad pool parameters fail up front.
	if _, err := dex.NewPool(opts.Pool, opts.Path.InitialPrice); err != nil {
		return nil, err
	}

	if opts.Strategy == nil {
		opts.Strategy = arbitrage.NewMaximalStrategy()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if !opts.Seeded {
		opts.Seed = rand.Uint64()
	}

	return &Runner{opts: opts, gen: gen}, nil
}

// Run simulates pathCount independent paths and returns the aggregate plus
// the per-path statistics. Results are finalized atomically: nothing is
// reported until every requested path has finished.
func (r *Runner) Run(ctx context.Context, pathCount int) (*domain.AggregateStatistics, []*domain.PathStatistics, error) {
	if pathCount < 1 {
		return nil, nil, fmt.Errorf("%w: path count must be >= 1, got %d", domain.ErrInvalidParameter, pathCount)
	}

	seed := r.opts.Seed
	runID := runid.ComputeRunID(r.opts.Path, r.opts.Pool, pathCount, seed, r.opts.Seeded)

	started := time.Now()
	results := make([]*domain.PathStatistics, pathCount)

	workers := r.opts.Workers
	if workers > pathCount {
		workers = pathCount
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				stats, err := r.simulatePath(runID, seed, idx)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("path %d: %w", idx, err)
					}
					mu.Unlock()
					continue
				}
				results[idx] = stats
			}
		}()
	}

	// Feed path indices, stopping early on cancellation.
feed:
	for idx := 0; idx < pathCount; idx++ {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if firstErr != nil {
		return nil, nil, firstErr
	}

	agg := computeAggregate(results)
	agg.TheoreticalLVR = TheoreticalLVR(
		r.gen.AnnualizedVolatility(),
		r.opts.Pool.LiquidityUSD,
		r.gen.HorizonYears(),
	)

	if m := r.opts.Metrics; m != nil {
		m.RunsCompleted.Inc()
		m.RunDuration.Observe(time.Since(started).Seconds())
	}
	return agg, results, nil
}

// RunID returns the identifier a run with the given path count would be
// stored under.
func (r *Runner) RunID(pathCount int) string {
	return runid.ComputeRunID(r.opts.Path, r.opts.Pool, pathCount, r.opts.Seed, r.opts.Seeded)
}

// Record builds the persistable record for a completed run.
func (r *Runner) Record(agg *domain.AggregateStatistics, pathCount int) *domain.RunRecord {
	return &domain.RunRecord{
		RunID:     r.RunID(pathCount),
		CreatedAt: time.Now().UTC(),
		Path:      r.opts.Path,
		Pool:      r.opts.Pool,
		PathCount: pathCount,
		Seed:      r.opts.Seed,
		Seeded:    r.opts.Seeded,
		Aggregate: *agg,
	}
}

// simulatePath runs one path to completion. A path whose step fails is
// discarded and redrawn once from a fresh stream; partial results are never
// folded into the statistics.
func (r *Runner) simulatePath(runID string, seed uint64, idx int) (*domain.PathStatistics, error) {
	stats, err := r.simulatePathOnce(runID, seed, uint64(idx), idx)
	if err == nil {
		return stats, nil
	}

	if m := r.opts.Metrics; m != nil {
		m.PathsDiscarded.Inc()
	}
	return r.simulatePathOnce(runID, seed, uint64(idx)+redrawStreamOffset, idx)
}

func (r *Runner) simulatePathOnce(runID string, seed, stream uint64, idx int) (*domain.PathStatistics, error) {
	started := time.Now()
	rng := rand.New(rand.NewPCG(seed, stream))

	path := r.gen.Generate(rng)
	pool, err := dex.NewPool(r.opts.Pool, r.opts.Path.InitialPrice)
	if err != nil {
		return nil, err
	}

	if r.opts.RandomizeStart {
		// Uniform start inside the no-arbitrage band; GBM is multiplicative
		// so scaling the whole path is the same as shifting its start.
		low, high := pool.NoArbitrageRegion()
		start := low + rng.Float64()*(high-low)
		scale := start / path[0]
		for i := range path {
			path[i] *= scale
		}
	}

	engine := arbitrage.NewEngine(r.opts.Strategy)
	for _, price := range path {
		if _, err := engine.Step(pool, price); err != nil {
			return nil, err
		}
	}

	stats := &domain.PathStatistics{
		PathID:         runid.ComputePathID(runID, idx),
		PathIndex:      idx,
		LVR:            pool.LVRUSD,
		LPFees:         pool.LPFeesUSD,
		ArbProfit:      pool.ArbProfitsUSD,
		BasefeesUSD:    pool.BasefeesUSD,
		VolumeUSD:      pool.VolumeUSD,
		Trades:         pool.NumTrades,
		Steps:          len(path) - 1,
		FinalPoolPrice: pool.MarginalPrice(),
		FinalCEXPrice:  path[len(path)-1],
	}

	if m := r.opts.Metrics; m != nil {
		m.PathsSimulated.Inc()
		m.StepsProcessed.Add(float64(stats.Steps))
		m.TradesExecuted.Add(float64(stats.Trades))
		m.PathDuration.Observe(time.Since(started).Seconds())
	}
	return stats, nil
}
