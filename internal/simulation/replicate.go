package simulation

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/domain"
)

// Reference grid from the replicated table: block times and swap fees at
// 5%/day volatility.
var (
	DefaultBlockTimesSec = []float64{2, 12, 120, 600}
	DefaultFeeBps        = []float64{1, 5, 10, 30, 100}
)

// ReplicationOptions configures a replication grid over block times and
// swap fees.
type ReplicationOptions struct {
	BlockTimesSec []float64
	FeeBps        []float64

	VolatilityPerDay float64
	HorizonSeconds   float64
	PathCount        int

	LiquidityUSD float64
	BasefeeUSD   float64

	BlockTimeModel domain.BlockTimeModel

	Seed   uint64
	Seeded bool

	Workers int
}

// DefaultReplicationOptions mirrors the reference table's settings.
func DefaultReplicationOptions() ReplicationOptions {
	return ReplicationOptions{
		BlockTimesSec:    DefaultBlockTimesSec,
		FeeBps:           DefaultFeeBps,
		VolatilityPerDay: 0.05,
		HorizonSeconds:   300_000,
		PathCount:        50,
		LiquidityUSD:     1_000_000_000,
		BlockTimeModel:   domain.BlockTimeUniform,
	}
}

// ReplicationTable holds one metric over the block-time x fee grid.
// Values are indexed [blockTimeIndex][feeIndex].
type ReplicationTable struct {
	Metric        string
	BlockTimesSec []float64
	FeeBps        []float64
	Values        [][]float64
}

// ReplicateFull runs the full pool simulation for every grid cell and
// returns the arbitrage probability and LP loss tables.
func ReplicateFull(ctx context.Context, opts ReplicationOptions) ([]*ReplicationTable, error) {
	if err := validateReplication(opts); err != nil {
		return nil, err
	}

	prob := newReplicationTable("arb probability", opts)
	loss := newReplicationTable("LP loss vs LVR", opts)

	for i, blockTime := range opts.BlockTimesSec {
		steps := int(opts.HorizonSeconds / blockTime)
		for j, feeBps := range opts.FeeBps {
			runner, err := NewRunner(RunnerOptions{
				Path: domain.PathParameters{
					InitialPrice:   1, // normalized; ratios are scale-free
					Volatility:     opts.VolatilityPerDay,
					VolatilityUnit: domain.VolatilityPerDay,
					StepSeconds:    blockTime,
					Steps:          steps,
					BlockTimeModel: opts.BlockTimeModel,
				},
				Pool: domain.PoolParameters{
					LiquidityUSD: opts.LiquidityUSD,
					FeeBps:       feeBps,
					BasefeeUSD:   opts.BasefeeUSD,
				},
				Workers:        opts.Workers,
				Seed:           cellSeed(opts.Seed, i, j),
				Seeded:         opts.Seeded,
				RandomizeStart: true,
			})
			if err != nil {
				return nil, err
			}

			agg, _, err := runner.Run(ctx, opts.PathCount)
			if err != nil {
				return nil, err
			}

			prob.Values[i][j] = agg.ArbProbability
			loss.Values[i][j] = agg.LPLossVsLVR
		}
	}
	return []*ReplicationTable{prob, loss}, nil
}

// ReplicateQuick estimates only the arbitrage probability per cell using a
// price-ratio walk without pool state. Orders of magnitude faster than the
// full simulation and statistically equivalent for this one metric.
func ReplicateQuick(ctx context.Context, opts ReplicationOptions) (*ReplicationTable, error) {
	if err := validateReplication(opts); err != nil {
		return nil, err
	}

	sigmaPerSecond := opts.VolatilityPerDay / math.Sqrt(domain.SecondsPerDay)
	prob := newReplicationTable("arb probability", opts)

	for i, blockTime := range opts.BlockTimesSec {
		nBlocks := int(opts.HorizonSeconds/blockTime) * opts.PathCount
		for j, feeBps := range opts.FeeBps {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			seed := cellSeed(opts.Seed, i, j)
			if !opts.Seeded {
				seed = rand.Uint64()
			}
			rng := rand.New(rand.NewPCG(seed, 0))
			prob.Values[i][j] = quickArbProbability(
				rng, sigmaPerSecond, blockTime, feeBps, nBlocks,
				opts.BlockTimeModel == domain.BlockTimePoisson,
			)
		}
	}
	return prob, nil
}

// quickArbProbability walks CEX price factors against a fee band around the
// pool price, counting how often the pool price must move.
func quickArbProbability(rng *rand.Rand, sigmaPerSecond, blockTime, feeBps float64, nBlocks int, poisson bool) float64 {
	feeFactor := (10000 - feeBps) / 10000
	sigma := sigmaPerSecond * math.Sqrt(blockTime)

	cexPrice := 1.0
	// Initial pool price uniform in the non-arbitrage region.
	low, high := cexPrice*feeFactor, cexPrice/feeFactor
	poolPrice := low + rng.Float64()*(high-low)

	trades := 0
	for b := 0; b < nBlocks; b++ {
		factor := 1 + sigma*rng.NormFloat64()
		if poisson {
			factor = 1 + math.Sqrt(rng.ExpFloat64())*(factor-1)
		}
		if factor <= 0 {
			continue
		}
		cexPrice *= factor

		var target float64
		if cexPrice > poolPrice {
			target = cexPrice * feeFactor
			if target < poolPrice {
				continue
			}
		} else {
			target = cexPrice / feeFactor
			if target > poolPrice {
				continue
			}
		}
		trades++
		poolPrice = target
	}
	return float64(trades) / float64(nBlocks)
}

func newReplicationTable(metric string, opts ReplicationOptions) *ReplicationTable {
	values := make([][]float64, len(opts.BlockTimesSec))
	for i := range values {
		values[i] = make([]float64, len(opts.FeeBps))
	}
	return &ReplicationTable{
		Metric:        metric,
		BlockTimesSec: opts.BlockTimesSec,
		FeeBps:        opts.FeeBps,
		Values:        values,
	}
}

func validateReplication(opts ReplicationOptions) error {
	if len(opts.BlockTimesSec) == 0 || len(opts.FeeBps) == 0 {
		return fmt.Errorf("%w: empty replication grid", domain.ErrInvalidParameter)
	}
	if opts.VolatilityPerDay < 0 {
		return fmt.Errorf("%w: volatility must be >= 0, got %v", domain.ErrInvalidParameter, opts.VolatilityPerDay)
	}
	if opts.HorizonSeconds <= 0 {
		return fmt.Errorf("%w: horizon must be > 0 seconds, got %v", domain.ErrInvalidParameter, opts.HorizonSeconds)
	}
	if opts.PathCount < 1 {
		return fmt.Errorf("%w: path count must be >= 1, got %d", domain.ErrInvalidParameter, opts.PathCount)
	}
	for _, bt := range opts.BlockTimesSec {
		if bt <= 0 {
			return fmt.Errorf("%w: block time must be > 0 seconds, got %v", domain.ErrInvalidParameter, bt)
		}
	}
	return nil
}

// cellSeed derives a distinct deterministic seed per grid cell.
func cellSeed(seed uint64, blockTimeIdx, feeIdx int) uint64 {
	return seed ^ uint64(blockTimeIdx)<<40 ^ uint64(feeIdx)<<20
}
