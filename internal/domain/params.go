package domain

// VolatilityUnit declares the time unit a volatility figure refers to.
type VolatilityUnit string

// Volatility unit constants.
const (
	VolatilityPerDay  VolatilityUnit = "per-day"
	VolatilityPerYear VolatilityUnit = "per-year"
)

// BlockTimeModel selects how block arrival times are distributed.
type BlockTimeModel string

// Block time model constants.
const (
	// BlockTimeUniform spaces blocks exactly StepSeconds apart.
	BlockTimeUniform BlockTimeModel = "uniform"

	// BlockTimePoisson draws each block interval from an exponential
	// distribution with mean StepSeconds, scaling the price increment
	// accordingly.
	BlockTimePoisson BlockTimeModel = "poisson"
)

// Seconds per calendar unit used for volatility conversion.
const (
	SecondsPerDay  = 86400.0
	SecondsPerYear = 365 * SecondsPerDay
)

// PathParameters describes one GBM price path.
type PathParameters struct {
	InitialPrice   float64        // p0, CEX price at step 0
	Volatility     float64        // sigma, in VolatilityUnit terms
	VolatilityUnit VolatilityUnit // defaults to per-year when empty
	Drift          float64        // mu, same unit as Volatility
	StepSeconds    float64        // time increment between price samples
	Steps          int            // number of increments; path has Steps+1 prices
	BlockTimeModel BlockTimeModel // defaults to uniform when empty
}

// PoolParameters describes the constant-product pool under simulation.
type PoolParameters struct {
	// LiquidityUSD is the total pool value in the stable asset at t=0.
	// Reserves are split evenly: reserve_stable = LiquidityUSD/2.
	LiquidityUSD float64

	// FeeBps is the proportional swap fee in basis points.
	FeeBps float64

	// BasefeeUSD is the fixed per-swap cost burnt by the blockchain.
	// Zero disables base-fee friction.
	BasefeeUSD float64

	// DynamicFeeProportion, when positive, replaces the static fee with a
	// per-trade fee proportional to the CEX/DEX price divergence.
	DynamicFeeProportion float64
}

// PricePath is an ordered sequence of strictly positive prices indexed by
// discrete time step. Immutable once generated.
type PricePath []float64
