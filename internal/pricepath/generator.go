package pricepath

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/domain"
)

// Generator produces discretized geometric Brownian motion sample paths.
// Log price increments are drawn independently from a Normal distribution
// with mean (mu - sigma^2/2)*dt and standard deviation sigma*sqrt(dt).
type Generator struct {
	params domain.PathParameters

	// Per-step log-space terms, converted from the configured unit.
	stepSigma   float64
	stepLogMean float64
}

// NewGenerator validates parameters and prepares per-step terms.
// Returns ErrInvalidParameter on bad volatility, step, horizon, or price.
func NewGenerator(p domain.PathParameters) (*Generator, error) {
	if p.Volatility < 0 {
		return nil, fmt.Errorf("%w: volatility must be >= 0, got %v", domain.ErrInvalidParameter, p.Volatility)
	}
	if p.StepSeconds <= 0 {
		return nil, fmt.Errorf("%w: step must be > 0 seconds, got %v", domain.ErrInvalidParameter, p.StepSeconds)
	}
	if p.Steps < 1 {
		return nil, fmt.Errorf("%w: steps must be >= 1, got %d", domain.ErrInvalidParameter, p.Steps)
	}
	if p.InitialPrice <= 0 {
		return nil, fmt.Errorf("%w: initial price must be > 0, got %v", domain.ErrInvalidParameter, p.InitialPrice)
	}

	unitSeconds, err := unitSeconds(p.VolatilityUnit)
	if err != nil {
		return nil, err
	}
	switch p.BlockTimeModel {
	case "", domain.BlockTimeUniform, domain.BlockTimePoisson:
	default:
		return nil, fmt.Errorf("%w: unknown block time model %q", domain.ErrInvalidParameter, p.BlockTimeModel)
	}

	// Scale sigma by sqrt of time, drift linearly in time.
	stepFraction := p.StepSeconds / unitSeconds
	stepSigma := p.Volatility * math.Sqrt(stepFraction)
	stepDrift := p.Drift * stepFraction

	return &Generator{
		params:      p,
		stepSigma:   stepSigma,
		stepLogMean: stepDrift - stepSigma*stepSigma/2,
	}, nil
}

// unitSeconds maps a volatility unit to its length in seconds.
func unitSeconds(u domain.VolatilityUnit) (float64, error) {
	switch u {
	case domain.VolatilityPerDay:
		return domain.SecondsPerDay, nil
	case "", domain.VolatilityPerYear:
		return domain.SecondsPerYear, nil
	default:
		return 0, fmt.Errorf("%w: unknown volatility unit %q", domain.ErrInvalidParameter, u)
	}
}

// StepVolatility returns sigma converted to the per-step unit.
func (g *Generator) StepVolatility() float64 {
	return g.stepSigma
}

// AnnualizedVolatility returns sigma converted to the per-year unit.
func (g *Generator) AnnualizedVolatility() float64 {
	return g.stepSigma * math.Sqrt(domain.SecondsPerYear/g.params.StepSeconds)
}

// HorizonYears returns the path length expressed in years.
func (g *Generator) HorizonYears() float64 {
	return float64(g.params.Steps) * g.params.StepSeconds / domain.SecondsPerYear
}

// Generate draws one path using the supplied random stream. The same stream
// state always produces the same path. Every price is strictly positive.
func (g *Generator) Generate(rng *rand.Rand) domain.PricePath {
	prices := make(domain.PricePath, g.params.Steps+1)
	prices[0] = g.params.InitialPrice

	poisson := g.params.BlockTimeModel == domain.BlockTimePoisson
	for i := 1; i <= g.params.Steps; i++ {
		logMean := g.stepLogMean
		sigma := g.stepSigma
		if poisson {
			// Exponentially distributed block interval with mean one step;
			// drift scales linearly, sigma with the square root.
			scale := rng.ExpFloat64()
			logMean *= scale
			sigma *= math.Sqrt(scale)
		}
		prices[i] = prices[i-1] * math.Exp(logMean+sigma*rng.NormFloat64())
	}
	return prices
}
