// Package arbitrage sizes and executes the per-step arbitrage trade between
// an external (CEX) price and a constant-product pool.
package arbitrage

import (
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/dex"
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/domain"
)

// Engine drives a strategy against a pool, one external price at a time.
type Engine struct {
	strategy Strategy
}

// NewEngine creates an engine for the given strategy.
func NewEngine(strategy Strategy) *Engine {
	return &Engine{strategy: strategy}
}

// Step evaluates the strategy at the external price and applies the
// resulting trade to the pool. Returns nil when no trade happened.
// A failed step leaves the pool state untouched.
func (e *Engine) Step(pool *dex.Pool, cexPrice float64) (*domain.TradeResult, error) {
	res, err := e.strategy.Evaluate(pool, cexPrice)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, nil
	}

	if err := pool.ApplyArbitrage(res); err != nil {
		return nil, err
	}
	return res, nil
}
