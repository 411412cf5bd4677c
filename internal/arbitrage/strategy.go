package arbitrage

import (
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/dex"
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/domain"
)

// Strategy decides the trade an arbitrageur takes against the pool at one
// time step. Returns nil when no trade happens.
type Strategy interface {
	// Evaluate sizes a trade for the given external price without mutating
	// the pool.
	Evaluate(pool *dex.Pool, cexPrice float64) (*domain.TradeResult, error)

	// Name returns the strategy identifier.
	Name() string
}
