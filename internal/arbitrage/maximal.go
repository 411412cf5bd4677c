package arbitrage

import (
	"fmt"

	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/dex"
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/domain"
)

// MaximalStrategy models an arbitrageur with unlimited stable-asset capital
// and zero CEX fees who always takes the full profitable size: the trade
// that moves the pool's post-trade marginal price exactly to the boundary
// of the fee-adjusted no-arbitrage band.
type MaximalStrategy struct{}

// NewMaximalStrategy creates the default arbitrage strategy.
func NewMaximalStrategy() *MaximalStrategy {
	return &MaximalStrategy{}
}

// Ensure MaximalStrategy implements Strategy.
var _ Strategy = (*MaximalStrategy)(nil)

// Evaluate sizes the maximal trade for the given external price.
// Returns nil when the price is inside the no-arbitrage band, or when the
// blockchain base fee eats the whole profit.
func (s *MaximalStrategy) Evaluate(pool *dex.Pool, cexPrice float64) (*domain.TradeResult, error) {
	if cexPrice <= 0 {
		return nil, fmt.Errorf("%w: external price must be > 0, got %v", domain.ErrInvalidParameter, cexPrice)
	}
	x, y := pool.Reserves()
	if x <= 0 || y <= 0 {
		return nil, fmt.Errorf("%w: reserves (%v, %v)", domain.ErrInvalidPoolState, x, y)
	}

	target, ok := pool.TargetPrice(cexPrice)
	if !ok {
		// CEX/DEX divergence below the LP fee.
		return nil, nil
	}

	dx, dy := pool.AmountsToTargetPrice(target)

	// The fee is charged on the arbitrageur's input leg. LPs are assumed to
	// withdraw fees immediately and convert at the CEX price.
	feeFactor := pool.FeeFactorAt(cexPrice)
	var lpFee float64
	if dx > 0 {
		dxWithFee := dx * feeFactor
		lpFee = (dxWithFee - dx) * cexPrice
	} else {
		dyWithFee := dy * feeFactor
		lpFee = dyWithFee - dy
	}

	lvr := -(dx*cexPrice + dy)
	profit := lvr - lpFee - pool.BasefeeUSD()
	if profit <= 0 {
		// Friction from the blockchain base fee kills the trade.
		return nil, nil
	}

	return &domain.TradeResult{
		DeltaVolatile: dx,
		DeltaStable:   dy,
		LPFee:         lpFee,
		LVR:           lvr,
		Profit:        profit,
		BasefeeUSD:    pool.BasefeeUSD(),
	}, nil
}

// Name returns the strategy identifier.
func (s *MaximalStrategy) Name() string {
	return "maximal"
}
