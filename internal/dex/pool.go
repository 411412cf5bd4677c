// Package dex models a constant-product AMM pool holding a volatile asset
// against a stable asset.
package dex

import (
	"fmt"
	"math"

	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/domain"
)

// Pool holds reserves under the invariant reserveVolatile*reserveStable = k.
// Fees are charged on the trader's input leg and withdrawn immediately, so
// the invariant is preserved exactly on the post-fee effective amounts and
// fees never compound into the reserves.
type Pool struct {
	reserveVolatile float64 // x
	reserveStable   float64 // y

	feeFraction          float64 // f in [0,1)
	feeFactor            float64 // 1/(1-f)
	basefeeUSD           float64
	dynamicFeeProportion float64

	// Cumulative metrics, in stable-asset terms.
	VolumeUSD     float64
	LPFeesUSD     float64
	LVRUSD        float64
	ArbProfitsUSD float64
	BasefeesUSD   float64
	NumTrades     int
}

// NewPool constructs a pool whose marginal price at t=0 equals initialPrice.
// The stable reserve is half the target liquidity depth, the volatile reserve
// is derived from the price. Returns ErrInvalidPoolState on degenerate inputs.
func NewPool(p domain.PoolParameters, initialPrice float64) (*Pool, error) {
	if p.LiquidityUSD <= 0 {
		return nil, fmt.Errorf("%w: liquidity must be > 0, got %v", domain.ErrInvalidPoolState, p.LiquidityUSD)
	}
	if initialPrice <= 0 {
		return nil, fmt.Errorf("%w: initial price must be > 0, got %v", domain.ErrInvalidPoolState, initialPrice)
	}
	if p.FeeBps < 0 || p.FeeBps >= 10000 {
		return nil, fmt.Errorf("%w: fee must be in [0, 10000) bps, got %v", domain.ErrInvalidPoolState, p.FeeBps)
	}
	if p.DynamicFeeProportion < 0 || p.DynamicFeeProportion >= 1 {
		return nil, fmt.Errorf("%w: dynamic fee proportion must be in [0, 1), got %v", domain.ErrInvalidPoolState, p.DynamicFeeProportion)
	}
	if p.BasefeeUSD < 0 {
		return nil, fmt.Errorf("%w: base fee must be >= 0, got %v", domain.ErrInvalidPoolState, p.BasefeeUSD)
	}

	fee := p.FeeBps / 10000
	reserveStable := p.LiquidityUSD / 2
	return &Pool{
		reserveVolatile:      reserveStable / initialPrice,
		reserveStable:        reserveStable,
		feeFraction:          fee,
		feeFactor:            1 / (1 - fee),
		basefeeUSD:           p.BasefeeUSD,
		dynamicFeeProportion: p.DynamicFeeProportion,
	}, nil
}

// MarginalPrice returns the instantaneous exchange rate implied by the
// reserves, before any trade-size-dependent slippage.
func (p *Pool) MarginalPrice() float64 {
	return p.reserveStable / p.reserveVolatile
}

// Liquidity returns sqrt(x*y), the pool's liquidity parameter L.
func (p *Pool) Liquidity() float64 {
	return math.Sqrt(p.reserveVolatile * p.reserveStable)
}

// Reserves returns the current (volatile, stable) reserves.
func (p *Pool) Reserves() (float64, float64) {
	return p.reserveVolatile, p.reserveStable
}

// BasefeeUSD returns the fixed per-swap cost.
func (p *Pool) BasefeeUSD() float64 {
	return p.basefeeUSD
}

// FeeFactorAt returns the gross-up factor for a trade at the given external
// price. With a dynamic fee the factor grows with the CEX/DEX divergence.
func (p *Pool) FeeFactorAt(cexPrice float64) float64 {
	if p.dynamicFeeProportion == 0 {
		return p.feeFactor
	}
	fee := p.dynamicFeeProportion * math.Abs(cexPrice/p.MarginalPrice()-1)
	if fee >= 1 {
		fee = 1 - 1e-9
	}
	return 1 / (1 - fee)
}

// NoArbitrageRegion returns the open price interval around the marginal
// price within which no profitable arbitrage trade exists. Fee-free pools
// collapse the region to the marginal price itself.
func (p *Pool) NoArbitrageRegion() (low, high float64) {
	price := p.MarginalPrice()
	return price / p.feeFactor, price * p.feeFactor
}

// TargetPrice returns the post-trade marginal price an arbitrageur steers
// the pool to for the given external price. The second result is false when
// the external price lies inside the no-arbitrage band and no trade happens.
func (p *Pool) TargetPrice(cexPrice float64) (float64, bool) {
	dexPrice := p.MarginalPrice()
	feeFactor := p.FeeFactorAt(cexPrice)
	if cexPrice > dexPrice {
		target := cexPrice / feeFactor
		if target < dexPrice {
			return 0, false
		}
		return target, true
	}
	target := cexPrice * feeFactor
	if target > dexPrice {
		return 0, false
	}
	return target, true
}

// AmountsToTargetPrice solves the constant-product invariant for the reserve
// changes that move the marginal price exactly to targetPrice:
// dx = L/sqrt(p*) - x, dy = L*sqrt(p*) - y.
func (p *Pool) AmountsToTargetPrice(targetPrice float64) (deltaVolatile, deltaStable float64) {
	sqrtTarget := math.Sqrt(targetPrice)
	liq := p.Liquidity()
	return liq/sqrtTarget - p.reserveVolatile, liq*sqrtTarget - p.reserveStable
}

// ApplyArbitrage moves the reserves by the trade's deltas and folds the
// trade into the cumulative metrics. The fee portion is not added to the
// reserves. Returns ErrInsufficientLiquidity if a reserve would be exhausted.
func (p *Pool) ApplyArbitrage(res *domain.TradeResult) error {
	newVolatile := p.reserveVolatile + res.DeltaVolatile
	newStable := p.reserveStable + res.DeltaStable
	if newVolatile <= 0 || newStable <= 0 {
		return fmt.Errorf("%w: trade would leave reserves (%v, %v)",
			domain.ErrInsufficientLiquidity, newVolatile, newStable)
	}

	p.reserveVolatile = newVolatile
	p.reserveStable = newStable

	p.VolumeUSD += math.Abs(res.DeltaStable) + res.LPFee
	p.LPFeesUSD += res.LPFee
	p.LVRUSD += res.LVR
	p.ArbProfitsUSD += res.Profit
	p.BasefeesUSD += res.BasefeeUSD
	p.NumTrades++
	return nil
}

// SwapVolatileForStable executes a retail swap delivering amountIn of the
// volatile asset. Returns the stable amount paid out and the fee retained,
// valued at the current marginal price.
func (p *Pool) SwapVolatileForStable(amountIn float64) (out, fee float64, err error) {
	if amountIn <= 0 {
		return 0, 0, fmt.Errorf("%w: swap amount must be > 0, got %v", domain.ErrInvalidPoolState, amountIn)
	}

	effectiveIn := amountIn / p.feeFactor
	price := p.MarginalPrice()
	fee = (amountIn - effectiveIn) * price

	newVolatile := p.reserveVolatile + effectiveIn
	out = effectiveIn * p.reserveStable / newVolatile
	if out >= p.reserveStable {
		return 0, 0, fmt.Errorf("%w: swap would drain stable reserve", domain.ErrInsufficientLiquidity)
	}

	p.reserveVolatile = newVolatile
	p.reserveStable -= out

	p.LPFeesUSD += fee
	p.VolumeUSD += amountIn * price
	p.BasefeesUSD += p.basefeeUSD
	p.NumTrades++
	return out, fee, nil
}

// SwapStableForVolatile executes a retail swap delivering amountIn of the
// stable asset. Returns the volatile amount paid out and the fee retained.
func (p *Pool) SwapStableForVolatile(amountIn float64) (out, fee float64, err error) {
	if amountIn <= 0 {
		return 0, 0, fmt.Errorf("%w: swap amount must be > 0, got %v", domain.ErrInvalidPoolState, amountIn)
	}

	effectiveIn := amountIn / p.feeFactor
	fee = amountIn - effectiveIn

	newStable := p.reserveStable + effectiveIn
	out = effectiveIn * p.reserveVolatile / newStable
	if out >= p.reserveVolatile {
		return 0, 0, fmt.Errorf("%w: swap would drain volatile reserve", domain.ErrInsufficientLiquidity)
	}

	p.reserveStable = newStable
	p.reserveVolatile -= out

	p.LPFeesUSD += fee
	p.VolumeUSD += amountIn
	p.BasefeesUSD += p.basefeeUSD
	p.NumTrades++
	return out, fee, nil
}
