package arbitrage

import (
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/dex"
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/domain"
)

// StubStrategy is a no-op strategy for testing.
// It collects observed prices for verification without ever trading.
type StubStrategy struct {
	prices []float64
}

// NewStubStrategy creates a new stub strategy.
func NewStubStrategy() *StubStrategy {
	return &StubStrategy{
		prices: make([]float64, 0),
	}
}

// Evaluate records the price and never trades.
func (s *StubStrategy) Evaluate(_ *dex.Pool, cexPrice float64) (*domain.TradeResult, error) {
	s.prices = append(s.prices, cexPrice)
	return nil, nil
}

// Name returns the strategy identifier.
func (s *StubStrategy) Name() string {
	return "stub"
}

// Prices returns collected prices for test verification.
func (s *StubStrategy) Prices() []float64 {
	return s.prices
}

// Ensure StubStrategy implements Strategy.
var _ Strategy = (*StubStrategy)(nil)
