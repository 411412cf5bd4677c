package domain

import "errors"

// Simulation errors.
var (
	// ErrInvalidParameter is returned when path or pool parameters fail
	// construction-time validation. Not recoverable: the whole call fails.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidPoolState is returned when pool reserves or the fee rate
	// are degenerate. Aborts the offending step without corrupting prior state.
	ErrInvalidPoolState = errors.New("invalid pool state")

	// ErrInsufficientLiquidity is returned when a trade would drive a
	// reserve to zero or below. Signals a parameter combination outside the
	// model's validity; never silently clamped.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
)
