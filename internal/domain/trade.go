package domain

// TradeResult records the legs and bookkeeping of a single arbitrage trade.
// Produced and consumed within one simulation step.
type TradeResult struct {
	// DeltaVolatile and DeltaStable are the signed reserve changes from the
	// pool's perspective. Positive means the pool received the asset.
	DeltaVolatile float64
	DeltaStable   float64

	// LPFee is the fee retained by liquidity providers, valued at the CEX
	// price. Withdrawn immediately, never compounded into reserves.
	LPFee float64

	// LVR is the loss-versus-rebalancing of this trade: the external-market
	// value of what the pool gave up minus what it received.
	LVR float64

	// Profit is the arbitrageur's net gain: LVR minus the LP fee and the
	// blockchain base fee.
	Profit float64

	// BasefeeUSD is the fixed transaction cost burnt by this trade.
	BasefeeUSD float64
}
