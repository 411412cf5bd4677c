package simulation

// TheoreticalLVR returns the closed-form expected loss-versus-rebalancing of
// a constant-product pool over a horizon, in stable-asset terms:
//
//	E[LVR] = (sigma^2 / 8) * V * T
//
// where sigma is the annualized volatility, V the total pool value at t=0
// and T the horizon in years. This is the zero-fee continuous-arbitrage
// limit the simulated LVRMean converges to as the fee approaches zero.
func TheoreticalLVR(sigmaAnnual, poolValueUSD, horizonYears float64) float64 {
	return sigmaAnnual * sigmaAnnual / 8 * poolValueUSD * horizonYears
}
