package domain

// PathStatistics holds per-path cumulative totals, finalized when the path's
// last step is processed.
type PathStatistics struct {
	PathID    string
	PathIndex int

	// Cumulative dollar amounts over the path.
	LVR         float64
	LPFees      float64
	ArbProfit   float64
	BasefeesUSD float64
	VolumeUSD   float64

	Trades int // steps with a non-zero trade
	Steps  int

	FinalPoolPrice float64
	FinalCEXPrice  float64
}

// AggregateStatistics summarizes a completed set of independent paths.
// Computed once after all paths finish; read-only thereafter.
type AggregateStatistics struct {
	Paths int

	// Mean and sample variance (n-1) of per-path cumulative totals.
	ProfitMean     float64
	ProfitVariance float64
	LPFeesMean     float64
	LPFeesVariance float64
	LVRMean        float64
	LVRVariance    float64
	BasefeesMean   float64

	// Percentile bands of per-path cumulative arbitrage profit.
	ProfitP10    float64
	ProfitMedian float64
	ProfitP90    float64

	TradesMean float64

	// ArbProbability is the fraction of steps where a trade occurred,
	// averaged across paths.
	ArbProbability float64

	// LPLossVsLVR is (LVRMean - LPFeesMean) / LVRMean. Zero when LVRMean
	// is zero.
	LPLossVsLVR float64

	// TheoreticalLVR is the closed-form expected LVR for the run
	// parameters, for direct comparison against LVRMean.
	TheoreticalLVR float64
}
