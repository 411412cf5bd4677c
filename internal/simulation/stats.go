package simulation

import (
	"math"
	"sort"

	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/domain"
)

// computeAggregate summarizes completed per-path statistics.
// All inputs must be non-nil; the runner guarantees this by failing the run
// when any path fails.
func computeAggregate(paths []*domain.PathStatistics) *domain.AggregateStatistics {
	n := len(paths)
	if n == 0 {
		return &domain.AggregateStatistics{}
	}

	profits := make([]float64, n)
	fees := make([]float64, n)
	lvrs := make([]float64, n)

	totalTrades := 0
	totalSteps := 0
	basefeeSum := 0.0
	for i, p := range paths {
		profits[i] = p.ArbProfit
		fees[i] = p.LPFees
		lvrs[i] = p.LVR
		totalTrades += p.Trades
		totalSteps += p.Steps
		basefeeSum += p.BasefeesUSD
	}

	profitMean := computeMean(profits)
	feesMean := computeMean(fees)
	lvrMean := computeMean(lvrs)

	sortedProfits := make([]float64, n)
	copy(sortedProfits, profits)
	sort.Float64s(sortedProfits)

	agg := &domain.AggregateStatistics{
		Paths: n,

		ProfitMean:     profitMean,
		ProfitVariance: computeVariance(profits, profitMean),
		LPFeesMean:     feesMean,
		LPFeesVariance: computeVariance(fees, feesMean),
		LVRMean:        lvrMean,
		LVRVariance:    computeVariance(lvrs, lvrMean),
		BasefeesMean:   basefeeSum / float64(n),

		ProfitP10:    computePercentile(sortedProfits, 0.10),
		ProfitMedian: computePercentile(sortedProfits, 0.50),
		ProfitP90:    computePercentile(sortedProfits, 0.90),

		TradesMean: float64(totalTrades) / float64(n),
	}

	if totalSteps > 0 {
		agg.ArbProbability = float64(totalTrades) / float64(totalSteps)
	}
	if lvrMean != 0 {
		agg.LPLossVsLVR = (lvrMean - feesMean) / lvrMean
	}
	return agg
}

// computeMean calculates the arithmetic mean.
func computeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// computeVariance calculates sample variance (n-1 denominator).
func computeVariance(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return sumSq / float64(n-1)
}

// computeStddev calculates sample standard deviation.
func computeStddev(values []float64, mean float64) float64 {
	return math.Sqrt(computeVariance(values, mean))
}

// computePercentile uses linear interpolation.
// sorted must be pre-sorted ASC. p is the percentile (0.10 = 10th).
func computePercentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
