package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/simulation"
)

// RenderMarkdown renders a run report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Simulation Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run: %s\n\n", r.RunID))

	// Parameters
	sb.WriteString("## Parameters\n\n")
	sb.WriteString("| Parameter | Value |\n")
	sb.WriteString("|-----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Initial Price | %g |\n", r.Path.InitialPrice))
	sb.WriteString(fmt.Sprintf("| Volatility | %g %s |\n", r.Path.Volatility, r.Path.VolatilityUnit))
	sb.WriteString(fmt.Sprintf("| Drift | %g |\n", r.Path.Drift))
	sb.WriteString(fmt.Sprintf("| Block Time (s) | %g |\n", r.Path.StepSeconds))
	sb.WriteString(fmt.Sprintf("| Steps per Path | %d |\n", r.Path.Steps))
	sb.WriteString(fmt.Sprintf("| Block Time Model | %s |\n", r.Path.BlockTimeModel))
	sb.WriteString(fmt.Sprintf("| Pool Liquidity (USD) | %g |\n", r.Pool.LiquidityUSD))
	sb.WriteString(fmt.Sprintf("| Swap Fee (bps) | %g |\n", r.Pool.FeeBps))
	sb.WriteString(fmt.Sprintf("| Basefee (USD) | %g |\n", r.Pool.BasefeeUSD))
	if r.Pool.DynamicFeeProportion > 0 {
		sb.WriteString(fmt.Sprintf("| Dynamic Fee Proportion | %g |\n", r.Pool.DynamicFeeProportion))
	}
	if r.Seeded {
		sb.WriteString(fmt.Sprintf("| Seed | %d |\n", r.Seed))
	}
	sb.WriteString("\n")

	// Aggregate results
	agg := r.Aggregate
	sb.WriteString("## Results\n\n")
	sb.WriteString(fmt.Sprintf("Paths: %d\n\n", agg.Paths))
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Arbitrage Profit Mean (USD) | %.2f |\n", agg.ProfitMean))
	sb.WriteString(fmt.Sprintf("| Arbitrage Profit P10 / Median / P90 | %.2f / %.2f / %.2f |\n",
		agg.ProfitP10, agg.ProfitMedian, agg.ProfitP90))
	sb.WriteString(fmt.Sprintf("| LP Fees Mean (USD) | %.2f |\n", agg.LPFeesMean))
	sb.WriteString(fmt.Sprintf("| LVR Mean (USD) | %.2f |\n", agg.LVRMean))
	sb.WriteString(fmt.Sprintf("| Theoretical LVR (USD) | %.2f |\n", agg.TheoreticalLVR))
	sb.WriteString(fmt.Sprintf("| Basefees Mean (USD) | %.2f |\n", agg.BasefeesMean))
	sb.WriteString(fmt.Sprintf("| Trades per Path Mean | %.2f |\n", agg.TradesMean))
	sb.WriteString(fmt.Sprintf("| Arbitrage Probability | %.4f |\n", agg.ArbProbability))
	sb.WriteString(fmt.Sprintf("| LP Loss vs LVR | %.4f |\n", agg.LPLossVsLVR))
	sb.WriteString("\n")

	// Per-path table
	sb.WriteString("## Paths\n\n")
	if len(r.PathRows) > 0 {
		sb.WriteString("| # | Path | LVR | LP Fees | Arb Profit | Basefees | Volume | Trades | Pool Price | CEX Price |\n")
		sb.WriteString("|---|------|-----|---------|------------|----------|--------|--------|------------|----------|\n")
		for _, p := range r.PathRows {
			sb.WriteString(fmt.Sprintf("| %d | %s | %.2f | %.2f | %.2f | %.2f | %.2f | %d | %.4f | %.4f |\n",
				p.PathIndex, p.PathID, p.LVR, p.LPFees, p.ArbProfit,
				p.BasefeesUSD, p.VolumeUSD, p.Trades, p.FinalPoolPrice, p.FinalCEXPrice))
		}
	} else {
		sb.WriteString("No per-path statistics available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

// RenderReplicationMarkdown renders one replication grid as a Markdown table.
func RenderReplicationMarkdown(t *simulation.ReplicationTable) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## %s\n\n", t.Metric))

	sb.WriteString("| Block Time (s) |")
	for _, fee := range t.FeeBps {
		sb.WriteString(fmt.Sprintf(" %g bps |", fee))
	}
	sb.WriteString("\n|---|")
	for range t.FeeBps {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")

	for i, bt := range t.BlockTimesSec {
		sb.WriteString(fmt.Sprintf("| %g |", bt))
		for _, v := range t.Values[i] {
			sb.WriteString(fmt.Sprintf(" %.4f |", v))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
