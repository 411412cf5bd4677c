package reporting

import (
	"fmt"
	"strings"

	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/simulation"
)

// RenderPathsCSV renders per-path statistics as CSV string.
func RenderPathsCSV(rows []PathRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("path_index,path_id,lvr_usd,lp_fees_usd,arb_profit_usd,basefees_usd,")
	sb.WriteString("volume_usd,trades,final_pool_price,final_cex_price\n")

	// Rows
	for _, p := range rows {
		sb.WriteString(fmt.Sprintf("%d,%s,%.6f,%.6f,%.6f,%.6f,%.6f,%d,%.6f,%.6f\n",
			p.PathIndex,
			p.PathID,
			p.LVR,
			p.LPFees,
			p.ArbProfit,
			p.BasefeesUSD,
			p.VolumeUSD,
			p.Trades,
			p.FinalPoolPrice,
			p.FinalCEXPrice,
		))
	}

	return sb.String()
}

// RenderReplicationCSV renders a replication grid as CSV string with one row
// per block time and one column per fee level.
func RenderReplicationCSV(t *simulation.ReplicationTable) string {
	var sb strings.Builder

	sb.WriteString("block_time_sec")
	for _, fee := range t.FeeBps {
		sb.WriteString(fmt.Sprintf(",fee_%gbps", fee))
	}
	sb.WriteString("\n")

	for i, bt := range t.BlockTimesSec {
		sb.WriteString(fmt.Sprintf("%g", bt))
		for _, v := range t.Values[i] {
			sb.WriteString(fmt.Sprintf(",%.6f", v))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
