// Package runid derives deterministic identifiers for simulation runs and
// paths, so repeated runs with identical parameters map to the same records.
package runid

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/domain"
)

// ComputeRunID computes a deterministic run identifier using SHA256.
// Formula: SHA256(p0|sigma|unit|mu|dt|steps|model|liquidity|fee|basefee|dynfee|paths|seed|seeded)
// Returns the base58 encoding of the first 16 hash bytes (compact and
// filesystem-safe for report names).
func ComputeRunID(path domain.PathParameters, pool domain.PoolParameters, pathCount int, seed uint64, seeded bool) string {
	data := fmt.Sprintf("%v|%v|%s|%v|%v|%d|%s|%v|%v|%v|%v|%d|%d|%t",
		path.InitialPrice,
		path.Volatility,
		string(path.VolatilityUnit),
		path.Drift,
		path.StepSeconds,
		path.Steps,
		string(path.BlockTimeModel),
		pool.LiquidityUSD,
		pool.FeeBps,
		pool.BasefeeUSD,
		pool.DynamicFeeProportion,
		pathCount,
		seed,
		seeded,
	)

	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:16])
}

// ComputePathID computes a deterministic path identifier within a run.
// Formula: SHA256(run_id|path_index), base58-encoded first 16 bytes.
func ComputePathID(runID string, pathIndex int) string {
	data := fmt.Sprintf("%s|%d", runID, pathIndex)
	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:16])
}
