package runid

import (
	"testing"

	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/domain"
)

func TestComputeRunID_Deterministic(t *testing.T) {
	path := domain.PathParameters{
		InitialPrice:   3000,
		Volatility:     0.5,
		VolatilityUnit: domain.VolatilityPerYear,
		StepSeconds:    12,
		Steps:          1000,
	}
	pool := domain.PoolParameters{LiquidityUSD: 1e9, FeeBps: 5}

	a := ComputeRunID(path, pool, 100, 42, true)
	b := ComputeRunID(path, pool, 100, 42, true)
	if a != b {
		t.Errorf("expected identical run IDs, got %s and %s", a, b)
	}
	if a == "" {
		t.Error("expected non-empty run ID")
	}
}

func TestComputeRunID_SensitiveToParameters(t *testing.T) {
	path := domain.PathParameters{InitialPrice: 3000, Volatility: 0.5, StepSeconds: 12, Steps: 1000}
	pool := domain.PoolParameters{LiquidityUSD: 1e9, FeeBps: 5}

	base := ComputeRunID(path, pool, 100, 42, true)

	other := path
	other.Steps = 1001
	if ComputeRunID(other, pool, 100, 42, true) == base {
		t.Error("expected different run ID for different steps")
	}

	otherPool := pool
	otherPool.FeeBps = 30
	if ComputeRunID(path, otherPool, 100, 42, true) == base {
		t.Error("expected different run ID for different fee")
	}

	if ComputeRunID(path, pool, 100, 43, true) == base {
		t.Error("expected different run ID for different seed")
	}
	if ComputeRunID(path, pool, 100, 42, false) == base {
		t.Error("expected different run ID for unseeded run")
	}
}

func TestComputePathID_DistinctPerIndex(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := ComputePathID("run-abc", i)
		if seen[id] {
			t.Fatalf("duplicate path ID at index %d", i)
		}
		seen[id] = true
	}

	if ComputePathID("run-abc", 0) != ComputePathID("run-abc", 0) {
		t.Error("expected deterministic path IDs")
	}
}
