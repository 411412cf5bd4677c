package simulation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/domain"
)

func smallGrid() ReplicationOptions {
	return ReplicationOptions{
		BlockTimesSec:    []float64{12},
		FeeBps:           []float64{1, 100},
		VolatilityPerDay: 0.05,
		HorizonSeconds:   6000,
		PathCount:        20,
		LiquidityUSD:     1_000_000_000,
		BlockTimeModel:   domain.BlockTimeUniform,
		Seed:             123456,
		Seeded:           true,
	}
}

func TestReplicateQuick_ProbabilitiesDecreaseWithFee(t *testing.T) {
	opts := smallGrid()
	opts.PathCount = 100

	table, err := ReplicateQuick(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, table.Values, 1)
	require.Len(t, table.Values[0], 2)

	for _, p := range table.Values[0] {
		require.GreaterOrEqual(t, p, 0.0)
		require.LessOrEqual(t, p, 1.0)
	}

	// At 12s blocks and 5%/day, a 1bp band is crossed far more often than
	// a 100bp band.
	require.Greater(t, table.Values[0][0], table.Values[0][1])
}

func TestReplicateQuick_PoissonBlocks(t *testing.T) {
	opts := smallGrid()
	opts.BlockTimeModel = domain.BlockTimePoisson

	table, err := ReplicateQuick(context.Background(), opts)
	require.NoError(t, err)
	for _, p := range table.Values[0] {
		require.GreaterOrEqual(t, p, 0.0)
		require.LessOrEqual(t, p, 1.0)
	}
}

func TestReplicateFull_SmallGrid(t *testing.T) {
	tables, err := ReplicateFull(context.Background(), smallGrid())
	require.NoError(t, err)
	require.Len(t, tables, 2)

	prob, loss := tables[0], tables[1]
	require.Equal(t, "arb probability", prob.Metric)
	require.Equal(t, "LP loss vs LVR", loss.Metric)

	for j := range prob.FeeBps {
		require.GreaterOrEqual(t, prob.Values[0][j], 0.0)
		require.LessOrEqual(t, prob.Values[0][j], 1.0)
		// LPs never earn more in fees than the LVR the arbitrageur extracts.
		require.LessOrEqual(t, loss.Values[0][j], 1.0)
		require.GreaterOrEqual(t, loss.Values[0][j], 0.0)
	}

	// Trades are more frequent at the lower fee in the full simulation too.
	require.Greater(t, prob.Values[0][0], prob.Values[0][1])
}

func TestReplicate_InvalidOptions(t *testing.T) {
	opts := smallGrid()
	opts.BlockTimesSec = nil
	_, err := ReplicateQuick(context.Background(), opts)
	require.ErrorIs(t, err, domain.ErrInvalidParameter)

	opts = smallGrid()
	opts.HorizonSeconds = 0
	_, err = ReplicateFull(context.Background(), opts)
	require.ErrorIs(t, err, domain.ErrInvalidParameter)

	opts = smallGrid()
	opts.PathCount = 0
	_, err = ReplicateFull(context.Background(), opts)
	require.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestTheoreticalLVR(t *testing.T) {
	// sigma=0.5/yr, V=$1e9, one year: 0.25/8 * 1e9 = $31.25M.
	got := TheoreticalLVR(0.5, 1e9, 1)
	require.InDelta(t, 3.125e7, got, 1)

	require.Equal(t, 0.0, TheoreticalLVR(0, 1e9, 1))
}
