package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/domain"
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/storage"
)

func testRun(id string, createdAt time.Time) *domain.RunRecord {
	return &domain.RunRecord{
		RunID:     id,
		CreatedAt: createdAt,
		Path: domain.PathParameters{
			InitialPrice:   2000,
			Volatility:     0.5,
			VolatilityUnit: domain.VolatilityPerYear,
			Drift:          0,
			StepSeconds:    3600,
			Steps:          8760,
			BlockTimeModel: domain.BlockTimeUniform,
		},
		Pool: domain.PoolParameters{
			LiquidityUSD: 1_000_000_000,
			FeeBps:       5,
			BasefeeUSD:   2,
		},
		PathCount: 10,
		Seed:      42,
		Seeded:    true,
		Aggregate: domain.AggregateStatistics{
			Paths:          10,
			ProfitMean:     1.5e6,
			ProfitVariance: 2.3e11,
			LPFeesMean:     9.2e6,
			LVRMean:        3.0e7,
			LVRVariance:    1.1e13,
			ProfitP10:      8.0e5,
			ProfitMedian:   1.4e6,
			ProfitP90:      2.4e6,
			TradesMean:     4100,
			ArbProbability: 0.468,
			LPLossVsLVR:    0.693,
			TheoreticalLVR: 3.125e7,
		},
	}
}

func TestRunStore_InsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRunStore(pool)
	ctx := context.Background()

	r := testRun("run1", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, store.Insert(ctx, r))

	got, err := store.GetByID(ctx, "run1")
	require.NoError(t, err)

	require.Equal(t, r.RunID, got.RunID)
	require.True(t, got.CreatedAt.Equal(r.CreatedAt))
	require.Equal(t, r.Path, got.Path)
	require.Equal(t, r.Pool, got.Pool)
	require.Equal(t, r.PathCount, got.PathCount)
	require.Equal(t, r.Seed, got.Seed)
	require.True(t, got.Seeded)
	require.Equal(t, r.Aggregate, got.Aggregate)
}

func TestRunStore_DuplicateKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRunStore(pool)
	ctx := context.Background()

	r := testRun("run1", time.Now().UTC())
	require.NoError(t, store.Insert(ctx, r))
	require.ErrorIs(t, store.Insert(ctx, r), storage.ErrDuplicateKey)
}

func TestRunStore_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRunStore(pool)
	_, err := store.GetByID(context.Background(), "nonexistent")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRunStore_GetByTimeRange(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRunStore(pool)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	ids := []string{"run0", "run1", "run2", "run3"}
	for i, id := range ids {
		require.NoError(t, store.Insert(ctx, testRun(id, base.Add(time.Duration(i)*time.Hour))))
	}

	got, err := store.GetByTimeRange(ctx, base.Add(time.Hour), base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "run1", got[0].RunID)
	require.Equal(t, "run2", got[1].RunID)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i, r := range all {
		require.Equal(t, ids[i], r.RunID)
	}
}
