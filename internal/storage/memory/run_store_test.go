package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

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
			StepSeconds:    3600,
			Steps:          8760,
			BlockTimeModel: domain.BlockTimeUniform,
		},
		Pool: domain.PoolParameters{
			LiquidityUSD: 1_000_000_000,
			FeeBps:       5,
		},
		PathCount: 10,
		Seed:      42,
		Seeded:    true,
		Aggregate: domain.AggregateStatistics{
			Paths:          10,
			LVRMean:        3.0e7,
			TheoreticalLVR: 3.125e7,
		},
	}
}

func TestRunStore_InsertAndGet(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	r := testRun("run1", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))

	if err := store.Insert(ctx, r); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "run1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if got.RunID != r.RunID {
		t.Errorf("RunID mismatch: got %s, want %s", got.RunID, r.RunID)
	}
	if got.Pool.FeeBps != r.Pool.FeeBps {
		t.Errorf("FeeBps mismatch: got %v, want %v", got.Pool.FeeBps, r.Pool.FeeBps)
	}
	if got.Aggregate.LVRMean != r.Aggregate.LVRMean {
		t.Errorf("LVRMean mismatch: got %v, want %v", got.Aggregate.LVRMean, r.Aggregate.LVRMean)
	}

	// Mutating the returned copy must not affect the store
	got.Pool.FeeBps = 999
	again, err := store.GetByID(ctx, "run1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if again.Pool.FeeBps != 5 {
		t.Errorf("store mutated through returned copy: FeeBps = %v", again.Pool.FeeBps)
	}
}

func TestRunStore_DuplicateKey(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	r := testRun("run1", time.Now())

	if err := store.Insert(ctx, r); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, r)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestRunStore_NotFound(t *testing.T) {
	store := NewRunStore()

	_, err := store.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRunStore_InvalidInput(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil run, got %v", err)
	}
	if err := store.Insert(ctx, &domain.RunRecord{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty run_id, got %v", err)
	}
}

func TestRunStore_GetByTimeRange(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		r := testRun(fmt.Sprintf("run%d", i), base.Add(time.Duration(i)*time.Hour))
		if err := store.Insert(ctx, r); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := store.GetByTimeRange(ctx, base.Add(time.Hour), base.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("GetByTimeRange failed: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].CreatedAt.Before(got[i-1].CreatedAt) {
			t.Error("runs not ordered by created_at ASC")
		}
	}
}

func TestRunStore_GetAll(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	// Insert out of chronological order
	for _, i := range []int{2, 0, 1} {
		r := testRun(fmt.Sprintf("run%d", i), base.Add(time.Duration(i)*time.Hour))
		if err := store.Insert(ctx, r); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(got))
	}
	for i, r := range got {
		want := fmt.Sprintf("run%d", i)
		if r.RunID != want {
			t.Errorf("got[%d].RunID = %s, want %s", i, r.RunID, want)
		}
	}
}

func TestRunStore_ConcurrentAccess(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := testRun(fmt.Sprintf("run%d", i), time.Now())
			if err := store.Insert(ctx, r); err != nil {
				t.Errorf("Insert failed: %v", err)
			}
			if _, err := store.GetByID(ctx, r.RunID); err != nil {
				t.Errorf("GetByID failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(got) != 20 {
		t.Errorf("expected 20 runs, got %d", len(got))
	}
}
