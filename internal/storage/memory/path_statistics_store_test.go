package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/domain"
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/storage"
)

func testPaths(n int) []*domain.PathStatistics {
	paths := make([]*domain.PathStatistics, 0, n)
	for i := 0; i < n; i++ {
		paths = append(paths, &domain.PathStatistics{
			PathID:         fmt.Sprintf("path%d", i),
			PathIndex:      i,
			LVR:            float64(i) * 1000,
			LPFees:         float64(i) * 300,
			ArbProfit:      float64(i) * 700,
			VolumeUSD:      float64(i) * 50000,
			Trades:         i * 10,
			Steps:          100,
			FinalPoolPrice: 2000 + float64(i),
			FinalCEXPrice:  2000 + float64(i),
		})
	}
	return paths
}

func TestPathStatisticsStore_InsertBulkAndGet(t *testing.T) {
	store := NewPathStatisticsStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, "run1", testPaths(3)); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByRunID(ctx, "run1")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 paths, got %d", len(got))
	}
	for i, p := range got {
		if p.PathIndex != i {
			t.Errorf("got[%d].PathIndex = %d, want %d", i, p.PathIndex, i)
		}
	}
	if got[2].Trades != 20 {
		t.Errorf("got[2].Trades = %d, want 20", got[2].Trades)
	}
}

func TestPathStatisticsStore_DuplicateRun(t *testing.T) {
	store := NewPathStatisticsStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, "run1", testPaths(2)); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	err := store.InsertBulk(ctx, "run1", testPaths(2))
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestPathStatisticsStore_EmptyRun(t *testing.T) {
	store := NewPathStatisticsStore()
	ctx := context.Background()

	got, err := store.GetByRunID(ctx, "unknown")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown run, got %d paths", len(got))
	}

	// Empty batch is a no-op, not a claim on the run id
	if err := store.InsertBulk(ctx, "run1", nil); err != nil {
		t.Fatalf("empty InsertBulk failed: %v", err)
	}
	if err := store.InsertBulk(ctx, "run1", testPaths(1)); err != nil {
		t.Fatalf("InsertBulk after empty batch failed: %v", err)
	}
}

func TestPathStatisticsStore_InvalidInput(t *testing.T) {
	store := NewPathStatisticsStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, "", testPaths(1)); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty run_id, got %v", err)
	}
	if err := store.InsertBulk(ctx, "run1", []*domain.PathStatistics{{}}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty path_id, got %v", err)
	}
}

func TestPathStatisticsStore_CopyOnRead(t *testing.T) {
	store := NewPathStatisticsStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, "run1", testPaths(1)); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByRunID(ctx, "run1")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	got[0].Trades = 99999

	again, err := store.GetByRunID(ctx, "run1")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	if again[0].Trades != 0 {
		t.Errorf("store mutated through returned copy: Trades = %d", again[0].Trades)
	}
}

func TestPathStatisticsStore_ConcurrentAccess(t *testing.T) {
	store := NewPathStatisticsStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			runID := fmt.Sprintf("run%d", i)
			if err := store.InsertBulk(ctx, runID, testPaths(5)); err != nil {
				t.Errorf("InsertBulk failed: %v", err)
			}
			got, err := store.GetByRunID(ctx, runID)
			if err != nil {
				t.Errorf("GetByRunID failed: %v", err)
			}
			if len(got) != 5 {
				t.Errorf("expected 5 paths, got %d", len(got))
			}
		}(i)
	}
	wg.Wait()
}
