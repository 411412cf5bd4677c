package clickhouse

import (
	"context"
	"fmt"

	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/domain"
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/storage"
)

// PathStatisticsStore implements storage.PathStatisticsStore using ClickHouse.
type PathStatisticsStore struct {
	conn *Conn
}

// NewPathStatisticsStore creates a new PathStatisticsStore.
func NewPathStatisticsStore(conn *Conn) *PathStatisticsStore {
	return &PathStatisticsStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PathStatisticsStore = (*PathStatisticsStore)(nil)

// InsertBulk adds all path statistics for a run. Fails the entire batch with
// ErrDuplicateKey if the run already has stored paths. MergeTree does not
// enforce uniqueness, so existence is checked explicitly before the insert.
func (s *PathStatisticsStore) InsertBulk(ctx context.Context, runID string, paths []*domain.PathStatistics) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	for _, p := range paths {
		if p == nil || p.PathID == "" {
			return storage.ErrInvalidInput
		}
	}
	if len(paths) == 0 {
		return nil
	}

	exists, err := s.exists(ctx, runID)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO path_statistics (
			run_id, path_id, path_index,
			lvr_usd, lp_fees_usd, arb_profit_usd, basefees_usd, volume_usd,
			trades, steps,
			final_pool_price, final_cex_price
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range paths {
		err = batch.Append(
			runID, p.PathID, uint32(p.PathIndex),
			p.LVR, p.LPFees, p.ArbProfit, p.BasefeesUSD, p.VolumeUSD,
			uint32(p.Trades), uint32(p.Steps),
			p.FinalPoolPrice, p.FinalCEXPrice,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRunID retrieves all path statistics for a run, ordered by path_index ASC.
func (s *PathStatisticsStore) GetByRunID(ctx context.Context, runID string) ([]*domain.PathStatistics, error) {
	query := `
		SELECT
			path_id, path_index,
			lvr_usd, lp_fees_usd, arb_profit_usd, basefees_usd, volume_usd,
			trades, steps,
			final_pool_price, final_cex_price
		FROM path_statistics
		WHERE run_id = ?
		ORDER BY path_index ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query path statistics: %w", err)
	}
	defer rows.Close()

	var paths []*domain.PathStatistics
	for rows.Next() {
		var (
			p         domain.PathStatistics
			pathIndex uint32
			trades    uint32
			steps     uint32
		)
		err := rows.Scan(
			&p.PathID, &pathIndex,
			&p.LVR, &p.LPFees, &p.ArbProfit, &p.BasefeesUSD, &p.VolumeUSD,
			&trades, &steps,
			&p.FinalPoolPrice, &p.FinalCEXPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("scan path statistics row: %w", err)
		}
		p.PathIndex = int(pathIndex)
		p.Trades = int(trades)
		p.Steps = int(steps)
		paths = append(paths, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate path statistics rows: %w", err)
	}

	return paths, nil
}

// exists checks if any path statistics are stored for the run.
func (s *PathStatisticsStore) exists(ctx context.Context, runID string) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx,
		`SELECT count(*) FROM path_statistics WHERE run_id = ?`, runID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
