package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/domain"
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/storage"
)

// RunStore implements storage.RunStore using PostgreSQL.
type RunStore struct {
	pool *Pool
}

// NewRunStore creates a new RunStore.
func NewRunStore(pool *Pool) *RunStore {
	return &RunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RunStore = (*RunStore)(nil)

const runColumns = `
	run_id, created_at,
	initial_price, volatility, volatility_unit, drift,
	step_seconds, steps, block_time_model,
	liquidity_usd, fee_bps, basefee_usd, dynamic_fee_proportion,
	path_count, seed, seeded,
	agg_paths, profit_mean, profit_variance, lp_fees_mean, lp_fees_variance,
	lvr_mean, lvr_variance, basefees_mean,
	profit_p10, profit_median, profit_p90,
	trades_mean, arb_probability, lp_loss_vs_lvr, theoretical_lvr
`

// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
func (s *RunStore) Insert(ctx context.Context, r *domain.RunRecord) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO runs (` + runColumns + `) VALUES (
			$1, $2,
			$3, $4, $5, $6,
			$7, $8, $9,
			$10, $11, $12, $13,
			$14, $15, $16,
			$17, $18, $19, $20, $21,
			$22, $23, $24,
			$25, $26, $27,
			$28, $29, $30, $31
		)
	`

	agg := r.Aggregate
	_, err := s.pool.Exec(ctx, query,
		r.RunID, r.CreatedAt,
		r.Path.InitialPrice, r.Path.Volatility, string(r.Path.VolatilityUnit), r.Path.Drift,
		r.Path.StepSeconds, r.Path.Steps, string(r.Path.BlockTimeModel),
		r.Pool.LiquidityUSD, r.Pool.FeeBps, r.Pool.BasefeeUSD, r.Pool.DynamicFeeProportion,
		r.PathCount, int64(r.Seed), r.Seeded,
		agg.Paths, agg.ProfitMean, agg.ProfitVariance, agg.LPFeesMean, agg.LPFeesVariance,
		agg.LVRMean, agg.LVRVariance, agg.BasefeesMean,
		agg.ProfitP10, agg.ProfitMedian, agg.ProfitP90,
		agg.TradesMean, agg.ArbProbability, agg.LPLossVsLVR, agg.TheoreticalLVR,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(ctx context.Context, runID string) (*domain.RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE run_id = $1`

	row := s.pool.QueryRow(ctx, query, runID)
	r, err := scanRun(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get run by id: %w", err)
	}
	return r, nil
}

// GetByTimeRange retrieves runs created within [start, end] (inclusive).
func (s *RunStore) GetByTimeRange(ctx context.Context, start, end time.Time) ([]*domain.RunRecord, error) {
	query := `
		SELECT ` + runColumns + `
		FROM runs
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at ASC, run_id ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("get runs by time range: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// GetAll retrieves all runs, ordered by created_at ASC.
func (s *RunStore) GetAll(ctx context.Context) ([]*domain.RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at ASC, run_id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// scanRun scans a single row into a RunRecord.
func scanRun(row pgx.Row) (*domain.RunRecord, error) {
	var (
		r              domain.RunRecord
		volatilityUnit string
		blockTimeModel string
		seed           int64
	)

	err := row.Scan(
		&r.RunID, &r.CreatedAt,
		&r.Path.InitialPrice, &r.Path.Volatility, &volatilityUnit, &r.Path.Drift,
		&r.Path.StepSeconds, &r.Path.Steps, &blockTimeModel,
		&r.Pool.LiquidityUSD, &r.Pool.FeeBps, &r.Pool.BasefeeUSD, &r.Pool.DynamicFeeProportion,
		&r.PathCount, &seed, &r.Seeded,
		&r.Aggregate.Paths, &r.Aggregate.ProfitMean, &r.Aggregate.ProfitVariance,
		&r.Aggregate.LPFeesMean, &r.Aggregate.LPFeesVariance,
		&r.Aggregate.LVRMean, &r.Aggregate.LVRVariance, &r.Aggregate.BasefeesMean,
		&r.Aggregate.ProfitP10, &r.Aggregate.ProfitMedian, &r.Aggregate.ProfitP90,
		&r.Aggregate.TradesMean, &r.Aggregate.ArbProbability, &r.Aggregate.LPLossVsLVR,
		&r.Aggregate.TheoreticalLVR,
	)
	if err != nil {
		return nil, err
	}

	r.Path.VolatilityUnit = domain.VolatilityUnit(volatilityUnit)
	r.Path.BlockTimeModel = domain.BlockTimeModel(blockTimeModel)
	r.Seed = uint64(seed)

	return &r, nil
}

// scanRuns scans multiple rows into a slice of RunRecord.
func scanRuns(rows pgx.Rows) ([]*domain.RunRecord, error) {
	var runs []*domain.RunRecord

	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}

	return runs, nil
}
