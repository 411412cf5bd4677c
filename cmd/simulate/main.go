// Package main runs a Monte-Carlo simulation of arbitrage between a
// constant-product pool and an external reference market, and reports
// per-run LP loss statistics against the closed-form expectation.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/config"
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/domain"
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/observability"
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/reporting"
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/simulation"
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/storage"
	chstore "github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/storage/clickhouse"
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/storage/memory"
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/storage/migrations"
	pgstore "github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/storage/postgres"
)

func main() {
	// Parse flags
	configDir := flag.String("config", "", "Directory containing config.yaml (flags override file values)")

	// Price path parameters
	initialPrice := flag.Float64("initial-price", 2000, "Initial CEX price")
	volatility := flag.Float64("volatility", 0.5, "Price volatility in the chosen unit")
	volatilityUnit := flag.String("volatility-unit", "per-year", "Volatility unit: per-year, per-day")
	drift := flag.Float64("drift", 0, "Price drift in the chosen unit")
	blockTimeSec := flag.Float64("block-time-sec", 12, "Seconds between blocks")
	steps := flag.Int("steps", 7200, "Number of blocks per path")
	blockTimeModel := flag.String("block-time-model", "uniform", "Block time model: uniform, poisson")

	// Pool parameters
	liquidityUSD := flag.Float64("liquidity-usd", 1_000_000_000, "Total pool value in USD at t=0")
	feeBps := flag.Float64("fee-bps", 5, "Swap fee in basis points")
	basefeeUSD := flag.Float64("basefee-usd", 0, "Fixed per-swap blockchain cost in USD")
	dynamicFee := flag.Float64("dynamic-fee-proportion", 0, "Dynamic fee as a proportion of price divergence (0 disables)")

	// Run parameters
	paths := flag.Int("paths", 100, "Number of independent paths")
	workers := flag.Int("workers", 0, "Worker goroutines (0 = GOMAXPROCS)")
	seed := flag.Uint64("seed", 0, "Deterministic RNG seed (omit for random)")
	randomizeStart := flag.Bool("randomize-start", false, "Start each path at a uniform price inside the no-arbitrage band")

	// Storage
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage")
	persistResult := flag.Bool("persist", false, "Persist run record and path statistics to storage")

	// Output
	outputJSON := flag.Bool("json", false, "Output as JSON")
	outputDir := flag.String("output-dir", "", "Write report.md and paths.csv into this directory")
	metricsAddr := flag.String("metrics-addr", "", "Expose Prometheus metrics on this address (e.g. :9090)")

	flag.Parse()
	seeded := flagWasSet("seed")

	// Setup logger
	logger := log.New(os.Stderr, "[simulate] ", log.LstdFlags)

	// Config file values apply only where the flag was not given explicitly.
	if *configDir != "" {
		cfg, err := config.LoadConfig(*configDir)
		if err != nil {
			logger.Fatalf("load config: %v", err)
		}
		applyConfig(cfg, map[string]func(){
			"initial-price":          func() { *initialPrice = cfg.Simulation.InitialPrice },
			"volatility":             func() { *volatility = cfg.Simulation.Volatility },
			"volatility-unit":        func() { *volatilityUnit = cfg.Simulation.VolatilityUnit },
			"drift":                  func() { *drift = cfg.Simulation.Drift },
			"block-time-sec":         func() { *blockTimeSec = cfg.Simulation.BlockTimeSec },
			"steps":                  func() { *steps = cfg.Simulation.Steps },
			"block-time-model":       func() { *blockTimeModel = cfg.Simulation.BlockTimeModel },
			"liquidity-usd":          func() { *liquidityUSD = cfg.Simulation.LiquidityUSD },
			"fee-bps":                func() { *feeBps = cfg.Simulation.FeeBps },
			"basefee-usd":            func() { *basefeeUSD = cfg.Simulation.BasefeeUSD },
			"dynamic-fee-proportion": func() { *dynamicFee = cfg.Simulation.DynamicFeeProportion },
			"paths":                  func() { *paths = cfg.Simulation.Paths },
			"workers":                func() { *workers = cfg.Simulation.Workers },
			"seed": func() {
				*seed = cfg.Simulation.Seed
				seeded = cfg.Simulation.Seeded
			},
			"randomize-start": func() { *randomizeStart = cfg.Simulation.RandomizeStart },
			"postgres-dsn":    func() { *postgresDSN = cfg.Storage.PostgresDSN },
			"clickhouse-dsn":  func() { *clickhouseDSN = cfg.Storage.ClickhouseDSN },
			"metrics-addr":    func() { *metricsAddr = cfg.Metrics.ListenAddr },
		})
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	metrics := observability.NewMetrics("")
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.Handler())
		go func() {
			logger.Printf("Serving metrics on %s/metrics", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Printf("metrics server stopped: %v", err)
			}
		}()
	}

	// Create stores
	var runStore storage.RunStore
	var pathStore storage.PathStatisticsStore
	if *persistResult {
		if *useMemory {
			runStore = memory.NewRunStore()
			pathStore = memory.NewPathStatisticsStore()
		} else {
			if *postgresDSN == "" {
				logger.Fatal("--postgres-dsn is required with --persist (run records)")
			}
			if *clickhouseDSN == "" {
				logger.Fatal("--clickhouse-dsn is required with --persist (path statistics)")
			}

			pool, err := pgstore.NewPool(ctx, *postgresDSN)
			if err != nil {
				logger.Fatalf("connect to postgres: %v", err)
			}
			defer pool.Close()
			if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
				logger.Fatalf("apply postgres migrations: %v", err)
			}
			runStore = pgstore.NewRunStore(pool)

			conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
			if err != nil {
				logger.Fatalf("connect to clickhouse: %v", err)
			}
			defer conn.Close()
			pathStore = chstore.NewPathStatisticsStore(conn)
		}
	}

	runner, err := simulation.NewRunner(simulation.RunnerOptions{
		Path: domain.PathParameters{
			InitialPrice:   *initialPrice,
			Volatility:     *volatility,
			VolatilityUnit: domain.VolatilityUnit(*volatilityUnit),
			Drift:          *drift,
			StepSeconds:    *blockTimeSec,
			Steps:          *steps,
			BlockTimeModel: domain.BlockTimeModel(*blockTimeModel),
		},
		Pool: domain.PoolParameters{
			LiquidityUSD:         *liquidityUSD,
			FeeBps:               *feeBps,
			BasefeeUSD:           *basefeeUSD,
			DynamicFeeProportion: *dynamicFee,
		},
		Workers:        *workers,
		Seed:           *seed,
		Seeded:         seeded,
		RandomizeStart: *randomizeStart,
		Metrics:        metrics,
	})
	if err != nil {
		logger.Fatalf("invalid parameters: %v", err)
	}

	logger.Printf("Running simulation: paths=%d steps=%d fee=%.1fbps liquidity=$%.0f",
		*paths, *steps, *feeBps, *liquidityUSD)

	started := time.Now()
	agg, pathStats, err := runner.Run(ctx, *paths)
	if err != nil {
		logger.Fatalf("simulation failed: %v", err)
	}
	logger.Printf("Completed %d paths in %s", agg.Paths, time.Since(started).Round(time.Millisecond))

	run := runner.Record(agg, *paths)

	// Persist
	if *persistResult {
		if err := runStore.Insert(ctx, run); err != nil {
			logger.Fatalf("persist run: %v", err)
		}
		if err := pathStore.InsertBulk(ctx, run.RunID, pathStats); err != nil {
			logger.Fatalf("persist path statistics: %v", err)
		}
		logger.Printf("Persisted run %s", run.RunID)
	}

	report := reporting.NewGenerator().Generate(run, pathStats)

	// Output
	if *outputDir != "" {
		if err := os.MkdirAll(*outputDir, 0o755); err != nil {
			logger.Fatalf("create output dir: %v", err)
		}
		mdPath := filepath.Join(*outputDir, "report.md")
		if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
			logger.Fatalf("write %s: %v", mdPath, err)
		}
		csvPath := filepath.Join(*outputDir, "paths.csv")
		if err := os.WriteFile(csvPath, []byte(reporting.RenderPathsCSV(report.PathRows)), 0o644); err != nil {
			logger.Fatalf("write %s: %v", csvPath, err)
		}
		logger.Printf("Wrote %s and %s", mdPath, csvPath)
	}

	if *outputJSON {
		output, _ := json.MarshalIndent(run, "", "  ")
		fmt.Println(string(output))
	} else {
		printRunSummary(run)
	}
}

// flagWasSet reports whether the named flag was given on the command line.
func flagWasSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// applyConfig runs the setter for every flag the user did not set explicitly.
func applyConfig(_ config.Config, setters map[string]func()) {
	for name, apply := range setters {
		if !flagWasSet(name) {
			apply()
		}
	}
}

// printRunSummary outputs a human-readable run summary.
func printRunSummary(r *domain.RunRecord) {
	agg := r.Aggregate
	fmt.Println()
	fmt.Println("=== Simulation Result ===")
	fmt.Printf("Run ID:             %s\n", r.RunID)
	fmt.Printf("Paths:              %d\n", agg.Paths)
	fmt.Printf("Steps per path:     %d x %.0fs\n", r.Path.Steps, r.Path.StepSeconds)
	fmt.Println()
	fmt.Printf("Arb profit mean:    $%.2f\n", agg.ProfitMean)
	fmt.Printf("Arb profit P10/50/90: $%.2f / $%.2f / $%.2f\n", agg.ProfitP10, agg.ProfitMedian, agg.ProfitP90)
	fmt.Printf("LP fees mean:       $%.2f\n", agg.LPFeesMean)
	fmt.Printf("LVR mean:           $%.2f\n", agg.LVRMean)
	fmt.Printf("Theoretical LVR:    $%.2f\n", agg.TheoreticalLVR)
	fmt.Printf("Basefees mean:      $%.2f\n", agg.BasefeesMean)
	fmt.Printf("Trades per path:    %.1f\n", agg.TradesMean)
	fmt.Printf("Arb probability:    %.4f\n", agg.ArbProbability)
	fmt.Printf("LP loss vs LVR:     %.4f\n", agg.LPLossVsLVR)
}
