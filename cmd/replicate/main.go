// Package main reproduces the arbitrage probability and LP loss tables over
// a grid of block times and swap fees.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/domain"
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/reporting"
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/simulation"
)

func main() {
	// Parse flags
	blockTimes := flag.String("block-times", "", "Comma-separated block times in seconds (default 2,12,120,600)")
	fees := flag.String("fees", "", "Comma-separated swap fees in bps (default 1,5,10,30,100)")
	volatility := flag.Float64("volatility", 0.05, "Per-day volatility")
	horizonSec := flag.Float64("horizon-sec", 300_000, "Simulated horizon per path in seconds")
	paths := flag.Int("paths", 50, "Number of paths per grid cell")
	liquidityUSD := flag.Float64("liquidity-usd", 1_000_000_000, "Total pool value in USD at t=0")
	basefeeUSD := flag.Float64("basefee-usd", 0, "Fixed per-swap blockchain cost in USD")
	blockTimeModel := flag.String("block-time-model", "uniform", "Block time model: uniform, poisson")
	seed := flag.Uint64("seed", 0, "Deterministic RNG seed (omit for random)")
	workers := flag.Int("workers", 0, "Worker goroutines per cell (0 = GOMAXPROCS)")
	quick := flag.Bool("quick", false, "Estimate arb probability with the fast price-ratio walk only")
	outputDir := flag.String("output-dir", "", "Write replication tables as CSV into this directory")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[replicate] ", log.LstdFlags)

	opts := simulation.DefaultReplicationOptions()
	opts.VolatilityPerDay = *volatility
	opts.HorizonSeconds = *horizonSec
	opts.PathCount = *paths
	opts.LiquidityUSD = *liquidityUSD
	opts.BasefeeUSD = *basefeeUSD
	opts.BlockTimeModel = domain.BlockTimeModel(*blockTimeModel)
	opts.Seed = *seed
	opts.Seeded = flagWasSet("seed")
	opts.Workers = *workers

	var err error
	if *blockTimes != "" {
		if opts.BlockTimesSec, err = parseFloats(*blockTimes); err != nil {
			logger.Fatalf("invalid --block-times: %v", err)
		}
	}
	if *fees != "" {
		if opts.FeeBps, err = parseFloats(*fees); err != nil {
			logger.Fatalf("invalid --fees: %v", err)
		}
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	logger.Printf("Replicating grid: block times %v x fees %v bps, %d paths/cell",
		opts.BlockTimesSec, opts.FeeBps, opts.PathCount)

	started := time.Now()
	var tables []*simulation.ReplicationTable
	if *quick {
		table, err := simulation.ReplicateQuick(ctx, opts)
		if err != nil {
			logger.Fatalf("replication failed: %v", err)
		}
		tables = []*simulation.ReplicationTable{table}
	} else {
		tables, err = simulation.ReplicateFull(ctx, opts)
		if err != nil {
			logger.Fatalf("replication failed: %v", err)
		}
	}
	logger.Printf("Completed grid in %s", time.Since(started).Round(time.Millisecond))

	for _, table := range tables {
		fmt.Print(reporting.RenderReplicationMarkdown(table))
	}

	if *outputDir != "" {
		if err := os.MkdirAll(*outputDir, 0o755); err != nil {
			logger.Fatalf("create output dir: %v", err)
		}
		for _, table := range tables {
			name := strings.ReplaceAll(table.Metric, " ", "_") + ".csv"
			path := filepath.Join(*outputDir, name)
			if err := os.WriteFile(path, []byte(reporting.RenderReplicationCSV(table)), 0o644); err != nil {
				logger.Fatalf("write %s: %v", path, err)
			}
			logger.Printf("Wrote %s", path)
		}
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

// parseFloats parses a comma-separated list of numbers.
func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	values := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", part, err)
		}
		values = append(values, v)
	}
	return values, nil
}
