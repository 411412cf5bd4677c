// Package main drives a simulated constant-product pool with live CEX
// prices, printing the arbitrage trades the price stream would allow.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/arbitrage"
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/dex"
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/domain"
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/feed"
	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/observability"
)

func main() {
	// Parse flags
	symbol := flag.String("symbol", "ethusdt", "Binance trading pair")
	liquidityUSD := flag.Float64("liquidity-usd", 1_000_000_000, "Total pool value in USD at the first tick")
	feeBps := flag.Float64("fee-bps", 5, "Swap fee in basis points")
	basefeeUSD := flag.Float64("basefee-usd", 0, "Fixed per-swap blockchain cost in USD")
	metricsAddr := flag.String("metrics-addr", "", "Expose Prometheus metrics on this address (e.g. :9090)")

	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	metrics := observability.NewMetrics("")
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.Handler())
		go func() {
			logger.Info("serving metrics", "addr", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
	}

	source, err := feed.NewBinanceSource(feed.BinanceOptions{
		Symbol:  *symbol,
		Logger:  logger,
		Metrics: metrics,
	})
	if err != nil {
		logger.Error("create price source", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("shutting down", "signal", sig.String())
		cancel()
	}()

	ticks := make(chan feed.PriceTick, 64)
	go func() {
		if err := source.Stream(ctx, ticks); err != nil {
			logger.Error("price stream failed", "error", err)
		}
		close(ticks)
	}()

	poolParams := domain.PoolParameters{
		LiquidityUSD: *liquidityUSD,
		FeeBps:       *feeBps,
		BasefeeUSD:   *basefeeUSD,
	}
	engine := arbitrage.NewEngine(arbitrage.NewMaximalStrategy())

	// The pool is initialized at the first observed price, so the stream
	// starts inside the no-arbitrage band.
	var pool *dex.Pool
	for tick := range ticks {
		if pool == nil {
			pool, err = dex.NewPool(poolParams, tick.Price)
			if err != nil {
				logger.Error("create pool", "error", err)
				os.Exit(1)
			}
			logger.Info("pool initialized",
				"symbol", tick.Symbol, "price", tick.Price, "liquidity_usd", *liquidityUSD)
			continue
		}

		trade, err := engine.Step(pool, tick.Price)
		if err != nil {
			logger.Error("arbitrage step failed", "error", err, "price", tick.Price)
			continue
		}
		if trade == nil {
			continue
		}

		metrics.TradesExecuted.Inc()
		logger.Info("arbitrage trade",
			"cex_price", tick.Price,
			"pool_price", pool.MarginalPrice(),
			"profit_usd", trade.Profit,
			"lp_fee_usd", trade.LPFee,
			"lvr_usd", trade.LVR,
			"cum_lvr_usd", pool.LVRUSD,
			"cum_lp_fees_usd", pool.LPFeesUSD,
			"trades", pool.NumTrades,
		)
	}

	if pool != nil {
		logger.Info("session totals",
			"trades", pool.NumTrades,
			"volume_usd", pool.VolumeUSD,
			"lvr_usd", pool.LVRUSD,
			"lp_fees_usd", pool.LPFeesUSD,
			"arb_profit_usd", pool.ArbProfitsUSD,
		)
	}
}
