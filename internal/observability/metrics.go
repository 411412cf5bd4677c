// Package observability provides Prometheus metrics for monitoring
// long-running simulation batches.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the simulator.
type Metrics struct {
	// Simulation metrics
	PathsSimulated prometheus.Counter
	PathsDiscarded prometheus.Counter
	StepsProcessed prometheus.Counter
	TradesExecuted prometheus.Counter
	RunsCompleted  prometheus.Counter

	// Latency metrics
	PathDuration prometheus.Histogram
	RunDuration  prometheus.Histogram

	// Feed metrics
	FeedTicksReceived prometheus.Counter
	FeedReconnects    prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "cex_dex_arb"
	}

	return &Metrics{
		PathsSimulated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "paths_simulated_total",
			Help:      "Total number of price paths simulated to completion",
		}),
		PathsDiscarded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "paths_discarded_total",
			Help:      "Total number of paths discarded and redrawn after a failed step",
		}),
		StepsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "steps_processed_total",
			Help:      "Total number of per-path time steps processed",
		}),
		TradesExecuted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "trades_executed_total",
			Help:      "Total number of arbitrage trades applied to pools",
		}),
		RunsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "runs_completed_total",
			Help:      "Total number of Monte-Carlo runs completed",
		}),
		PathDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "path_duration_seconds",
			Help:      "Wall-clock time to simulate one path",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock time to complete a run",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}),
		FeedTicksReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "ticks_received_total",
			Help:      "Total number of price ticks received from the live feed",
		}),
		FeedReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "reconnects_total",
			Help:      "Total number of feed reconnection attempts",
		}),
	}
}

// Handler returns an HTTP handler exposing the registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
