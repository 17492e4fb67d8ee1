package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// AnalysisMetricsCollector handles solver, cache, reachability and logistics metrics
type AnalysisMetricsCollector struct {
	solveDuration  prometheus.Histogram
	solvesTotal    *prometheus.CounterVec
	solveActions   prometheus.Histogram
	solveTrials    prometheus.Histogram
	cacheLookups   *prometheus.CounterVec
	reachRounds    prometheus.Histogram
	reachWalks     *prometheus.CounterVec
	blockShortages *prometheus.GaugeVec
}

// NewAnalysisMetricsCollector creates a new analysis metrics collector
func NewAnalysisMetricsCollector() *AnalysisMetricsCollector {
	return &AnalysisMetricsCollector{
		solveDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "solve_duration_seconds",
				Help:      "Efficiency solve wall time distribution",
				Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
		),

		solvesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "solves_total",
				Help:      "Total number of efficiency solves by outcome",
			},
			[]string{"outcome"},
		),

		solveActions: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "solve_actions",
				Help:      "Distinct merged actions per solve",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
			},
		),

		solveTrials: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "solve_trials",
				Help:      "Trials completed per solve",
				Buckets:   []float64{1, 10, 100, 250, 500, 1000, 2000},
			},
		),

		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "solution_cache_lookups_total",
				Help:      "Solution cache lookups by result",
			},
			[]string{"result"},
		),

		reachRounds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "reachability_rounds",
				Help:      "Relaxation rounds per reachability walk",
				Buckets:   []float64{1, 2, 3, 5, 10, 20, 50},
			},
		),

		reachWalks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "reachability_walks_total",
				Help:      "Reachability walks by convergence",
			},
			[]string{"converged"},
		),

		blockShortages: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "block_shortages",
				Help:      "Number of provided or requested ids below their transfer threshold",
			},
			[]string{"block_id"},
		),
	}
}

// Register registers all analysis metrics with the Prometheus registry
func (c *AnalysisMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.solveDuration,
		c.solvesTotal,
		c.solveActions,
		c.solveTrials,
		c.cacheLookups,
		c.reachRounds,
		c.reachWalks,
		c.blockShortages,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordSolve records a finished efficiency solve
func (c *AnalysisMetricsCollector) RecordSolve(actions int, trials int, duration float64, truncated bool) {
	outcome := "complete"
	if truncated {
		outcome = "truncated"
	}
	c.solvesTotal.WithLabelValues(outcome).Inc()
	c.solveDuration.Observe(duration)
	c.solveActions.Observe(float64(actions))
	c.solveTrials.Observe(float64(trials))
}

// RecordCacheLookup records a solution cache hit or miss
func (c *AnalysisMetricsCollector) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(result).Inc()
}

// RecordReachability records a reachability walk
func (c *AnalysisMetricsCollector) RecordReachability(rounds int, converged bool) {
	c.reachRounds.Observe(float64(rounds))
	c.reachWalks.WithLabelValues(strconv.FormatBool(converged)).Inc()
}

// RecordShortages records the current shortage count of a block
func (c *AnalysisMetricsCollector) RecordShortages(blockID string, count int) {
	c.blockShortages.WithLabelValues(blockID).Set(float64(count))
}
