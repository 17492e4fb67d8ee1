package metrics

import (
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
)

// WatchMetricsCollector handles metrics of the fact watch loop
type WatchMetricsCollector struct {
	factChanges        *prometheus.CounterVec
	reanalysisTotal    *prometheus.CounterVec
	reanalysisDuration prometheus.Histogram
	throttledTotal     prometheus.Counter
}

// NewWatchMetricsCollector creates a new watch metrics collector
func NewWatchMetricsCollector() *WatchMetricsCollector {
	return &WatchMetricsCollector{
		factChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "watch",
				Name:      "fact_changes_total",
				Help:      "Fact file change events by file name",
			},
			[]string{"file"},
		),

		reanalysisTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "watch",
				Name:      "reanalysis_total",
				Help:      "Re-analyses triggered by fact changes by status",
			},
			[]string{"status"},
		),

		reanalysisDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "watch",
				Name:      "reanalysis_duration_seconds",
				Help:      "Wall time of watch-triggered analyses",
				Buckets:   []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
		),

		throttledTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "watch",
				Name:      "throttled_total",
				Help:      "Re-analyses delayed by the rate limiter",
			},
		),
	}
}

// Register registers all watch metrics with the Prometheus registry
func (c *WatchMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.factChanges,
		c.reanalysisTotal,
		c.reanalysisDuration,
		c.throttledTotal,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordFactChange records a change event; only the base name is used as label
func (c *WatchMetricsCollector) RecordFactChange(path string) {
	c.factChanges.WithLabelValues(filepath.Base(path)).Inc()
}

// RecordReanalysis records one watch-triggered analysis
func (c *WatchMetricsCollector) RecordReanalysis(duration float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	c.reanalysisTotal.WithLabelValues(status).Inc()
	c.reanalysisDuration.Observe(duration)
}

// RecordThrottled records a re-analysis that waited on the rate limiter
func (c *WatchMetricsCollector) RecordThrottled() {
	c.throttledTotal.Inc()
}
