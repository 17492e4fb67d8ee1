package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// Namespace for all metrics
	namespace = "blockflow"
	// Subsystem for analysis engine metrics
	subsystem = "engine"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalAnalysisCollector is the singleton analysis metrics collector
	// Set by SetGlobalAnalysisCollector() when metrics are enabled
	globalAnalysisCollector AnalysisMetricsRecorder

	// globalWatchCollector is the singleton watch metrics collector
	globalWatchCollector WatchMetricsRecorder
)

// AnalysisMetricsRecorder defines the interface for recording pipeline events
type AnalysisMetricsRecorder interface {
	RecordSolve(actions int, trials int, duration float64, truncated bool)
	RecordCacheLookup(hit bool)
	RecordReachability(rounds int, converged bool)
	RecordShortages(blockID string, count int)
}

// WatchMetricsRecorder defines the interface for recording watch loop events
type WatchMetricsRecorder interface {
	RecordFactChange(path string)
	RecordReanalysis(duration float64, success bool)
	RecordThrottled()
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// Handler serves the registry in the Prometheus text format
func Handler() http.Handler {
	if Registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

// SetGlobalAnalysisCollector sets the global analysis metrics collector
func SetGlobalAnalysisCollector(collector AnalysisMetricsRecorder) {
	globalAnalysisCollector = collector
}

// RecordSolve records a finished efficiency solve globally
func RecordSolve(actions int, trials int, duration float64, truncated bool) {
	if globalAnalysisCollector != nil {
		globalAnalysisCollector.RecordSolve(actions, trials, duration, truncated)
	}
}

// RecordCacheLookup records a solution cache hit or miss globally
func RecordCacheLookup(hit bool) {
	if globalAnalysisCollector != nil {
		globalAnalysisCollector.RecordCacheLookup(hit)
	}
}

// RecordReachability records a reachability walk globally
func RecordReachability(rounds int, converged bool) {
	if globalAnalysisCollector != nil {
		globalAnalysisCollector.RecordReachability(rounds, converged)
	}
}

// RecordShortages records the shortage count of a block globally
func RecordShortages(blockID string, count int) {
	if globalAnalysisCollector != nil {
		globalAnalysisCollector.RecordShortages(blockID, count)
	}
}

// SetGlobalWatchCollector sets the global watch metrics collector
func SetGlobalWatchCollector(collector WatchMetricsRecorder) {
	globalWatchCollector = collector
}

// RecordFactChange records a fact file change globally
func RecordFactChange(path string) {
	if globalWatchCollector != nil {
		globalWatchCollector.RecordFactChange(path)
	}
}

// RecordReanalysis records one watch-triggered analysis globally
func RecordReanalysis(duration float64, success bool) {
	if globalWatchCollector != nil {
		globalWatchCollector.RecordReanalysis(duration, success)
	}
}

// RecordThrottled records a change that waited on the rate limiter globally
func RecordThrottled() {
	if globalWatchCollector != nil {
		globalWatchCollector.RecordThrottled()
	}
}
