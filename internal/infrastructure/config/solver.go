package config

import "time"

// SolverConfig holds efficiency solver and analysis settings
type SolverConfig struct {
	// Random restarts per solve
	Trials int `mapstructure:"trials" validate:"min=1"`

	// Hill-climb sweeps per restart
	Iterations int `mapstructure:"iterations" validate:"min=1"`

	// Nudge size on the unit interval
	Step float64 `mapstructure:"step" validate:"gt=0,lte=1"`

	// Fixed seed; 0 seeds from the clock
	Seed uint64 `mapstructure:"seed"`

	// Wall-clock budget per solve; 0 means unbounded
	Budget time.Duration `mapstructure:"budget" validate:"min=0"`

	// Blocks analyzed concurrently by network-wide analysis
	Parallelism int `mapstructure:"parallelism" validate:"min=1,max=256"`

	// How long memoized solutions stay valid; 0 keeps them forever
	CacheTTL time.Duration `mapstructure:"cache_ttl" validate:"min=0"`
}

// WatchConfig holds fact file watcher settings
type WatchConfig struct {
	// Quiet period after the last change before re-analysis
	Debounce time.Duration `mapstructure:"debounce" validate:"required"`

	// Maximum re-analyses per second
	MaxRate float64 `mapstructure:"max_rate" validate:"gt=0"`

	// Re-analyses allowed in a burst
	Burst int `mapstructure:"burst" validate:"min=1"`

	// Single-instance lock for the watcher
	PIDFile string `mapstructure:"pid_file"`
}

// FactsConfig points at the fact files produced by the ingestion pipeline
type FactsConfig struct {
	Catalog   string `mapstructure:"catalog"`
	Blocks    string `mapstructure:"blocks"`
	Telemetry string `mapstructure:"telemetry"`
}
