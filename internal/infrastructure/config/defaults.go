package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/andrescamacho/blockflow-go/internal/domain/efficiency"
)

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" && cfg.Database.Type == "sqlite" {
		cfg.Database.Path = "blockflow.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "blockflow"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "blockflow"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.BusyTimeout == 0 {
		cfg.Database.BusyTimeout = 5 * time.Second
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Solver defaults
	if cfg.Solver.Trials == 0 {
		cfg.Solver.Trials = efficiency.DefaultTrials
	}
	if cfg.Solver.Iterations == 0 {
		cfg.Solver.Iterations = efficiency.DefaultIterations
	}
	if cfg.Solver.Step == 0 {
		cfg.Solver.Step = efficiency.DefaultStep
	}
	if cfg.Solver.Parallelism == 0 {
		cfg.Solver.Parallelism = 4
	}
	if cfg.Solver.CacheTTL == 0 {
		cfg.Solver.CacheTTL = 10 * time.Minute
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
	if cfg.Logging.Service == "" {
		cfg.Logging.Service = "blockflow"
	}

	// Metrics defaults
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// Watch defaults
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.MaxRate == 0 {
		cfg.Watch.MaxRate = 0.2
	}
	if cfg.Watch.Burst == 0 {
		cfg.Watch.Burst = 1
	}
	if cfg.Watch.PIDFile == "" {
		cfg.Watch.PIDFile = filepath.Join(os.TempDir(), "blockflow-watch.pid")
	}

	// Facts defaults
	if cfg.Facts.Catalog == "" {
		cfg.Facts.Catalog = "facts/catalog.yaml"
	}
	if cfg.Facts.Blocks == "" {
		cfg.Facts.Blocks = "facts/blocks.yaml"
	}
}

// SolverOptions converts solver settings to efficiency solver options
func (c SolverConfig) SolverOptions() efficiency.Options {
	return efficiency.Options{
		Trials:     c.Trials,
		Iterations: c.Iterations,
		Step:       c.Step,
		Seed:       c.Seed,
		Budget:     c.Budget,
	}
}
