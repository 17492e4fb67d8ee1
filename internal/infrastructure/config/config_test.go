package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/blockflow-go/internal/domain/efficiency"
	"github.com/andrescamacho/blockflow-go/internal/infrastructure/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig_DefaultsApply(t *testing.T) {
	// Arrange
	path := writeConfig(t, "logging:\n  level: debug\n")

	// Act
	cfg, err := config.LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, efficiency.DefaultTrials, cfg.Solver.Trials)
	assert.Equal(t, efficiency.DefaultIterations, cfg.Solver.Iterations)
	assert.Equal(t, efficiency.DefaultStep, cfg.Solver.Step)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadConfig_FileValues(t *testing.T) {
	path := writeConfig(t, `
solver:
  trials: 50
  iterations: 20
  step: 0.1
  seed: 42
  budget: 2s
  parallelism: 8
facts:
  catalog: /data/catalog.json
  blocks: /data/blocks.json
metrics:
  enabled: true
  port: 9100
`)

	cfg, err := config.LoadConfig(path)

	require.NoError(t, err)
	opts := cfg.Solver.SolverOptions()
	assert.Equal(t, 50, opts.Trials)
	assert.Equal(t, 20, opts.Iterations)
	assert.Equal(t, 0.1, opts.Step)
	assert.Equal(t, uint64(42), opts.Seed)
	assert.Equal(t, 2*time.Second, opts.Budget)
	assert.Equal(t, 8, cfg.Solver.Parallelism)
	assert.Equal(t, "/data/catalog.json", cfg.Facts.Catalog)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9100, cfg.Metrics.Port)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "solver:\n  trials: 50\n")
	t.Setenv("BF_SOLVER_TRIALS", "75")

	cfg, err := config.LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, 75, cfg.Solver.Trials)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: verbose\n")

	_, err := config.LoadConfig(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoadConfig_FileOutputNeedsPath(t *testing.T) {
	path := writeConfig(t, "logging:\n  output: file\n")

	_, err := config.LoadConfig(path)

	assert.Error(t, err)
}

func TestLoadConfigOrDefault_FallsBack(t *testing.T) {
	path := writeConfig(t, "solver:\n  step: 7\n")

	cfg := config.LoadConfigOrDefault(path)

	assert.Equal(t, efficiency.DefaultStep, cfg.Solver.Step)
}

func TestUserConfigHandler_RoundTrip(t *testing.T) {
	// Arrange
	h, err := config.NewUserConfigHandlerAt(t.TempDir())
	require.NoError(t, err)

	// Act
	require.NoError(t, h.SetDefaultBlock("3,-2"))
	require.NoError(t, h.SetIntent("item:iron-plate", "export"))
	loaded, err := h.Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "3,-2", loaded.DefaultBlock)
	assert.Equal(t, map[string]string{"item:iron-plate": "export"}, loaded.Classification)

	require.NoError(t, h.Clear())
	loaded, err = h.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded.DefaultBlock)
}

func TestUserConfigHandler_RejectsBadClassification(t *testing.T) {
	dir := t.TempDir()
	h, err := config.NewUserConfigHandlerAt(dir)
	require.NoError(t, err)

	for _, body := range []string{
		`{"classification": {"item:plate": "hoard"}}`,
		`{"classification": {"plate": "export"}}`,
	} {
		require.NoError(t, os.WriteFile(h.GetConfigPath(), []byte(body), 0644))

		_, err := h.Load()

		assert.Error(t, err, body)
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
		want string
	}{
		{"memory", config.DatabaseConfig{Type: "sqlite", Path: ":memory:", BusyTimeout: time.Second}, ":memory:"},
		{"file with busy timeout", config.DatabaseConfig{Type: "sqlite", Path: "h.db", BusyTimeout: 5 * time.Second}, "h.db?_busy_timeout=5000"},
		{"file with own params", config.DatabaseConfig{Type: "sqlite", Path: "h.db?cache=shared", BusyTimeout: time.Second}, "h.db?cache=shared"},
		{"postgres url wins", config.DatabaseConfig{Type: "postgres", URL: "postgresql://x@db/h", Host: "ignored"}, "postgresql://x@db/h"},
		{"postgres fields", config.DatabaseConfig{Type: "postgres", Host: "db", Port: 5432, User: "u", Password: "p", Name: "h", SSLMode: "disable"},
			"host=db port=5432 user=u password=p dbname=h sslmode=disable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.DSN())
		})
	}
}

func TestMetricsConfig_Addr(t *testing.T) {
	cfg := config.MetricsConfig{Host: "localhost", Port: 9100}

	assert.Equal(t, "localhost:9100", cfg.Addr())
}

func TestLoadConfig_MetricsPathMustBeAbsolute(t *testing.T) {
	path := writeConfig(t, "metrics:\n  path: metrics\n")

	_, err := config.LoadConfig(path)

	assert.Error(t, err)
}
