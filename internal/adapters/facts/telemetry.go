package facts

import (
	"context"
	"fmt"

	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
	"github.com/andrescamacho/blockflow-go/internal/domain/reachability"
)

type telemetryFile struct {
	Production   map[string]reachability.Stat `json:"production" yaml:"production"`
	Technologies []reachability.Technology    `json:"technologies,omitempty" yaml:"technologies,omitempty"`
}

// FileTelemetry reads production statistics and the technology table from
// a JSON or YAML file. Production keys use the "kind:name" form; a bare name
// is an item.
type FileTelemetry struct {
	path string
}

// NewFileTelemetry creates a telemetry provider for path
func NewFileTelemetry(path string) *FileTelemetry {
	return &FileTelemetry{path: path}
}

func (t *FileTelemetry) load() (*telemetryFile, error) {
	var file telemetryFile
	if _, err := decodeFile(t.path, &file); err != nil {
		return nil, fmt.Errorf("failed to load telemetry: %w", err)
	}
	return &file, nil
}

// ProductionStats implements reachability.StatsProvider
func (t *FileTelemetry) ProductionStats(ctx context.Context) (reachability.ProductionStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := t.load()
	if err != nil {
		return nil, err
	}

	stats := make(reachability.ProductionStats, len(file.Production))
	for key, stat := range file.Production {
		id, err := colon.Parse(key)
		if err != nil {
			id = colon.Item(key)
		}
		stats[id] = stat
	}
	return stats, nil
}

// Technologies implements reachability.StatsProvider
func (t *FileTelemetry) Technologies(ctx context.Context) ([]reachability.Technology, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := t.load()
	if err != nil {
		return nil, err
	}
	return file.Technologies, nil
}
