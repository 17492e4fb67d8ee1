package reachability

import (
	"context"

	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
)

// Stat is the cumulative production counter of one id
type Stat struct {
	InputTotal  float64 `json:"input_total" yaml:"input_total"`
	OutputTotal float64 `json:"output_total" yaml:"output_total"`
}

// ProductionStats holds cumulative counters keyed by id
type ProductionStats map[colon.ID]Stat

// Technology gates recipes behind research
type Technology struct {
	Name       string   `json:"name" yaml:"name"`
	Researched bool     `json:"researched" yaml:"researched"`
	Requires   []string `json:"requires,omitempty" yaml:"requires,omitempty"`
	Unlocks    []string `json:"unlocks,omitempty" yaml:"unlocks,omitempty"`
}

// StatsProvider is the telemetry port feeding reachability
type StatsProvider interface {
	ProductionStats(ctx context.Context) (ProductionStats, error)
	Technologies(ctx context.Context) ([]Technology, error)
}

// HaveMade returns the ids with a strictly positive historical input total
func HaveMade(stats ProductionStats) colon.Set {
	made := make(colon.Set)
	for id, s := range stats {
		if s.InputTotal > 0 {
			made.Add(id)
		}
	}
	return made
}
