package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/blockflow-go/internal/application/analysis/services"
	"github.com/andrescamacho/blockflow-go/internal/application/logging"
	"github.com/andrescamacho/blockflow-go/internal/application/mediator"
	"github.com/andrescamacho/blockflow-go/internal/domain/block"
	"github.com/andrescamacho/blockflow-go/internal/domain/shared"
	"github.com/andrescamacho/blockflow-go/pkg/utils"
)

// RecordSolutionCommand stores block reports in the solution history.
// All reports of one command share a run id prefixed with Trigger.
type RecordSolutionCommand struct {
	Reports []*services.BlockReport
	Trigger string // e.g. "analyze" or "watch"
}

// RecordSolutionResponse carries the run id
type RecordSolutionResponse struct {
	RunID    string
	Recorded int
}

// RecordSolutionHandler handles the RecordSolution command
type RecordSolutionHandler struct {
	repo  block.SolutionRepository
	clock shared.Clock
}

// NewRecordSolutionHandler creates a new RecordSolutionHandler
func NewRecordSolutionHandler(repo block.SolutionRepository, clock shared.Clock) *RecordSolutionHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &RecordSolutionHandler{repo: repo, clock: clock}
}

// Handle executes the RecordSolution command
func (h *RecordSolutionHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*RecordSolutionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RecordSolutionCommand")
	}
	if len(cmd.Reports) == 0 {
		return nil, shared.NewValidationError("reports", "at least one report is required")
	}

	runID := utils.GenerateRunID(cmd.Trigger)
	now := h.clock.Now()
	for _, report := range cmd.Reports {
		solution := &block.Solution{
			RunID:        runID,
			BlockID:      report.BlockID,
			Fingerprint:  report.Fingerprint,
			Score:        report.Score,
			Trials:       report.Trials,
			Truncated:    report.Truncated,
			Wanted:       report.Wanted,
			Exports:      report.Exports,
			NetRate:      report.NetRate,
			Efficiencies: report.Efficiencies,
			CreatedAt:    now,
		}
		if err := h.repo.Save(ctx, solution); err != nil {
			return nil, fmt.Errorf("failed to record solution for block %s: %w", report.BlockID, err)
		}
	}

	logging.LoggerFromContext(ctx).Log("INFO", "Solutions recorded", map[string]interface{}{
		"run_id": runID,
		"blocks": len(cmd.Reports),
	})

	return &RecordSolutionResponse{RunID: runID, Recorded: len(cmd.Reports)}, nil
}
