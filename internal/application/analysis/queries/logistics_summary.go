package queries

import (
	"context"
	"fmt"
	"sort"

	"github.com/andrescamacho/blockflow-go/internal/adapters/metrics"
	"github.com/andrescamacho/blockflow-go/internal/application/mediator"
	"github.com/andrescamacho/blockflow-go/internal/domain/block"
	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
	"github.com/andrescamacho/blockflow-go/internal/domain/logistics"
)

// LogisticsSummaryQuery summarizes station stock. An empty BlockID covers
// every block.
type LogisticsSummaryQuery struct {
	BlockID string
}

// StationSummary is the summary of one station
type StationSummary struct {
	BlockID string
	Station string
	Summary logistics.Summary
}

// LogisticsSummaryResponse carries per-station and per-block summaries
type LogisticsSummaryResponse struct {
	Stations  []StationSummary
	Blocks    map[string]logistics.Summary
	Shortages map[string][]colon.ID
}

// LogisticsSummaryHandler handles the LogisticsSummary query
type LogisticsSummaryHandler struct {
	source block.Source
	stacks logistics.StackSizes
}

// NewLogisticsSummaryHandler creates a new LogisticsSummaryHandler
func NewLogisticsSummaryHandler(source block.Source, stacks logistics.StackSizes) *LogisticsSummaryHandler {
	return &LogisticsSummaryHandler{source: source, stacks: stacks}
}

// Handle executes the LogisticsSummary query
func (h *LogisticsSummaryHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*LogisticsSummaryQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *LogisticsSummaryQuery")
	}

	var blocks []block.Block
	if query.BlockID != "" {
		b, err := findBlock(ctx, h.source, query.BlockID)
		if err != nil {
			return nil, err
		}
		blocks = []block.Block{b}
	} else {
		all, err := h.source.Blocks(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load blocks: %w", err)
		}
		blocks = all
	}

	resp := &LogisticsSummaryResponse{
		Blocks:    make(map[string]logistics.Summary),
		Shortages: make(map[string][]colon.ID),
	}
	for _, b := range blocks {
		if len(b.Stations) == 0 {
			continue
		}
		for _, st := range b.Stations {
			resp.Stations = append(resp.Stations, StationSummary{
				BlockID: b.ID,
				Station: st.Name,
				Summary: logistics.SummarizeStation(st, h.stacks),
			})
		}
		summary := logistics.Summarize(b.Stations, h.stacks)
		resp.Blocks[b.ID] = summary
		shortages := summary.Shortages()
		metrics.RecordShortages(b.ID, len(shortages))
		if len(shortages) > 0 {
			resp.Shortages[b.ID] = shortages
		}
	}

	sort.SliceStable(resp.Stations, func(i, j int) bool {
		return resp.Stations[i].BlockID < resp.Stations[j].BlockID
	})
	return resp, nil
}
