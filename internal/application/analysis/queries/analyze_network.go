package queries

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/andrescamacho/blockflow-go/internal/application/analysis/services"
	"github.com/andrescamacho/blockflow-go/internal/application/logging"
	"github.com/andrescamacho/blockflow-go/internal/application/mediator"
	"github.com/andrescamacho/blockflow-go/internal/domain/block"
	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
	"github.com/andrescamacho/blockflow-go/internal/domain/shared"
)

// AnalyzeNetworkQuery analyzes every block of the network
type AnalyzeNetworkQuery struct {
	// Parallelism bounds concurrent solves; zero uses the handler default
	Parallelism int `validate:"gte=0"`

	// Classification overrides applied to every block
	Classification map[string]string `validate:"dive,keys,required,endkeys,oneof=import export internal ignore"`
}

// AnalyzeNetworkResponse lists block reports sorted by block id.
// Blocks without units are listed in Skipped.
type AnalyzeNetworkResponse struct {
	Reports []*services.BlockReport
	Skipped []string
}

// AnalyzeNetworkHandler handles the AnalyzeNetwork query
type AnalyzeNetworkHandler struct {
	source             block.Source
	analyzer           *services.BlockAnalyzer
	defaultParallelism int
}

// NewAnalyzeNetworkHandler creates a new AnalyzeNetworkHandler
func NewAnalyzeNetworkHandler(source block.Source, analyzer *services.BlockAnalyzer, parallelism int) *AnalyzeNetworkHandler {
	if parallelism <= 0 {
		parallelism = 1
	}
	return &AnalyzeNetworkHandler{source: source, analyzer: analyzer, defaultParallelism: parallelism}
}

// Handle executes the AnalyzeNetwork query
func (h *AnalyzeNetworkHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*AnalyzeNetworkQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *AnalyzeNetworkQuery")
	}
	if err := validate.Struct(query); err != nil {
		return nil, fmt.Errorf("invalid network query: %w", err)
	}

	overrides, err := colon.ParseClassification(query.Classification)
	if err != nil {
		return nil, fmt.Errorf("invalid classification: %w", err)
	}

	blocks, err := h.source.Blocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load blocks: %w", err)
	}

	parallelism := query.Parallelism
	if parallelism == 0 {
		parallelism = h.defaultParallelism
	}

	logger := logging.LoggerFromContext(ctx)
	logger.Log("INFO", "Analyzing network", map[string]interface{}{
		"blocks":      len(blocks),
		"parallelism": parallelism,
	})

	reports := make([]*services.BlockReport, len(blocks))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i, b := range blocks {
		i, b := i, b
		g.Go(func() error {
			report, err := h.analyzer.Analyze(gCtx, b, overrides)
			var emptyErr *shared.EmptyBlockError
			if errors.As(err, &emptyErr) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("block %s: %w", b.ID, err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &AnalyzeNetworkResponse{}
	for i, report := range reports {
		if report == nil {
			resp.Skipped = append(resp.Skipped, blocks[i].ID)
			continue
		}
		resp.Reports = append(resp.Reports, report)
	}
	sort.Slice(resp.Reports, func(i, j int) bool { return resp.Reports[i].BlockID < resp.Reports[j].BlockID })
	sort.Strings(resp.Skipped)
	return resp, nil
}
