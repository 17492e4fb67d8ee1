package queries

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/blockflow-go/internal/application/analysis/services"
	"github.com/andrescamacho/blockflow-go/internal/application/mediator"
	"github.com/andrescamacho/blockflow-go/internal/domain/block"
	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
	"github.com/andrescamacho/blockflow-go/internal/domain/shared"
)

var validate = validator.New()

// AnalyzeBlockQuery solves the efficiencies of one block
type AnalyzeBlockQuery struct {
	BlockID string `validate:"required"`

	// Classification overrides, "kind:name" -> intent
	Classification map[string]string `validate:"dive,keys,required,endkeys,oneof=import export internal ignore"`
}

// AnalyzeBlockResponse carries the block report
type AnalyzeBlockResponse struct {
	Report *services.BlockReport
}

// AnalyzeBlockHandler handles the AnalyzeBlock query
type AnalyzeBlockHandler struct {
	source   block.Source
	analyzer *services.BlockAnalyzer
}

// NewAnalyzeBlockHandler creates a new AnalyzeBlockHandler
func NewAnalyzeBlockHandler(source block.Source, analyzer *services.BlockAnalyzer) *AnalyzeBlockHandler {
	return &AnalyzeBlockHandler{source: source, analyzer: analyzer}
}

// Handle executes the AnalyzeBlock query
func (h *AnalyzeBlockHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*AnalyzeBlockQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *AnalyzeBlockQuery")
	}

	if err := validate.Struct(query); err != nil {
		return nil, fmt.Errorf("invalid analyze query: %w", err)
	}

	overrides, err := colon.ParseClassification(query.Classification)
	if err != nil {
		return nil, fmt.Errorf("invalid classification: %w", err)
	}

	b, err := findBlock(ctx, h.source, query.BlockID)
	if err != nil {
		return nil, err
	}

	report, err := h.analyzer.Analyze(ctx, b, overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze block %s: %w", query.BlockID, err)
	}

	return &AnalyzeBlockResponse{Report: report}, nil
}

func findBlock(ctx context.Context, source block.Source, id string) (block.Block, error) {
	blocks, err := source.Blocks(ctx)
	if err != nil {
		return block.Block{}, fmt.Errorf("failed to load blocks: %w", err)
	}
	for _, b := range blocks {
		if b.ID == id {
			return b, nil
		}
	}
	return block.Block{}, shared.NewBlockNotFoundError(id)
}
