package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/blockflow-go/internal/application/mediator"
	"github.com/andrescamacho/blockflow-go/internal/domain/block"
)

// ListSolutionsQuery lists recorded solutions, newest first
type ListSolutionsQuery struct {
	BlockID string // optional
	Limit   int    `validate:"gte=0,lte=1000"`
}

// ListSolutionsResponse carries the recorded solutions
type ListSolutionsResponse struct {
	Solutions []*block.Solution
}

// ListSolutionsHandler handles the ListSolutions query
type ListSolutionsHandler struct {
	repo block.SolutionRepository
}

// NewListSolutionsHandler creates a new ListSolutionsHandler
func NewListSolutionsHandler(repo block.SolutionRepository) *ListSolutionsHandler {
	return &ListSolutionsHandler{repo: repo}
}

// Handle executes the ListSolutions query
func (h *ListSolutionsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListSolutionsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListSolutionsQuery")
	}
	if err := validate.Struct(query); err != nil {
		return nil, fmt.Errorf("invalid history query: %w", err)
	}

	limit := query.Limit
	if limit == 0 {
		limit = 20
	}

	var (
		solutions []*block.Solution
		err       error
	)
	if query.BlockID != "" {
		solutions, err = h.repo.ListByBlock(ctx, query.BlockID, limit)
	} else {
		solutions, err = h.repo.List(ctx, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list solutions: %w", err)
	}

	return &ListSolutionsResponse{Solutions: solutions}, nil
}
