package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/blockflow-go/internal/application/mediator"
	"github.com/andrescamacho/blockflow-go/internal/domain/recipe"
)

// GetRecipeQuery resolves a recipe name, including synthesized ones
type GetRecipeQuery struct {
	Name string `validate:"required"`
}

// GetRecipeResponse carries the resolved recipe
type GetRecipeResponse struct {
	Recipe      recipe.Recipe
	Synthesized bool
	Banned      bool
}

// GetRecipeHandler handles the GetRecipe query
type GetRecipeHandler struct {
	catalog *recipe.Catalog
}

// NewGetRecipeHandler creates a new GetRecipeHandler
func NewGetRecipeHandler(catalog *recipe.Catalog) *GetRecipeHandler {
	return &GetRecipeHandler{catalog: catalog}
}

// Handle executes the GetRecipe query
func (h *GetRecipeHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetRecipeQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetRecipeQuery")
	}
	if err := validate.Struct(query); err != nil {
		return nil, fmt.Errorf("invalid recipe query: %w", err)
	}

	r, err := h.catalog.Get(query.Name)
	if err != nil {
		return nil, err
	}

	return &GetRecipeResponse{
		Recipe:      r,
		Synthesized: !h.catalog.IsDeclared(r.Name),
		Banned:      h.catalog.IsBanned(r.Name),
	}, nil
}
