package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/blockflow-go/internal/adapters/metrics"
	"github.com/andrescamacho/blockflow-go/internal/application/logging"
	"github.com/andrescamacho/blockflow-go/internal/application/mediator"
	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
	"github.com/andrescamacho/blockflow-go/internal/domain/reachability"
	"github.com/andrescamacho/blockflow-go/internal/domain/recipe"
)

// ReachabilityQuery computes which ids can be made and how far the rest are
type ReachabilityQuery struct {
	// IgnoreTechnologies walks every declared recipe regardless of research
	IgnoreTechnologies bool
}

// ReachabilityResponse carries recipe and per-id missing costs
type ReachabilityResponse struct {
	CanMake    colon.Set
	Making     map[colon.ID][]string
	Result     reachability.Result
	ColonCosts map[colon.ID]float64
}

// ReachabilityHandler handles the Reachability query
type ReachabilityHandler struct {
	catalog *recipe.Catalog
	stats   reachability.StatsProvider
}

// NewReachabilityHandler creates a new ReachabilityHandler
func NewReachabilityHandler(catalog *recipe.Catalog, stats reachability.StatsProvider) *ReachabilityHandler {
	return &ReachabilityHandler{catalog: catalog, stats: stats}
}

// Handle executes the Reachability query
func (h *ReachabilityHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ReachabilityQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ReachabilityQuery")
	}

	stats, err := h.stats.ProductionStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load production stats: %w", err)
	}

	var opts []reachability.WalkerOption
	if !query.IgnoreTechnologies {
		techs, err := h.stats.Technologies(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load technologies: %w", err)
		}
		opts = append(opts, reachability.WithTechnologies(techs))
	}

	walker := reachability.NewWalker(h.catalog, opts...)
	canMake := reachability.HaveMade(stats)
	making := walker.BuildMaking()
	result := walker.BuildMissingIngredients(canMake, making)
	metrics.RecordReachability(result.Rounds, result.Converged)

	if !result.Converged {
		logging.LoggerFromContext(ctx).Log("WARNING", "Reachability stopped at the round cap, costs are partial", map[string]interface{}{
			"rounds": result.Rounds,
		})
	}

	return &ReachabilityResponse{
		CanMake:    canMake,
		Making:     making,
		Result:     result,
		ColonCosts: reachability.ColonCosts(canMake, making, result),
	}, nil
}
