package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/andrescamacho/blockflow-go/internal/adapters/metrics"
	"github.com/andrescamacho/blockflow-go/internal/application/logging"
	"github.com/andrescamacho/blockflow-go/internal/domain/block"
	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
	"github.com/andrescamacho/blockflow-go/internal/domain/efficiency"
	"github.com/andrescamacho/blockflow-go/internal/domain/production"
	"github.com/andrescamacho/blockflow-go/internal/domain/shared"
)

// BlockReport is the outcome of analyzing one block
type BlockReport struct {
	BlockID        string
	Fingerprint    uint64
	Actions        []production.Action
	Classification colon.Classification
	Efficiencies   []float64
	Score          float64
	Trials         int
	Truncated      bool
	NetRate        production.FlowVector
	Wanted         []colon.ID
	Exports        []colon.ID
	Unresolved     []string // recipe names no unit could resolve
	CacheHit       bool
}

// BlockAnalyzer runs build, merge, solve and aggregate for a block.
// It is safe for concurrent use; every call owns its solver.
type BlockAnalyzer struct {
	builder *production.ActionBuilder
	opts    efficiency.Options
	cache   *SolutionCache
	clock   shared.Clock
}

// NewBlockAnalyzer creates an analyzer. A nil cache disables memoization and
// a nil clock uses the real clock.
func NewBlockAnalyzer(builder *production.ActionBuilder, opts efficiency.Options, cache *SolutionCache, clock shared.Clock) *BlockAnalyzer {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &BlockAnalyzer{builder: builder, opts: opts, cache: cache, clock: clock}
}

// Options returns the solver options used for every block
func (a *BlockAnalyzer) Options() efficiency.Options {
	return a.opts
}

// Analyze solves the efficiencies of a block. overrides are layered on top of
// the block's inferred classification.
func (a *BlockAnalyzer) Analyze(ctx context.Context, b block.Block, overrides colon.Classification) (*BlockReport, error) {
	ctx, span := tracer.Start(ctx, "analysis.AnalyzeBlock",
		trace.WithAttributes(
			attribute.String("block.id", b.ID),
			attribute.Int("block.units", len(b.Units)),
		),
	)
	defer span.End()

	logger := logging.LoggerFromContext(ctx)

	if len(b.Units) == 0 && len(b.Boilers) == 0 {
		err := shared.NewEmptyBlockError(b.ID)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	raw := a.builder.BuildAll(b.Units, b.Boilers)
	unresolved := unresolvedRecipes(raw)
	for _, name := range unresolved {
		logger.Log("DEBUG", "Recipe could not be resolved, unit contributes nothing", map[string]interface{}{
			"block_id": b.ID,
			"recipe":   name,
		})
	}

	merged := production.Merge(raw)
	classification := block.DefaultClassification(b, merged).Merge(overrides)
	fingerprint := Fingerprint(b.ID, merged, classification, a.opts)
	span.SetAttributes(
		attribute.Int("analysis.actions", len(merged)),
		attribute.String("analysis.fingerprint", cacheKey(fingerprint)),
	)

	if a.cache != nil {
		if cached, ok := a.cache.Get(fingerprint); ok {
			metrics.RecordCacheLookup(true)
			span.SetAttributes(attribute.Bool("analysis.cache_hit", true))
			hit := cached.clone()
			hit.CacheHit = true
			return hit, nil
		}
		metrics.RecordCacheLookup(false)
	}

	obj := efficiency.BuildObjective(merged, classification)
	solver := efficiency.NewSolver(a.opts, a.clock)

	start := time.Now()
	result := solver.Solve(ctx, obj)
	elapsed := time.Since(start)
	metrics.RecordSolve(len(merged), result.Trials, elapsed.Seconds(), result.Truncated)

	if result.Truncated {
		logger.Log("WARNING", "Solve stopped early, returning best result so far", map[string]interface{}{
			"block_id": b.ID,
			"trials":   result.Trials,
			"score":    result.Score,
		})
	}

	wanted, exports := production.RecipeDifference(merged)
	report := &BlockReport{
		BlockID:        b.ID,
		Fingerprint:    fingerprint,
		Actions:        merged,
		Classification: classification,
		Efficiencies:   result.Efficiencies,
		Score:          result.Score,
		Trials:         result.Trials,
		Truncated:      result.Truncated,
		NetRate:        production.Aggregate(merged, result.Efficiencies),
		Wanted:         wanted.Sorted(),
		Exports:        exports.Sorted(),
		Unresolved:     unresolved,
	}

	span.SetAttributes(
		attribute.Float64("analysis.score", result.Score),
		attribute.Int("analysis.trials", result.Trials),
		attribute.Bool("analysis.truncated", result.Truncated),
	)
	span.SetStatus(codes.Ok, "")

	logger.Log("DEBUG", "Block analyzed", map[string]interface{}{
		"block_id":    b.ID,
		"units":       len(raw),
		"actions":     len(merged),
		"score":       result.Score,
		"duration_ms": elapsed.Milliseconds(),
	})

	// truncated results stay out of the cache
	if a.cache != nil && !result.Truncated {
		a.cache.Set(fingerprint, report.clone())
	}
	return report, nil
}

// clone copies r deeply enough that callers never share state with the cache
func (r *BlockReport) clone() *BlockReport {
	out := *r
	out.Actions = make([]production.Action, len(r.Actions))
	for i, a := range r.Actions {
		a.Flow = a.Flow.Scaled(1)
		a.Inputs = cloneSet(a.Inputs)
		a.Outputs = cloneSet(a.Outputs)
		a.UnitIDs = append([]string(nil), a.UnitIDs...)
		out.Actions[i] = a
	}
	out.Classification = r.Classification.Clone()
	out.Efficiencies = append([]float64(nil), r.Efficiencies...)
	out.NetRate = r.NetRate.Scaled(1)
	out.Wanted = append([]colon.ID(nil), r.Wanted...)
	out.Exports = append([]colon.ID(nil), r.Exports...)
	out.Unresolved = append([]string(nil), r.Unresolved...)
	return &out
}

func cloneSet(s colon.Set) colon.Set {
	out := make(colon.Set, len(s))
	out.AddAll(s)
	return out
}

func unresolvedRecipes(actions []production.Action) []string {
	seen := make(map[string]bool)
	var names []string
	for _, a := range actions {
		if a.Resolved || a.Recipe == "" || seen[a.Recipe] {
			continue
		}
		seen[a.Recipe] = true
		names = append(names, a.Recipe)
	}
	return names
}
