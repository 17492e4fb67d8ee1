package efficiency_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
	"github.com/andrescamacho/blockflow-go/internal/domain/efficiency"
	"github.com/andrescamacho/blockflow-go/internal/domain/production"
	"github.com/andrescamacho/blockflow-go/internal/domain/shared"
)

var (
	ore   = colon.Item("iron-ore")
	mid   = colon.Item("iron-stick")
	plate = colon.Item("iron-plate")
)

func seeded(seed uint64) efficiency.Options {
	opts := efficiency.DefaultOptions()
	opts.Seed = seed
	return opts
}

// chain: ore -> stick -> plate, one unit/s each
func chain() ([]production.Action, colon.Classification) {
	actions := []production.Action{
		{Recipe: "a", Flow: production.FlowVector{ore: -1, mid: 1}, Count: 1},
		{Recipe: "b", Flow: production.FlowVector{mid: -1, plate: 1}, Count: 1},
	}
	classification := colon.Classification{ore: colon.IntentImport, plate: colon.IntentExport}
	return actions, classification
}

func TestBuildObjective_TermsAndModes(t *testing.T) {
	actions, classification := chain()
	actions[1].Count = 3

	obj := efficiency.BuildObjective(actions, classification)

	require.Len(t, obj.Terms, 3)
	modes := map[colon.ID]efficiency.Mode{}
	for _, term := range obj.Terms {
		modes[term.Colon] = term.Mode
	}
	assert.Equal(t, efficiency.ModeImport, modes[ore])
	assert.Equal(t, efficiency.ModeBalance, modes[mid])
	assert.Equal(t, efficiency.ModeExport, modes[plate])

	// stick: +1 from a, -3 from b at full efficiency
	assert.InDelta(t, -100*2.0, obj.Terms[termIndex(obj, mid)].Score(obj.Terms[termIndex(obj, mid)].Net([]float64{1, 1})), 1e-9)
	assert.InDelta(t, 1+3-200, obj.Evaluate([]float64{1, 1}), 1e-9)
}

func termIndex(obj efficiency.Objective, id colon.ID) int {
	for i, term := range obj.Terms {
		if term.Colon == id {
			return i
		}
	}
	return -1
}

func TestSolve_BalancesInternalColon(t *testing.T) {
	// Arrange
	actions, classification := chain()
	obj := efficiency.BuildObjective(actions, classification)
	solver := efficiency.NewSolver(seeded(42), nil)

	// Act
	result := solver.Solve(context.Background(), obj)

	// Assert
	require.Len(t, result.Efficiencies, 2)
	net := production.Aggregate(actions, result.Efficiencies)
	assert.Less(t, math.Abs(net[mid]), 0.05)
	assert.Greater(t, result.Efficiencies[1], 0.9)
	assert.Greater(t, result.Score, 1.5)
	assert.Equal(t, efficiency.DefaultTrials, result.Trials)
	assert.False(t, result.Truncated)
}

func TestSolve_EfficienciesStayInUnitInterval(t *testing.T) {
	actions, classification := chain()
	actions = append(actions, production.Action{Recipe: "c", Flow: production.FlowVector{plate: -2, ore: 7}, Count: 2})
	solver := efficiency.NewSolver(seeded(7), nil)

	result := solver.Solve(context.Background(), efficiency.BuildObjective(actions, classification))

	for _, e := range result.Efficiencies {
		assert.GreaterOrEqual(t, e, 0.0)
		assert.LessOrEqual(t, e, 1.0)
	}
}

func TestSolve_ExportOnlyRunsFlatOut(t *testing.T) {
	actions := []production.Action{{Flow: production.FlowVector{plate: 2}, Count: 1}}
	obj := efficiency.BuildObjective(actions, colon.Classification{plate: colon.IntentExport})

	result := efficiency.NewSolver(seeded(3), nil).Solve(context.Background(), obj)

	assert.Greater(t, result.Efficiencies[0], 0.99)
}

func TestSolve_UnclassifiedOutputShutsDown(t *testing.T) {
	actions := []production.Action{{Flow: production.FlowVector{mid: 1}, Count: 1}}
	obj := efficiency.BuildObjective(actions, nil)

	result := efficiency.NewSolver(seeded(3), nil).Solve(context.Background(), obj)

	assert.Less(t, result.Efficiencies[0], 0.01)
}

func TestSolve_SameSeedSameResult(t *testing.T) {
	actions, classification := chain()
	obj := efficiency.BuildObjective(actions, classification)

	first := efficiency.NewSolver(seeded(99), nil).Solve(context.Background(), obj)
	second := efficiency.NewSolver(seeded(99), nil).Solve(context.Background(), obj)

	assert.Equal(t, first.Efficiencies, second.Efficiencies)
	assert.Equal(t, first.Score, second.Score)
}

func TestSolve_EmptyObjective(t *testing.T) {
	result := efficiency.NewSolver(seeded(1), nil).Solve(context.Background(), efficiency.BuildObjective(nil, nil))

	assert.Empty(t, result.Efficiencies)
	assert.Equal(t, 0.0, result.Score)
	assert.False(t, result.Truncated)
}

func TestSolve_UntouchedIndicesAreZero(t *testing.T) {
	actions := []production.Action{
		{Recipe: "idle", Flow: production.FlowVector{}, Count: 4},
		{Flow: production.FlowVector{plate: 1}, Count: 1},
	}
	obj := efficiency.BuildObjective(actions, colon.Classification{plate: colon.IntentExport})

	result := efficiency.NewSolver(seeded(5), nil).Solve(context.Background(), obj)

	assert.Equal(t, 0.0, result.Efficiencies[0])
	assert.Greater(t, result.Efficiencies[1], 0.99)
}

func TestSolve_CancelledContextReturnsBestSoFar(t *testing.T) {
	actions, classification := chain()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := efficiency.NewSolver(seeded(11), nil).Solve(ctx, efficiency.BuildObjective(actions, classification))

	assert.True(t, result.Truncated)
	assert.Equal(t, 1, result.Trials)
	assert.Len(t, result.Efficiencies, 2)
}

func TestSolve_BudgetTruncates(t *testing.T) {
	actions, classification := chain()
	clock := shared.NewSteppingClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Second)
	opts := seeded(13)
	opts.Budget = 10 * time.Second

	result := efficiency.NewSolver(opts, clock).Solve(context.Background(), efficiency.BuildObjective(actions, classification))

	assert.True(t, result.Truncated)
	assert.Less(t, result.Trials, efficiency.DefaultTrials)
	assert.Greater(t, result.Trials, 0)
}

func TestSolve_ProducerMatchesConsumerOfInternalColon(t *testing.T) {
	x := colon.Item("x")
	y := colon.Item("y")
	actions := []production.Action{
		{Recipe: "a", Flow: production.FlowVector{x: 10}, Count: 1},
		{Recipe: "b", Flow: production.FlowVector{x: -10, y: 10}, Count: 1},
	}
	classification := colon.Classification{x: colon.IntentInternal, y: colon.IntentExport}

	result := efficiency.NewSolver(seeded(2024), nil).Solve(context.Background(), efficiency.BuildObjective(actions, classification))

	net := production.Aggregate(actions, result.Efficiencies)
	assert.Less(t, math.Abs(net[x]), 0.5)
	assert.Greater(t, result.Efficiencies[1], 0.9)
}
