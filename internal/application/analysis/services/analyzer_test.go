package services_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/blockflow-go/internal/application/analysis/services"
	"github.com/andrescamacho/blockflow-go/internal/domain/block"
	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
	"github.com/andrescamacho/blockflow-go/internal/domain/efficiency"
	"github.com/andrescamacho/blockflow-go/internal/domain/production"
	"github.com/andrescamacho/blockflow-go/internal/domain/recipe"
	"github.com/andrescamacho/blockflow-go/internal/domain/shared"
)

var (
	ore   = colon.Item("ore")
	plate = colon.Item("plate")
)

// oreToPlate: "mine" makes 5 ore/s, "smelt" turns 5 ore/s into 2 plate/s
// on a machine of speed 1
func oreToPlate(t *testing.T) *production.ActionBuilder {
	t.Helper()
	catalog, err := recipe.NewCatalog([]recipe.Recipe{
		{Name: "mine", Energy: 1, Products: []recipe.Product{{Colon: ore, Amount: recipe.Amount(5)}}},
		{
			Name:        "smelt",
			Energy:      2,
			Ingredients: []recipe.Ingredient{{Colon: ore, Amount: 10}},
			Products:    []recipe.Product{{Colon: plate, Amount: recipe.Amount(4)}},
		},
	})
	require.NoError(t, err)
	return production.NewActionBuilder(catalog, nil)
}

func scenarioBlock() block.Block {
	return block.Block{
		ID: "0,0",
		Units: []production.CraftingUnit{
			{ID: "a", Machine: "chemical-plant", Recipe: "mine"},
			{ID: "b", Machine: "chemical-plant", Recipe: "smelt"},
		},
	}
}

func seededOptions() efficiency.Options {
	opts := efficiency.DefaultOptions()
	opts.Seed = 17
	return opts
}

func TestBlockAnalyzer_EndToEnd(t *testing.T) {
	// Arrange
	analyzer := services.NewBlockAnalyzer(oreToPlate(t), seededOptions(), nil, nil)
	overrides := colon.Classification{ore: colon.IntentInternal, plate: colon.IntentExport}

	// Act
	report, err := analyzer.Analyze(context.Background(), scenarioBlock(), overrides)

	// Assert
	require.NoError(t, err)
	require.Len(t, report.Efficiencies, 2)
	assert.Greater(t, report.Efficiencies[0], 0.9)
	assert.Greater(t, report.Efficiencies[1], 0.9)
	assert.Less(t, math.Abs(report.NetRate[ore]), 0.5)
	assert.InDelta(t, 2.0, report.NetRate[plate], 0.2)
	assert.Empty(t, report.Wanted)
	assert.Equal(t, []colon.ID{plate}, report.Exports)
	assert.False(t, report.CacheHit)
}

func TestBlockAnalyzer_UsesCacheForSameInputs(t *testing.T) {
	cache := services.NewSolutionCache(time.Minute)
	analyzer := services.NewBlockAnalyzer(oreToPlate(t), seededOptions(), cache, nil)
	overrides := colon.Classification{plate: colon.IntentExport}

	first, err := analyzer.Analyze(context.Background(), scenarioBlock(), overrides)
	require.NoError(t, err)
	second, err := analyzer.Analyze(context.Background(), scenarioBlock(), overrides)
	require.NoError(t, err)

	assert.False(t, first.CacheHit)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Efficiencies, second.Efficiencies)
	assert.Equal(t, 1, cache.Len())

	// a different classification is a different key
	third, err := analyzer.Analyze(context.Background(), scenarioBlock(), colon.Classification{plate: colon.IntentInternal})
	require.NoError(t, err)
	assert.False(t, third.CacheHit)
	assert.NotEqual(t, first.Fingerprint, third.Fingerprint)
}

func TestBlockAnalyzer_CacheHitsAreIndependentCopies(t *testing.T) {
	// Arrange
	cache := services.NewSolutionCache(time.Minute)
	analyzer := services.NewBlockAnalyzer(oreToPlate(t), seededOptions(), cache, nil)
	first, err := analyzer.Analyze(context.Background(), scenarioBlock(), nil)
	require.NoError(t, err)
	want := append([]float64(nil), first.Efficiencies...)

	// Act
	first.Efficiencies[0] = -1
	first.Actions[0].UnitIDs[0] = "mutated"
	second, err := analyzer.Analyze(context.Background(), scenarioBlock(), nil)
	require.NoError(t, err)
	second.Actions[0].Flow[ore] = 0
	third, err := analyzer.Analyze(context.Background(), scenarioBlock(), nil)
	require.NoError(t, err)

	// Assert
	assert.True(t, second.CacheHit)
	assert.Equal(t, want, second.Efficiencies)
	assert.Equal(t, []string{"a"}, second.Actions[0].UnitIDs)
	assert.InDelta(t, 5.0, third.Actions[0].Flow[ore], 1e-12)
}

func TestBlockAnalyzer_RenamedUnitsMissTheCache(t *testing.T) {
	cache := services.NewSolutionCache(time.Minute)
	analyzer := services.NewBlockAnalyzer(oreToPlate(t), seededOptions(), cache, nil)
	_, err := analyzer.Analyze(context.Background(), scenarioBlock(), nil)
	require.NoError(t, err)

	renamed := scenarioBlock()
	renamed.Units[0].ID = "miner-1"
	report, err := analyzer.Analyze(context.Background(), renamed, nil)

	require.NoError(t, err)
	assert.False(t, report.CacheHit)
	assert.Equal(t, []string{"miner-1"}, report.Actions[0].UnitIDs)
}

func TestBlockAnalyzer_ReportsUnresolvedRecipes(t *testing.T) {
	analyzer := services.NewBlockAnalyzer(oreToPlate(t), seededOptions(), nil, nil)
	b := scenarioBlock()
	b.Units = append(b.Units,
		production.CraftingUnit{ID: "c", Machine: "chemical-plant", Recipe: "warp-core"},
		production.CraftingUnit{ID: "d", Machine: "chemical-plant", Recipe: "warp-core"},
		production.CraftingUnit{ID: "e", Machine: "chemical-plant"},
	)

	report, err := analyzer.Analyze(context.Background(), b, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"warp-core"}, report.Unresolved)
}

func TestBlockAnalyzer_EmptyBlock(t *testing.T) {
	analyzer := services.NewBlockAnalyzer(oreToPlate(t), seededOptions(), nil, nil)

	_, err := analyzer.Analyze(context.Background(), block.Block{ID: "9,9"}, nil)

	var emptyErr *shared.EmptyBlockError
	assert.True(t, errors.As(err, &emptyErr))
}

func TestBlockAnalyzer_TruncatedResultsAreNotCached(t *testing.T) {
	cache := services.NewSolutionCache(0)
	analyzer := services.NewBlockAnalyzer(oreToPlate(t), seededOptions(), cache, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := analyzer.Analyze(ctx, scenarioBlock(), nil)

	require.NoError(t, err)
	assert.True(t, report.Truncated)
	assert.Equal(t, 0, cache.Len())
}

func TestFingerprint_StableAndSensitive(t *testing.T) {
	actions := []production.Action{{Flow: production.FlowVector{ore: 1}, Count: 2}}
	classification := colon.Classification{ore: colon.IntentExport}
	opts := seededOptions()

	base := services.Fingerprint("0,0", actions, classification, opts)
	assert.Equal(t, base, services.Fingerprint("0,0", actions, classification.Clone(), opts))

	opts.Seed++
	assert.NotEqual(t, base, services.Fingerprint("0,0", actions, classification, opts))
	assert.NotEqual(t, base, services.Fingerprint("0,1", actions, classification, seededOptions()))
	actions[0].Count = 3
	assert.NotEqual(t, base, services.Fingerprint("0,0", actions, classification, seededOptions()))

	count3 := services.Fingerprint("0,0", actions, classification, seededOptions())
	actions[0].Recipe = "other"
	assert.NotEqual(t, count3, services.Fingerprint("0,0", actions, classification, seededOptions()))
	withRecipe := services.Fingerprint("0,0", actions, classification, seededOptions())
	actions[0].UnitIDs = []string{"u9"}
	assert.NotEqual(t, withRecipe, services.Fingerprint("0,0", actions, classification, seededOptions()))
}
