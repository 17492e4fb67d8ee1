package production_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
	"github.com/andrescamacho/blockflow-go/internal/domain/production"
	"github.com/andrescamacho/blockflow-go/internal/domain/recipe"
)

var (
	ore   = colon.Item("iron-ore")
	plate = colon.Item("iron-plate")
	gear  = colon.Item("iron-gear-wheel")
)

func testCatalog(t *testing.T) *recipe.Catalog {
	t.Helper()
	c, err := recipe.NewCatalog([]recipe.Recipe{
		{
			Name:        "iron-plate",
			Category:    "smelting",
			Energy:      3.2,
			Ingredients: []recipe.Ingredient{{Colon: ore, Amount: 1}},
			Products:    []recipe.Product{{Colon: plate, Amount: recipe.Amount(1)}},
		},
		{
			Name:        "iron-gear-wheel",
			Category:    "crafting",
			Energy:      0.5,
			Ingredients: []recipe.Ingredient{{Colon: plate, Amount: 2}},
			Products:    []recipe.Product{{Colon: gear, Amount: recipe.Amount(1)}},
		},
	})
	require.NoError(t, err)
	return c
}

func TestMachineTable_Speed(t *testing.T) {
	table := production.DefaultMachineTable()

	assert.Equal(t, 0.75, table.Speed("assembling-machine-2", nil))
	assert.InDelta(t, 0.75*1.2*1.2, table.Speed("assembling-machine-2", map[string]int{"speed-module": 2}), 1e-12)
	assert.Equal(t, production.MinimalSpeed, table.Speed("alien-vat", nil))
}

func TestMachineTable_ModuleLimitation(t *testing.T) {
	table := production.DefaultMachineTable()
	table.Modules["vrauks"] = production.ModuleSpec{Name: "vrauks", SpeedEffect: 1, Limitation: []string{"smelting"}}

	assert.Equal(t, 4.0, table.Speed("steel-furnace", map[string]int{"vrauks": 1}))
	assert.Equal(t, 1.25, table.Speed("assembling-machine-3", map[string]int{"vrauks": 1}))
}

func TestActionBuilder_Build(t *testing.T) {
	// Arrange
	builder := production.NewActionBuilder(testCatalog(t), nil)
	unit := production.CraftingUnit{ID: "u1", Machine: "assembling-machine-2", Recipe: "iron-gear-wheel"}

	// Act
	action := builder.Build(unit)

	// Assert: speed 0.75 / energy 0.5 = 1.5 crafts per second
	require.True(t, action.Resolved)
	assert.InDelta(t, -3.0, action.Flow[plate], 1e-12)
	assert.InDelta(t, 1.5, action.Flow[gear], 1e-12)
	assert.Equal(t, colon.NewSet(plate), action.Inputs)
	assert.Equal(t, colon.NewSet(gear), action.Outputs)
	assert.Equal(t, []string{"u1"}, action.UnitIDs)
}

func TestActionBuilder_UnresolvedRecipesContributeNothing(t *testing.T) {
	builder := production.NewActionBuilder(testCatalog(t), nil)

	for _, unit := range []production.CraftingUnit{
		{ID: "idle", Machine: "assembling-machine-1"},
		{ID: "unknown", Machine: "assembling-machine-1", Recipe: "warp-drive"},
	} {
		action := builder.Build(unit)
		assert.False(t, action.Resolved, unit.ID)
		assert.True(t, action.Flow.IsEmpty(), unit.ID)
		assert.Equal(t, 1, action.Count, unit.ID)
	}
}

func TestActionBuilder_UnknownMachineUsesMinimalSpeed(t *testing.T) {
	builder := production.NewActionBuilder(testCatalog(t), nil)

	action := builder.Build(production.CraftingUnit{ID: "u", Machine: "mystery", Recipe: "iron-gear-wheel"})

	assert.InDelta(t, production.MinimalSpeed/0.5, action.Flow[gear], 1e-12)
}

func TestActionBuilder_BuildBoiler(t *testing.T) {
	builder := production.NewActionBuilder(testCatalog(t), nil)

	action, ok := builder.BuildBoiler(production.Boiler{Machine: "boiler", Count: 3})
	require.True(t, ok)
	assert.Equal(t, 3, action.Count)
	assert.Equal(t, -60.0, action.Flow[colon.Fluid("water")])
	assert.Equal(t, 60.0, action.Flow[colon.Fluid("steam")])

	_, ok = builder.BuildBoiler(production.Boiler{Machine: "nuclear-reactor", Count: 1})
	assert.False(t, ok)
}

func TestFlowVector_KeyIsOrderIndependent(t *testing.T) {
	a := production.FlowVector{ore: -1, plate: 1, gear: 0}
	b := production.FlowVector{plate: 1, ore: -1}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), production.FlowVector{plate: 2, ore: -1}.Key())
}

func TestMerge_CollapsesDuplicates(t *testing.T) {
	builder := production.NewActionBuilder(testCatalog(t), nil)
	units := []production.CraftingUnit{
		{ID: "a", Machine: "stone-furnace", Recipe: "iron-plate"},
		{ID: "b", Machine: "assembling-machine-2", Recipe: "iron-gear-wheel"},
		{ID: "c", Machine: "stone-furnace", Recipe: "iron-plate"},
		{ID: "d", Machine: "steel-furnace", Recipe: "iron-plate"},
	}

	merged := production.Merge(builder.BuildAll(units, nil))

	require.Len(t, merged, 3)
	assert.Equal(t, 2, merged[0].Count)
	assert.Equal(t, []string{"a", "c"}, merged[0].UnitIDs)
	assert.Equal(t, 1, merged[1].Count)
	assert.Equal(t, 1, merged[2].Count)
}

func TestMerge_AggregateIsIdempotent(t *testing.T) {
	// Arrange
	builder := production.NewActionBuilder(testCatalog(t), nil)
	unit := production.CraftingUnit{Machine: "assembling-machine-3", Recipe: "iron-gear-wheel"}
	const n = 7
	raw := make([]production.Action, n)
	for i := range raw {
		raw[i] = builder.Build(unit)
	}
	merged := production.Merge(raw)
	require.Len(t, merged, 1)
	require.Equal(t, n, merged[0].Count)

	rng := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 50; trial++ {
		e := rng.Float64()
		rawEff := make([]float64, n)
		for i := range rawEff {
			rawEff[i] = e
		}

		// Act
		fromRaw := production.Aggregate(raw, rawEff)
		fromMerged := production.Aggregate(merged, []float64{e})

		// Assert
		for id, rate := range fromRaw {
			assert.InDelta(t, rate, fromMerged[id], 1e-9)
		}
		assert.Len(t, fromMerged, len(fromRaw))
	}
}

func TestRecipeDifference_Disjoint(t *testing.T) {
	builder := production.NewActionBuilder(testCatalog(t), nil)
	actions := builder.BuildAll([]production.CraftingUnit{
		{Machine: "stone-furnace", Recipe: "iron-plate"},
		{Machine: "assembling-machine-1", Recipe: "iron-gear-wheel"},
	}, []production.Boiler{{Machine: "boiler", Count: 1}})

	wanted, exports := production.RecipeDifference(actions)

	assert.Equal(t, []colon.ID{colon.Fluid("water"), ore}, wanted.Sorted())
	assert.Equal(t, []colon.ID{colon.Fluid("steam"), gear}, exports.Sorted())
	assert.Empty(t, wanted.Intersect(exports))
}

func TestAggregate_ScalesByEfficiencyAndCount(t *testing.T) {
	actions := []production.Action{
		{Flow: production.FlowVector{ore: 5}, Count: 2},
		{Flow: production.FlowVector{ore: -2.5, plate: 1}, Count: 1},
	}

	net := production.Aggregate(actions, []float64{0.5, 1})

	assert.InDelta(t, 2.5, net[ore], 1e-12)
	assert.InDelta(t, 1.0, net[plate], 1e-12)
}
