package reachability_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
	"github.com/andrescamacho/blockflow-go/internal/domain/reachability"
	"github.com/andrescamacho/blockflow-go/internal/domain/recipe"
)

func simple(name string, in []colon.ID, out colon.ID) recipe.Recipe {
	r := recipe.Recipe{Name: name, Energy: 1, Products: []recipe.Product{{Colon: out, Amount: recipe.Amount(1)}}}
	for _, id := range in {
		r.Ingredients = append(r.Ingredients, recipe.Ingredient{Colon: id, Amount: 1})
	}
	return r
}

func newCatalog(t *testing.T, recipes ...recipe.Recipe) *recipe.Catalog {
	t.Helper()
	c, err := recipe.NewCatalog(recipes)
	require.NoError(t, err)
	return c
}

func TestHaveMade(t *testing.T) {
	stats := reachability.ProductionStats{
		colon.Item("iron-plate"):  {InputTotal: 12, OutputTotal: 3},
		colon.Item("rocket-part"): {InputTotal: 0, OutputTotal: 0},
		colon.Fluid("water"):      {InputTotal: 0.5},
	}

	made := reachability.HaveMade(stats)

	assert.Equal(t, []colon.ID{colon.Fluid("water"), colon.Item("iron-plate")}, made.Sorted())
}

func TestBuildMissingIngredients_ZeroIngredientRecipeCostsNothing(t *testing.T) {
	walker := reachability.NewWalker(newCatalog(t, simple("spring", nil, colon.Fluid("water"))))

	result := walker.BuildMissingIngredients(colon.NewSet(), walker.BuildMaking())

	assert.Equal(t, 0.0, result.Costs["spring"])
	assert.True(t, result.Converged)
}

func TestBuildMissingIngredients_DepthGrowsAlongChain(t *testing.T) {
	// Arrange
	raw, a, b, c := colon.Item("raw"), colon.Item("a"), colon.Item("b"), colon.Item("c")
	walker := reachability.NewWalker(newCatalog(t,
		simple("r1", []colon.ID{raw}, a),
		simple("r2", []colon.ID{a}, b),
		simple("r3", []colon.ID{b}, c),
	))
	canMake := colon.NewSet(raw)
	making := walker.BuildMaking()

	// Act
	result := walker.BuildMissingIngredients(canMake, making)

	// Assert
	assert.Equal(t, 0.0, result.Costs["r1"])
	assert.Less(t, result.Costs["r1"], result.Costs["r2"])
	assert.Less(t, result.Costs["r2"], result.Costs["r3"])
	assert.True(t, result.Converged)

	costs := reachability.ColonCosts(canMake, making, result)
	assert.Equal(t, 0.0, costs[raw])
	assert.Equal(t, 0.0, costs[a])
	assert.Equal(t, result.Costs["r3"], costs[c])
}

func TestBuildMissingIngredients_UnreachableStaysInfinite(t *testing.T) {
	x, y := colon.Item("x"), colon.Item("y")
	walker := reachability.NewWalker(newCatalog(t,
		simple("x-from-y", []colon.ID{y}, x),
		simple("y-from-x", []colon.ID{x}, y),
	))

	result := walker.BuildMissingIngredients(colon.NewSet(), walker.BuildMaking())

	assert.True(t, math.IsInf(result.Costs["x-from-y"], 1))
	assert.True(t, math.IsInf(result.Cost("y-from-x"), 1))
	assert.True(t, result.Converged)
}

func TestBuildMissingIngredients_RoundCapReportsTruncation(t *testing.T) {
	// r00 needs the product of r01, which needs r02, ... so sorted relaxation
	// only advances one link per round
	const length = 60
	recipes := make([]recipe.Recipe, 0, length+1)
	for i := 0; i <= length; i++ {
		in := colon.Item(fmt.Sprintf("p%02d", i+1))
		if i == length {
			in = colon.Item("raw")
		}
		recipes = append(recipes, simple(fmt.Sprintf("r%02d", i), []colon.ID{in}, colon.Item(fmt.Sprintf("p%02d", i))))
	}
	walker := reachability.NewWalker(newCatalog(t, recipes...))

	result := walker.BuildMissingIngredients(colon.NewSet(colon.Item("raw")), walker.BuildMaking())

	assert.False(t, result.Converged)
	assert.Equal(t, reachability.MaxRounds, result.Rounds)
	assert.Equal(t, 0.0, result.Costs["r60"])
	assert.True(t, math.IsInf(result.Costs["r00"], 1))
}

func TestBuildMaking_SkipsBannedAndLockedRecipes(t *testing.T) {
	water := colon.Fluid("water")
	barrel := colon.Item("water-barrel")
	catalog := newCatalog(t,
		simple("fill-water-barrel", []colon.ID{water}, barrel),
		simple("barrel-press", []colon.ID{colon.Item("plate")}, barrel),
		simple("offshore", nil, water),
	)
	walker := reachability.NewWalker(catalog, reachability.WithTechnologies([]reachability.Technology{
		{Name: "fluid-handling", Researched: false, Unlocks: []string{"barrel-press"}},
		{Name: "basics", Researched: true, Unlocks: []string{"offshore"}},
	}))

	making := walker.BuildMaking()

	assert.Equal(t, []string{"offshore"}, making[water])
	assert.Empty(t, making[barrel])
	assert.False(t, walker.Available("barrel-press"))
	assert.True(t, walker.Available("offshore"))
}
