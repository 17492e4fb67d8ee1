package reachability_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
	"github.com/andrescamacho/blockflow-go/internal/domain/reachability"
)

func TestBuildTree_ExpandsCheapestProducers(t *testing.T) {
	// Arrange
	raw, a, b, c := colon.Item("raw"), colon.Item("a"), colon.Item("b"), colon.Item("c")
	catalog := newCatalog(t,
		simple("r1", []colon.ID{raw}, a),
		simple("r2", []colon.ID{a}, b),
		simple("r3", []colon.ID{b}, c),
		simple("r3-expensive", []colon.ID{colon.Item("unobtainium")}, c),
	)
	walker := reachability.NewWalker(catalog)
	canMake := colon.NewSet(raw)
	making := walker.BuildMaking()
	result := walker.BuildMissingIngredients(canMake, making)

	// Act
	tree := reachability.BuildTree(c, catalog, canMake, making, result, 0)

	// Assert
	require.NotNil(t, tree)
	assert.Equal(t, "r3", tree.Recipe)
	assert.Equal(t, 4, tree.Depth())
	assert.Equal(t, 4, tree.CountNodes())
	assert.True(t, tree.Children[0].Children[0].Children[0].Made)
	assert.Empty(t, tree.Missing())
}

func TestBuildTree_MarksCyclesAndMissing(t *testing.T) {
	x, y, ore := colon.Item("x"), colon.Item("y"), colon.Item("ore")
	catalog := newCatalog(t,
		simple("make-x", []colon.ID{y, ore}, x),
		simple("make-y", []colon.ID{x}, y),
	)
	walker := reachability.NewWalker(catalog)
	making := walker.BuildMaking()
	result := walker.BuildMissingIngredients(colon.NewSet(), making)

	tree := reachability.BuildTree(x, catalog, colon.NewSet(), making, result, 0)

	assert.True(t, math.IsInf(tree.Cost, 1))
	require.Len(t, tree.Children, 2)
	yNode := tree.Children[0]
	assert.Equal(t, "make-y", yNode.Recipe)
	require.Len(t, yNode.Children, 1)
	assert.True(t, yNode.Children[0].Cycle)
	assert.Equal(t, "make-x", yNode.Children[0].Recipe)
	assert.Equal(t, []colon.ID{ore}, tree.Missing())
	assert.Empty(t, yNode.Children[0].Missing())
}

func TestBuildTree_RespectsDepth(t *testing.T) {
	raw, a, b := colon.Item("raw"), colon.Item("a"), colon.Item("b")
	catalog := newCatalog(t,
		simple("r1", []colon.ID{raw}, a),
		simple("r2", []colon.ID{a}, b),
	)
	walker := reachability.NewWalker(catalog)
	making := walker.BuildMaking()
	result := walker.BuildMissingIngredients(colon.NewSet(), making)

	tree := reachability.BuildTree(b, catalog, colon.NewSet(), making, result, 1)

	assert.Equal(t, "r2", tree.Recipe)
	assert.Empty(t, tree.Children)
}
