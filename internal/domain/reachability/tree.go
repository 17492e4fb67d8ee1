package reachability

import (
	"math"

	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
	"github.com/andrescamacho/blockflow-go/internal/domain/recipe"
)

// DefaultTreeDepth bounds BuildTree when no depth is given
const DefaultTreeDepth = 8

// Node is one id in a dependency tree. Made ids are leaves; other ids
// expand through their cheapest producing recipe.
type Node struct {
	Colon    colon.ID
	Made     bool
	Recipe   string  // cheapest producer, empty when none exists
	Cost     float64 // missing cost of the id
	Cycle    bool    // the id already appears higher up this branch
	Children []*Node
}

// CountNodes returns the number of nodes in the tree
func (n *Node) CountNodes() int {
	if n == nil {
		return 0
	}
	count := 1
	for _, c := range n.Children {
		count += c.CountNodes()
	}
	return count
}

// Depth returns the number of levels below and including n
func (n *Node) Depth() int {
	if n == nil {
		return 0
	}
	deepest := 0
	for _, c := range n.Children {
		if d := c.Depth(); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// Missing returns the ids no available recipe produces. Cycle nodes are
// expanded higher up the branch and never count.
func (n *Node) Missing() []colon.ID {
	seen := make(colon.Set)
	var walk func(*Node)
	walk = func(node *Node) {
		if !node.Made && !node.Cycle && node.Recipe == "" {
			seen.Add(node.Colon)
		}
		for _, c := range node.Children {
			walk(c)
		}
	}
	if n != nil {
		walk(n)
	}
	return seen.Sorted()
}

// BuildTree expands root through cheapest producers. Ties go to the first
// producer in making order, which is sorted by name.
func BuildTree(root colon.ID, catalog *recipe.Catalog, canMake colon.Set, making map[colon.ID][]string, result Result, maxDepth int) *Node {
	if maxDepth <= 0 {
		maxDepth = DefaultTreeDepth
	}
	costs := ColonCosts(canMake, making, result)
	return expand(root, catalog, canMake, making, result, costs, make(colon.Set), maxDepth)
}

func expand(id colon.ID, catalog *recipe.Catalog, canMake colon.Set, making map[colon.ID][]string, result Result, costs map[colon.ID]float64, path colon.Set, depth int) *Node {
	node := &Node{Colon: id, Made: canMake.Has(id), Cost: math.Inf(1)}
	if c, ok := costs[id]; ok {
		node.Cost = c
	}
	if node.Made {
		return node
	}

	best := math.Inf(1)
	for _, name := range making[id] {
		if c := result.Cost(name); node.Recipe == "" || c < best {
			best = c
			node.Recipe = name
		}
	}
	if path.Has(id) {
		node.Cycle = true
		return node
	}
	if node.Recipe == "" || depth <= 1 {
		return node
	}

	r, ok := catalog.Lookup(node.Recipe)
	if !ok {
		return node
	}
	path.Add(id)
	for _, ing := range r.Ingredients {
		node.Children = append(node.Children, expand(ing.Colon, catalog, canMake, making, result, costs, path, depth-1))
	}
	delete(path, id)
	return node
}
