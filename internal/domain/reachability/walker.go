package reachability

import (
	"math"
	"sort"

	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
	"github.com/andrescamacho/blockflow-go/internal/domain/recipe"
)

// MaxRounds caps the relaxation loop in BuildMissingIngredients
const MaxRounds = 50

// Result holds the missing-ingredient cost of every recipe. Costs are +Inf
// for recipes whose missing ingredients have no finite producer.
type Result struct {
	Costs     map[string]float64
	Rounds    int
	Converged bool // false when MaxRounds stopped the loop while costs were still changing
}

// Cost returns the cost of a recipe, +Inf when unknown
func (r Result) Cost(name string) float64 {
	if c, ok := r.Costs[name]; ok {
		return c
	}
	return math.Inf(1)
}

// Walker walks the recipe graph of a catalog
type Walker struct {
	catalog *recipe.Catalog
	locked  map[string]bool
}

// WalkerOption configures a Walker
type WalkerOption func(*Walker)

// WithTechnologies excludes recipes that are only unlocked by technologies
// not yet researched. Recipes no technology unlocks stay available.
func WithTechnologies(techs []Technology) WalkerOption {
	return func(w *Walker) {
		unlockedBy := make(map[string]bool)
		for _, tech := range techs {
			for _, name := range tech.Unlocks {
				unlockedBy[name] = unlockedBy[name] || tech.Researched
			}
		}
		for name, researched := range unlockedBy {
			if !researched {
				w.locked[name] = true
			}
		}
	}
}

// NewWalker creates a walker over the declared recipes of catalog
func NewWalker(catalog *recipe.Catalog, opts ...WalkerOption) *Walker {
	w := &Walker{catalog: catalog, locked: make(map[string]bool)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Available reports whether a declared recipe takes part in the walk
func (w *Walker) Available(name string) bool {
	return !w.catalog.IsBanned(name) && !w.locked[name]
}

func (w *Walker) recipes() []recipe.Recipe {
	declared := w.catalog.Declared()
	out := declared[:0]
	for _, r := range declared {
		if w.Available(r.Name) {
			out = append(out, r)
		}
	}
	return out
}

// BuildMaking indexes every available recipe by the ids it produces.
// Barrel and void recipes are left out so they cannot form cycles.
func (w *Walker) BuildMaking() map[colon.ID][]string {
	making := make(map[colon.ID][]string)
	for _, r := range w.recipes() {
		for id := range r.ProductColons() {
			making[id] = append(making[id], r.Name)
		}
	}
	for id := range making {
		sort.Strings(making[id])
	}
	return making
}

// BuildMissingIngredients relaxes recipe costs until a round changes
// nothing or MaxRounds is reached. A recipe whose ingredients are all in
// canMake costs 0; otherwise it costs 1 plus, for each missing ingredient,
// the cheapest producer of that ingredient.
func (w *Walker) BuildMissingIngredients(canMake colon.Set, making map[colon.ID][]string) Result {
	recipes := w.recipes()
	result := Result{Costs: make(map[string]float64, len(recipes))}
	for _, r := range recipes {
		result.Costs[r.Name] = math.Inf(1)
	}

	for result.Rounds < MaxRounds {
		result.Rounds++
		changed := false
		for _, r := range recipes {
			cost := 0.0
			for _, ing := range r.Ingredients {
				if canMake.Has(ing.Colon) {
					continue
				}
				if cost == 0 {
					cost = 1
				}
				cost += cheapest(result.Costs, making[ing.Colon])
			}
			if cost != result.Costs[r.Name] {
				result.Costs[r.Name] = cost
				changed = true
			}
		}
		if !changed {
			result.Converged = true
			break
		}
	}
	return result
}

// ColonCosts exposes a per-id missing cost: 0 for ids in canMake, otherwise
// the cost of the cheapest producing recipe (+Inf when none is finite).
func ColonCosts(canMake colon.Set, making map[colon.ID][]string, result Result) map[colon.ID]float64 {
	costs := make(map[colon.ID]float64, len(making)+len(canMake))
	for id, producers := range making {
		costs[id] = cheapest(result.Costs, producers)
	}
	for id := range canMake {
		costs[id] = 0
	}
	return costs
}

func cheapest(costs map[string]float64, producers []string) float64 {
	best := math.Inf(1)
	for _, name := range producers {
		if c, ok := costs[name]; ok && c < best {
			best = c
		}
	}
	return best
}
