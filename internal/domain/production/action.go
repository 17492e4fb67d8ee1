package production

import (
	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
	"github.com/andrescamacho/blockflow-go/internal/domain/recipe"
)

// Action is the flow contribution of one crafting unit, or of Count
// structurally identical units once merged.
type Action struct {
	Recipe   string
	Flow     FlowVector
	Count    int
	Inputs   colon.Set // unscaled recipe ingredients
	Outputs  colon.Set // unscaled recipe products
	UnitIDs  []string
	Resolved bool // false when the unit had no recipe or the recipe is unknown
}

// RecipeLookup resolves recipe names
type RecipeLookup interface {
	Lookup(name string) (recipe.Recipe, bool)
}

// ActionBuilder converts crafting unit placements into flow vectors
type ActionBuilder struct {
	recipes  RecipeLookup
	machines *MachineTable
}

// NewActionBuilder creates a builder. A nil table uses DefaultMachineTable.
func NewActionBuilder(recipes RecipeLookup, machines *MachineTable) *ActionBuilder {
	if machines == nil {
		machines = DefaultMachineTable()
	}
	return &ActionBuilder{recipes: recipes, machines: machines}
}

// Build returns the per-second flow of one unit. Units without a resolvable
// recipe still yield an action, with an empty flow.
func (b *ActionBuilder) Build(unit CraftingUnit) Action {
	action := Action{
		Recipe:  unit.Recipe,
		Flow:    make(FlowVector),
		Count:   1,
		Inputs:  make(colon.Set),
		Outputs: make(colon.Set),
		UnitIDs: []string{unit.ID},
	}
	if !unit.HasRecipe() {
		return action
	}
	r, ok := b.recipes.Lookup(unit.Recipe)
	if !ok {
		return action
	}

	scale := b.machines.Speed(unit.Machine, unit.Modules) / r.Duration()
	for _, ing := range r.Ingredients {
		action.Flow[ing.Colon] -= ing.Amount * scale
		action.Inputs.Add(ing.Colon)
	}
	for _, p := range r.Products {
		action.Flow[p.Colon] += p.Quantity() * scale
		action.Outputs.Add(p.Colon)
	}
	action.Resolved = true
	return action
}

// BuildBoiler returns the fixed flow of a boiler group. The second result is
// false for boiler types missing from the machine table.
func (b *ActionBuilder) BuildBoiler(boiler Boiler) (Action, bool) {
	spec, ok := b.machines.Boilers[boiler.Machine]
	if !ok || boiler.Count <= 0 {
		return Action{}, false
	}
	return Action{
		Recipe: "boiler:" + boiler.Machine,
		Flow: FlowVector{
			spec.Input:  -spec.Rate,
			spec.Output: spec.Rate,
		},
		Count:    boiler.Count,
		Inputs:   colon.NewSet(spec.Input),
		Outputs:  colon.NewSet(spec.Output),
		Resolved: true,
	}, true
}

// BuildAll builds every unit and boiler group, in input order
func (b *ActionBuilder) BuildAll(units []CraftingUnit, boilers []Boiler) []Action {
	actions := make([]Action, 0, len(units)+len(boilers))
	for _, u := range units {
		actions = append(actions, b.Build(u))
	}
	for _, boiler := range boilers {
		if a, ok := b.BuildBoiler(boiler); ok {
			actions = append(actions, a)
		}
	}
	return actions
}
