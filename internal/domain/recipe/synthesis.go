package recipe

import (
	"strings"

	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
)

const (
	// EmptyBarrel is the container item used by barrel recipes
	EmptyBarrel = "empty-barrel"

	// BarrelFluidAmount is the fluid volume held by one barrel
	BarrelFluidAmount = 50.0

	// FluidVoidAmount is the fluid volume destroyed per fluid void craft
	FluidVoidAmount = 20000.0

	// VoidAshProbability is the chance an item void craft yields one ash
	VoidAshProbability = 0.2

	barrelEnergy = 0.2
	voidEnergy   = 1.0
)

// synthesisRule recognizes a recipe name pattern and builds the recipe for it.
type synthesisRule struct {
	banned      bool
	matchesName func(name string) bool
	build       func(index *NameIndex, name string) Recipe
}

func (r synthesisRule) match(index *NameIndex, name string) (Recipe, bool) {
	if !r.matchesName(name) {
		return Recipe{}, false
	}
	return r.build(index, name), true
}

// defaultSynthesisRules returns the rules in evaluation order
func defaultSynthesisRules() []synthesisRule {
	return []synthesisRule{
		{
			banned:      true,
			matchesName: func(name string) bool { return trimAffixes(name, "fill-", "-barrel") != "" },
			build: func(_ *NameIndex, name string) Recipe {
				fluid := trimAffixes(name, "fill-", "-barrel")
				return Recipe{
					Name:     name,
					Category: "crafting-with-fluid",
					Energy:   barrelEnergy,
					Ingredients: []Ingredient{
						{Colon: colon.Item(EmptyBarrel), Amount: 1},
						{Colon: colon.Fluid(fluid), Amount: BarrelFluidAmount},
					},
					Products: []Product{
						{Colon: colon.Item(fluid + "-barrel"), Amount: Amount(1)},
					},
				}
			},
		},
		{
			banned:      true,
			matchesName: func(name string) bool { return trimAffixes(name, "empty-", "-barrel") != "" },
			build: func(_ *NameIndex, name string) Recipe {
				fluid := trimAffixes(name, "empty-", "-barrel")
				return Recipe{
					Name:     name,
					Category: "crafting-with-fluid",
					Energy:   barrelEnergy,
					Ingredients: []Ingredient{
						{Colon: colon.Item(fluid + "-barrel"), Amount: 1},
					},
					Products: []Product{
						{Colon: colon.Fluid(fluid), Amount: Amount(BarrelFluidAmount)},
						{Colon: colon.Item(EmptyBarrel), Amount: Amount(1)},
					},
				}
			},
		},
		{
			banned: true,
			matchesName: func(name string) bool {
				return trimAffixes(name, "", "-pyvoid-fluid") != "" || trimAffixes(name, "", "-pyvoid-gas") != ""
			},
			build: func(_ *NameIndex, name string) Recipe {
				fluid := trimAffixes(name, "", "-pyvoid-fluid")
				if fluid == "" {
					fluid = trimAffixes(name, "", "-pyvoid-gas")
				}
				return fluidVoid(name, fluid)
			},
		},
		{
			banned:      true,
			matchesName: func(name string) bool { return trimAffixes(name, "", "-pyvoid") != "" },
			build: func(index *NameIndex, name string) Recipe {
				target := trimAffixes(name, "", "-pyvoid")
				if index.IsFluid(target) && !index.IsItem(target) {
					return fluidVoid(name, target)
				}
				return Recipe{
					Name:     name,
					Category: "py-incineration",
					Energy:   voidEnergy,
					Ingredients: []Ingredient{
						{Colon: colon.Item(target), Amount: 1},
					},
					Products: []Product{
						{Colon: colon.Item("ash"), Amount: Amount(1), Probability: Probability(VoidAshProbability)},
					},
				}
			},
		},
	}
}

func fluidVoid(name, fluid string) Recipe {
	return Recipe{
		Name:     name,
		Category: "py-venting",
		Energy:   voidEnergy,
		Ingredients: []Ingredient{
			{Colon: colon.Fluid(fluid), Amount: FluidVoidAmount},
		},
	}
}

// trimAffixes returns the part of name between prefix and suffix, or "" if
// name does not carry both or nothing is left between them.
func trimAffixes(name, prefix, suffix string) string {
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
		return ""
	}
	if len(name) <= len(prefix)+len(suffix) {
		return ""
	}
	return name[len(prefix) : len(name)-len(suffix)]
}
