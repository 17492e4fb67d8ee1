package production

import "fmt"

// Position is a map coordinate
type Position struct {
	X float64
	Y float64
}

func (p Position) String() string {
	return fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y)
}

// CraftingUnit is one assembler placement.
// An empty Recipe is valid and contributes nothing.
type CraftingUnit struct {
	ID       string
	BlockID  string
	Machine  string
	Recipe   string
	Modules  map[string]int
	Position Position
}

// HasRecipe reports whether a recipe is set
func (u CraftingUnit) HasRecipe() bool {
	return u.Recipe != ""
}

// Boiler is a group of identical boilers in a block
type Boiler struct {
	Machine string
	Count   int
}
