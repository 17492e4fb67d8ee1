package recipe

import "fmt"

// ErrRecipeNotFound indicates a name matched neither a declared recipe
// nor any synthesis rule
type ErrRecipeNotFound struct {
	Name string
}

func (e *ErrRecipeNotFound) Error() string {
	return fmt.Sprintf("recipe not found: %s", e.Name)
}

// ErrDuplicateRecipe indicates the same name was declared twice
type ErrDuplicateRecipe struct {
	Name string
}

func (e *ErrDuplicateRecipe) Error() string {
	return fmt.Sprintf("duplicate recipe declaration: %s", e.Name)
}
