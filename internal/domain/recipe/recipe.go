package recipe

import (
	"math"

	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
)

// Ingredient is a consumed input of a recipe, per craft
type Ingredient struct {
	Colon  colon.ID
	Amount float64
}

// Product is an output of a recipe, per craft.
//
// Either Amount is set, or the product yields a uniformly ranged amount
// between AmountMin and AmountMax. Probability defaults to 1 when nil.
type Product struct {
	Colon       colon.ID
	Amount      *float64
	AmountMin   float64
	AmountMax   float64
	Probability *float64
}

// Quantity returns the expected yield of one craft.
// Ranged and probabilistic products use their average case; a non-finite
// result falls back to 1.
func (p Product) Quantity() float64 {
	amount := (p.AmountMin + p.AmountMax) / 2
	if p.Amount != nil {
		amount = *p.Amount
	}
	probability := 1.0
	if p.Probability != nil {
		probability = *p.Probability
	}
	q := amount * probability
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return 1
	}
	return q
}

// Recipe is a declared or synthesized crafting recipe
type Recipe struct {
	Name        string
	Category    string
	Energy      float64 // craft duration in seconds at speed 1
	Ingredients []Ingredient
	Products    []Product
}

// Duration returns the craft duration, treating non-positive energy as 1s
func (r Recipe) Duration() float64 {
	if r.Energy <= 0 || math.IsNaN(r.Energy) || math.IsInf(r.Energy, 0) {
		return 1
	}
	return r.Energy
}

// IngredientColons returns the set of consumed ids
func (r Recipe) IngredientColons() colon.Set {
	s := make(colon.Set, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		s.Add(ing.Colon)
	}
	return s
}

// ProductColons returns the set of produced ids
func (r Recipe) ProductColons() colon.Set {
	s := make(colon.Set, len(r.Products))
	for _, p := range r.Products {
		s.Add(p.Colon)
	}
	return s
}

// Amount is a helper for building fixed-amount products
func Amount(v float64) *float64 { return &v }

// Probability is a helper for building probabilistic products
func Probability(v float64) *float64 { return &v }
