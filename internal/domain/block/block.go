package block

import (
	"fmt"
	"math"

	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
	"github.com/andrescamacho/blockflow-go/internal/domain/logistics"
	"github.com/andrescamacho/blockflow-go/internal/domain/production"
)

// Size is the edge length of the square grid cells blocks are keyed by
const Size = 32.0

// Block is a spatial aggregate of crafting units, stations and storage.
// Blocks come from ingestion and are never mutated by the analysis.
type Block struct {
	ID        string
	Position  production.Position
	Units     []production.CraftingUnit
	Boilers   []production.Boiler
	Stations  []logistics.Station
	Items     map[string]float64
	Fluids    map[string]float64
	Resources map[string]float64
	Tags      []string

	// Classification overrides the inferred intents
	Classification colon.Classification
}

// IDForPosition returns the id of the grid cell containing pos
func IDForPosition(pos production.Position) string {
	return fmt.Sprintf("%d,%d", int64(math.Floor(pos.X/Size)), int64(math.Floor(pos.Y/Size)))
}

// Stock returns stored items and fluids keyed by id
func (b Block) Stock() map[colon.ID]float64 {
	stock := make(map[colon.ID]float64, len(b.Items)+len(b.Fluids))
	for name, n := range b.Items {
		stock[colon.Item(name)] += n
	}
	for name, n := range b.Fluids {
		stock[colon.Fluid(name)] += n
	}
	return stock
}

// HasTag reports whether the block carries tag
func (b Block) HasTag(tag string) bool {
	for _, t := range b.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Provided returns every id provided by the block's stations
func (b Block) Provided() colon.Set {
	provided := make(colon.Set)
	for _, st := range b.Stations {
		provided.AddAll(st.ProvidedColons())
	}
	return provided
}

// Requested returns every id requested through a negative combinator signal
func (b Block) Requested() colon.Set {
	requested := make(colon.Set)
	for _, st := range b.Stations {
		for _, sig := range st.Combinator {
			if id, ok := sig.Colon(); ok && sig.Count < 0 {
				requested.Add(id)
			}
		}
	}
	return requested
}

// DefaultClassification infers intents for a block: requested ids are
// imports unless also provided, provided ids are exports, and every other id
// seen in the block's recipes is internal. Explicit overrides on the block
// win over the inferred values.
func DefaultClassification(b Block, actions []production.Action) colon.Classification {
	classification := make(colon.Classification)
	for _, a := range actions {
		for id := range a.Inputs {
			classification[id] = colon.IntentInternal
		}
		for id := range a.Outputs {
			classification[id] = colon.IntentInternal
		}
	}

	provided := b.Provided()
	for id := range b.Requested() {
		if !provided.Has(id) {
			classification[id] = colon.IntentImport
		}
	}
	for id := range provided {
		classification[id] = colon.IntentExport
	}
	return classification.Merge(b.Classification)
}
