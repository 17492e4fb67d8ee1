package facts

import (
	"fmt"

	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
	"github.com/andrescamacho/blockflow-go/internal/domain/logistics"
	"github.com/andrescamacho/blockflow-go/internal/domain/production"
	"github.com/andrescamacho/blockflow-go/internal/domain/recipe"
	"github.com/andrescamacho/blockflow-go/internal/domain/shared"
)

type amountDef struct {
	Type   string  `json:"type" yaml:"type"`
	Name   string  `json:"name" yaml:"name"`
	Amount float64 `json:"amount" yaml:"amount"`
}

type productDef struct {
	Type        string   `json:"type" yaml:"type"`
	Name        string   `json:"name" yaml:"name"`
	Amount      *float64 `json:"amount,omitempty" yaml:"amount,omitempty"`
	AmountMin   float64  `json:"amount_min,omitempty" yaml:"amount_min,omitempty"`
	AmountMax   float64  `json:"amount_max,omitempty" yaml:"amount_max,omitempty"`
	Probability *float64 `json:"probability,omitempty" yaml:"probability,omitempty"`
}

type recipeDef struct {
	Name        string       `json:"name" yaml:"name"`
	Category    string       `json:"category" yaml:"category"`
	Energy      float64      `json:"energy" yaml:"energy"`
	Ingredients []amountDef  `json:"ingredients" yaml:"ingredients"`
	Products    []productDef `json:"products" yaml:"products"`
}

type machineDef struct {
	Name      string  `json:"name" yaml:"name"`
	Category  string  `json:"category" yaml:"category"`
	BaseSpeed float64 `json:"base_speed" yaml:"base_speed"`
}

type moduleDef struct {
	Name        string   `json:"name" yaml:"name"`
	SpeedEffect float64  `json:"speed" yaml:"speed"`
	Limitation  []string `json:"limitation,omitempty" yaml:"limitation,omitempty"`
}

type boilerDef struct {
	Name   string  `json:"name" yaml:"name"`
	Input  string  `json:"input" yaml:"input"`
	Output string  `json:"output" yaml:"output"`
	Rate   float64 `json:"rate" yaml:"rate"`
}

type catalogFile struct {
	Recipes    []recipeDef        `json:"recipes" yaml:"recipes"`
	Items      []string           `json:"items,omitempty" yaml:"items,omitempty"`
	Fluids     []string           `json:"fluids,omitempty" yaml:"fluids,omitempty"`
	StackSizes map[string]float64 `json:"stack_sizes,omitempty" yaml:"stack_sizes,omitempty"`
	Machines   []machineDef       `json:"machines,omitempty" yaml:"machines,omitempty"`
	Modules    []moduleDef        `json:"modules,omitempty" yaml:"modules,omitempty"`
	Boilers    []boilerDef        `json:"boilers,omitempty" yaml:"boilers,omitempty"`
}

// CatalogFacts is everything loaded from a catalog file
type CatalogFacts struct {
	Catalog  *recipe.Catalog
	Machines *production.MachineTable
	Stacks   logistics.StackSizes
	Digest   string
}

// LoadCatalog reads recipes, stack sizes and machine overrides from a JSON
// or YAML file. Machine, module and boiler entries extend the default table.
func LoadCatalog(path string) (*CatalogFacts, error) {
	var file catalogFile
	digest, err := decodeFile(path, &file)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	recipes := make([]recipe.Recipe, 0, len(file.Recipes))
	for _, def := range file.Recipes {
		r, err := def.toDomain()
		if err != nil {
			return nil, shared.NewFactsError(path, err.Error())
		}
		recipes = append(recipes, r)
	}

	known := make([]colon.ID, 0, len(file.Items)+len(file.Fluids))
	for _, name := range file.Items {
		known = append(known, colon.Item(name))
	}
	for _, name := range file.Fluids {
		known = append(known, colon.Fluid(name))
	}

	catalog, err := recipe.NewCatalog(recipes, recipe.WithKnownColons(known...))
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}

	machines, err := file.machineTable()
	if err != nil {
		return nil, shared.NewFactsError(path, err.Error())
	}

	stacks := make(logistics.StackSizes, len(file.StackSizes))
	for name, size := range file.StackSizes {
		stacks[colon.Item(name)] = size
	}

	return &CatalogFacts{Catalog: catalog, Machines: machines, Stacks: stacks, Digest: digest}, nil
}

func colonOf(kind, name string) (colon.ID, error) {
	if kind == "" {
		kind = string(colon.KindItem)
	}
	return colon.Parse(kind + ":" + name)
}

func (d recipeDef) toDomain() (recipe.Recipe, error) {
	if d.Name == "" {
		return recipe.Recipe{}, fmt.Errorf("recipe without name")
	}
	r := recipe.Recipe{Name: d.Name, Category: d.Category, Energy: d.Energy}
	for _, ing := range d.Ingredients {
		id, err := colonOf(ing.Type, ing.Name)
		if err != nil {
			return recipe.Recipe{}, fmt.Errorf("recipe %s: %w", d.Name, err)
		}
		r.Ingredients = append(r.Ingredients, recipe.Ingredient{Colon: id, Amount: ing.Amount})
	}
	for _, p := range d.Products {
		id, err := colonOf(p.Type, p.Name)
		if err != nil {
			return recipe.Recipe{}, fmt.Errorf("recipe %s: %w", d.Name, err)
		}
		r.Products = append(r.Products, recipe.Product{
			Colon:       id,
			Amount:      p.Amount,
			AmountMin:   p.AmountMin,
			AmountMax:   p.AmountMax,
			Probability: p.Probability,
		})
	}
	return r, nil
}

func (f catalogFile) machineTable() (*production.MachineTable, error) {
	table := production.DefaultMachineTable()
	for _, m := range f.Machines {
		table.Machines[m.Name] = production.MachineSpec{Name: m.Name, Category: m.Category, BaseSpeed: m.BaseSpeed}
	}
	for _, m := range f.Modules {
		table.Modules[m.Name] = production.ModuleSpec{Name: m.Name, SpeedEffect: m.SpeedEffect, Limitation: m.Limitation}
	}
	for _, b := range f.Boilers {
		in, err := colon.Parse(b.Input)
		if err != nil {
			return nil, fmt.Errorf("boiler %s: %w", b.Name, err)
		}
		out, err := colon.Parse(b.Output)
		if err != nil {
			return nil, fmt.Errorf("boiler %s: %w", b.Name, err)
		}
		table.Boilers[b.Name] = production.BoilerSpec{Name: b.Name, Input: in, Output: out, Rate: b.Rate}
	}
	return table, nil
}
