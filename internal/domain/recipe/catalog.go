package recipe

import (
	"sort"

	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
)

// NameIndex resolves bare item or fluid names to typed ids.
// It is built once when the catalog is constructed and never mutated afterwards.
type NameIndex struct {
	items  map[string]struct{}
	fluids map[string]struct{}
}

func newNameIndex() *NameIndex {
	return &NameIndex{
		items:  make(map[string]struct{}),
		fluids: make(map[string]struct{}),
	}
}

func (n *NameIndex) add(id colon.ID) {
	switch id.Kind {
	case colon.KindFluid:
		n.fluids[id.Name] = struct{}{}
	default:
		n.items[id.Name] = struct{}{}
	}
}

// IsFluid reports whether name is a known fluid
func (n *NameIndex) IsFluid(name string) bool {
	_, ok := n.fluids[name]
	return ok
}

// IsItem reports whether name is a known item
func (n *NameIndex) IsItem(name string) bool {
	_, ok := n.items[name]
	return ok
}

// Resolve returns the id for a bare name, preferring items on a clash
func (n *NameIndex) Resolve(name string) (colon.ID, bool) {
	if n.IsItem(name) {
		return colon.Item(name), true
	}
	if n.IsFluid(name) {
		return colon.Fluid(name), true
	}
	return colon.ID{}, false
}

// Len returns the number of distinct ids known to the index
func (n *NameIndex) Len() int {
	return len(n.items) + len(n.fluids)
}

// Catalog is the table of declared recipes plus the name-pattern rules that
// synthesize barrel and void-sink recipes on demand.
type Catalog struct {
	declared map[string]Recipe
	index    *NameIndex
	rules    []synthesisRule
}

// CatalogOption customizes catalog construction
type CatalogOption func(*Catalog)

// WithKnownColons registers ids that appear in no recipe (e.g. raw resources)
// so the name index can resolve them.
func WithKnownColons(ids ...colon.ID) CatalogOption {
	return func(c *Catalog) {
		for _, id := range ids {
			c.index.add(id)
		}
	}
}

// NewCatalog builds a catalog from declared recipes.
// Every ingredient and product is registered in the name index.
func NewCatalog(recipes []Recipe, opts ...CatalogOption) (*Catalog, error) {
	c := &Catalog{
		declared: make(map[string]Recipe, len(recipes)),
		index:    newNameIndex(),
		rules:    defaultSynthesisRules(),
	}

	for _, r := range recipes {
		if _, exists := c.declared[r.Name]; exists {
			return nil, &ErrDuplicateRecipe{Name: r.Name}
		}
		c.declared[r.Name] = r
		for _, ing := range r.Ingredients {
			c.index.add(ing.Colon)
		}
		for _, p := range r.Products {
			c.index.add(p.Colon)
		}
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Lookup returns the recipe for name, synthesizing it from a name pattern when
// it is not declared. The second result is false when nothing matches.
func (c *Catalog) Lookup(name string) (Recipe, bool) {
	if r, ok := c.declared[name]; ok {
		return r, true
	}
	for _, rule := range c.rules {
		if r, ok := rule.match(c.index, name); ok {
			return r, true
		}
	}
	return Recipe{}, false
}

// IsDeclared reports whether name is in the declared table
func (c *Catalog) IsDeclared(name string) bool {
	_, ok := c.declared[name]
	return ok
}

// Get is Lookup with a typed error for callers that need one
func (c *Catalog) Get(name string) (Recipe, error) {
	r, ok := c.Lookup(name)
	if !ok {
		return Recipe{}, &ErrRecipeNotFound{Name: name}
	}
	return r, nil
}

// IsBanned reports whether a recipe belongs to a family that is excluded from
// reachability walks (barrel fill/empty and void sinks), since those create
// degenerate cycles.
func (c *Catalog) IsBanned(name string) bool {
	for _, rule := range c.rules {
		if rule.banned && rule.matchesName(name) {
			return true
		}
	}
	return false
}

// Declared returns every declared recipe sorted by name
func (c *Catalog) Declared() []Recipe {
	out := make([]Recipe, 0, len(c.declared))
	for _, r := range c.declared {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of declared recipes
func (c *Catalog) Len() int {
	return len(c.declared)
}

// Index returns the catalog-owned name index
func (c *Catalog) Index() *NameIndex {
	return c.index
}
