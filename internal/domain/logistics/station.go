package logistics

import (
	"regexp"

	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
)

const (
	SignalItem    = "item"
	SignalFluid   = "fluid"
	SignalVirtual = "virtual"

	// Virtual signals carrying LTN provider settings
	SignalStackThreshold = "ltn-provider-stack-threshold"
	SignalCountThreshold = "ltn-provider-threshold"
)

// Signal is one circuit network value
type Signal struct {
	Type  string  `json:"type" yaml:"type"`
	Name  string  `json:"name" yaml:"name"`
	Count float64 `json:"count" yaml:"count"`
}

// Colon returns the id carried by an item or fluid signal
func (s Signal) Colon() (colon.ID, bool) {
	if s.Name == "" {
		return colon.ID{}, false
	}
	switch s.Type {
	case SignalItem:
		return colon.Item(s.Name), true
	case SignalFluid:
		return colon.Fluid(s.Name), true
	default:
		return colon.ID{}, false
	}
}

// Station is a logistics stop with its three signal channels
type Station struct {
	Name       string     `json:"name" yaml:"name"`
	Settings   []Signal   `json:"settings,omitempty" yaml:"settings,omitempty"`
	Items      []Signal   `json:"items,omitempty" yaml:"items,omitempty"`           // observed stock
	Combinator []Signal   `json:"combinator,omitempty" yaml:"combinator,omitempty"` // negative values are requests
	Provides   []colon.ID `json:"provides,omitempty" yaml:"provides,omitempty"`
}

var richTextTag = regexp.MustCompile(`\[(item|fluid)=([^\]\s]+)\]`)

// ParseProvides extracts [item=x] and [fluid=x] rich-text tags from a
// station name
func ParseProvides(name string) colon.Set {
	provides := make(colon.Set)
	for _, m := range richTextTag.FindAllStringSubmatch(name, -1) {
		if m[1] == SignalFluid {
			provides.Add(colon.Fluid(m[2]))
		} else {
			provides.Add(colon.Item(m[2]))
		}
	}
	return provides
}

// ProvidedColons merges the declared provides with those in the name
func (s Station) ProvidedColons() colon.Set {
	provides := ParseProvides(s.Name)
	for _, id := range s.Provides {
		provides.Add(id)
	}
	return provides
}

// Stock sums the observed stock per id
func (s Station) Stock() map[colon.ID]float64 {
	stock := make(map[colon.ID]float64)
	for _, sig := range s.Items {
		if id, ok := sig.Colon(); ok {
			stock[id] += sig.Count
		}
	}
	return stock
}
