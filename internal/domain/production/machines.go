package production

import (
	"math"

	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
)

// MinimalSpeed is used for machines missing from the table so the scale
// factor stays finite and nonzero.
const MinimalSpeed = 0.01

// MachineSpec describes a producer class
type MachineSpec struct {
	Name      string
	Category  string // limitation category modules are checked against
	BaseSpeed float64
}

// ModuleSpec describes the speed effect of one installed module.
// A module only affects machines whose category is in Limitation;
// an empty Limitation affects every machine.
type ModuleSpec struct {
	Name        string
	SpeedEffect float64
	Limitation  []string
}

func (m ModuleSpec) appliesTo(category string) bool {
	if len(m.Limitation) == 0 {
		return true
	}
	for _, c := range m.Limitation {
		if c == category {
			return true
		}
	}
	return false
}

// BoilerSpec is a hand-authored fixed conversion outside the recipe system
type BoilerSpec struct {
	Name   string
	Input  colon.ID
	Output colon.ID
	Rate   float64 // units per second per boiler
}

// MachineTable holds machine, module and boiler specifications
type MachineTable struct {
	Machines map[string]MachineSpec
	Modules  map[string]ModuleSpec
	Boilers  map[string]BoilerSpec
}

// DefaultMachineTable returns the vanilla producer classes
func DefaultMachineTable() *MachineTable {
	t := &MachineTable{
		Machines: make(map[string]MachineSpec),
		Modules:  make(map[string]ModuleSpec),
		Boilers:  make(map[string]BoilerSpec),
	}
	for _, m := range []MachineSpec{
		{Name: "assembling-machine-1", Category: "crafting", BaseSpeed: 0.5},
		{Name: "assembling-machine-2", Category: "crafting", BaseSpeed: 0.75},
		{Name: "assembling-machine-3", Category: "crafting", BaseSpeed: 1.25},
		{Name: "stone-furnace", Category: "smelting", BaseSpeed: 1},
		{Name: "steel-furnace", Category: "smelting", BaseSpeed: 2},
		{Name: "electric-furnace", Category: "smelting", BaseSpeed: 2},
		{Name: "chemical-plant", Category: "chemistry", BaseSpeed: 1},
		{Name: "oil-refinery", Category: "oil-processing", BaseSpeed: 1},
		{Name: "centrifuge", Category: "centrifuging", BaseSpeed: 1},
		{Name: "burner-mining-drill", Category: "mining", BaseSpeed: 0.25},
		{Name: "electric-mining-drill", Category: "mining", BaseSpeed: 0.5},
	} {
		t.Machines[m.Name] = m
	}
	for _, m := range []ModuleSpec{
		{Name: "speed-module", SpeedEffect: 0.2},
		{Name: "speed-module-2", SpeedEffect: 0.3},
		{Name: "speed-module-3", SpeedEffect: 0.5},
		{Name: "productivity-module", SpeedEffect: -0.05},
		{Name: "productivity-module-2", SpeedEffect: -0.1},
		{Name: "productivity-module-3", SpeedEffect: -0.15},
		{Name: "efficiency-module", SpeedEffect: 0},
	} {
		t.Modules[m.Name] = m
	}
	for _, b := range []BoilerSpec{
		{Name: "boiler", Input: colon.Fluid("water"), Output: colon.Fluid("steam"), Rate: 60},
		{Name: "heat-exchanger", Input: colon.Fluid("water"), Output: colon.Fluid("steam"), Rate: 103.2},
	} {
		t.Boilers[b.Name] = b
	}
	return t
}

// Speed returns the crafting speed of a machine with the given modules.
// Each module multiplies the speed by (1 + effect) when it applies to the
// machine's category; unknown machines fall back to MinimalSpeed.
func (t *MachineTable) Speed(machine string, modules map[string]int) float64 {
	spec, ok := t.Machines[machine]
	if !ok || spec.BaseSpeed <= 0 {
		return MinimalSpeed
	}
	speed := spec.BaseSpeed
	for name, count := range modules {
		mod, ok := t.Modules[name]
		if !ok || count <= 0 || !mod.appliesTo(spec.Category) {
			continue
		}
		speed *= math.Pow(1+mod.SpeedEffect, float64(count))
	}
	if speed <= 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
		return MinimalSpeed
	}
	return speed
}
