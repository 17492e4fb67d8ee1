package logistics

import (
	"math"

	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
)

const (
	DefaultStackThreshold = 10.0
	DefaultCountThreshold = 1.0

	DefaultItemStack  = 50.0
	DefaultFluidStack = 1.0
)

// Thresholds is the LTN provider configuration of a station. Nil fields fall
// back to the defaults.
type Thresholds struct {
	StackThreshold *float64
	CountThreshold *float64
}

// ThresholdsFromSignals reads the provider threshold virtual signals.
// Non-positive or non-finite values are treated as absent.
func ThresholdsFromSignals(settings []Signal) Thresholds {
	var th Thresholds
	for _, sig := range settings {
		if sig.Type != SignalVirtual || !usable(sig.Count) {
			continue
		}
		v := sig.Count
		switch sig.Name {
		case SignalStackThreshold:
			th.StackThreshold = &v
		case SignalCountThreshold:
			th.CountThreshold = &v
		}
	}
	return th
}

func usable(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// StackSizes maps item ids to their stack size
type StackSizes map[colon.ID]float64

// Of returns the stack size of id. Fluids always count as 1 and unknown
// items as DefaultItemStack.
func (s StackSizes) Of(id colon.ID) float64 {
	if id.IsFluid() {
		return DefaultFluidStack
	}
	if size, ok := s[id]; ok && usable(size) {
		return size
	}
	return DefaultItemStack
}

// MinTransfer is the smallest stock that satisfies a provider:
// max(stack * stackThreshold, countThreshold)
func MinTransfer(id colon.ID, th Thresholds, stacks StackSizes) float64 {
	stackThreshold := DefaultStackThreshold
	if th.StackThreshold != nil && usable(*th.StackThreshold) {
		stackThreshold = *th.StackThreshold
	}
	countThreshold := DefaultCountThreshold
	if th.CountThreshold != nil && usable(*th.CountThreshold) {
		countThreshold = *th.CountThreshold
	}
	return math.Max(stacks.Of(id)*stackThreshold, countThreshold)
}
