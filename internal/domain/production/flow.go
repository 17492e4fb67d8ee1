package production

import (
	"strconv"
	"strings"

	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
)

// FlowVector maps ids to signed per-second rates.
// Negative values are consumption, positive values are production.
type FlowVector map[colon.ID]float64

// Add accumulates other scaled by factor into v
func (v FlowVector) Add(other FlowVector, factor float64) {
	for id, rate := range other {
		v[id] += rate * factor
	}
}

// Scaled returns a copy of v multiplied by factor
func (v FlowVector) Scaled(factor float64) FlowVector {
	out := make(FlowVector, len(v))
	for id, rate := range v {
		out[id] = rate * factor
	}
	return out
}

// Colons returns the ids with a nonzero rate, sorted
func (v FlowVector) Colons() []colon.ID {
	ids := make([]colon.ID, 0, len(v))
	for id, rate := range v {
		if rate != 0 {
			ids = append(ids, id)
		}
	}
	colon.SortIDs(ids)
	return ids
}

// IsEmpty reports whether no entry is nonzero
func (v FlowVector) IsEmpty() bool {
	for _, rate := range v {
		if rate != 0 {
			return false
		}
	}
	return true
}

// Key is an order-independent serialization of the nonzero entries.
// Two vectors with the same key are structurally identical.
func (v FlowVector) Key() string {
	var b strings.Builder
	for i, id := range v.Colons() {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(id.String())
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(v[id], 'g', 9, 64))
	}
	return b.String()
}
