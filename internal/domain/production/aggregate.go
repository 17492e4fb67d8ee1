package production

import "github.com/andrescamacho/blockflow-go/internal/domain/colon"

// Aggregate sums every action's flow scaled by its efficiency and count.
// Missing efficiencies count as zero.
func Aggregate(actions []Action, efficiencies []float64) FlowVector {
	net := make(FlowVector)
	for i, a := range actions {
		if i >= len(efficiencies) {
			break
		}
		count := a.Count
		if count <= 0 {
			count = 1
		}
		net.Add(a.Flow, efficiencies[i]*float64(count))
	}
	return net
}

// RecipeDifference derives a block's wanted and exported ids from the
// unscaled recipe structure of its actions: wanted are consumed but never
// produced locally, exports are produced but never consumed locally.
// The two sets are disjoint by construction.
func RecipeDifference(actions []Action) (wanted, exports colon.Set) {
	inputs := make(colon.Set)
	outputs := make(colon.Set)
	for _, a := range actions {
		inputs.AddAll(a.Inputs)
		outputs.AddAll(a.Outputs)
	}
	return inputs.Minus(outputs), outputs.Minus(inputs)
}
