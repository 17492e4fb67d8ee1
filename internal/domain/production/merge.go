package production

import "github.com/andrescamacho/blockflow-go/internal/domain/colon"

// Merge groups structurally identical flow vectors into single actions whose
// Count is the total multiplicity. Order follows first appearance, so the
// result is deterministic for a given input.
//
// Solving the merged actions is equivalent to solving the raw ones: every
// consumer scales by Count.
func Merge(actions []Action) []Action {
	merged := make([]Action, 0, len(actions))
	byKey := make(map[string]int, len(actions))

	for _, a := range actions {
		key := a.Flow.Key()
		if a.Recipe != "" && a.Flow.IsEmpty() {
			// empty flows keep their recipe identity apart so unresolved
			// recipes stay visible in reports
			key = "empty:" + a.Recipe
		}
		count := a.Count
		if count <= 0 {
			count = 1
		}

		idx, ok := byKey[key]
		if !ok {
			byKey[key] = len(merged)
			merged = append(merged, Action{
				Recipe:   a.Recipe,
				Flow:     a.Flow.Scaled(1),
				Count:    count,
				Inputs:   cloneSet(a.Inputs),
				Outputs:  cloneSet(a.Outputs),
				UnitIDs:  append([]string(nil), a.UnitIDs...),
				Resolved: a.Resolved,
			})
			continue
		}

		m := &merged[idx]
		m.Count += count
		m.Inputs.AddAll(a.Inputs)
		m.Outputs.AddAll(a.Outputs)
		m.UnitIDs = append(m.UnitIDs, a.UnitIDs...)
		m.Resolved = m.Resolved || a.Resolved
	}
	return merged
}

func cloneSet(s colon.Set) colon.Set {
	out := make(colon.Set, len(s))
	out.AddAll(s)
	return out
}
