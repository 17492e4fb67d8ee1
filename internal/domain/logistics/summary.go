package logistics

import (
	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
)

// Ratio compares observed stock with what a transfer needs
type Ratio struct {
	Actual   float64 `json:"actual"`
	Expected float64 `json:"expected"`
}

// Value returns Actual/Expected, or 1 when nothing is expected
func (r Ratio) Value() float64 {
	if r.Expected == 0 {
		return 1
	}
	return r.Actual / r.Expected
}

func (r Ratio) add(other Ratio) Ratio {
	return Ratio{Actual: r.Actual + other.Actual, Expected: r.Expected + other.Expected}
}

// Summary is the logistics state of one station or of a whole block
type Summary struct {
	Provides map[colon.ID]Ratio `json:"provides"`
	Looses   map[colon.ID]Ratio `json:"looses"`
	Requests map[colon.ID]Ratio `json:"requests"`
}

// NewSummary returns an empty summary
func NewSummary() Summary {
	return Summary{
		Provides: make(map[colon.ID]Ratio),
		Looses:   make(map[colon.ID]Ratio),
		Requests: make(map[colon.ID]Ratio),
	}
}

// SummarizeStation classifies a station's stock. Provided ids compare stock
// against MinTransfer. Negative combinator signals are requests with
// expected |v| and actual stock - v. Remaining nonzero stock is loose.
func SummarizeStation(st Station, stacks StackSizes) Summary {
	summary := NewSummary()
	th := ThresholdsFromSignals(st.Settings)
	stock := st.Stock()

	for id := range st.ProvidedColons() {
		summary.Provides[id] = Ratio{Actual: stock[id], Expected: MinTransfer(id, th, stacks)}
	}

	// repeated request signals for one id add up; stock counts once
	requested := make(map[colon.ID]float64)
	for _, sig := range st.Combinator {
		id, ok := sig.Colon()
		if !ok || sig.Count >= 0 {
			continue
		}
		requested[id] -= sig.Count
	}
	for id, total := range requested {
		summary.Requests[id] = Ratio{Actual: stock[id] + total, Expected: total}
	}

	for id, amount := range stock {
		if amount == 0 {
			continue
		}
		if _, ok := summary.Provides[id]; ok {
			continue
		}
		if _, ok := summary.Requests[id]; ok {
			continue
		}
		summary.Looses[id] = Ratio{Actual: amount, Expected: MinTransfer(id, th, stacks)}
	}
	return summary
}

// Summarize sums station summaries per id
func Summarize(stations []Station, stacks StackSizes) Summary {
	total := NewSummary()
	for _, st := range stations {
		s := SummarizeStation(st, stacks)
		mergeInto(total.Provides, s.Provides)
		mergeInto(total.Looses, s.Looses)
		mergeInto(total.Requests, s.Requests)
	}
	return total
}

func mergeInto(dst, src map[colon.ID]Ratio) {
	for id, r := range src {
		dst[id] = dst[id].add(r)
	}
}

// Shortages returns the provided or requested ids whose ratio is below 1
func (s Summary) Shortages() []colon.ID {
	short := make(colon.Set)
	for _, ratios := range []map[colon.ID]Ratio{s.Provides, s.Requests} {
		for id, r := range ratios {
			if r.Value() < 1 {
				short.Add(id)
			}
		}
	}
	return short.Sorted()
}
