package efficiency

import (
	"math"

	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
	"github.com/andrescamacho/blockflow-go/internal/domain/production"
)

// BalancePenalty weighs an imbalance of one unit/s on a non-import, non-export
// id against a gain of one unit/s on an export.
const BalancePenalty = 100.0

// Mode selects how a term scores the net rate of its id
type Mode int

const (
	// ModeBalance penalizes any imbalance: -BalancePenalty * |net|
	ModeBalance Mode = iota

	// ModeImport rewards consumption: -net
	ModeImport

	// ModeExport rewards production: +net
	ModeExport
)

func (m Mode) String() string {
	switch m {
	case ModeImport:
		return "import"
	case ModeExport:
		return "export"
	default:
		return "balance"
	}
}

// ModeFor maps an intent to its scoring mode
func ModeFor(intent colon.Intent) Mode {
	switch intent {
	case colon.IntentImport:
		return ModeImport
	case colon.IntentExport:
		return ModeExport
	default:
		return ModeBalance
	}
}

// Contribution is the rate one action adds to a term at efficiency 1
type Contribution struct {
	Index int
	Rate  float64
}

// Term scores the net rate of one id
type Term struct {
	Colon         colon.ID
	Mode          Mode
	Contributions []Contribution
}

// Score returns the term value for a given net rate
func (t Term) Score(net float64) float64 {
	switch t.Mode {
	case ModeImport:
		return -net
	case ModeExport:
		return net
	default:
		return -BalancePenalty * math.Abs(net)
	}
}

// Net returns the net rate of the term's id under efficiencies e
func (t Term) Net(e []float64) float64 {
	var net float64
	for _, c := range t.Contributions {
		net += e[c.Index] * c.Rate
	}
	return net
}

// Objective is the sum of its terms over a fixed set of actions
type Objective struct {
	Size  int // number of actions (efficiency slots)
	Terms []Term

	termsByIndex [][]int
}

// BuildObjective creates one term per id referenced by any action. Rates are
// multiplied by the action count so merged actions score like their raw units.
func BuildObjective(actions []production.Action, classification colon.Classification) Objective {
	contributions := make(map[colon.ID][]Contribution)
	for i, a := range actions {
		count := a.Count
		if count <= 0 {
			count = 1
		}
		for _, id := range a.Flow.Colons() {
			contributions[id] = append(contributions[id], Contribution{Index: i, Rate: a.Flow[id] * float64(count)})
		}
	}

	ids := make([]colon.ID, 0, len(contributions))
	for id := range contributions {
		ids = append(ids, id)
	}
	colon.SortIDs(ids)

	obj := Objective{
		Size:         len(actions),
		Terms:        make([]Term, 0, len(ids)),
		termsByIndex: make([][]int, len(actions)),
	}
	for _, id := range ids {
		t := Term{Colon: id, Mode: ModeFor(classification.Intent(id)), Contributions: contributions[id]}
		for _, c := range t.Contributions {
			obj.termsByIndex[c.Index] = append(obj.termsByIndex[c.Index], len(obj.Terms))
		}
		obj.Terms = append(obj.Terms, t)
	}
	return obj
}

// Evaluate returns the objective value for efficiencies e
func (o Objective) Evaluate(e []float64) float64 {
	var total float64
	for _, t := range o.Terms {
		total += t.Score(t.Net(e))
	}
	return total
}

// Touched reports whether index i contributes to any term
func (o Objective) Touched(i int) bool {
	return i < len(o.termsByIndex) && len(o.termsByIndex[i]) > 0
}

// evaluator keeps per-term net rates so a single-index substitution only
// rescores the terms that index touches.
type evaluator struct {
	obj   *Objective
	e     []float64
	nets  []float64
	score float64
}

func newEvaluator(obj *Objective) *evaluator {
	return &evaluator{
		obj:  obj,
		e:    make([]float64, obj.Size),
		nets: make([]float64, len(obj.Terms)),
	}
}

func (ev *evaluator) reset(e []float64) {
	copy(ev.e, e)
	ev.score = 0
	for ti, t := range ev.obj.Terms {
		ev.nets[ti] = t.Net(ev.e)
		ev.score += t.Score(ev.nets[ti])
	}
}

func (ev *evaluator) rateOf(ti, index int) float64 {
	var rate float64
	for _, c := range ev.obj.Terms[ti].Contributions {
		if c.Index == index {
			rate += c.Rate
		}
	}
	return rate
}

// scoreWith returns the objective if e[index] were value
func (ev *evaluator) scoreWith(index int, value float64) float64 {
	delta := value - ev.e[index]
	score := ev.score
	for _, ti := range ev.obj.termsByIndex[index] {
		t := ev.obj.Terms[ti]
		next := ev.nets[ti] + delta*ev.rateOf(ti, index)
		score += t.Score(next) - t.Score(ev.nets[ti])
	}
	return score
}

// set commits e[index] = value
func (ev *evaluator) set(index int, value float64) {
	delta := value - ev.e[index]
	for _, ti := range ev.obj.termsByIndex[index] {
		t := ev.obj.Terms[ti]
		next := ev.nets[ti] + delta*ev.rateOf(ti, index)
		ev.score += t.Score(next) - t.Score(ev.nets[ti])
		ev.nets[ti] = next
	}
	ev.e[index] = value
}
