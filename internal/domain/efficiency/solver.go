package efficiency

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/andrescamacho/blockflow-go/internal/domain/shared"
)

const (
	DefaultTrials     = 1000
	DefaultIterations = 100
	DefaultStep       = 0.05

	// maxNudges bounds the inner loop that keeps pushing one index while it
	// still improves the score.
	maxNudges = 10000
)

// Options tune the randomized hill climb
type Options struct {
	Trials     int
	Iterations int
	Step       float64

	// Seed feeds the PCG generator. Zero draws a seed from the clock.
	Seed uint64

	// Budget caps wall time. Zero means no cap.
	Budget time.Duration
}

// DefaultOptions returns the standard restart and step settings
func DefaultOptions() Options {
	return Options{
		Trials:     DefaultTrials,
		Iterations: DefaultIterations,
		Step:       DefaultStep,
	}
}

func (o Options) normalized() Options {
	if o.Trials <= 0 {
		o.Trials = DefaultTrials
	}
	if o.Iterations <= 0 {
		o.Iterations = DefaultIterations
	}
	if o.Step <= 0 || math.IsNaN(o.Step) {
		o.Step = DefaultStep
	}
	return o
}

// Result is the best efficiency vector found
type Result struct {
	Efficiencies []float64
	Score        float64
	Trials       int  // trials actually run
	Truncated    bool // ctx or Budget stopped the search early
}

// Solver maximizes an Objective over efficiencies in [0,1]. A Solver owns its
// generator and must not be shared between goroutines.
type Solver struct {
	opts  Options
	rng   *rand.Rand
	clock shared.Clock
}

// NewSolver creates a solver. A nil clock uses the real clock.
func NewSolver(opts Options, clock shared.Clock) *Solver {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	opts = opts.normalized()
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(clock.Now().UnixNano())
	}
	return &Solver{
		opts:  opts,
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		clock: clock,
	}
}

// Options returns the effective options
func (s *Solver) Options() Options {
	return s.opts
}

// Solve runs independent trials from random starting points and keeps the
// best. It is anytime: when ctx is done or the budget elapses, the best
// vector found so far is returned with Truncated set. At least one trial
// always runs when the objective is non-empty.
//
// Indices that touch no term come back as zero.
func (s *Solver) Solve(ctx context.Context, obj Objective) Result {
	if obj.Size == 0 {
		return Result{Efficiencies: []float64{}}
	}

	var deadline time.Time
	if s.opts.Budget > 0 {
		deadline = s.clock.Now().Add(s.opts.Budget)
	}

	ev := newEvaluator(&obj)
	start := make([]float64, obj.Size)
	best := math.Inf(-1)
	bestE := make([]float64, obj.Size)

	result := Result{}
	for trial := 0; trial < s.opts.Trials; trial++ {
		if trial > 0 && s.stop(ctx, deadline) {
			result.Truncated = true
			break
		}

		for i := range start {
			r := s.rng.Float64()
			start[i] = 1 - r*r
		}
		ev.reset(start)
		s.climb(ev, obj.Size)
		result.Trials++

		if ev.score > best {
			best = ev.score
			copy(bestE, ev.e)
		}
	}

	for i := range bestE {
		if !obj.Touched(i) {
			bestE[i] = 0
		}
	}
	result.Efficiencies = bestE
	result.Score = obj.Evaluate(bestE)
	return result
}

func (s *Solver) stop(ctx context.Context, deadline time.Time) bool {
	if ctx.Err() != nil {
		return true
	}
	return !deadline.IsZero() && !s.clock.Now().Before(deadline)
}

// climb perturbs one random index per iteration, trying a step up before a
// step down, and keeps moving that index while either direction improves.
func (s *Solver) climb(ev *evaluator, size int) {
	for it := 0; it < s.opts.Iterations; it++ {
		i := s.rng.IntN(size)
		for n := 0; n < maxNudges; n++ {
			up := math.Min(ev.e[i]+s.rng.Float64()*s.opts.Step, 1)
			down := math.Max(ev.e[i]-s.rng.Float64()*s.opts.Step, 0)

			current := ev.score
			next, moved := ev.e[i], false
			if su := ev.scoreWith(i, up); su > current {
				next, current, moved = up, su, true
			}
			if sd := ev.scoreWith(i, down); sd > current {
				next, moved = down, true
			}
			if !moved {
				break
			}
			ev.set(i, next)
		}
	}
}
