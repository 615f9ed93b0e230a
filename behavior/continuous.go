package behavior

import (
	"fmt"
	"math"

	"github.com/pflow-xyz/biopetri/net"
	"github.com/pflow-xyz/biopetri/rateexpr"
)

// ContinuousStrategy implements SHPN-style fluid transitions: they never
// discretely fire, they flow at a rate given by a compiled rate
// expression. The simulation controller never calls Fire on a continuous
// transition — it type-asserts the strategy to RateProvider during its
// integration phase instead. Fire and CanFire exist only so
// ContinuousStrategy satisfies Strategy for uniform strategy-table
// storage.
type ContinuousStrategy struct {
	compiled *rateexpr.Expr
}

func (s *ContinuousStrategy) CanFire(view net.View, t *net.Transition, clock float64) bool {
	rate, _ := s.Rate(view, t, clock)
	return rate > 0
}

func (s *ContinuousStrategy) StructurallyEnabled(view net.View, t *net.Transition) bool {
	return enabledByArcs(view, t)
}

func (s *ContinuousStrategy) Fire(view net.View, t *net.Transition, clock float64) (net.FiringEffect, error) {
	return net.FiringEffect{}, fmt.Errorf("behavior: continuous transition %s does not discretely fire", t.ID)
}

func (s *ContinuousStrategy) OnEnabled(t *net.Transition, clock float64)  {}
func (s *ContinuousStrategy) OnDisabled(t *net.Transition, clock float64) {}
func (s *ContinuousStrategy) TypeName() string                           { return "continuous" }

// Rate evaluates the transition's flow-rate expression against the
// current marking and clock, then clamps the result to [MinRate, MaxRate]
// (default [0, +Inf)). A non-empty warning means the expression failed
// to compile or evaluate, produced a non-finite value, or the raw rate
// fell outside the clamp range.
func (s *ContinuousStrategy) Rate(view net.View, t *net.Transition, clock float64) (float64, string) {
	if s.compiled == nil {
		expr, err := rateexpr.Compile(t.RateExpr)
		if err != nil {
			return 0, err.Error()
		}
		s.compiled = expr
	}
	rate, warn := s.compiled.Eval(markingOf(view), clock)
	if rate < t.MinRate {
		return t.MinRate, "flow rate below min_rate, clamped"
	}
	max := t.MaxRate
	if max <= 0 {
		max = math.Inf(1)
	}
	if rate > max {
		return max, "flow rate above max_rate, clamped"
	}
	return rate, warn
}
