package behavior

import (
	"math/rand/v2"

	"github.com/pflow-xyz/biopetri/net"
	"github.com/pflow-xyz/biopetri/rateexpr"
)

// StochasticStrategy implements FSPN-style exponentially-delayed
// transitions. Becoming enabled samples a delay from Exponential(rate),
// rate evaluated from the current marking; the transition fires once the
// clock reaches that sampled instant. Firing resamples immediately for
// the next burst rather than waiting for a disable/re-enable cycle, so a
// continuously-enabled stochastic transition keeps firing at its own
// Poisson-process pace instead of stalling after the first shot.
//
// Each scheduled firing also samples a burst size, uniformly from
// {1, ..., MaxBurst}. If the net cannot support the sampled burst (not
// enough tokens for that many simultaneous firings), the burst is resampled
// downward; a transition whose inputs can't even support a burst of 1 is
// disabled rather than firing partially. Reproducible sequences require a
// caller-seeded rng (sim.Settings.Seed); an unseeded strategy still behaves
// deterministically within a process but that is incidental, not a
// contract.
type StochasticStrategy struct {
	scheduled map[string]float64
	burst     map[string]int
	compiled  map[string]*rateexpr.Expr
	rng       *rand.Rand
}

func (s *StochasticStrategy) rateOf(t *net.Transition, marking map[string]float64, clock float64) (float64, string) {
	if s.compiled == nil {
		s.compiled = make(map[string]*rateexpr.Expr)
	}
	expr, ok := s.compiled[t.ID]
	if !ok {
		var err error
		expr, err = rateexpr.Compile(t.RateExpr)
		if err != nil {
			return 0, err.Error()
		}
		s.compiled[t.ID] = expr
	}
	return expr.Eval(marking, clock)
}

func markingOf(view net.View) map[string]float64 {
	m := make(map[string]float64)
	for _, p := range view.Places() {
		m[p.ID] = view.Marking(p.ID)
	}
	return m
}

func (s *StochasticStrategy) sample(view net.View, t *net.Transition, clock float64) float64 {
	rate, _ := s.rateOf(t, markingOf(view), clock)
	if rate <= 0 {
		return clock // degenerate rate: treat as immediately eligible once re-evaluated enabled
	}
	return clock + s.rng.ExpFloat64()/rate
}

// sampleBurst draws burst ~ UniformInteger{1..MaxBurst}.
func (s *StochasticStrategy) sampleBurst(t *net.Transition) int {
	max := t.MaxBurst
	if max <= 1 {
		return 1
	}
	return 1 + s.rng.IntN(max)
}

func (s *StochasticStrategy) CanFire(view net.View, t *net.Transition, clock float64) bool {
	if !enabledByArcs(view, t) {
		return false
	}
	if s.scheduled == nil {
		s.scheduled = make(map[string]float64)
	}
	if s.burst == nil {
		s.burst = make(map[string]int)
	}
	when, ok := s.scheduled[t.ID]
	if !ok {
		when = s.sample(view, t, clock)
		s.scheduled[t.ID] = when
		s.burst[t.ID] = s.sampleBurst(t)
	}
	if clock < when {
		return false
	}
	// The sampled burst may have become infeasible since it was drawn
	// (tokens drained by other transitions firing first this step).
	// Resample downward rather than firing more than the net can support;
	// a transition that can't even manage a burst of 1 stays disabled.
	feasible := maxFeasibleBurst(view, t)
	if feasible <= 0 {
		return false
	}
	if s.burst[t.ID] > feasible {
		s.burst[t.ID] = feasible
	}
	return true
}

func (s *StochasticStrategy) StructurallyEnabled(view net.View, t *net.Transition) bool {
	return enabledByArcs(view, t)
}

func (s *StochasticStrategy) Fire(view net.View, t *net.Transition, clock float64) (net.FiringEffect, error) {
	burst := s.burst[t.ID]
	if burst < 1 {
		burst = 1
	}
	eff := burstEffect(view, t, burst)
	delete(s.scheduled, t.ID) // resample on next enablement check (burst resampling)
	delete(s.burst, t.ID)
	return eff, nil
}

// OnEnabled defers sampling to the next CanFire check, which has the view
// needed to evaluate the rate expression against the current marking.
func (s *StochasticStrategy) OnEnabled(t *net.Transition, clock float64) {}

func (s *StochasticStrategy) OnDisabled(t *net.Transition, clock float64) {
	delete(s.scheduled, t.ID)
	delete(s.burst, t.ID)
}

func (s *StochasticStrategy) TypeName() string { return "stochastic" }
