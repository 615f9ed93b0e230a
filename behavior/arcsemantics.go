package behavior

import "github.com/pflow-xyz/biopetri/net"

// enabledByArcs implements the shared structural-enablement check every
// discrete strategy (Immediate, Timed, Stochastic) uses: every Normal and
// Read input arc must be satisfiable, and no Inhibitor arc's threshold
// may be met.
func enabledByArcs(view net.View, t *net.Transition) bool {
	for _, a := range view.InputArcs(t.ID) {
		switch a.Kind {
		case net.Normal, net.Read:
			if view.Marking(a.Source) < a.Weight {
				return false
			}
		case net.Inhibitor:
			if view.Marking(a.Source) >= a.Weight {
				return false
			}
		}
	}
	return true
}

// discreteEffect builds the FiringEffect for a single discrete firing of
// t: Normal input arcs consume, Read arcs pass through untouched, Normal
// output arcs produce, and Reset output arcs zero their target place
// before any Normal output arc to that same place is applied (net.Net
// .ApplyEffect enforces this ordering).
func discreteEffect(view net.View, t *net.Transition) net.FiringEffect {
	eff := net.FiringEffect{
		Consumed: make(map[string]float64),
		Produced: make(map[string]float64),
	}
	for _, a := range view.InputArcs(t.ID) {
		if a.Kind == net.Normal {
			eff.Consumed[a.Source] += a.Weight
		}
	}
	for _, a := range view.OutputArcs(t.ID) {
		switch a.Kind {
		case net.Normal:
			eff.Produced[a.Target] += a.Weight
		case net.Reset:
			eff.Resets = append(eff.Resets, a.Target)
		}
	}
	return eff
}

// maxFeasibleBurst returns the largest burst size t's Normal input arcs can
// support against the current marking, or 0 if even a single firing isn't
// enabled. A transition with no Normal input arcs (a source transition) is
// unbounded by tokens.
func maxFeasibleBurst(view net.View, t *net.Transition) int {
	if !enabledByArcs(view, t) {
		return 0
	}
	const unbounded = 1 << 30
	max := unbounded
	for _, a := range view.InputArcs(t.ID) {
		if a.Kind != net.Normal || a.Weight <= 0 {
			continue
		}
		feasible := int(view.Marking(a.Source) / a.Weight)
		if feasible < max {
			max = feasible
		}
	}
	return max
}

// burstEffect builds the FiringEffect for firing t burst times within a
// single step: every Normal arc's quantity scales by burst. A Reset arc
// still zeroes its target exactly once — firing several times in the same
// instant does not re-zero an already-zeroed place.
func burstEffect(view net.View, t *net.Transition, burst int) net.FiringEffect {
	eff := net.FiringEffect{
		Consumed: make(map[string]float64),
		Produced: make(map[string]float64),
	}
	n := float64(burst)
	for _, a := range view.InputArcs(t.ID) {
		if a.Kind == net.Normal {
			eff.Consumed[a.Source] += a.Weight * n
		}
	}
	for _, a := range view.OutputArcs(t.ID) {
		switch a.Kind {
		case net.Normal:
			eff.Produced[a.Target] += a.Weight * n
		case net.Reset:
			eff.Resets = append(eff.Resets, a.Target)
		}
	}
	return eff
}
