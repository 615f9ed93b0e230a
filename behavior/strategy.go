// Package behavior implements the four transition firing strategies
// (Immediate, Timed, Stochastic, Continuous) as a closed sum type behind
// a single Strategy interface, selected by a factory keyed on
// net.TransitionType.
package behavior

import (
	"math/rand/v2"

	"github.com/pflow-xyz/biopetri/net"
)

// Strategy governs how a single transition behaves during a simulation
// step: whether it is enabled, what happens when it fires, and what
// happens when its enablement status changes. Exactly one Strategy
// implementation exists per net.TransitionType.
type Strategy interface {
	// CanFire reports whether t is eligible to fire at the given clock:
	// every input place holds enough tokens, no inhibitor arc's
	// threshold is met, and (for Timed/Stochastic) the timing
	// constraint is also satisfied.
	CanFire(view net.View, t *net.Transition, clock float64) bool

	// StructurallyEnabled reports only the arc-level enablement check
	// (ignoring any timing constraint). The controller uses the rising
	// and falling edges of this signal, not of CanFire, to call
	// OnEnabled/OnDisabled — a Timed transition's window latch must
	// start from the instant its tokens became available, not from
	// whenever the window happens to also be open.
	StructurallyEnabled(view net.View, t *net.Transition) bool

	// Fire computes the marking effect of firing t once. Callers apply
	// the effect via net.Net.ApplyEffect; Fire itself never mutates.
	Fire(view net.View, t *net.Transition, clock float64) (net.FiringEffect, error)

	// OnEnabled is called the step a previously-disabled transition
	// becomes enabled. Timed strategies use it to latch the enabling
	// clock; the others are no-ops.
	OnEnabled(t *net.Transition, clock float64)

	// OnDisabled is called the step a previously-enabled transition
	// becomes disabled. Timed strategies use it to clear the latch;
	// Stochastic strategies use it to discard a pending sample (FSPN
	// re-enablement resamples the delay from scratch).
	OnDisabled(t *net.Transition, clock float64)

	// TypeName identifies the strategy for diagnostics.
	TypeName() string
}

// NewStrategy returns the Strategy implementation for kind. It is the
// sole construction point for the closed sum type; callers never
// type-switch on net.TransitionType themselves. rng drives every
// stochastic sampling decision the strategy makes (burst sizes, sample
// delays); a nil rng falls back to a fixed, unseeded-by-caller source so
// callers that don't care about reproducibility (mainly tests) still get
// deterministic behavior across a single process run.
func NewStrategy(kind net.TransitionType, rng *rand.Rand) Strategy {
	switch kind {
	case net.Immediate:
		return &ImmediateStrategy{}
	case net.Timed:
		return &TimedStrategy{enabledSince: make(map[string]float64)}
	case net.Stochastic:
		return &StochasticStrategy{
			scheduled: make(map[string]float64),
			burst:     make(map[string]int),
			rng:       rngOrDefault(rng),
		}
	case net.Continuous:
		return &ContinuousStrategy{}
	default:
		return &ImmediateStrategy{}
	}
}

// rngOrDefault returns rng if non-nil, or a fixed-seed fallback source
// otherwise. The fallback seed is arbitrary but constant, so a caller that
// never sets sim.Settings.Seed still gets a strategy that behaves the same
// way every run rather than one seeded from process entropy.
func rngOrDefault(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return rand.New(rand.NewPCG(0xdeadbeef, 0xcafef00d))
}

// RateProvider is implemented by strategies whose transitions flow
// continuously rather than fire discretely. The simulation controller
// type-asserts for it during the continuous-integration phase instead of
// ever calling Fire on a Continuous strategy.
type RateProvider interface {
	Rate(view net.View, t *net.Transition, clock float64) (float64, string)
}

// LatenessReporter is implemented by strategies that can fire past their
// own deadline. The controller type-asserts for it after a successful
// firing to decide whether to log a missed-deadline warning.
type LatenessReporter interface {
	Overshot(t *net.Transition, clock float64) bool
}
