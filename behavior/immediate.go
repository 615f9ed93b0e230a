package behavior

import "github.com/pflow-xyz/biopetri/net"

// ImmediateStrategy implements zero-delay transitions. An immediate
// transition fires as soon as it is enabled, within the same phase of a
// simulation step; the controller keeps firing the highest-Priority
// enabled immediate transition until none remain or an iteration cap is
// reached (the cap guards against a structurally-cyclic immediate
// subnet, not a modeling error the strategy itself can detect).
type ImmediateStrategy struct{}

func (s *ImmediateStrategy) CanFire(view net.View, t *net.Transition, clock float64) bool {
	return enabledByArcs(view, t)
}

func (s *ImmediateStrategy) StructurallyEnabled(view net.View, t *net.Transition) bool {
	return enabledByArcs(view, t)
}

func (s *ImmediateStrategy) Fire(view net.View, t *net.Transition, clock float64) (net.FiringEffect, error) {
	return discreteEffect(view, t), nil
}

func (s *ImmediateStrategy) OnEnabled(t *net.Transition, clock float64)  {}
func (s *ImmediateStrategy) OnDisabled(t *net.Transition, clock float64) {}
func (s *ImmediateStrategy) TypeName() string                           { return "immediate" }
