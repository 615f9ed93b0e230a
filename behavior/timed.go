package behavior

import "github.com/pflow-xyz/biopetri/net"

// TimedStrategy implements TPN-style interval-timed transitions. A timed
// transition becomes eligible EarliestFiring time units after it was
// last (re-)enabled. Once LatestFiring time units have elapsed it is
// urgent (IsUrgent); it stays eligible past that deadline, so a firing
// after it is a late firing that Overshot reports. Re-enablement (the transition becomes
// disabled, then enabled again before firing) resets the latch — the
// window restarts from the new enabling instant, it never carries over
// elapsed time from the previous enabling period.
type TimedStrategy struct {
	enabledSince map[string]float64
}

func (s *TimedStrategy) CanFire(view net.View, t *net.Transition, clock float64) bool {
	if !enabledByArcs(view, t) {
		return false
	}
	since, ok := s.enabledSince[t.ID]
	if !ok {
		// Structurally enabled this step but OnEnabled has not latched
		// yet; treat the current instant as the enabling instant so a
		// zero-width window (EarliestFiring == 0) can still fire
		// immediately.
		since = clock
	}
	elapsed := clock - since
	if elapsed < t.EarliestFiring {
		return false
	}
	// Past LatestFiring the transition is overdue, not disabled: it stays
	// fireable so the controller can still fire it late (Overshot reports
	// the lateness so callers can surface a warning).
	return true
}

// IsUrgent reports whether t has reached its latest firing deadline and
// must fire this step if it is still to fire at all.
func (s *TimedStrategy) IsUrgent(t *net.Transition, clock float64) bool {
	since, ok := s.enabledSince[t.ID]
	if !ok || t.LatestFiring <= 0 {
		return false
	}
	return clock-since >= t.LatestFiring
}

// Overshot reports whether t has already fired late: the clock has moved
// past its LatestFiring deadline while it was still enabled. It implements
// LatenessReporter so the controller can log a missed-deadline warning
// instead of silently firing an overdue transition.
func (s *TimedStrategy) Overshot(t *net.Transition, clock float64) bool {
	since, ok := s.enabledSince[t.ID]
	if !ok || t.LatestFiring <= 0 {
		return false
	}
	return clock-since > t.LatestFiring
}

func (s *TimedStrategy) StructurallyEnabled(view net.View, t *net.Transition) bool {
	return enabledByArcs(view, t)
}

func (s *TimedStrategy) Fire(view net.View, t *net.Transition, clock float64) (net.FiringEffect, error) {
	return discreteEffect(view, t), nil
}

func (s *TimedStrategy) OnEnabled(t *net.Transition, clock float64) {
	if _, ok := s.enabledSince[t.ID]; !ok {
		s.enabledSince[t.ID] = clock
	}
}

func (s *TimedStrategy) OnDisabled(t *net.Transition, clock float64) {
	delete(s.enabledSince, t.ID)
}

func (s *TimedStrategy) TypeName() string { return "timed" }
