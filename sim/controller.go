// Package sim implements the simulation controller: the clock, the
// per-step phase algorithm (immediate exhaustion, timed/stochastic
// discrete firing, continuous integration), and conflict resolution
// among transitions competing for the same tokens.
package sim

import (
	"fmt"
	"math/rand/v2"

	"github.com/pflow-xyz/biopetri/behavior"
	"github.com/pflow-xyz/biopetri/integrate"
	"github.com/pflow-xyz/biopetri/net"
	"github.com/pflow-xyz/biopetri/observer"
)

// Controller drives a net through discrete simulation steps.
type Controller struct {
	n          *net.Net
	strategies map[string]behavior.Strategy
	bus        *observer.Bus
	rng        *rand.Rand

	settings Settings
	clock    float64
	rrCursor int

	issues    []Issue
	collector DataCollector

	wasEnabled map[string]bool
}

// NewController creates a Controller over n with default settings.
func NewController(n *net.Net) *Controller {
	return NewControllerWithSettings(n, DefaultSettings())
}

// NewControllerWithSettings creates a Controller over n with the given
// settings, most notably Settings.Seed — set before construction, since
// the seeded RNG threaded through every stochastic strategy is built once
// at Load time.
func NewControllerWithSettings(n *net.Net, s Settings) *Controller {
	c := &Controller{settings: s}
	c.Load(n)
	return c
}

// newRNG builds the deterministic source a given Settings.Seed reproduces:
// the same seed always yields the same stream, so reset() followed by the
// same sequence of inputs reproduces the same trajectory.
func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Load replaces the controlled net, resetting the clock and every
// transition's behavior state (Timed latches, Stochastic samples). The
// controller shares n's event bus, so model-mutation events and
// step/reset events are delivered through a single subscription point.
func (c *Controller) Load(n *net.Net) {
	c.n = n
	c.bus = n.Bus()
	c.rng = newRNG(c.settings.Seed)
	c.strategies = make(map[string]behavior.Strategy)
	c.wasEnabled = make(map[string]bool)
	for _, t := range n.IterateTransitions() {
		c.strategies[t.ID] = behavior.NewStrategy(t.Type, c.rng)
	}
	c.clock = 0
	c.rrCursor = 0
	c.issues = nil
	// Seed enablement edges now so a source transition (no input arcs)
	// latches its Timed/Stochastic state from instant 0 instead of from
	// whatever clock value the first Step call happens to pass.
	c.updateEnablementEdges()
}

// Reset rewinds the clock to 0 and clears behavior state without
// replacing the net. If initial is non-nil, every named place's marking
// is set to the given value first. The RNG is rebuilt from Settings.Seed,
// not carried over from its pre-reset state, so Reset followed by the
// same sequence of Step calls reproduces the same trajectory.
func (c *Controller) Reset(initial map[string]float64) {
	for id, v := range initial {
		c.n.UpdatePlace(id, func(p *net.Place) { p.Marking = v })
	}
	c.rng = newRNG(c.settings.Seed)
	for _, t := range c.n.IterateTransitions() {
		c.strategies[t.ID] = behavior.NewStrategy(t.Type, c.rng)
	}
	c.wasEnabled = make(map[string]bool)
	c.clock = 0
	c.rrCursor = 0
	c.issues = nil
	c.updateEnablementEdges()
	if c.bus != nil {
		c.bus.Publish(observer.Event{Kind: observer.Reset, Time: c.clock})
	}
}

// SetConflictPolicy changes how simultaneously-enabled competing
// transitions are ordered in subsequent steps.
func (c *Controller) SetConflictPolicy(p ConflictPolicy) {
	c.settings.ConflictPolicy = p
}

// SetSettings replaces the controller's settings wholesale.
func (c *Controller) SetSettings(s Settings) {
	c.settings = s
}

// SetDataCollector registers a collector to receive every StepResult.
func (c *Controller) SetDataCollector(dc DataCollector) {
	c.collector = dc
}

// Issues returns every non-fatal issue logged so far, oldest first.
func (c *Controller) Issues() []Issue {
	return c.issues
}

// Clock returns the controller's current simulation time.
func (c *Controller) Clock() float64 {
	return c.clock
}

func (c *Controller) updateEnablementEdges() {
	for _, t := range c.n.IterateTransitions() {
		strat := c.strategies[t.ID]
		now := strat.StructurallyEnabled(c.n, t)
		was := c.wasEnabled[t.ID]
		if now && !was {
			strat.OnEnabled(t, c.clock)
		} else if !now && was {
			strat.OnDisabled(t, c.clock)
		}
		c.wasEnabled[t.ID] = now
	}
}

// Step advances the simulation by dtRequest time units, running the
// five-phase algorithm: recompute enablement edges, exhaust immediate
// transitions, fire due timed transitions, fire due stochastic
// transitions, then integrate continuous flow over the step window.
//
// dtRequest must be non-negative; a negative request is rejected with
// ControllerError::NegativeStep and the controller's state is left
// untouched. dtRequest == 0 recomputes enablement edges but advances
// nothing and fires no discrete events — a benign no-op result.
func (c *Controller) Step(dtRequest float64) (StepResult, error) {
	if dtRequest < 0 {
		return StepResult{}, newControllerErr(NegativeStep, fmt.Errorf("dt_request must be >= 0, got %v", dtRequest))
	}

	before := c.n.MarkingVector()
	c.updateEnablementEdges()

	var fired []string
	if dtRequest > 0 {
		fired = c.fireImmediate()

		target := c.clock + dtRequest
		fired = append(fired, c.fireDiscreteDue(net.Timed, target)...)
		fired = append(fired, c.fireDiscreteDue(net.Stochastic, target)...)

		c.integrateContinuous(target)
		c.clock = target
	}

	after := c.n.MarkingVector()
	delta := make(map[string]float64, len(after))
	for id, v := range after {
		delta[id] = v - before[id]
	}

	result := StepResult{Time: c.clock, Firings: fired, Delta: delta}
	if c.collector != nil {
		c.collector.OnStep(result)
	}
	if c.bus != nil {
		c.bus.Publish(observer.Event{Kind: observer.StepFired, Time: c.clock, Firings: fired})
	}
	return result, nil
}

// StepDefault advances the simulation by Settings.StepSize — the
// convenience path for driver loops that step on a fixed cadence rather
// than computing dtRequest per call.
func (c *Controller) StepDefault() (StepResult, error) {
	return c.Step(c.settings.StepSize)
}

// fireImmediate exhausts every enabled Immediate transition, in
// conflict-policy order, re-checking enablement before each firing since
// an earlier firing in the same phase may have disabled a later
// candidate. It stops once none remain enabled or the iteration cap is
// hit.
func (c *Controller) fireImmediate() []string {
	var fired []string
	cap := c.settings.ImmediateIterationCap
	if cap <= 0 {
		cap = 10000
	}
	for i := 0; i < cap; i++ {
		candidates := c.enabledOfType(net.Immediate)
		if len(candidates) == 0 {
			return fired
		}
		ordered := order(c.settings.ConflictPolicy, candidates, c.rrCursor, c.rng)
		c.rrCursor++
		fired = append(fired, c.fireOne(ordered[0]))
	}
	c.logIssue(IssueIterationCapHit, "immediate transitions did not settle within the iteration cap")
	return fired
}

// fireDiscreteDue fires every Timed or Stochastic transition whose
// timing constraint is satisfied by target, in conflict-policy order,
// re-checking enablement before each firing.
func (c *Controller) fireDiscreteDue(kind net.TransitionType, target float64) []string {
	var fired []string
	for {
		var candidates []*net.Transition
		for _, t := range c.n.IterateTransitions() {
			if t.Type != kind {
				continue
			}
			if c.strategies[t.ID].CanFire(c.n, t, target) {
				candidates = append(candidates, t)
			}
		}
		if len(candidates) == 0 {
			return fired
		}
		ordered := order(c.settings.ConflictPolicy, candidates, c.rrCursor, c.rng)
		c.rrCursor++
		next := ordered[0]
		if lr, ok := c.strategies[next.ID].(behavior.LatenessReporter); ok && lr.Overshot(next, target) {
			c.logIssue(IssueMissedDeadline, fmt.Sprintf("transition %s fired after its latest-firing deadline", next.ID))
		}
		fired = append(fired, c.fireOne(next))
	}
}

func (c *Controller) fireOne(t *net.Transition) string {
	strat := c.strategies[t.ID]
	eff, err := strat.Fire(c.n, t, c.clock)
	if err != nil {
		c.logIssue("fire-error", err.Error())
		return t.ID
	}
	if err := c.n.ApplyEffect(eff); err != nil {
		c.logIssue("apply-error", err.Error())
	}
	return t.ID
}

func (c *Controller) enabledOfType(kind net.TransitionType) []*net.Transition {
	var out []*net.Transition
	for _, t := range c.n.IterateTransitions() {
		if t.Type != kind {
			continue
		}
		if c.strategies[t.ID].CanFire(c.n, t, c.clock) {
			out = append(out, t)
		}
	}
	return out
}

// stageView is the live net with its markings replaced by one RK4
// stage's marking, so each stage's rates see that stage's state.
type stageView struct {
	net.View
	marking map[string]float64
}

func (v stageView) Marking(placeID string) float64 { return v.marking[placeID] }

// integrateContinuous advances every Continuous transition's flow from
// c.clock to target with one fixed RK4 step, combining each
// transition's rate through its arc weights exactly as behavior
// .discreteEffect does for a discrete firing, but as a flow instead of a
// token transfer.
func (c *Controller) integrateContinuous(target float64) {
	h := target - c.clock
	if h <= 0 {
		return
	}

	var continuous []*net.Transition
	for _, t := range c.n.IterateTransitions() {
		if t.Type == net.Continuous {
			continuous = append(continuous, t)
		}
	}
	if len(continuous) == 0 {
		return
	}

	rateFn := func(t float64, marking map[string]float64) map[string]float64 {
		d := make(map[string]float64)
		for _, tr := range continuous {
			strat := c.strategies[tr.ID].(behavior.RateProvider)
			rate, warn := strat.Rate(stageView{c.n, marking}, tr, t)
			if warn != "" {
				c.logIssue(IssueRateClamp, warn)
			}
			if rate == 0 {
				continue
			}
			for _, a := range c.n.GetInputArcs(tr.ID) {
				if a.Kind == net.Normal {
					d[a.Source] -= rate * a.Weight
				}
			}
			for _, a := range c.n.GetOutputArcs(tr.ID) {
				if a.Kind == net.Normal {
					d[a.Target] += rate * a.Weight
				}
			}
		}
		return d
	}

	next := integrate.Step(rateFn, c.clock, c.n.MarkingVector(), h)
	for id, v := range next {
		c.n.UpdatePlace(id, func(p *net.Place) { p.Marking = v })
	}
}
