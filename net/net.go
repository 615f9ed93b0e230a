package net

import (
	"fmt"

	"github.com/pflow-xyz/biopetri/observer"
	"github.com/pflow-xyz/biopetri/rateexpr"
)

// Net is the mutable Petri net model. All editing operations are
// synchronous, atomic, and validated: a rejected operation leaves the net
// exactly as it was, and a structural violation is always a *StructureError.
type Net struct {
	places      map[string]*Place
	transitions map[string]*Transition
	arcs        map[string]*Arc

	placeOrder      []string
	transitionOrder []string
	arcOrder        []string

	bus *observer.Bus
}

// New creates an empty net. bus may be nil, in which case editing
// operations are silent (no events are published).
func New(bus *observer.Bus) *Net {
	return &Net{
		places:      make(map[string]*Place),
		transitions: make(map[string]*Transition),
		arcs:        make(map[string]*Arc),
		bus:         bus,
	}
}

func (n *Net) publish(evt observer.Event) {
	if n.bus != nil {
		n.bus.Publish(evt)
	}
}

// Bus returns the net's event bus, creating one lazily if none was
// supplied to New. The simulation controller publishes StepFired/Reset
// events onto this same bus so editors can observe both model mutations
// and simulation progress through a single subscription.
func (n *Net) Bus() *observer.Bus {
	if n.bus == nil {
		n.bus = observer.NewBus()
	}
	return n.bus
}

// RegisterObserver subscribes h to every event this net publishes. It
// returns a token usable with UnregisterObserver.
func (n *Net) RegisterObserver(h observer.Handler) int {
	return n.Bus().Subscribe(h)
}

// UnregisterObserver removes a previously registered handler.
func (n *Net) UnregisterObserver(token int) {
	if n.bus != nil {
		n.bus.Unsubscribe(token)
	}
}

// AddPlace creates and inserts a new place, publishing Created.
func (n *Net) AddPlace(cfg PlaceConfig) (*Place, error) {
	if cfg.ID != "" {
		if _, exists := n.places[cfg.ID]; exists {
			return nil, newStructureErr(DuplicateID, cfg.ID, fmt.Errorf("place already exists"))
		}
	}
	if cfg.Capacity < 0 || cfg.Initial < 0 {
		return nil, newStructureErr(InvalidWeight, cfg.ID, fmt.Errorf("initial and capacity must be non-negative"))
	}
	p := newPlace(cfg)
	n.places[p.ID] = p
	n.placeOrder = append(n.placeOrder, p.ID)
	n.publish(observer.Event{Kind: observer.Created, ObjectKind: "place", ObjectID: p.ID, New: p})
	return p, nil
}

// AddTransition creates and inserts a new transition, publishing Created.
func (n *Net) AddTransition(cfg TransitionConfig) (*Transition, error) {
	if cfg.ID != "" {
		if _, exists := n.transitions[cfg.ID]; exists {
			return nil, newStructureErr(DuplicateID, cfg.ID, fmt.Errorf("transition already exists"))
		}
	}
	if cfg.Type == Timed && cfg.LatestFiring < cfg.EarliestFiring {
		return nil, newStructureErr(InvalidWeight, cfg.ID, fmt.Errorf("latest firing bound precedes earliest"))
	}
	if cfg.Type == Stochastic || cfg.Type == Continuous {
		if _, err := rateexpr.Compile(cfg.RateExpr); err != nil {
			return nil, err
		}
	}
	t := newTransition(cfg)
	n.transitions[t.ID] = t
	n.transitionOrder = append(n.transitionOrder, t.ID)
	n.publish(observer.Event{Kind: observer.Created, ObjectKind: "transition", ObjectID: t.ID, New: t})
	return t, nil
}

// AddArc creates and inserts a new arc after validating the bipartite
// invariant: exactly one endpoint is a place and the other a transition.
func (n *Net) AddArc(cfg ArcConfig) (*Arc, error) {
	if cfg.ID != "" {
		if _, exists := n.arcs[cfg.ID]; exists {
			return nil, newStructureErr(DuplicateID, cfg.ID, fmt.Errorf("arc already exists"))
		}
	}
	_, srcIsPlace := n.places[cfg.Source]
	_, srcIsTrans := n.transitions[cfg.Source]
	_, dstIsPlace := n.places[cfg.Target]
	_, dstIsTrans := n.transitions[cfg.Target]

	if !srcIsPlace && !srcIsTrans {
		return nil, newStructureErr(DanglingReference, cfg.Source, fmt.Errorf("arc source does not exist"))
	}
	if !dstIsPlace && !dstIsTrans {
		return nil, newStructureErr(DanglingReference, cfg.Target, fmt.Errorf("arc target does not exist"))
	}
	if srcIsPlace == dstIsPlace {
		return nil, newStructureErr(NonBipartite, cfg.Source+"->"+cfg.Target,
			fmt.Errorf("arcs must connect a place to a transition, never place-to-place or transition-to-transition"))
	}
	if cfg.Kind == Inhibitor && !srcIsPlace {
		return nil, newStructureErr(SourceSinkViolation, cfg.Source, fmt.Errorf("inhibitor arcs must originate at a place"))
	}
	if cfg.Kind == Reset && !dstIsPlace {
		return nil, newStructureErr(SourceSinkViolation, cfg.Target, fmt.Errorf("reset arcs must target a place"))
	}
	if cfg.Kind == Normal && dstIsTrans {
		if t := n.transitions[cfg.Target]; t.IsSource {
			return nil, newStructureErr(SourceSinkViolation, cfg.Target, fmt.Errorf("is_source transitions may not have normal input arcs"))
		}
	}
	if cfg.Kind == Normal && srcIsTrans {
		if t := n.transitions[cfg.Source]; t.IsSink {
			return nil, newStructureErr(SourceSinkViolation, cfg.Source, fmt.Errorf("is_sink transitions may not have normal output arcs"))
		}
	}
	if cfg.Weight < 0 {
		return nil, newStructureErr(InvalidWeight, cfg.ID, fmt.Errorf("arc weight must be non-negative"))
	}
	a := newArc(cfg)
	n.arcs[a.ID] = a
	n.arcOrder = append(n.arcOrder, a.ID)
	n.publish(observer.Event{Kind: observer.Created, ObjectKind: "arc", ObjectID: a.ID, New: a})
	return a, nil
}

// RemovePlace deletes a place and every arc touching it (cascading delete).
// Removing an ID that does not exist is a no-op, not an error.
func (n *Net) RemovePlace(id string) {
	old, ok := n.places[id]
	if !ok {
		return
	}
	for _, arcID := range n.arcOrder {
		if a, ok := n.arcs[arcID]; ok && (a.Source == id || a.Target == id) {
			n.removeArcByID(arcID)
		}
	}
	delete(n.places, id)
	n.placeOrder = removeString(n.placeOrder, id)
	n.publish(observer.Event{Kind: observer.Deleted, ObjectKind: "place", ObjectID: id, Old: old})
}

// RemoveTransition deletes a transition and every arc touching it.
func (n *Net) RemoveTransition(id string) {
	old, ok := n.transitions[id]
	if !ok {
		return
	}
	for _, arcID := range n.arcOrder {
		if a, ok := n.arcs[arcID]; ok && (a.Source == id || a.Target == id) {
			n.removeArcByID(arcID)
		}
	}
	delete(n.transitions, id)
	n.transitionOrder = removeString(n.transitionOrder, id)
	n.publish(observer.Event{Kind: observer.Deleted, ObjectKind: "transition", ObjectID: id, Old: old})
}

// RemoveArc deletes a single arc. A missing ID is a no-op.
func (n *Net) RemoveArc(id string) {
	n.removeArcByID(id)
}

func (n *Net) removeArcByID(id string) {
	old, ok := n.arcs[id]
	if !ok {
		return
	}
	delete(n.arcs, id)
	n.arcOrder = removeString(n.arcOrder, id)
	n.publish(observer.Event{Kind: observer.Deleted, ObjectKind: "arc", ObjectID: id, Old: old})
}

func containsString(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func removeString(s []string, v string) []string {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

// UpdatePlace applies fn to the place with the given ID and publishes
// Modified. It is a no-op if the ID does not exist.
func (n *Net) UpdatePlace(id string, fn func(*Place)) {
	p, ok := n.places[id]
	if !ok {
		return
	}
	before := *p
	fn(p)
	n.publish(observer.Event{Kind: observer.Modified, ObjectKind: "place", ObjectID: id, Old: &before, New: p})
}

// UpdateTransition applies fn to the transition with the given ID and
// publishes Modified, or Transformed if fn changed its Type.
func (n *Net) UpdateTransition(id string, fn func(*Transition)) {
	t, ok := n.transitions[id]
	if !ok {
		return
	}
	before := *t
	fn(t)
	kind := observer.Modified
	if before.Type != t.Type {
		kind = observer.Transformed
	}
	n.publish(observer.Event{Kind: kind, ObjectKind: "transition", ObjectID: id, Old: &before, New: t})
}

// GetPlace looks up a place by ID.
func (n *Net) GetPlace(id string) (*Place, bool) {
	p, ok := n.places[id]
	return p, ok
}

// GetTransition looks up a transition by ID.
func (n *Net) GetTransition(id string) (*Transition, bool) {
	t, ok := n.transitions[id]
	return t, ok
}

// GetArc looks up an arc by ID.
func (n *Net) GetArc(id string) (*Arc, bool) {
	a, ok := n.arcs[id]
	return a, ok
}

// IteratePlaces returns places in insertion order.
func (n *Net) IteratePlaces() []*Place {
	out := make([]*Place, 0, len(n.placeOrder))
	for _, id := range n.placeOrder {
		out = append(out, n.places[id])
	}
	return out
}

// IterateTransitions returns transitions in insertion order.
func (n *Net) IterateTransitions() []*Transition {
	out := make([]*Transition, 0, len(n.transitionOrder))
	for _, id := range n.transitionOrder {
		out = append(out, n.transitions[id])
	}
	return out
}

// IterateArcs returns arcs in insertion order.
func (n *Net) IterateArcs() []*Arc {
	out := make([]*Arc, 0, len(n.arcOrder))
	for _, id := range n.arcOrder {
		out = append(out, n.arcs[id])
	}
	return out
}

// GetInputArcs returns arcs whose target is the given transition.
func (n *Net) GetInputArcs(transitionID string) []*Arc {
	var out []*Arc
	for _, id := range n.arcOrder {
		a := n.arcs[id]
		if a.Target == transitionID {
			out = append(out, a)
		}
	}
	return out
}

// GetOutputArcs returns arcs whose source is the given transition.
func (n *Net) GetOutputArcs(transitionID string) []*Arc {
	var out []*Arc
	for _, id := range n.arcOrder {
		a := n.arcs[id]
		if a.Source == transitionID {
			out = append(out, a)
		}
	}
	return out
}

// FiringEffect is the set of marking changes a single transition firing
// applies. Arcs are grouped by kind so ApplyEffect can enforce the fixed
// application order the spec requires: reset, then consume, then produce.
// A reset followed by a produce to the same place within one firing nets
// to the produced amount, never to zero.
type FiringEffect struct {
	Resets   []string           // place IDs to zero out
	Consumed map[string]float64 // place ID -> tokens removed
	Produced map[string]float64 // place ID -> tokens added
}

// ApplyEffect atomically applies a firing's marking changes in the fixed
// order reset -> consume -> produce. A firing that would take any place
// below zero is rejected wholesale with ExecutionError::InsufficientTokens
// before anything is mutated (callers are expected to have already
// validated enablement via CanFire; this is the last-line guard spec §7
// requires, not the primary enforcement mechanism). Produced amounts are
// still clamped to a finite Capacity, since overflow there is a modeling
// bound rather than a correctness violation.
func (n *Net) ApplyEffect(eff FiringEffect) error {
	for id := range eff.Produced {
		if _, ok := n.places[id]; !ok {
			return newStructureErr(DanglingReference, id, errPlaceNotFound)
		}
	}
	for _, id := range eff.Resets {
		if _, ok := n.places[id]; !ok {
			return newStructureErr(DanglingReference, id, errPlaceNotFound)
		}
	}
	for id, amt := range eff.Consumed {
		p, ok := n.places[id]
		if !ok {
			return newStructureErr(DanglingReference, id, errPlaceNotFound)
		}
		available := p.Marking
		if containsString(eff.Resets, id) {
			available = 0
		}
		if available < amt {
			return newExecutionErr(InsufficientTokens, id,
				fmt.Errorf("firing would take tokens below zero: has %v, needs %v", available, amt))
		}
	}

	for _, id := range eff.Resets {
		n.places[id].Marking = 0
	}
	for id, amt := range eff.Consumed {
		n.places[id].Marking -= amt
	}
	for id, amt := range eff.Produced {
		p := n.places[id]
		p.Marking += amt
		if p.Capacity > 0 && p.Marking > p.Capacity {
			p.Marking = p.Capacity
		}
	}
	return nil
}

// MarkingVector returns the current token count of every place, keyed by ID.
func (n *Net) MarkingVector() map[string]float64 {
	out := make(map[string]float64, len(n.placeOrder))
	for _, id := range n.placeOrder {
		out[id] = n.places[id].Marking
	}
	return out
}
