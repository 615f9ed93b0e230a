package net

// View is the read-only surface behavior strategies and the simulation
// controller use to inspect net state without being able to mutate it
// directly (all mutation goes through ApplyEffect so every change is
// observable and ordered the same way).
type View interface {
	Place(id string) (*Place, bool)
	Transition(id string) (*Transition, bool)
	InputArcs(transitionID string) []*Arc
	OutputArcs(transitionID string) []*Arc
	Marking(placeID string) float64
	Places() []*Place
	Transitions() []*Transition
}

// Place implements View over the live, mutable net.
func (n *Net) Place(id string) (*Place, bool) { return n.GetPlace(id) }

// Transition implements View over the live, mutable net.
func (n *Net) Transition(id string) (*Transition, bool) { return n.GetTransition(id) }

// InputArcs implements View over the live, mutable net.
func (n *Net) InputArcs(transitionID string) []*Arc { return n.GetInputArcs(transitionID) }

// OutputArcs implements View over the live, mutable net.
func (n *Net) OutputArcs(transitionID string) []*Arc { return n.GetOutputArcs(transitionID) }

// Marking implements View, returning a single place's token count.
func (n *Net) Marking(placeID string) float64 {
	if p, ok := n.places[placeID]; ok {
		return p.Marking
	}
	return 0
}

// Places implements View over the live, mutable net.
func (n *Net) Places() []*Place { return n.IteratePlaces() }

// Transitions implements View over the live, mutable net.
func (n *Net) Transitions() []*Transition { return n.IterateTransitions() }

// Snapshot is an immutable, deep-copied point-in-time view of a net. The
// structural analyzer and the incidence matrix manager operate on
// snapshots so a long-running analysis is never disturbed by concurrent
// edits to the live net.
type Snapshot struct {
	Places      []*Place
	Transitions []*Transition
	Arcs        []*Arc

	placeIndex      map[string]*Place
	transitionIndex map[string]*Transition
}

// Snapshot takes an immutable deep copy of the current net state.
func (n *Net) Snapshot() *Snapshot {
	s := &Snapshot{
		Places:          make([]*Place, 0, len(n.placeOrder)),
		Transitions:     make([]*Transition, 0, len(n.transitionOrder)),
		Arcs:            make([]*Arc, 0, len(n.arcOrder)),
		placeIndex:      make(map[string]*Place, len(n.placeOrder)),
		transitionIndex: make(map[string]*Transition, len(n.transitionOrder)),
	}
	for _, id := range n.placeOrder {
		cp := *n.places[id]
		s.Places = append(s.Places, &cp)
		s.placeIndex[id] = &cp
	}
	for _, id := range n.transitionOrder {
		cp := *n.transitions[id]
		s.Transitions = append(s.Transitions, &cp)
		s.transitionIndex[id] = &cp
	}
	for _, id := range n.arcOrder {
		cp := *n.arcs[id]
		s.Arcs = append(s.Arcs, &cp)
	}
	return s
}

// Place looks up a place by ID in the snapshot.
func (s *Snapshot) Place(id string) (*Place, bool) {
	p, ok := s.placeIndex[id]
	return p, ok
}

// Transition looks up a transition by ID in the snapshot.
func (s *Snapshot) Transition(id string) (*Transition, bool) {
	t, ok := s.transitionIndex[id]
	return t, ok
}

// InputArcs returns arcs whose target is the given transition.
func (s *Snapshot) InputArcs(transitionID string) []*Arc {
	var out []*Arc
	for _, a := range s.Arcs {
		if a.Target == transitionID {
			out = append(out, a)
		}
	}
	return out
}

// OutputArcs returns arcs whose source is the given transition.
func (s *Snapshot) OutputArcs(transitionID string) []*Arc {
	var out []*Arc
	for _, a := range s.Arcs {
		if a.Source == transitionID {
			out = append(out, a)
		}
	}
	return out
}
