package net

import "testing"

func TestBuilderSIRStyleChain(t *testing.T) {
	b := Build().
		Place("S", 99).
		Place("I", 1).
		Place("R", 0).
		Transition("infect").
		Transition("recover").
		Arc("S", "infect", 1).
		Arc("I", "infect", 1).
		Arc("infect", "I", 2).
		Arc("I", "recover", 1).
		Arc("recover", "R", 1)

	n, err := b.Done()
	if err != nil {
		t.Fatalf("Done: %v", err)
	}
	if len(n.IteratePlaces()) != 3 || len(n.IterateTransitions()) != 2 {
		t.Fatalf("expected 3 places and 2 transitions")
	}
	s, _ := n.GetPlace(b.ID("S"))
	if s.Marking != 99 {
		t.Errorf("expected S initial marking 99, got %v", s.Marking)
	}
}

func TestBuilderChainHelper(t *testing.T) {
	n, err := Build().Chain(1, "received", "start", "processing", "finish", "complete").Done()
	if err != nil {
		t.Fatalf("Done: %v", err)
	}
	if len(n.IteratePlaces()) != 3 || len(n.IterateTransitions()) != 2 || len(n.IterateArcs()) != 4 {
		t.Fatalf("unexpected chain shape: %d places, %d transitions, %d arcs",
			len(n.IteratePlaces()), len(n.IterateTransitions()), len(n.IterateArcs()))
	}
}

func TestBuilderPropagatesFirstError(t *testing.T) {
	b := Build().Arc("missing-a", "missing-b", 1)
	if _, err := b.Done(); err == nil {
		t.Fatal("expected Done to propagate the structural error")
	}
}

func TestBuilderResetAndInhibitorArcs(t *testing.T) {
	n, err := Build().
		Place("buffer", 5).
		Transition("drain").
		InhibitorArc("buffer", "drain", 0).
		ResetArc("drain", "buffer").
		Done()
	if err != nil {
		t.Fatalf("Done: %v", err)
	}
	if len(n.IterateArcs()) != 2 {
		t.Fatalf("expected 2 arcs, got %d", len(n.IterateArcs()))
	}
}

func TestBuilderTypedTransitions(t *testing.T) {
	b := Build().
		Place("substrate", 100).
		TimedTransition("delay", 1, 5).
		StochasticTransition("decay", "0.1 * P"+"substrate").
		ContinuousTransition("flow", "0.05 * P"+"substrate")

	n, err := b.Done()
	if err != nil {
		t.Fatalf("Done: %v", err)
	}
	byID := map[string]TransitionType{}
	for _, tr := range n.IterateTransitions() {
		byID[tr.Name] = tr.Type
	}
	if byID["delay"] != Timed || byID["decay"] != Stochastic || byID["flow"] != Continuous {
		t.Fatalf("unexpected transition types: %+v", byID)
	}
}
