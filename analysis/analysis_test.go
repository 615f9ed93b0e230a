package analysis_test

import (
	"testing"

	"github.com/pflow-xyz/biopetri/analysis"
	"github.com/pflow-xyz/biopetri/net"
	"github.com/pflow-xyz/biopetri/observer"
)

// buildSIR mirrors the classic SIR chain: S -> infect -> I -> recover -> R.
// infect both consumes from and produces into I, so the transition graph
// has an infect -> infect self-loop; the cycle/SCC tests use buildCyclic.
func buildSIR(t *testing.T) (*net.Snapshot, *net.Builder) {
	t.Helper()
	b := net.Build().
		Place("S", 10).
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
		t.Fatalf("build: %v", err)
	}
	return n.Snapshot(), b
}

func buildCyclic(t *testing.T) *net.Snapshot {
	t.Helper()
	n, err := net.Build().
		Place("A", 1).
		Place("B", 0).
		Transition("t1").
		Transition("t2").
		Arc("A", "t1", 1).
		Arc("t1", "B", 1).
		Arc("B", "t2", 1).
		Arc("t2", "A", 1).
		Done()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return n.Snapshot()
}

func TestStructuralCyclesDetectsCycle(t *testing.T) {
	snap := buildCyclic(t)
	a := analysis.New(snap, nil)
	if !a.HasStructuralCycle() {
		t.Fatal("expected structural cycle to be detected")
	}
	cycles := a.StructuralCycles()
	if len(cycles) == 0 {
		t.Fatal("expected at least one cycle reported")
	}
}

func TestStructuralCyclesAcyclicNetReportsNone(t *testing.T) {
	n, err := net.Build().
		Place("S", 10).
		Place("I", 0).
		Place("R", 0).
		Transition("infect").
		Transition("recover").
		Arc("S", "infect", 1).
		Arc("infect", "I", 1).
		Arc("I", "recover", 1).
		Arc("recover", "R", 1).
		Done()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	a := analysis.New(n.Snapshot(), nil)
	if a.HasStructuralCycle() {
		t.Fatal("SIR chain without feedback should have no structural cycle among transitions")
	}
}

func TestStronglyConnectedComponentsGroupsCycle(t *testing.T) {
	snap := buildCyclic(t)
	a := analysis.New(snap, nil)
	sccs := a.StronglyConnectedComponents()

	found := false
	for _, comp := range sccs {
		if len(comp) == 2 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a 2-transition SCC, got %v", sccs)
	}
}

func TestPInvariantsFindsTokenConservation(t *testing.T) {
	snap, b := buildSIR(t)
	a := analysis.New(snap, nil)
	invariants := a.PInvariants()
	if len(invariants) == 0 {
		t.Fatal("expected at least one P-invariant for a conservative SIR-like net")
	}
	_ = b
}

func TestStructurallyBoundedDetectsConservedNet(t *testing.T) {
	// A simple 1-in-1-out transition between two places is conserved:
	// every firing moves exactly one token from A to B and back.
	n, err := net.Build().
		Place("A", 1).
		Place("B", 0).
		Transition("move").
		Transition("moveBack").
		Arc("A", "move", 1).
		Arc("move", "B", 1).
		Arc("B", "moveBack", 1).
		Arc("moveBack", "A", 1).
		Done()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	a := analysis.New(n.Snapshot(), nil)
	if !a.StructurallyBounded() {
		t.Fatal("expected conserved net to be structurally bounded")
	}
}

func TestSiphonsFindsUnrefillableSet(t *testing.T) {
	// A -> t -> (nothing back): {A} is a siphon since t only consumes from
	// A and nothing produces into A.
	n, err := net.Build().
		Place("A", 1).
		Place("B", 0).
		Transition("t").
		Arc("A", "t", 1).
		Arc("t", "B", 1).
		Done()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	a := analysis.New(n.Snapshot(), nil)
	siphons := a.Siphons()

	foundA := false
	for _, s := range siphons {
		if len(s) == 1 && s[0] == placeIDByName(t, n, "A") {
			foundA = true
		}
	}
	if !foundA {
		t.Fatalf("expected {A} to be reported as a siphon, got %v", siphons)
	}
}

func placeIDByName(t *testing.T, n *net.Net, name string) string {
	t.Helper()
	for _, p := range n.IteratePlaces() {
		if p.Name == name {
			return p.ID
		}
	}
	t.Fatalf("place %q not found", name)
	return ""
}

func TestTrapsFindsNeverEmptyingSet(t *testing.T) {
	// A -> t -> B, nothing consumes from B: {B} is a trap.
	n, err := net.Build().
		Place("A", 1).
		Place("B", 0).
		Transition("t").
		Arc("A", "t", 1).
		Arc("t", "B", 1).
		Done()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	a := analysis.New(n.Snapshot(), nil)
	traps := a.Traps()

	foundB := false
	bID := placeIDByName(t, n, "B")
	for _, tr := range traps {
		if len(tr) == 1 && tr[0] == bID {
			foundB = true
		}
	}
	if !foundB {
		t.Fatalf("expected {B} to be reported as a trap, got %v", traps)
	}
}

func TestHubsRanksMostCentralFirst(t *testing.T) {
	snap, _ := buildSIR(t)
	a := analysis.New(snap, nil)
	hubs := a.Hubs(100, 1e-9)
	if len(hubs) == 0 {
		t.Fatal("expected hubs to be reported")
	}
	for i := 1; i < len(hubs); i++ {
		if hubs[i].Centrality > hubs[i-1].Centrality {
			t.Fatalf("hubs not sorted descending at index %d: %+v", i, hubs)
		}
	}
}

func TestShortestPathFindsRoute(t *testing.T) {
	snap, b := buildSIR(t)
	a := analysis.New(snap, nil)
	path := a.ShortestPath(b.ID("S"), b.ID("R"))
	if path == nil {
		t.Fatal("expected a path from S to R")
	}
	if path[0] != b.ID("S") || path[len(path)-1] != b.ID("R") {
		t.Fatalf("path endpoints wrong: %v", path)
	}
}

func TestShortestPathUnreachableReturnsNil(t *testing.T) {
	n, err := net.Build().
		Place("A", 1).
		Place("Z", 0).
		Transition("t").
		Arc("A", "t", 1).
		Done()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	a := analysis.New(n.Snapshot(), nil)
	path := a.ShortestPath(placeIDByName(t, n, "Z"), placeIDByName(t, n, "A"))
	if path != nil {
		t.Fatalf("expected no path, got %v", path)
	}
}

func TestKShortestPathsReturnsDistinctRoutes(t *testing.T) {
	// Two parallel routes from A to D: A->t1->B->t2->D and A->t3->C->t4->D.
	n, err := net.Build().
		Place("A", 1).
		Place("B", 0).
		Place("C", 0).
		Place("D", 0).
		Transition("t1").
		Transition("t2").
		Transition("t3").
		Transition("t4").
		Arc("A", "t1", 1).
		Arc("t1", "B", 1).
		Arc("B", "t2", 1).
		Arc("t2", "D", 1).
		Arc("A", "t3", 1).
		Arc("t3", "C", 1).
		Arc("C", "t4", 1).
		Arc("t4", "D", 1).
		Done()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	a := analysis.New(n.Snapshot(), nil)
	paths := a.KShortestPaths(placeIDByName(t, n, "A"), placeIDByName(t, n, "D"), 2)
	if len(paths) != 2 {
		t.Fatalf("expected 2 paths, got %d: %v", len(paths), paths)
	}
	same := len(paths[0]) == len(paths[1])
	for i := 0; same && i < len(paths[0]); i++ {
		same = paths[0][i] == paths[1][i]
	}
	if same {
		t.Fatalf("expected distinct paths, got %v twice", paths[0])
	}
}

func TestLivenessFlagsStructurallyDeadTransition(t *testing.T) {
	// A starts empty and nothing produces into it: {A} is an unmarked
	// siphon, so t (which consumes from A) is structurally dead.
	n, err := net.Build().
		Place("A", 0).
		Place("B", 0).
		Transition("t").
		Arc("A", "t", 1).
		Arc("t", "B", 1).
		Done()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	a := analysis.New(n.Snapshot(), nil)
	report := a.Liveness()

	tID := ""
	for _, tr := range n.IterateTransitions() {
		tID = tr.ID
	}
	if report.Class[tID] != analysis.LivenessStructurallyDead {
		t.Fatalf("expected t to be structurally dead, got %v", report.Class[tID])
	}
}

func TestLivenessMarkedNetReportsUnknown(t *testing.T) {
	snap, b := buildSIR(t)
	a := analysis.New(snap, nil)
	report := a.Liveness()
	if report.Class[b.ID("infect")] != analysis.LivenessUnknown {
		t.Fatalf("expected infect to be unknown (marked siphons don't prove deadness), got %v", report.Class[b.ID("infect")])
	}
}

func TestDispatchPublishesResult(t *testing.T) {
	snap, _ := buildSIR(t)
	bus := observer.NewBus()
	done := make(chan observer.Event, 1)
	bus.Subscribe(func(e observer.Event) {
		if e.Kind == observer.AnalysisComplete {
			done <- e
		}
	})
	a := analysis.New(snap, bus)
	a.Dispatch("cycles", func(a *analysis.Analyzer) any {
		return a.StructuralCycles()
	})
	e := <-done
	if e.ObjectID != "cycles" {
		t.Fatalf("expected completion for %q, got %q", "cycles", e.ObjectID)
	}
}
