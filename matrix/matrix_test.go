package matrix

import (
	"fmt"
	"testing"

	"github.com/pflow-xyz/biopetri/net"
)

func buildSIR(t *testing.T) (*net.Net, *net.Builder) {
	t.Helper()
	b := net.Build().
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
		t.Fatalf("build: %v", err)
	}
	return n, b
}

func TestIncidenceMatchesPostMinusPre(t *testing.T) {
	n, b := buildSIR(t)
	m := NewManager(n.Snapshot())

	sID, iID, infectID := b.ID("S"), b.ID("I"), b.ID("infect")
	if got := m.PreWeight(sID, infectID); got != 1 {
		t.Errorf("PreWeight(S, infect) = %v, want 1", got)
	}
	if got := m.PostWeight(iID, infectID); got != 2 {
		t.Errorf("PostWeight(I, infect) = %v, want 2", got)
	}
	if got := m.Incidence(iID, infectID); got != 1 { // +2 produced, -1 consumed
		t.Errorf("Incidence(I, infect) = %v, want 1", got)
	}
	if got := m.Incidence(sID, infectID); got != -1 {
		t.Errorf("Incidence(S, infect) = %v, want -1", got)
	}
}

func TestApplyFireVectorMatchesManualFiring(t *testing.T) {
	n, b := buildSIR(t)
	m := NewManager(n.Snapshot())

	marking := m.ToMarking(n.MarkingVector())
	sigma := m.FireVector(b.ID("infect"))
	result := m.ApplyFireVector(marking, sigma)

	idx := map[string]int{}
	for i, pid := range m.PlaceIDs() {
		idx[pid] = i
	}
	if result[idx[b.ID("S")]] != 98 {
		t.Errorf("S after infect fires once = %v, want 98", result[idx[b.ID("S")]])
	}
	if result[idx[b.ID("I")]] != 2 { // 1 - 1 consumed + 2 produced
		t.Errorf("I after infect fires once = %v, want 2", result[idx[b.ID("I")]])
	}
}

func TestRefreshSkipsUnchangedStructure(t *testing.T) {
	n, _ := buildSIR(t)
	m := NewManager(n.Snapshot())
	changed := m.Refresh(n.Snapshot())
	if changed {
		t.Error("expected Refresh to skip rebuild when structure is unchanged")
	}
}

func TestRefreshDetectsStructuralChange(t *testing.T) {
	n, _ := buildSIR(t)
	m := NewManager(n.Snapshot())
	if _, err := n.AddPlace(net.PlaceConfig{Name: "Q"}); err != nil {
		t.Fatalf("AddPlace: %v", err)
	}
	changed := m.Refresh(n.Snapshot())
	if !changed {
		t.Error("expected Refresh to detect the new place")
	}
}

func TestValidateBipartiteAcceptsWellFormedSnapshot(t *testing.T) {
	n, _ := buildSIR(t)
	if err := ValidateBipartite(n.Snapshot()); err != nil {
		t.Errorf("expected well-formed snapshot to validate, got %v", err)
	}
}

func TestEnabledReflectsPreWeights(t *testing.T) {
	n, b := buildSIR(t)
	m := NewManager(n.Snapshot())
	marking := n.MarkingVector()
	if !m.Enabled(marking, b.ID("infect")) {
		t.Error("expected infect enabled with S=99, I=1")
	}
	marking[b.ID("S")] = 0
	if m.Enabled(marking, b.ID("infect")) {
		t.Error("expected infect disabled with S=0")
	}
}

func TestDenseRepresentationBelowSizeThresholdRegardlessOfDensity(t *testing.T) {
	b := net.Build()
	for i := 0; i < 20; i++ {
		b = b.Place(fmt.Sprintf("p%d", i), 1)
	}
	for i := 0; i < 20; i++ {
		b = b.Transition(fmt.Sprintf("t%d", i))
	}
	// Only a handful of arcs among a 20x20=400 place/transition space: low
	// density, but total cells is well under denseSizeThreshold, so the
	// dense representation still applies.
	b = b.Arc("p0", "t0", 1).Arc("p1", "t1", 1)
	n, err := b.Done()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	m := NewManager(n.Snapshot())
	if !m.IsDense() {
		t.Error("expected dense representation below the size threshold")
	}
}

func TestSparseRepresentationForLargeLowDensityNet(t *testing.T) {
	b := net.Build()
	const n = 150 // 150*150 = 22500 > denseSizeThreshold
	for i := 0; i < n; i++ {
		b = b.Place(fmt.Sprintf("p%d", i), 1)
	}
	for i := 0; i < n; i++ {
		b = b.Transition(fmt.Sprintf("t%d", i))
	}
	// Only a handful of arcs among a 150x150 place/transition space: well
	// above the size threshold and well below the density threshold, so
	// the sparse representation applies.
	b = b.Arc("p0", "t0", 1).Arc("p1", "t1", 1)
	nt, err := b.Done()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	m := NewManager(nt.Snapshot())
	if m.IsDense() {
		t.Error("expected sparse representation for a large low-density net")
	}
}
