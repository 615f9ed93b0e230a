package matrix

import (
	"fmt"

	"github.com/pflow-xyz/biopetri/net"
)

// ValidateBipartite re-checks the bipartite invariant over a snapshot.
// net.Net enforces this at edit time already; this exists for snapshots
// assembled by analysis code that does not go through net.Net's editing
// API (e.g. a candidate structure under construction).
func ValidateBipartite(snap *net.Snapshot) error {
	places := make(map[string]bool, len(snap.Places))
	transitions := make(map[string]bool, len(snap.Transitions))
	for _, p := range snap.Places {
		places[p.ID] = true
	}
	for _, t := range snap.Transitions {
		transitions[t.ID] = true
	}
	for _, a := range snap.Arcs {
		srcPlace, dstPlace := places[a.Source], places[a.Target]
		srcTrans, dstTrans := transitions[a.Source], transitions[a.Target]
		if !srcPlace && !srcTrans {
			return fmt.Errorf("matrix: arc %s has dangling source %s", a.ID, a.Source)
		}
		if !dstPlace && !dstTrans {
			return fmt.Errorf("matrix: arc %s has dangling target %s", a.ID, a.Target)
		}
		if srcPlace == dstPlace {
			return fmt.Errorf("matrix: arc %s violates the bipartite invariant", a.ID)
		}
	}
	return nil
}

// Enabled reports whether transID's Normal input arcs are all
// satisfiable under marking (a place-ID-keyed map). It is the structural
// half of enablement matrix analyses need; inhibitor/read semantics live
// in the behavior package since they are not expressible as a fixed
// linear weight.
func (m *Manager) Enabled(marking map[string]float64, transID string) bool {
	for _, pid := range m.placeIDs {
		need := m.PreWeight(pid, transID)
		if need > 0 && marking[pid] < need {
			return false
		}
	}
	return true
}

// FireVector returns a unit firing-count vector (ordered by
// TransitionIDs) for a single firing of transID, for use with
// ApplyFireVector.
func (m *Manager) FireVector(transID string) []float64 {
	sigma := make([]float64, len(m.transIDs))
	for j, tid := range m.transIDs {
		if tid == transID {
			sigma[j] = 1
		}
	}
	return sigma
}
