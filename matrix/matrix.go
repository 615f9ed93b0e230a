// Package matrix implements the incidence matrix manager: it derives
// C+ (post/production), C- (pre/consumption), and C = C+ - C- from a
// net snapshot, auto-selecting a dense or sparse representation by arc
// density, and recomputes only when the net's structural fingerprint
// changes.
package matrix

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/pflow-xyz/biopetri/net"
)

// The dense representation is used when the matrix is small enough that a
// full grid is cheap regardless of fill (total cells <= denseSizeThreshold),
// or when it is large but densely populated (density >= denseDensityThreshold).
// Otherwise the sparse map representation is used. Density is
// nnz / (places * transitions).
const (
	denseSizeThreshold    = 10000
	denseDensityThreshold = 0.1
)

// Manager owns the current incidence matrices for a net and recomputes
// them only when the structural fingerprint changes.
type Manager struct {
	placeIndex map[string]int
	transIndex map[string]int
	placeIDs   []string
	transIDs   []string

	dense  bool
	pre    [][]float64 // [place][transition]
	post   [][]float64
	sparse map[[2]int]sparseEntry

	fingerprint string
}

type sparseEntry struct {
	pre  float64
	post float64
}

// NewManager builds a Manager from a net snapshot.
func NewManager(snap *net.Snapshot) *Manager {
	m := &Manager{}
	m.rebuild(snap)
	return m
}

// Refresh recomputes the matrices from snap only if its structural
// fingerprint differs from the one currently cached.
func (m *Manager) Refresh(snap *net.Snapshot) bool {
	fp := fingerprint(snap)
	if fp == m.fingerprint {
		return false
	}
	m.rebuild(snap)
	return true
}

func (m *Manager) rebuild(snap *net.Snapshot) {
	m.placeIndex = make(map[string]int, len(snap.Places))
	m.transIndex = make(map[string]int, len(snap.Transitions))
	m.placeIDs = make([]string, 0, len(snap.Places))
	m.transIDs = make([]string, 0, len(snap.Transitions))

	for i, p := range snap.Places {
		m.placeIndex[p.ID] = i
		m.placeIDs = append(m.placeIDs, p.ID)
	}
	for j, t := range snap.Transitions {
		m.transIndex[t.ID] = j
		m.transIDs = append(m.transIDs, t.ID)
	}

	nnz := 0
	for _, a := range snap.Arcs {
		if a.Kind == net.Normal || a.Kind == net.Reset {
			nnz++
		}
	}
	total := len(m.placeIDs) * len(m.transIDs)
	density := 0.0
	if total > 0 {
		density = float64(nnz) / float64(total)
	}
	m.dense = total > 0 && (total <= denseSizeThreshold || density >= denseDensityThreshold)

	if m.dense {
		m.pre = makeGrid(len(m.placeIDs), len(m.transIDs))
		m.post = makeGrid(len(m.placeIDs), len(m.transIDs))
		m.sparse = nil
	} else {
		m.sparse = make(map[[2]int]sparseEntry, nnz)
		m.pre = nil
		m.post = nil
	}

	for _, a := range snap.Arcs {
		switch a.Kind {
		case net.Normal:
			if pi, ok := m.placeIndex[a.Source]; ok {
				if tj, ok := m.transIndex[a.Target]; ok {
					m.addPre(pi, tj, a.Weight)
					continue
				}
			}
			if tj, ok := m.transIndex[a.Source]; ok {
				if pi, ok := m.placeIndex[a.Target]; ok {
					m.addPost(pi, tj, a.Weight)
				}
			}
		case net.Reset:
			// A reset arc always runs transition -> place; its "post"
			// contribution to the linear algebra is the place's full
			// capacity worth of removal, which is not representable as
			// a fixed linear weight. It is excluded from C and handled
			// by net.ApplyEffect directly; structural analyses that
			// need reset semantics consult net.Arc.Kind on the snapshot.
		}
	}

	m.fingerprint = fingerprint(snap)
}

func makeGrid(rows, cols int) [][]float64 {
	g := make([][]float64, rows)
	for i := range g {
		g[i] = make([]float64, cols)
	}
	return g
}

func (m *Manager) addPre(pi, tj int, w float64) {
	if m.dense {
		m.pre[pi][tj] += w
		return
	}
	e := m.sparse[[2]int{pi, tj}]
	e.pre += w
	m.sparse[[2]int{pi, tj}] = e
}

func (m *Manager) addPost(pi, tj int, w float64) {
	if m.dense {
		m.post[pi][tj] += w
		return
	}
	e := m.sparse[[2]int{pi, tj}]
	e.post += w
	m.sparse[[2]int{pi, tj}] = e
}

// PlaceIDs returns place IDs in the matrix's row order.
func (m *Manager) PlaceIDs() []string { return m.placeIDs }

// TransitionIDs returns transition IDs in the matrix's column order.
func (m *Manager) TransitionIDs() []string { return m.transIDs }

// IsDense reports whether the manager is using the dense representation.
func (m *Manager) IsDense() bool { return m.dense }

// PreWeight returns C-[place][transition]: tokens consumed per firing.
func (m *Manager) PreWeight(placeID, transID string) float64 {
	pi, ok1 := m.placeIndex[placeID]
	tj, ok2 := m.transIndex[transID]
	if !ok1 || !ok2 {
		return 0
	}
	if m.dense {
		return m.pre[pi][tj]
	}
	return m.sparse[[2]int{pi, tj}].pre
}

// PostWeight returns C+[place][transition]: tokens produced per firing.
func (m *Manager) PostWeight(placeID, transID string) float64 {
	pi, ok1 := m.placeIndex[placeID]
	tj, ok2 := m.transIndex[transID]
	if !ok1 || !ok2 {
		return 0
	}
	if m.dense {
		return m.post[pi][tj]
	}
	return m.sparse[[2]int{pi, tj}].post
}

// Incidence returns C[place][transition] = C+ - C-.
func (m *Manager) Incidence(placeID, transID string) float64 {
	return m.PostWeight(placeID, transID) - m.PreWeight(placeID, transID)
}

// Column returns the full incidence column for one transition, ordered by
// PlaceIDs().
func (m *Manager) Column(transID string) []float64 {
	col := make([]float64, len(m.placeIDs))
	for i, pid := range m.placeIDs {
		col[i] = m.Incidence(pid, transID)
	}
	return col
}

// ToMarking converts a place-ID-keyed marking map into a row vector
// ordered by PlaceIDs().
func (m *Manager) ToMarking(byID map[string]float64) []float64 {
	out := make([]float64, len(m.placeIDs))
	for i, pid := range m.placeIDs {
		out[i] = byID[pid]
	}
	return out
}

// ApplyFireVector computes M' = M + C*sigma given a marking vector M
// (ordered by PlaceIDs) and a firing-count vector sigma (ordered by
// TransitionIDs), without mutating either input.
func (m *Manager) ApplyFireVector(marking []float64, sigma []float64) []float64 {
	result := make([]float64, len(marking))
	copy(result, marking)
	for j, tid := range m.transIDs {
		count := sigma[j]
		if count == 0 {
			continue
		}
		for i, pid := range m.placeIDs {
			result[i] += m.Incidence(pid, tid) * count
		}
	}
	return result
}

// fingerprint computes a sha256-based structural hash over the
// canonical (sorted) ID/arc tuples of a snapshot, so Refresh can detect
// "nothing structural changed" without a full matrix rebuild.
func fingerprint(snap *net.Snapshot) string {
	type arcTuple struct {
		Source string  `json:"s"`
		Target string  `json:"t"`
		Weight float64 `json:"w"`
		Kind   int     `json:"k"`
	}
	placeIDs := make([]string, 0, len(snap.Places))
	for _, p := range snap.Places {
		placeIDs = append(placeIDs, p.ID)
	}
	sort.Strings(placeIDs)

	transIDs := make([]string, 0, len(snap.Transitions))
	for _, t := range snap.Transitions {
		transIDs = append(transIDs, t.ID)
	}
	sort.Strings(transIDs)

	arcs := make([]arcTuple, 0, len(snap.Arcs))
	for _, a := range snap.Arcs {
		arcs = append(arcs, arcTuple{Source: a.Source, Target: a.Target, Weight: a.Weight, Kind: int(a.Kind)})
	}
	sort.Slice(arcs, func(i, j int) bool {
		if arcs[i].Source != arcs[j].Source {
			return arcs[i].Source < arcs[j].Source
		}
		return arcs[i].Target < arcs[j].Target
	})

	payload := struct {
		Places      []string   `json:"places"`
		Transitions []string   `json:"transitions"`
		Arcs        []arcTuple `json:"arcs"`
	}{placeIDs, transIDs, arcs}

	data, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
