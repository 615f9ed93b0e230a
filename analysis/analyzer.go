// Package analysis implements the structural analyzer: P/T-invariants,
// siphons and traps, structural cycles and strongly connected
// components, hub detection, shortest paths, and structural boundedness
// and liveness checks. Every analysis here operates on a net.Snapshot and
// the transition-projected structure graph, never on an enumerated
// reachability graph — runtime reachability-graph enumeration is
// explicitly out of scope for this core.
package analysis

import (
	"github.com/pflow-xyz/biopetri/matrix"
	"github.com/pflow-xyz/biopetri/net"
	"github.com/pflow-xyz/biopetri/observer"
)

// Analyzer runs structural analyses over a net snapshot. Each analysis
// method is independently callable and side-effect free; Dispatch exists
// for callers that want long-running analyses to run off the calling
// goroutine and report back through an observer.Bus.
type Analyzer struct {
	snap *net.Snapshot
	mgr  *matrix.Manager
	bus  *observer.Bus
}

// New creates an Analyzer over a snapshot, optionally publishing
// AnalysisComplete events to bus when analyses are run via Dispatch.
func New(snap *net.Snapshot, bus *observer.Bus) *Analyzer {
	return &Analyzer{snap: snap, mgr: matrix.NewManager(snap), bus: bus}
}

// Dispatch runs a named analysis asynchronously against this Analyzer's
// snapshot and publishes its result as an AnalysisComplete event once
// done. The snapshot is immutable, so a long-running analysis is never
// disturbed by concurrent edits to the live net it was taken from.
func (a *Analyzer) Dispatch(label string, fn func(*Analyzer) any) {
	if a.bus == nil {
		a.bus = observer.NewBus()
	}
	a.bus.Dispatch(label, func() any { return fn(a) })
}
