package sim

import (
	"math/rand/v2"
	"sort"

	"github.com/pflow-xyz/biopetri/net"
)

// ConflictPolicy selects the firing order among transitions that are
// simultaneously enabled and structurally compete for the same tokens
// (firing one may disable another before it gets its turn).
type ConflictPolicy int

const (
	// Random shuffles the enabled set independently each step.
	Random ConflictPolicy = iota
	// Priority orders by net.Transition.Priority, highest first, with
	// a stable tie-break on insertion order.
	Priority
	// TypeBased orders by transition type (Immediate, Timed, Stochastic,
	// Continuous), with a stable tie-break on insertion order.
	TypeBased
	// RoundRobin rotates the starting point of the enabled set on each
	// firing decision so no single transition is perpetually first in line.
	RoundRobin
)

func (p ConflictPolicy) String() string {
	switch p {
	case Random:
		return "random"
	case Priority:
		return "priority"
	case TypeBased:
		return "type-based"
	case RoundRobin:
		return "round-robin"
	default:
		return "unknown"
	}
}

// order returns ts reordered according to policy. rrCursor is the
// round-robin rotation offset, advanced by the caller after every firing
// decision. rng drives the Random policy's shuffle; a nil rng falls back
// to a PCG source with a fixed seed.
func order(policy ConflictPolicy, ts []*net.Transition, rrCursor int, rng *rand.Rand) []*net.Transition {
	out := make([]*net.Transition, len(ts))
	copy(out, ts)

	switch policy {
	case Random:
		if rng == nil {
			rng = rand.New(rand.NewPCG(0xdeadbeef, 0xcafef00d))
		}
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	case Priority:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	case TypeBased:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	case RoundRobin:
		if len(out) > 0 {
			shift := rrCursor % len(out)
			out = append(out[shift:], out[:shift]...)
		}
	}
	return out
}
