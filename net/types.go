// Package net implements the simulation core's data model: places,
// transitions, arcs, and the bipartite net that owns them. It keeps both
// ID-indexed lookup maps and insertion-order ID slices so that anything
// deriving a matrix row/column ordering (matrix.Manager, analysis.*) sees
// a stable order across calls.
package net

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

// newID generates a hyphen-free unique identifier. Rate expressions
// reference place IDs as the bare identifier "P<id>"; the rate-expression
// lexer's identifier grammar excludes '-', so generated IDs must too —
// uuid.NewString()'s canonical hyphenated form would otherwise make every
// auto-generated place unreferenceable from a rate expression.
func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// TransitionType selects which behavior.Strategy governs a transition.
// It is a closed set: Immediate, Timed, Stochastic, Continuous.
type TransitionType int

const (
	Immediate TransitionType = iota
	Timed
	Stochastic
	Continuous
)

func (t TransitionType) String() string {
	switch t {
	case Immediate:
		return "immediate"
	case Timed:
		return "timed"
	case Stochastic:
		return "stochastic"
	case Continuous:
		return "continuous"
	default:
		return "unknown"
	}
}

// ArcKind distinguishes ordinary flow arcs from the special read,
// inhibitor, and reset arcs the behavior strategies interpret.
type ArcKind int

const (
	Normal ArcKind = iota
	Inhibitor
	Reset
	Read
)

func (k ArcKind) String() string {
	switch k {
	case Normal:
		return "normal"
	case Inhibitor:
		return "inhibitor"
	case Reset:
		return "reset"
	case Read:
		return "read"
	default:
		return "unknown"
	}
}

// Place is a state-holding node. Marking is a non-negative real (continuous
// transitions require fractional marking; discrete types keep it integral
// by construction of their arc weights).
type Place struct {
	ID       string
	Name     string
	Marking  float64
	Capacity float64 // 0 means unbounded
	X, Y     float64
}

// PlaceConfig is the constructor argument bundle for a new Place.
type PlaceConfig struct {
	ID       string // optional; generated if empty
	Name     string
	Initial  float64
	Capacity float64
	X, Y     float64
}

func newPlace(cfg PlaceConfig) *Place {
	id := cfg.ID
	if id == "" {
		id = newID()
	}
	return &Place{
		ID:       id,
		Name:     cfg.Name,
		Marking:  cfg.Initial,
		Capacity: cfg.Capacity,
		X:        cfg.X,
		Y:        cfg.Y,
	}
}

// Transition is an event node. RateExpr holds the compiled rate expression
// source for Stochastic and Continuous transitions (empty for the other
// two kinds, which use Priority/EarliestFiring-LatestFiring instead).
type Transition struct {
	ID       string
	Name     string
	Type     TransitionType
	Priority int // Immediate: firing priority, higher fires first

	EarliestFiring float64 // Timed: lower bound of the enabling window
	LatestFiring   float64 // Timed: upper bound of the enabling window

	RateExpr string // Stochastic: exponential rate; Continuous: flow rate

	MaxBurst int     // Stochastic: burst ~ UniformInteger{1..MaxBurst}; default 8
	MinRate  float64 // Continuous: lower rate clamp; default 0
	MaxRate  float64 // Continuous: upper rate clamp; default +Inf

	IsSource bool // no normal input arcs permitted (net-level invariant #3)
	IsSink   bool // no normal output arcs permitted (net-level invariant #3)

	X, Y float64
}

// TransitionConfig is the constructor argument bundle for a new Transition.
type TransitionConfig struct {
	ID             string
	Name           string
	Type           TransitionType
	Priority       int
	EarliestFiring float64
	LatestFiring   float64
	RateExpr       string
	MaxBurst       int
	MinRate        float64
	MaxRate        float64
	IsSource       bool
	IsSink         bool
	X, Y           float64
}

func newTransition(cfg TransitionConfig) *Transition {
	id := cfg.ID
	if id == "" {
		id = newID()
	}
	maxBurst := cfg.MaxBurst
	if cfg.Type == Stochastic && maxBurst <= 0 {
		maxBurst = 8
	}
	maxRate := cfg.MaxRate
	if cfg.Type == Continuous && maxRate <= 0 {
		maxRate = math.Inf(1)
	}
	return &Transition{
		ID:             id,
		Name:           cfg.Name,
		Type:           cfg.Type,
		Priority:       cfg.Priority,
		EarliestFiring: cfg.EarliestFiring,
		LatestFiring:   cfg.LatestFiring,
		RateExpr:       cfg.RateExpr,
		MaxBurst:       maxBurst,
		MinRate:        cfg.MinRate,
		MaxRate:        maxRate,
		IsSource:       cfg.IsSource,
		IsSink:         cfg.IsSink,
		X:              cfg.X,
		Y:              cfg.Y,
	}
}

// Arc is a directed, weighted edge between a place and a transition (never
// place-to-place or transition-to-transition — that is the bipartite
// invariant StructureError::NonBipartite guards).
type Arc struct {
	ID     string
	Source string // place or transition ID
	Target string // place or transition ID
	Weight float64
	Kind   ArcKind
}

// ArcConfig is the constructor argument bundle for a new Arc.
type ArcConfig struct {
	ID     string
	Source string
	Target string
	Weight float64
	Kind   ArcKind
}

func newArc(cfg ArcConfig) *Arc {
	id := cfg.ID
	if id == "" {
		id = newID()
	}
	weight := cfg.Weight
	if weight == 0 && cfg.Kind != Reset {
		weight = 1
	}
	return &Arc{
		ID:     id,
		Source: cfg.Source,
		Target: cfg.Target,
		Weight: weight,
		Kind:   cfg.Kind,
	}
}
