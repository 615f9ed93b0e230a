// Package collector implements the data collector: it receives a
// StepResult after every simulation step and builds queryable time
// series per place and event logs per transition, backed by a pluggable
// Store (in-memory or SQLite).
package collector

// Point is one sample of a place's marking at a point in simulated time.
type Point struct {
	Time  float64
	Value float64
}

// Series is the full recorded marking history for one place.
type Series struct {
	PlaceID string
	Points  []Point
}

// EventRecord is one transition firing, as recorded by the collector.
type EventRecord struct {
	Time         float64
	TransitionID string
}
