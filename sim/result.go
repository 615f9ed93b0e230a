package sim

// StepResult summarizes one completed Step call: the IDs of every
// discrete transition that fired, in firing order, and the marking
// delta the step produced (place ID -> net change over the step).
type StepResult struct {
	Time    float64
	Firings []string
	Delta   map[string]float64
}

// DataCollector receives a StepResult after every completed step. The
// collector package's Collector implements this so the controller can
// feed it without importing it directly (avoiding an import cycle: the
// collector depends on the controller's result shape, not vice versa).
type DataCollector interface {
	OnStep(result StepResult)
}
