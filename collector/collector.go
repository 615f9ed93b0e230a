package collector

import (
	"context"
	"sync"

	"github.com/pflow-xyz/biopetri/sim"
)

// Default per-series buffer limits (spec §4.F): a series is allowed to
// grow to downsampleThreshold points before it is decimated down to
// roughly half of maxPoints, rather than growing unbounded for a
// long-running simulation.
const (
	defaultMaxPoints           = 10000
	defaultDownsampleThreshold = 8000
)

// Collector implements sim.DataCollector, recording every step's marking
// and transition firings into a Store under one run ID. Every OnStep call
// records a point for every place; once a place's buffered series
// reaches downsampleThreshold points it is decimated (keep first, last,
// every n-th) down to roughly half of maxPoints, so a long run's memory
// footprint stays bounded without ever dropping the endpoints of the
// series.
type Collector struct {
	store Store
	runID string

	maxPoints           int
	downsampleThreshold int

	mu      sync.Mutex
	running map[string]float64 // running marking, seeded by Seed and advanced by StepResult.Delta
	step    int

	pointBuf map[string][]Point
	eventBuf []EventRecord
}

// New creates a Collector that writes to store under runID, with the
// default buffer limits. Use SetLimits to change them.
func New(store Store, runID string) *Collector {
	return &Collector{
		store:               store,
		runID:                runID,
		maxPoints:            defaultMaxPoints,
		downsampleThreshold:  defaultDownsampleThreshold,
		running:              make(map[string]float64),
		pointBuf:             make(map[string][]Point),
	}
}

// SetLimits changes the per-series point cap and the threshold above
// which a series is decimated. Values below 2 are treated as 2, since
// decimation always keeps at least the first and last point.
func (c *Collector) SetLimits(maxPoints, downsampleThreshold int) {
	if maxPoints < 2 {
		maxPoints = 2
	}
	if downsampleThreshold < 2 {
		downsampleThreshold = 2
	}
	c.mu.Lock()
	c.maxPoints = maxPoints
	c.downsampleThreshold = downsampleThreshold
	c.mu.Unlock()
}

// Seed sets the running marking baseline places start from, so the
// first recorded point reflects the net's actual initial marking rather
// than an assumed zero.
func (c *Collector) Seed(initial map[string]float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, v := range initial {
		c.running[id] = v
	}
}

// OnStep implements sim.DataCollector.
func (c *Collector) OnStep(result sim.StepResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, delta := range result.Delta {
		c.running[id] += delta
	}
	c.step++

	for id, v := range c.running {
		buf := append(c.pointBuf[id], Point{Time: result.Time, Value: v})
		if len(buf) >= c.downsampleThreshold {
			buf = decimate(buf, c.maxPoints/2)
		}
		c.pointBuf[id] = buf
	}
	for _, tid := range result.Firings {
		c.eventBuf = append(c.eventBuf, EventRecord{Time: result.Time, TransitionID: tid})
	}
}

// decimate reduces points to exactly target elements (when len(points) >
// target), always keeping the first and last point and striding evenly
// through the rest. The stride is computed in floating point rather than
// integer division so a target that isn't an exact divisor of the buffer
// length (the common case — thresholds and targets are round numbers,
// buffer lengths aren't) still yields a real reduction instead of
// silently keeping every point.
func decimate(points []Point, target int) []Point {
	n := len(points)
	if target < 2 || n <= target {
		return points
	}
	out := make([]Point, 0, target)
	step := float64(n-1) / float64(target-1)
	for i := 0; i < target; i++ {
		idx := int(float64(i)*step + 0.5)
		if idx >= n {
			idx = n - 1
		}
		out = append(out, points[idx])
	}
	return out
}

// Flush persists every buffered point and event to the backing Store and
// clears the buffers. Call periodically or once at the end of a run.
func (c *Collector) Flush(_ context.Context) error {
	c.mu.Lock()
	points := c.pointBuf
	events := c.eventBuf
	c.pointBuf = make(map[string][]Point)
	c.eventBuf = nil
	c.mu.Unlock()

	for placeID, pts := range points {
		if len(pts) == 0 {
			continue
		}
		if err := c.store.SavePoints(c.runID, placeID, pts); err != nil {
			return err
		}
	}
	if len(events) > 0 {
		if err := c.store.SaveEvents(c.runID, events); err != nil {
			return err
		}
	}
	return nil
}

// GetPlaceSeries returns the recorded marking history for one place,
// flushing any buffered-but-unpersisted points first.
func (c *Collector) GetPlaceSeries(ctx context.Context, placeID string) (Series, error) {
	if err := c.Flush(ctx); err != nil {
		return Series{}, err
	}
	points, err := c.store.LoadSeries(c.runID, placeID)
	if err != nil {
		return Series{}, err
	}
	return Series{PlaceID: placeID, Points: points}, nil
}

// GetTransitionEvents returns every recorded firing of one transition,
// flushing any buffered-but-unpersisted events first.
func (c *Collector) GetTransitionEvents(ctx context.Context, transitionID string) ([]EventRecord, error) {
	if err := c.Flush(ctx); err != nil {
		return nil, err
	}
	return c.store.LoadEvents(c.runID, transitionID)
}

var _ sim.DataCollector = (*Collector)(nil)
