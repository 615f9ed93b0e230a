package observer

// Dispatch runs fn on a background goroutine and publishes its result as an
// AnalysisComplete event once fn returns. The model must not mutate while a
// dispatched analysis is in flight; callers are expected to pass fn a
// snapshot taken at dispatch time rather than a live, mutable reference —
// the same contract the simulation controller's step boundaries rely on.
//
// This mirrors the buffered-dispatch shape of an actor-style message bus:
// work is hopped onto its own goroutine and the result rejoins the
// single-threaded world only through a published Event.
func (b *Bus) Dispatch(label string, fn func() any) {
	go func() {
		result := fn()
		b.Publish(Event{
			Kind:       AnalysisComplete,
			ObjectKind: "analysis",
			ObjectID:   label,
			New:        result,
		})
	}()
}
