package sim

// Issue is a non-fatal problem encountered during a step: a clamped
// rate-expression warning, an immediate-iteration-cap trip, a timed
// transition that missed its latest-firing deadline. Issues never abort
// a step; they accumulate on the Controller for callers to inspect.
type Issue struct {
	Time    float64
	Code    string
	Message string
}

const (
	IssueRateClamp        = "rate-clamp"
	IssueIterationCapHit   = "iteration-cap-hit"
	IssueMissedDeadline    = "missed-deadline"
)

func (c *Controller) logIssue(code, message string) {
	c.issues = append(c.issues, Issue{Time: c.clock, Code: code, Message: message})
}
