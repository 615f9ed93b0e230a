package sim

// ControllerError is the simulation controller's error taxonomy: requests
// the step algorithm cannot honor (a negative time increment). The
// ImmediateLoop and NotLoaded kinds are defined, but no current
// operation returns them.
type ControllerError struct {
	Kind ControllerErrorKind
	Err  error
}

func (e *ControllerError) Error() string {
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *ControllerError) Unwrap() error { return e.Err }

// ControllerErrorKind enumerates the kinds of controller-level violation.
type ControllerErrorKind int

const (
	// NegativeStep is returned by Step when dtRequest < 0.
	NegativeStep ControllerErrorKind = iota
	// ImmediateLoop is reserved for a future hard failure mode; today a
	// cyclic immediate subnet logs IssueIterationCapHit instead of
	// erroring, since a stuck immediate exhaustion is recoverable — the
	// caller can still inspect the marking and Issues().
	ImmediateLoop
	// NotLoaded is not returned by any current operation: NewController
	// and NewControllerWithSettings always load a net.
	NotLoaded
)

func (k ControllerErrorKind) String() string {
	switch k {
	case NegativeStep:
		return "ControllerError::NegativeStep"
	case ImmediateLoop:
		return "ControllerError::ImmediateLoop"
	case NotLoaded:
		return "ControllerError::NotLoaded"
	default:
		return "ControllerError::Unknown"
	}
}

func newControllerErr(kind ControllerErrorKind, err error) *ControllerError {
	return &ControllerError{Kind: kind, Err: err}
}
