package net

import "errors"

// StructureError is the core's structural error taxonomy (spec §7):
// bipartite violations, duplicate IDs, dangling references, invalid
// weights, and source/sink contradictions. Editing operations fail
// synchronously and atomically — the model is never left partially
// mutated.
type StructureError struct {
	Kind   StructureErrorKind
	Object string // offending object ID, when applicable
	Err    error
}

func (e *StructureError) Error() string {
	if e.Object != "" {
		return e.Kind.String() + ": " + e.Object + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *StructureError) Unwrap() error { return e.Err }

// StructureErrorKind enumerates the kinds of structural violation.
type StructureErrorKind int

const (
	NonBipartite StructureErrorKind = iota
	InvalidWeight
	DuplicateID
	DanglingReference
	SourceSinkViolation
)

func (k StructureErrorKind) String() string {
	switch k {
	case NonBipartite:
		return "StructureError::NonBipartite"
	case InvalidWeight:
		return "StructureError::InvalidWeight"
	case DuplicateID:
		return "StructureError::DuplicateID"
	case DanglingReference:
		return "StructureError::DanglingReference"
	case SourceSinkViolation:
		return "StructureError::SourceSinkViolation"
	default:
		return "StructureError::Unknown"
	}
}

var (
	errPlaceNotFound      = errors.New("place not found")
	errTransitionNotFound = errors.New("transition not found")
	errArcNotFound        = errors.New("arc not found")
)

func newStructureErr(kind StructureErrorKind, object string, err error) *StructureError {
	return &StructureError{Kind: kind, Object: object, Err: err}
}

// ExecutionError is raised when applying a computed firing effect would
// violate the non-negativity invariant (spec §7
// ExecutionError::InsufficientTokens). CanFire is expected to prevent this
// in practice; ApplyEffect's check is the last-line guard, not the primary
// enforcement.
type ExecutionError struct {
	Kind   ExecutionErrorKind
	Object string // offending place ID
	Err    error
}

func (e *ExecutionError) Error() string {
	if e.Object != "" {
		return e.Kind.String() + ": " + e.Object + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// ExecutionErrorKind enumerates the kinds of runtime firing-execution
// violation.
type ExecutionErrorKind int

const (
	InsufficientTokens ExecutionErrorKind = iota
)

func (k ExecutionErrorKind) String() string {
	switch k {
	case InsufficientTokens:
		return "ExecutionError::InsufficientTokens"
	default:
		return "ExecutionError::Unknown"
	}
}

func newExecutionErr(kind ExecutionErrorKind, object string, err error) *ExecutionError {
	return &ExecutionError{Kind: kind, Object: object, Err: err}
}
