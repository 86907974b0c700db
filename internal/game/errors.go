package game

import (
	"errors"
	"fmt"
)

// ErrNoChart is wrapped by the PreconditionError returned when play is
// requested before a chart has been loaded.
var ErrNoChart = errors.New("no chart loaded")

// ValidationError reports a malformed chart payload or configuration.
// Index is the position of the offending note in the payload, or -1 when
// the failure is not tied to a single note.
type ValidationError struct {
	Index  int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("note %d: invalid %s: %s", e.Index, e.Field, e.Reason)
}

// PreconditionError is returned when an operation is not allowed in the
// engine's current state.
type PreconditionError struct {
	Op  string
	Err error
}

func (e *PreconditionError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}
