package planning

import (
	"fmt"
)

// ValidationError is malformed input; it is never retried automatically.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// ConflictError is an overlapping placement rejected by the schedule store.
// The store performed no mutation; the caller may retry with another slot.
type ConflictError struct {
	Resource string
	Start    int
	End      int
	TaskID   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: resource %s [%d,%d) overlaps task %s", e.Resource, e.Start, e.End, e.TaskID)
}
