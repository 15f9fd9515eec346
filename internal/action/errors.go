package action

import (
	"errors"
	"fmt"
)

// Action errors.
var (
	// ErrExecution indicates an action could not complete.
	ErrExecution = errors.New("action: execution failed")

	// ErrEmptyAction indicates an empty action identifier.
	ErrEmptyAction = errors.New("action: empty action identifier")

	// ErrQueueFull indicates the worker queue has no room.
	ErrQueueFull = errors.New("action: queue full")

	// ErrWorkerStopped indicates the worker no longer accepts jobs.
	ErrWorkerStopped = errors.New("action: worker stopped")

	// ErrUnmappedKey indicates a synthetic key with no native code.
	ErrUnmappedKey = errors.New("action: key has no native code")

	// ErrUnsupported indicates the platform cannot run the action.
	ErrUnsupported = errors.New("action: unsupported on this platform")
)

// ExecError describes a failed action execution.
type ExecError struct {
	JobID  string // Worker job identifier, empty for direct calls
	Action string // Action identifier
	Err    error  // Underlying error
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	if e.JobID != "" {
		return fmt.Sprintf("action %q (job %s): %v", e.Action, e.JobID, e.Err)
	}
	return fmt.Sprintf("action %q: %v", e.Action, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExecError) Unwrap() error {
	return e.Err
}

// Is reports ErrExecution for every ExecError.
func (e *ExecError) Is(target error) bool {
	return target == ErrExecution
}
