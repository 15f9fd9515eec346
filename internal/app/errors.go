package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrHookInit indicates the keyboard hook could not be installed.
	// It is fatal: the daemon cannot observe input without it.
	ErrHookInit = errors.New("hook initialization failed")

	// ErrAlreadyRunning indicates the application is already running.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrInitialization indicates an initialization failure.
	ErrInitialization = errors.New("initialization failed")
)

// Component names used in errors and logs.
const (
	ComponentConfig  = "config"
	ComponentHook    = "hook"
	ComponentAction  = "action"
	ComponentWatcher = "watcher"
)

// InitError represents an initialization error.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("failed to initialize %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// Is reports ErrInitialization for every InitError, and ErrHookInit for
// hook failures.
func (e *InitError) Is(target error) bool {
	switch target {
	case ErrInitialization:
		return true
	case ErrHookInit:
		return e.Component == ComponentHook
	}
	return false
}

// ComponentError represents an error from a specific component.
type ComponentError struct {
	Component string // Component name (e.g., "hook", "watcher")
	Action    string // Action being performed
	Err       error  // Underlying error
}

// NewComponentError creates a new ComponentError.
func NewComponentError(component, action string, err error) *ComponentError {
	return &ComponentError{
		Component: component,
		Action:    action,
		Err:       err,
	}
}

func (e *ComponentError) Error() string {
	if e == nil {
		return ""
	}

	if e.Action != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Component, e.Action, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Component, e.Action)
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Component, e.Err)
	}

	return e.Component
}

func (e *ComponentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
