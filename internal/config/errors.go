package config

import (
	"errors"
	"fmt"

	"github.com/dshills/keyfocus/internal/config/loader"
)

// Errors returned by configuration operations.
var (
	// ErrInvalidGesture indicates a gesture entry that cannot become a rule.
	ErrInvalidGesture = errors.New("invalid gesture")

	// ErrValidationFailed indicates a setting with an invalid value.
	ErrValidationFailed = errors.New("validation failed")

	// ErrFileNotFound indicates the configuration file doesn't exist.
	ErrFileNotFound = errors.New("config file not found")
)

// ParseError represents an error while parsing a configuration file.
type ParseError = loader.ParseError

// ValidationError describes a validation failure for a setting.
type ValidationError struct {
	// Setting is the setting key that failed validation.
	Setting string
	// Message describes the validation error.
	Message string
	// Value is the invalid value.
	Value any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got %v)", e.Setting, e.Message, e.Value)
}

// Unwrap returns ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// GestureError reports an invalid gesture entry.
type GestureError struct {
	// Index is the zero-based position of the entry in the file.
	Index int
	// Action is the action of the entry, if any.
	Action string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *GestureError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("gesture %d (%s): %v", e.Index, e.Action, e.Err)
	}
	return fmt.Sprintf("gesture %d: %v", e.Index, e.Err)
}

// Unwrap returns the underlying error.
func (e *GestureError) Unwrap() error {
	return e.Err
}

// Is reports ErrInvalidGesture for every GestureError.
func (e *GestureError) Is(target error) bool {
	return target == ErrInvalidGesture
}
