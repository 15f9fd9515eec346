package dispatcher

import (
	"errors"
	"fmt"
)

// Dispatcher errors.
var (
	// ErrUnmappableKey indicates a native key code with no portable equivalent.
	ErrUnmappableKey = errors.New("dispatcher: unmappable key")

	// ErrDispatcherStopped indicates the dispatcher has been stopped.
	ErrDispatcherStopped = errors.New("dispatcher: dispatcher is stopped")

	// ErrAsyncNotEnabled indicates async dispatch is not enabled.
	ErrAsyncNotEnabled = errors.New("dispatcher: async dispatch not enabled")

	// ErrInvalidEvaluateOn indicates an unknown evaluation trigger name.
	ErrInvalidEvaluateOn = errors.New("dispatcher: invalid evaluate_on")
)

// KeyError reports a native key code that could not be mapped.
type KeyError struct {
	Native uint16
}

// Error implements the error interface.
func (e *KeyError) Error() string {
	return fmt.Sprintf("%v: native code %d", ErrUnmappableKey, e.Native)
}

// Unwrap returns ErrUnmappableKey.
func (e *KeyError) Unwrap() error {
	return ErrUnmappableKey
}
