package hook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dshills/keyfocus/internal/input/key"
)

// Hook errors.
var (
	// ErrUnsupported indicates the platform has no input source.
	ErrUnsupported = errors.New("hook: input capture not supported on this platform")

	// ErrNoKeyboard indicates no keyboard device could be found.
	ErrNoKeyboard = errors.New("hook: no keyboard device found")
)

// InitError reports a failure to set up an input source. Errors returned
// by Source.Run after events started flowing are not InitErrors.
type InitError struct {
	Device string
	Err    error
}

// Error implements the error interface.
func (e *InitError) Error() string {
	if e.Device != "" {
		return fmt.Sprintf("hook init %s: %v", e.Device, e.Err)
	}
	return fmt.Sprintf("hook init: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *InitError) Unwrap() error {
	return e.Err
}

// Event is a raw input event carrying a native key code.
type Event struct {
	// Type is Press, Release or Other. Auto-repeat is delivered as Press.
	Type key.EventType

	// Native is the platform key code. Zero for Other events.
	Native uint16

	// Time is when the device reported the event.
	Time time.Time
}

// Handler receives each event and returns true to capture it.
type Handler func(ev Event) bool

// Source produces input events.
type Source interface {
	// Run delivers events to h until ctx is cancelled or the source fails.
	// Setup failures are returned before any event is delivered.
	Run(ctx context.Context, h Handler) error
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, h Handler) error

// Run calls f.
func (f SourceFunc) Run(ctx context.Context, h Handler) error {
	return f(ctx, h)
}

// Replay is a Source that delivers a fixed list of events.
// It records the capture result for each event.
type Replay struct {
	Events   []Event
	Captured []bool
}

// Run delivers every event in order, stopping early if ctx is cancelled.
func (r *Replay) Run(ctx context.Context, h Handler) error {
	r.Captured = make([]bool, 0, len(r.Events))
	for _, ev := range r.Events {
		if err := ctx.Err(); err != nil {
			return nil
		}
		r.Captured = append(r.Captured, h(ev))
	}
	return nil
}

// valueType converts an evdev key value into an event type.
// 0 is release, 1 press, 2 auto-repeat.
func valueType(value int32) key.EventType {
	switch value {
	case 0:
		return key.Release
	case 1, 2:
		return key.Press
	default:
		return key.Other
	}
}
