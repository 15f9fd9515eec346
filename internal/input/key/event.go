package key

import (
	"fmt"
	"time"
)

// EventType distinguishes presses, releases and everything else.
type EventType uint8

const (
	// Other is any input event that is neither a press nor a release.
	Other EventType = iota
	// Press is a key-down event. Auto-repeat is reported as Press.
	Press
	// Release is a key-up event.
	Release
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case Press:
		return "press"
	case Release:
		return "release"
	default:
		return "other"
	}
}

// Event is a single logical input event.
type Event struct {
	// Type is the kind of event.
	Type EventType

	// Code is the key involved. CodeNone for Other events.
	Code Code

	// Time is when the event was observed.
	Time time.Time
}

// NewPress creates a press event stamped with the current time.
func NewPress(c Code) Event {
	return Event{Type: Press, Code: c, Time: time.Now()}
}

// NewRelease creates a release event stamped with the current time.
func NewRelease(c Code) Event {
	return Event{Type: Release, Code: c, Time: time.Now()}
}

// At returns a copy of the event with the given timestamp.
func (e Event) At(t time.Time) Event {
	e.Time = t
	return e
}

// IsPress returns true for press events.
func (e Event) IsPress() bool {
	return e.Type == Press
}

// IsRelease returns true for release events.
func (e Event) IsRelease() bool {
	return e.Type == Release
}

// String returns a short representation like "press(U)".
func (e Event) String() string {
	if e.Type == Other {
		return "other"
	}
	return fmt.Sprintf("%s(%s)", e.Type, e.Code)
}
