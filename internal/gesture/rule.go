package gesture

import (
	"errors"

	"github.com/dshills/keyfocus/internal/input/key"
	"github.com/dshills/keyfocus/internal/input/keystate"
)

// Rule errors.
var (
	// ErrEmptyKeys indicates a gesture with no keys.
	ErrEmptyKeys = errors.New("gesture: empty key set")

	// ErrEmptyAction indicates a gesture with no action identifier.
	ErrEmptyAction = errors.New("gesture: empty action")

	// ErrInvalidWindow indicates a non-positive sequence window.
	ErrInvalidWindow = errors.New("gesture: window must be positive")

	// ErrAmbiguousSpec indicates a spec that sets both chord keys and a sequence.
	ErrAmbiguousSpec = errors.New("gesture: spec sets both keys and prefix/follow")
)

// Kind identifies the rule variant.
type Kind uint8

const (
	// KindChord is a simultaneous chord.
	KindChord Kind = iota
	// KindSequence is a prefix chord followed by a timed follow-up chord.
	KindSequence
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindChord:
		return "chord"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Rule recognizes a single gesture.
type Rule interface {
	// Evaluate updates any recognition state from ev and reports whether the
	// gesture fired. st must already reflect ev.
	Evaluate(ev key.Event, st *keystate.State) bool

	// Action returns the action identifier passed to the executor.
	Action() string

	// Kind returns the rule variant.
	Kind() Kind

	// Keys returns every key that takes part in the gesture.
	Keys() key.Chord

	// String returns a human-readable description of the gesture.
	String() string

	isRule()
}
