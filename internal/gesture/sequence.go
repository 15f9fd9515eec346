package gesture

import (
	"time"

	"github.com/dshills/keyfocus/internal/input/key"
	"github.com/dshills/keyfocus/internal/input/keystate"
)

// DefaultWindow is how long a released prefix stays armed.
const DefaultWindow = 750 * time.Millisecond

// Sequence fires when a follow-up chord is completed shortly after a prefix
// chord was held and then at least partially released.
//
// The rule is Idle or Armed(at). Every evaluation in which the prefix is
// fully held re-arms it at the event time. A press of any key belonging to
// neither chord disarms it. Firing leaves the armed state untouched, so the
// follow-up can fire again until the window runs out.
type Sequence struct {
	prefix key.Chord
	follow key.Chord
	action string
	window time.Duration

	armed   bool
	armedAt time.Time
}

// NewSequence creates a sequence rule. A zero window selects DefaultWindow.
func NewSequence(prefix, follow key.Chord, action string, window time.Duration) (*Sequence, error) {
	if len(prefix) == 0 || len(follow) == 0 {
		return nil, ErrEmptyKeys
	}
	if action == "" {
		return nil, ErrEmptyAction
	}
	if window == 0 {
		window = DefaultWindow
	}
	if window < 0 {
		return nil, ErrInvalidWindow
	}
	return &Sequence{
		prefix: prefix.Clone(),
		follow: follow.Clone(),
		action: action,
		window: window,
	}, nil
}

// Evaluate advances the arming state machine and reports whether the
// follow-up completed the gesture. ev.Time is the current instant.
func (s *Sequence) Evaluate(ev key.Event, st *keystate.State) bool {
	prefixHeld := st.ContainsAll(s.prefix)
	if prefixHeld {
		s.armed = true
		s.armedAt = ev.Time
	}

	if ev.Type == key.Press && !s.prefix.Contains(ev.Code) && !s.follow.Contains(ev.Code) {
		s.armed = false
	}

	return !prefixHeld &&
		st.ContainsAll(s.follow) &&
		s.armed &&
		ev.Time.Sub(s.armedAt) < s.window
}

// Armed returns the arming time and whether the rule is armed.
func (s *Sequence) Armed() (time.Time, bool) {
	return s.armedAt, s.armed
}

// Reset returns the rule to Idle.
func (s *Sequence) Reset() {
	s.armed = false
	s.armedAt = time.Time{}
}

// Action returns the action identifier.
func (s *Sequence) Action() string {
	return s.action
}

// Kind returns KindSequence.
func (s *Sequence) Kind() Kind {
	return KindSequence
}

// Keys returns the prefix keys followed by the follow-up keys not already
// in the prefix.
func (s *Sequence) Keys() key.Chord {
	keys := s.prefix.Clone()
	for _, c := range s.follow {
		if !keys.Contains(c) {
			keys = append(keys, c)
		}
	}
	return keys
}

// Prefix returns a copy of the prefix chord.
func (s *Sequence) Prefix() key.Chord {
	return s.prefix.Clone()
}

// Follow returns a copy of the follow-up chord.
func (s *Sequence) Follow() key.Chord {
	return s.follow.Clone()
}

// Window returns the arming window.
func (s *Sequence) Window() time.Duration {
	return s.window
}

// String returns the gesture, e.g. "ShiftLeft+MetaLeft, N".
func (s *Sequence) String() string {
	return s.prefix.String() + ", " + s.follow.String()
}

func (*Sequence) isRule() {}
