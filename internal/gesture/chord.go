package gesture

import (
	"github.com/dshills/keyfocus/internal/input/key"
	"github.com/dshills/keyfocus/internal/input/keystate"
)

// Chord fires whenever all of its keys are held at once.
type Chord struct {
	keys   key.Chord
	action string
}

// NewChord creates a chord rule. The key list is copied.
func NewChord(keys key.Chord, action string) (*Chord, error) {
	if len(keys) == 0 {
		return nil, ErrEmptyKeys
	}
	if action == "" {
		return nil, ErrEmptyAction
	}
	return &Chord{keys: keys.Clone(), action: action}, nil
}

// Evaluate reports whether every key of the chord is held. It is a pure
// function of st and fires on any event type, repeatedly, for as long as
// the chord stays held.
func (c *Chord) Evaluate(_ key.Event, st *keystate.State) bool {
	return st.ContainsAll(c.keys)
}

// Action returns the action identifier.
func (c *Chord) Action() string {
	return c.action
}

// Kind returns KindChord.
func (c *Chord) Kind() Kind {
	return KindChord
}

// Keys returns a copy of the chord keys.
func (c *Chord) Keys() key.Chord {
	return c.keys.Clone()
}

// String returns the chord, e.g. "ShiftLeft+MetaLeft+U".
func (c *Chord) String() string {
	return c.keys.String()
}

func (*Chord) isRule() {}
