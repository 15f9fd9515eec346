// Package keystate tracks which keys are currently held down.
package keystate

import (
	"sort"

	"github.com/dshills/keyfocus/internal/input/key"
)

// State is the set of currently depressed keys.
//
// A code is a member iff the most recent event for that code was a press not
// yet followed by a release. State is not safe for concurrent use; the
// dispatcher serializes access.
type State struct {
	held map[key.Code]struct{}
}

// New creates an empty key state.
func New() *State {
	return &State{held: make(map[key.Code]struct{})}
}

// MarkPressed records that c is held. Pressing an already-held key is a no-op.
func (s *State) MarkPressed(c key.Code) {
	s.held[c] = struct{}{}
}

// MarkReleased records that c is no longer held. Releasing a key that is not
// held is a no-op.
func (s *State) MarkReleased(c key.Code) {
	delete(s.held, c)
}

// Apply updates the state from a press or release event.
// Other events leave the state unchanged.
func (s *State) Apply(ev key.Event) {
	switch ev.Type {
	case key.Press:
		s.MarkPressed(ev.Code)
	case key.Release:
		s.MarkReleased(ev.Code)
	}
}

// IsPressed returns true if c is held.
func (s *State) IsPressed(c key.Code) bool {
	_, ok := s.held[c]
	return ok
}

// ContainsAll returns true if every code in codes is held.
func (s *State) ContainsAll(codes []key.Code) bool {
	for _, c := range codes {
		if _, ok := s.held[c]; !ok {
			return false
		}
	}
	return true
}

// Len returns the number of held keys.
func (s *State) Len() int {
	return len(s.held)
}

// Codes returns the held codes in ascending order.
func (s *State) Codes() []key.Code {
	codes := make([]key.Code, 0, len(s.held))
	for c := range s.held {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Reset clears all held keys.
func (s *State) Reset() {
	clear(s.held)
}
