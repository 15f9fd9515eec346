package gesture

import (
	"fmt"
	"time"

	"github.com/dshills/keyfocus/internal/input/key"
)

// Spec is the static description of one gesture and its action.
// Set Keys for a chord, or Prefix and Follow for a sequence.
type Spec struct {
	Keys   key.Chord
	Prefix key.Chord
	Follow key.Chord
	Action string

	// Window overrides the sequence window. Zero means the default.
	Window time.Duration
}

// IsSequence returns true if the spec describes a sequence gesture.
func (s Spec) IsSequence() bool {
	return len(s.Prefix) > 0 || len(s.Follow) > 0
}

// Rule builds the rule described by the spec.
func (s Spec) Rule() (Rule, error) {
	if s.IsSequence() {
		if len(s.Keys) > 0 {
			return nil, ErrAmbiguousSpec
		}
		return NewSequence(s.Prefix, s.Follow, s.Action, s.Window)
	}
	return NewChord(s.Keys, s.Action)
}

// Build creates rules from specs, preserving order.
func Build(specs []Spec) ([]Rule, error) {
	rules := make([]Rule, 0, len(specs))
	for i, spec := range specs {
		r, err := spec.Rule()
		if err != nil {
			return nil, fmt.Errorf("gesture %d (%s): %w", i, spec.Action, err)
		}
		rules = append(rules, r)
	}
	return rules, nil
}
