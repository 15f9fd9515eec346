package key

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKey indicates a key name that does not map to any Code.
var ErrUnknownKey = errors.New("unknown key")

// ErrEmptyChord indicates a chord with no keys.
var ErrEmptyChord = errors.New("empty chord")

// Chord is an ordered list of codes that must be held together.
type Chord []Code

// Parse returns the Code for a single key name.
func Parse(name string) (Code, error) {
	c := FromName(name)
	if c == CodeNone {
		return CodeNone, fmt.Errorf("%w: %q", ErrUnknownKey, name)
	}
	return c, nil
}

// ParseNames converts a list of key names into a Chord.
// Duplicate names are kept once, in first-seen order.
func ParseNames(names []string) (Chord, error) {
	if len(names) == 0 {
		return nil, ErrEmptyChord
	}
	chord := make(Chord, 0, len(names))
	for _, name := range names {
		c, err := Parse(name)
		if err != nil {
			return nil, err
		}
		if !chord.Contains(c) {
			chord = append(chord, c)
		}
	}
	return chord, nil
}

// ParseChord parses a chord written as "ShiftLeft+MetaLeft+U".
// A lone "+" names no key; use "Equal" with Shift instead.
func ParseChord(s string) (Chord, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyChord
	}
	parts := strings.Split(s, "+")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
		if parts[i] == "" {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKey, s)
		}
	}
	return ParseNames(parts)
}

// MustParseChord parses a chord and panics on error.
// Use only for known-valid chords in initialization code.
func MustParseChord(s string) Chord {
	c, err := ParseChord(s)
	if err != nil {
		panic("invalid chord: " + s + ": " + err.Error())
	}
	return c
}

// Contains returns true if the chord includes c.
func (ch Chord) Contains(c Code) bool {
	for _, k := range ch {
		if k == c {
			return true
		}
	}
	return false
}

// Clone returns a copy of the chord.
func (ch Chord) Clone() Chord {
	if ch == nil {
		return nil
	}
	out := make(Chord, len(ch))
	copy(out, ch)
	return out
}

// String returns the chord in "A+B+C" form.
func (ch Chord) String() string {
	parts := make([]string, len(ch))
	for i, c := range ch {
		parts[i] = c.String()
	}
	return strings.Join(parts, "+")
}
