// Package key provides logical key codes and key events for the gesture engine.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Code: Identifies a physical key independently of the platform's native
//     key identifiers (evdev codes, virtual-key codes, ...)
//   - Event: A single press, release or other input event
//   - Chord: An ordered set of codes that must be held together
//
// # Key Names
//
// Key names are case-insensitive and accept several spellings:
//
//   - Letters and digits: "a", "KeyA", "7", "Num7"
//   - Modifiers: "ShiftLeft", "lshift", "ControlLeft", "ctrl", "MetaLeft", "cmd", "super"
//   - Special keys: "Escape", "Return", "Space", "F1", "PageUp"
//
// # Chords
//
// Chords are written as names joined with "+", for example "ShiftLeft+MetaLeft+U".
package key
