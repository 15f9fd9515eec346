// Package keymap translates native key identifiers into logical key codes.
//
// The table covers Linux evdev key codes (linux/input-event-codes.h). The
// translation is a pure lookup; a missing entry means the key is not
// supported and callers must treat the event as unmappable.
//
//	code, ok := keymap.Lookup(42) // KEY_LEFTSHIFT
//	if !ok {
//	    // unsupported key
//	}
//
//	native, ok := keymap.Native(key.ShiftLeft) // 42
package keymap
