package keymap

import (
	"github.com/dshills/keyfocus/internal/input/key"
)

// Linux evdev key codes.
const (
	evKeyEsc        = 1
	evKey1          = 2
	evKey0          = 11
	evKeyMinus      = 12
	evKeyEqual      = 13
	evKeyBackspace  = 14
	evKeyTab        = 15
	evKeyLeftBrace  = 26
	evKeyRightBrace = 27
	evKeyEnter      = 28
	evKeyLeftCtrl   = 29
	evKeySemicolon  = 39
	evKeyApostrophe = 40
	evKeyGrave      = 41
	evKeyLeftShift  = 42
	evKeyBackslash  = 43
	evKeyComma      = 51
	evKeyDot        = 52
	evKeySlash      = 53
	evKeyRightShift = 54
	evKeyLeftAlt    = 56
	evKeySpace      = 57
	evKeyCapsLock   = 58
	evKeyF1         = 59
	evKeyF11        = 87
	evKeyF12        = 88
	evKeyRightCtrl  = 97
	evKeyRightAlt   = 100
	evKeyHome       = 102
	evKeyUp         = 103
	evKeyPageUp     = 104
	evKeyLeft       = 105
	evKeyRight      = 106
	evKeyEnd        = 107
	evKeyDown       = 108
	evKeyPageDown   = 109
	evKeyInsert     = 110
	evKeyDelete     = 111
	evKeyLeftMeta   = 125
	evKeyRightMeta  = 126
)

// evdevLetters lists evdev codes for A through Z.
var evdevLetters = [26]uint16{
	30, 48, 46, 32, 18, 33, 34, 35, 23, 36, 37, 38, 50, // A-M
	49, 24, 25, 16, 19, 31, 20, 22, 47, 17, 45, 21, 44, // N-Z
}

// fromNative maps evdev codes to logical codes.
var fromNative = buildTable()

// toNative is the inverse of fromNative.
var toNative = invert(fromNative)

func buildTable() map[uint16]key.Code {
	t := map[uint16]key.Code{
		evKeyEsc:        key.Escape,
		evKeyMinus:      key.Minus,
		evKeyEqual:      key.Equal,
		evKeyBackspace:  key.Backspace,
		evKeyTab:        key.Tab,
		evKeyLeftBrace:  key.LeftBracket,
		evKeyRightBrace: key.RightBracket,
		evKeyEnter:      key.Return,
		evKeyLeftCtrl:   key.ControlLeft,
		evKeySemicolon:  key.SemiColon,
		evKeyApostrophe: key.Quote,
		evKeyGrave:      key.BackQuote,
		evKeyLeftShift:  key.ShiftLeft,
		evKeyBackslash:  key.BackSlash,
		evKeyComma:      key.Comma,
		evKeyDot:        key.Dot,
		evKeySlash:      key.Slash,
		evKeyRightShift: key.ShiftRight,
		evKeyLeftAlt:    key.Alt,
		evKeySpace:      key.Space,
		evKeyCapsLock:   key.CapsLock,
		evKeyF11:        key.F11,
		evKeyF12:        key.F12,
		evKeyRightCtrl:  key.ControlRight,
		evKeyRightAlt:   key.AltGr,
		evKeyHome:       key.Home,
		evKeyUp:         key.UpArrow,
		evKeyPageUp:     key.PageUp,
		evKeyLeft:       key.LeftArrow,
		evKeyRight:      key.RightArrow,
		evKeyEnd:        key.End,
		evKeyDown:       key.DownArrow,
		evKeyPageDown:   key.PageDown,
		evKeyInsert:     key.Insert,
		evKeyDelete:     key.Delete,
		evKeyLeftMeta:   key.MetaLeft,
		evKeyRightMeta:  key.MetaRight,
		evKey0:          key.Num0,
	}

	for i, native := range evdevLetters {
		t[native] = key.A + key.Code(i)
	}
	// KEY_1..KEY_9 are contiguous; KEY_0 follows KEY_9.
	for i := 0; i < 9; i++ {
		t[uint16(evKey1+i)] = key.Num1 + key.Code(i)
	}
	// KEY_F1..KEY_F10 are contiguous.
	for i := 0; i < 10; i++ {
		t[uint16(evKeyF1+i)] = key.F1 + key.Code(i)
	}
	return t
}

func invert(m map[uint16]key.Code) map[key.Code]uint16 {
	out := make(map[key.Code]uint16, len(m))
	for native, c := range m {
		out[c] = native
	}
	return out
}

// Lookup returns the logical code for an evdev key code.
func Lookup(native uint16) (key.Code, bool) {
	c, ok := fromNative[native]
	return c, ok
}

// Native returns the evdev key code for a logical code.
func Native(c key.Code) (uint16, bool) {
	native, ok := toNative[c]
	return native, ok
}

// Mapper adapts the package-level table to interfaces that expect a value.
type Mapper struct{}

// Lookup returns the logical code for an evdev key code.
func (Mapper) Lookup(native uint16) (key.Code, bool) {
	return Lookup(native)
}

// Native returns the evdev key code for a logical code.
func (Mapper) Native(c key.Code) (uint16, bool) {
	return Native(c)
}

// Size returns the number of mapped keys.
func Size() int {
	return len(fromNative)
}
