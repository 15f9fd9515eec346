package key

import (
	"fmt"
	"sort"
	"strings"
)

// Code identifies a physical key. Codes are stable across platforms; the
// mapping from native key identifiers lives in the keymap package.
type Code uint16

const (
	// CodeNone represents no key.
	CodeNone Code = iota

	// Modifiers
	ShiftLeft
	ShiftRight
	ControlLeft
	ControlRight
	Alt
	AltGr
	MetaLeft
	MetaRight

	// Letters
	A
	B
	C
	D
	E
	F
	G
	H
	I
	J
	K
	L
	M
	N
	O
	P
	Q
	R
	S
	T
	U
	V
	W
	X
	Y
	Z

	// Digits
	Num0
	Num1
	Num2
	Num3
	Num4
	Num5
	Num6
	Num7
	Num8
	Num9

	// Function keys
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12

	// Special keys
	Escape
	Return
	Tab
	Space
	Backspace
	CapsLock
	Insert
	Delete
	Home
	End
	PageUp
	PageDown
	UpArrow
	DownArrow
	LeftArrow
	RightArrow

	// Punctuation
	Minus
	Equal
	LeftBracket
	RightBracket
	SemiColon
	Quote
	BackQuote
	BackSlash
	Comma
	Dot
	Slash

	codeCount
)

// codeNames holds the canonical name of every code, indexed by Code.
var codeNames = [codeCount]string{
	CodeNone:     "None",
	ShiftLeft:    "ShiftLeft",
	ShiftRight:   "ShiftRight",
	ControlLeft:  "ControlLeft",
	ControlRight: "ControlRight",
	Alt:          "Alt",
	AltGr:        "AltGr",
	MetaLeft:     "MetaLeft",
	MetaRight:    "MetaRight",
	A:            "A",
	B:            "B",
	C:            "C",
	D:            "D",
	E:            "E",
	F:            "F",
	G:            "G",
	H:            "H",
	I:            "I",
	J:            "J",
	K:            "K",
	L:            "L",
	M:            "M",
	N:            "N",
	O:            "O",
	P:            "P",
	Q:            "Q",
	R:            "R",
	S:            "S",
	T:            "T",
	U:            "U",
	V:            "V",
	W:            "W",
	X:            "X",
	Y:            "Y",
	Z:            "Z",
	Num0:         "0",
	Num1:         "1",
	Num2:         "2",
	Num3:         "3",
	Num4:         "4",
	Num5:         "5",
	Num6:         "6",
	Num7:         "7",
	Num8:         "8",
	Num9:         "9",
	F1:           "F1",
	F2:           "F2",
	F3:           "F3",
	F4:           "F4",
	F5:           "F5",
	F6:           "F6",
	F7:           "F7",
	F8:           "F8",
	F9:           "F9",
	F10:          "F10",
	F11:          "F11",
	F12:          "F12",
	Escape:       "Escape",
	Return:       "Return",
	Tab:          "Tab",
	Space:        "Space",
	Backspace:    "Backspace",
	CapsLock:     "CapsLock",
	Insert:       "Insert",
	Delete:       "Delete",
	Home:         "Home",
	End:          "End",
	PageUp:       "PageUp",
	PageDown:     "PageDown",
	UpArrow:      "UpArrow",
	DownArrow:    "DownArrow",
	LeftArrow:    "LeftArrow",
	RightArrow:   "RightArrow",
	Minus:        "Minus",
	Equal:        "Equal",
	LeftBracket:  "LeftBracket",
	RightBracket: "RightBracket",
	SemiColon:    "SemiColon",
	Quote:        "Quote",
	BackQuote:    "BackQuote",
	BackSlash:    "BackSlash",
	Comma:        "Comma",
	Dot:          "Dot",
	Slash:        "Slash",
}

// String returns the canonical name for the code.
func (c Code) String() string {
	if c < codeCount {
		return codeNames[c]
	}
	return fmt.Sprintf("Code(%d)", c)
}

// Valid returns true if c is a known code other than CodeNone.
func (c Code) Valid() bool {
	return c > CodeNone && c < codeCount
}

// IsModifier returns true for Shift, Control, Alt and Meta keys.
func (c Code) IsModifier() bool {
	return c >= ShiftLeft && c <= MetaRight
}

// IsLetter returns true for A-Z.
func (c Code) IsLetter() bool {
	return c >= A && c <= Z
}

// IsDigit returns true for the top-row digits.
func (c Code) IsDigit() bool {
	return c >= Num0 && c <= Num9
}

// IsFunctionKey returns true if this is a function key (F1-F12).
func (c Code) IsFunctionKey() bool {
	return c >= F1 && c <= F12
}

// aliases maps alternative spellings (lowercase) to codes.
var aliases = map[string]Code{
	"shift":      ShiftLeft,
	"lshift":     ShiftLeft,
	"rshift":     ShiftRight,
	"ctrl":       ControlLeft,
	"control":    ControlLeft,
	"lctrl":      ControlLeft,
	"rctrl":      ControlRight,
	"alt":        Alt,
	"lalt":       Alt,
	"option":     Alt,
	"opt":        Alt,
	"ralt":       AltGr,
	"meta":       MetaLeft,
	"lmeta":      MetaLeft,
	"rmeta":      MetaRight,
	"cmd":        MetaLeft,
	"command":    MetaLeft,
	"super":      MetaLeft,
	"win":        MetaLeft,
	"esc":        Escape,
	"enter":      Return,
	"cr":         Return,
	"bs":         Backspace,
	"del":        Delete,
	"ins":        Insert,
	"pgup":       PageUp,
	"pgdn":       PageDown,
	"up":         UpArrow,
	"down":       DownArrow,
	"left":       LeftArrow,
	"right":      RightArrow,
	"-":          Minus,
	"=":          Equal,
	"[":          LeftBracket,
	"]":          RightBracket,
	";":          SemiColon,
	"'":          Quote,
	"`":          BackQuote,
	"\\":         BackSlash,
	",":          Comma,
	".":          Dot,
	"/":          Slash,
	"grave":      BackQuote,
	"apostrophe": Quote,
	"period":     Dot,
}

// nameMap maps lowercase canonical names and aliases to codes.
var nameMap = buildNameMap()

func buildNameMap() map[string]Code {
	m := make(map[string]Code, int(codeCount)*2+len(aliases))
	for c := CodeNone + 1; c < codeCount; c++ {
		name := strings.ToLower(codeNames[c])
		m[name] = c
		switch {
		case c.IsLetter():
			m["key"+name] = c
		case c.IsDigit():
			m["num"+name] = c
		}
	}
	for alias, c := range aliases {
		m[alias] = c
	}
	return m
}

// FromName returns the Code for a given name (case-insensitive).
// Returns CodeNone if the name is not recognized.
func FromName(name string) Code {
	name = strings.ToLower(strings.TrimSpace(name))
	if c, ok := nameMap[name]; ok {
		return c
	}
	return CodeNone
}

// Names returns the canonical names of all known codes, sorted.
func Names() []string {
	names := make([]string, 0, codeCount-1)
	for c := CodeNone + 1; c < codeCount; c++ {
		names = append(names, codeNames[c])
	}
	sort.Strings(names)
	return names
}
