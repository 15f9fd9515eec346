// Package config loads and validates the keyfocus configuration.
//
// Configuration comes from three places, later ones winning:
//
//  1. Built-in defaults, including the default gesture table
//  2. The configuration file (TOML, or YAML by extension)
//  3. KEYFOCUS_* environment variables for the scalar settings
//
// A file that declares no gestures keeps the built-in table. A file that
// declares any gesture replaces the whole table.
//
// # Gestures
//
// A gesture is either a chord:
//
//	[[gesture]]
//	keys = ["ShiftLeft", "MetaLeft", "U"]
//	action = "iTerm"
//
// or a sequence, where the follow-up keys must be pressed after the
// prefix is let go and within the window:
//
//	[[gesture]]
//	prefix = ["ShiftLeft", "MetaLeft"]
//	follow = ["N"]
//	action = "Notion"
//	window = "750ms"
//
// Actions name an application to focus, or use a namespace prefix:
// "key:ControlLeft+C" taps a synthetic chord and "lua:..." runs a Lua chunk.
package config
