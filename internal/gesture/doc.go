// Package gesture implements the rules that recognize keyboard gestures.
//
// A Rule is evaluated against every input event together with the current
// key state and reports whether its gesture fired. Two kinds exist:
//
//   - Chord: fires while its whole key set is held simultaneously. Firing is
//     level-triggered; the rule keeps no memory between events.
//   - Sequence: fires when a prefix chord was fully held, the prefix is no
//     longer fully held, and a follow-up chord becomes fully held within a
//     time window. Pressing a key outside both chords disarms it.
//
// Rule is a closed set: only this package can implement it.
//
// # Usage
//
//	rules, err := gesture.Build([]gesture.Spec{
//	    {Keys: key.MustParseChord("ShiftLeft+MetaLeft+U"), Action: "iTerm"},
//	    {Prefix: key.MustParseChord("ShiftLeft+MetaLeft"), Follow: key.Chord{key.N}, Action: "Notion"},
//	})
//
//	state.Apply(ev)
//	for _, r := range rules {
//	    if r.Evaluate(ev, state) {
//	        // run r.Action()
//	    }
//	}
package gesture
