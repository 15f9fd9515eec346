// Package dispatcher turns raw keyboard events into gesture actions.
//
// The dispatcher owns the held-key state and an ordered list of gesture
// rules. For every event from the hook it:
//
//  1. Maps the native key code to a portable key.Code
//  2. Updates the held-key state
//  3. Evaluates every rule in order (presses only, unless configured)
//  4. Hands the action of each rule that fired to the executor
//
// The event is captured, and so hidden from the focused application, when
// at least one rule fired. Events with no mapping are logged and passed
// through without touching the state.
//
// All four steps run under one lock, so events are recognized strictly in
// arrival order. With AsyncDispatch the same work runs on a dedicated
// goroutine that receives events over a channel and answers each on its
// own reply channel.
//
// # Reloading
//
// Reload swaps the rule list atomically. Held keys survive a reload, so a
// chord that is held while the configuration changes still fires.
package dispatcher
