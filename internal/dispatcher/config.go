package dispatcher

import (
	"fmt"
	"strings"
)

// EvaluateOn selects which events trigger rule evaluation.
type EvaluateOn uint8

const (
	// EvaluateOnPress evaluates rules on key presses only.
	EvaluateOnPress EvaluateOn = iota
	// EvaluateOnAny evaluates rules on presses and releases.
	EvaluateOnAny
)

// String returns the configuration name.
func (e EvaluateOn) String() string {
	switch e {
	case EvaluateOnPress:
		return "press"
	case EvaluateOnAny:
		return "any"
	default:
		return "unknown"
	}
}

// ParseEvaluateOn parses "press" or "any". An empty string means "press".
func ParseEvaluateOn(s string) (EvaluateOn, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "press":
		return EvaluateOnPress, nil
	case "any":
		return EvaluateOnAny, nil
	}
	return EvaluateOnPress, fmt.Errorf("%w: %q", ErrInvalidEvaluateOn, s)
}

// Config holds dispatcher configuration options.
type Config struct {
	// EvaluateOn selects which events trigger rule evaluation.
	EvaluateOn EvaluateOn

	// AsyncDispatch runs recognition on a dedicated goroutine fed by a channel.
	AsyncDispatch bool

	// EventBufferSize is the buffer size for the async event channel.
	// Only used when AsyncDispatch is true.
	EventBufferSize int

	// EnableMetrics enables event and action statistics.
	EnableMetrics bool
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EvaluateOn:      EvaluateOnPress,
		AsyncDispatch:   false,
		EventBufferSize: 64,
		EnableMetrics:   false,
	}
}

// WithEvaluateOn returns a copy of the config with the evaluation trigger set.
func (c Config) WithEvaluateOn(e EvaluateOn) Config {
	c.EvaluateOn = e
	return c
}

// WithAsyncDispatch returns a copy of the config with async dispatch enabled.
func (c Config) WithAsyncDispatch(bufferSize int) Config {
	c.AsyncDispatch = true
	if bufferSize > 0 {
		c.EventBufferSize = bufferSize
	}
	return c
}

// WithMetrics returns a copy of the config with metrics enabled.
func (c Config) WithMetrics() Config {
	c.EnableMetrics = true
	return c
}
