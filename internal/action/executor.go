package action

import (
	"context"

	"github.com/dshills/keyfocus/internal/input/key"
)

// Request asks an executor to run one action.
type Request struct {
	// Action is the action identifier.
	Action string

	// Held lists the keys that were held when the gesture fired, in
	// ascending code order. Key substitution releases them first.
	Held key.Chord
}

// Executor runs actions.
type Executor interface {
	Execute(ctx context.Context, req Request) error
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, req Request) error

// Execute calls f.
func (f ExecutorFunc) Execute(ctx context.Context, req Request) error {
	return f(ctx, req)
}
