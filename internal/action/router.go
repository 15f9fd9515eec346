package action

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Router sends each request to the executor registered for the namespace
// prefix of its action ("key:Escape" goes to "key"). Actions without a
// registered prefix go to the fallback with the identifier unchanged.
type Router struct {
	mu         sync.RWMutex
	namespaces map[string]Executor
	fallback   Executor
}

// NewRouter creates a router with the given fallback executor.
func NewRouter(fallback Executor) *Router {
	return &Router{
		namespaces: make(map[string]Executor),
		fallback:   fallback,
	}
}

// Register routes actions with the "namespace:" prefix to e.
func (r *Router) Register(namespace string, e Executor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.namespaces[namespace] = e
}

// Namespaces returns the registered namespaces, sorted.
func (r *Router) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.namespaces))
	for name := range r.namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Route returns the executor for an action and the action with its prefix
// removed. Returns nil if nothing can handle it.
func (r *Router) Route(act string) (Executor, string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if ns, rest, ok := strings.Cut(act, ":"); ok {
		if e, found := r.namespaces[ns]; found {
			return e, rest
		}
	}
	return r.fallback, act
}

// Execute routes and runs the request.
func (r *Router) Execute(ctx context.Context, req Request) error {
	if req.Action == "" {
		return ErrEmptyAction
	}

	e, act := r.Route(req.Action)
	if e == nil {
		return &ExecError{Action: req.Action, Err: ErrUnsupported}
	}
	if act == "" {
		return &ExecError{Action: req.Action, Err: ErrEmptyAction}
	}

	req.Action = act
	return e.Execute(ctx, req)
}
