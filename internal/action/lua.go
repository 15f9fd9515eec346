package action

import (
	"context"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keyfocus/internal/logging"
)

// DefaultScriptTimeout bounds a single script run.
const DefaultScriptTimeout = 2 * time.Second

// Script runs inline Lua actions such as `lua:focus("Firefox")`.
//
// Each run gets a fresh interpreter with only the base, table, string and
// math libraries and these globals:
//
//	focus(app)    focus or launch an application
//	key(chord)    tap a synthetic chord, e.g. key("ControlLeft+C")
//	log(msg)      write an info log line
//	held()        table of key names held when the gesture fired
type Script struct {
	focus   Executor
	keys    Executor
	logger  *logging.Logger
	timeout time.Duration
}

// NewScript creates a Lua executor. focus and keys may be nil, in which case
// the corresponding Lua functions raise an error.
func NewScript(focus, keys Executor, logger *logging.Logger) *Script {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Script{
		focus:   focus,
		keys:    keys,
		logger:  logger.WithComponent("lua"),
		timeout: DefaultScriptTimeout,
	}
}

// SetTimeout changes the per-run timeout. Non-positive values disable it.
func (s *Script) SetTimeout(d time.Duration) {
	s.timeout = d
}

// Execute implements Executor.
func (s *Script) Execute(ctx context.Context, req Request) (err error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	L.SetContext(ctx)

	openLibs(L)
	s.install(ctx, L, req)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	if err := L.DoString(req.Action); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("lua: %w", err)
	}
	return nil
}

func openLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
}

func (s *Script) install(ctx context.Context, L *lua.LState, req Request) {
	call := func(name string, e Executor) lua.LGFunction {
		return func(L *lua.LState) int {
			arg := L.CheckString(1)
			if e == nil {
				L.RaiseError("%s: %v", name, ErrUnsupported)
				return 0
			}
			if err := e.Execute(ctx, Request{Action: arg, Held: req.Held}); err != nil {
				L.RaiseError("%s(%q): %v", name, arg, err)
			}
			return 0
		}
	}

	L.SetGlobal("focus", L.NewFunction(call("focus", s.focus)))
	L.SetGlobal("key", L.NewFunction(call("key", s.keys)))

	L.SetGlobal("log", L.NewFunction(func(L *lua.LState) int {
		s.logger.Info("%s", L.CheckString(1))
		return 0
	}))

	L.SetGlobal("held", L.NewFunction(func(L *lua.LState) int {
		t := L.NewTable()
		for _, c := range req.Held {
			t.Append(lua.LString(c.String()))
		}
		L.Push(t)
		return 1
	}))
}

