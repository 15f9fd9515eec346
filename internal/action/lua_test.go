package action_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dshills/keyfocus/internal/action"
	"github.com/dshills/keyfocus/internal/logging"
)

func TestScriptCallsExecutors(t *testing.T) {
	focus := &recorder{}
	keys := &recorder{}
	s := action.NewScript(focus, keys, nil)

	held := heldChord(t, "ShiftLeft", "MetaLeft")
	req := action.Request{
		Action: `focus("Firefox"); key("ControlLeft+T")`,
		Held:   held,
	}
	if err := s.Execute(context.Background(), req); err != nil {
		t.Fatalf("Execute error = %v", err)
	}

	if got := focus.actions(); len(got) != 1 || got[0] != "Firefox" {
		t.Errorf("focus calls = %v, want [Firefox]", got)
	}
	if got := keys.actions(); len(got) != 1 || got[0] != "ControlLeft+T" {
		t.Errorf("key calls = %v, want [ControlLeft+T]", got)
	}
	if len(keys.calls) == 1 && keys.calls[0].Held.String() != held.String() {
		t.Errorf("key held = %s, want %s", keys.calls[0].Held, held)
	}
}

func TestScriptHeldAndLog(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.LevelInfo, Output: &buf})
	focus := &recorder{}
	s := action.NewScript(focus, nil, logger)

	req := action.Request{
		Action: `local h = held(); log("held " .. table.concat(h, ",")); if #h == 2 then focus(h[1]) end`,
		Held:   heldChord(t, "ShiftLeft", "MetaLeft"),
	}
	if err := s.Execute(context.Background(), req); err != nil {
		t.Fatalf("Execute error = %v", err)
	}
	if !strings.Contains(buf.String(), "held ShiftLeft,MetaLeft") {
		t.Errorf("log output = %q", buf.String())
	}
	if got := focus.actions(); len(got) != 1 || got[0] != "ShiftLeft" {
		t.Errorf("focus calls = %v, want [ShiftLeft]", got)
	}
}

func TestScriptErrors(t *testing.T) {
	failing := &recorder{err: errors.New("no such app")}
	s := action.NewScript(failing, nil, nil)

	tests := []struct {
		name string
		code string
		want string
	}{
		{"syntax", `focus(`, "lua"},
		{"executor error", `focus("Nope")`, "no such app"},
		{"missing executor", `key("A")`, "unsupported"},
		{"no io", `io.write("x")`, "lua"},
		{"no os", `os.exit(1)`, "lua"},
		{"no require", `require("os")`, "lua"},
		{"no dofile", `dofile("/etc/passwd")`, "lua"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Execute(context.Background(), action.Request{Action: tt.code})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestScriptTimeout(t *testing.T) {
	s := action.NewScript(nil, nil, nil)
	s.SetTimeout(50 * time.Millisecond)

	start := time.Now()
	err := s.Execute(context.Background(), action.Request{Action: `while true do end`})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("script ran for %v after timeout", elapsed)
	}
}
