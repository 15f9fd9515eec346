package action_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/dshills/keyfocus/internal/action"
)

type recorder struct {
	calls []action.Request
	err   error
}

func (r *recorder) Execute(_ context.Context, req action.Request) error {
	r.calls = append(r.calls, req)
	return r.err
}

func (r *recorder) actions() []string {
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.Action
	}
	return out
}

func TestRouterRoutesByNamespace(t *testing.T) {
	apps := &recorder{}
	keys := &recorder{}
	r := action.NewRouter(apps)
	r.Register("key", keys)
	r.Register("app", apps)

	tests := []struct {
		act      string
		wantKeys []string
		wantApps []string
	}{
		{"key:Escape", []string{"Escape"}, nil},
		{"app:iTerm", nil, []string{"iTerm"}},
		{"Firefox", nil, []string{"Firefox"}},
		{"http://example.com", nil, []string{"http://example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.act, func(t *testing.T) {
			apps.calls, keys.calls = nil, nil
			if err := r.Execute(context.Background(), action.Request{Action: tt.act}); err != nil {
				t.Fatalf("Execute(%q) error = %v", tt.act, err)
			}
			if got := keys.actions(); len(got) != len(tt.wantKeys) || (len(got) > 0 && !reflect.DeepEqual(got, tt.wantKeys)) {
				t.Errorf("key executor got %v, want %v", got, tt.wantKeys)
			}
			if got := apps.actions(); len(got) != len(tt.wantApps) || (len(got) > 0 && !reflect.DeepEqual(got, tt.wantApps)) {
				t.Errorf("app executor got %v, want %v", got, tt.wantApps)
			}
		})
	}
}

func TestRouterErrors(t *testing.T) {
	r := action.NewRouter(nil)
	r.Register("key", &recorder{})

	if err := r.Execute(context.Background(), action.Request{}); !errors.Is(err, action.ErrEmptyAction) {
		t.Errorf("empty action error = %v, want ErrEmptyAction", err)
	}
	if err := r.Execute(context.Background(), action.Request{Action: "key:"}); !errors.Is(err, action.ErrEmptyAction) {
		t.Errorf("empty argument error = %v, want ErrEmptyAction", err)
	}
	err := r.Execute(context.Background(), action.Request{Action: "Firefox"})
	if !errors.Is(err, action.ErrUnsupported) || !errors.Is(err, action.ErrExecution) {
		t.Errorf("no fallback error = %v, want ErrUnsupported wrapped in ExecError", err)
	}
}

func TestRouterNamespaces(t *testing.T) {
	r := action.NewRouter(nil)
	r.Register("lua", &recorder{})
	r.Register("key", &recorder{})

	got := r.Namespaces()
	want := []string{"key", "lua"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Namespaces() = %v, want %v", got, want)
	}
}

func TestRouterPassesHeldKeys(t *testing.T) {
	keys := &recorder{}
	r := action.NewRouter(nil)
	r.Register("key", keys)

	held := heldChord(t, "ShiftLeft", "MetaLeft")
	if err := r.Execute(context.Background(), action.Request{Action: "key:Escape", Held: held}); err != nil {
		t.Fatal(err)
	}
	if len(keys.calls) != 1 || !reflect.DeepEqual(keys.calls[0].Held, held) {
		t.Errorf("held keys not forwarded: %+v", keys.calls)
	}
}
