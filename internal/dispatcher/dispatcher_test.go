package dispatcher_test

import (
	"context"
	"errors"
	"math/rand"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/dshills/keyfocus/internal/action"
	"github.com/dshills/keyfocus/internal/dispatcher"
	"github.com/dshills/keyfocus/internal/gesture"
	"github.com/dshills/keyfocus/internal/hook"
	"github.com/dshills/keyfocus/internal/input/key"
	"github.com/dshills/keyfocus/internal/input/keymap"
)

const unmapped uint16 = 0xFFFF

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type recorder struct {
	mu    sync.Mutex
	calls []action.Request
	err   error
}

func (r *recorder) Execute(_ context.Context, req action.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, req)
	return r.err
}

func (r *recorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.Action
	}
	return out
}

func native(t *testing.T, c key.Code) uint16 {
	t.Helper()
	n, ok := keymap.Native(c)
	if !ok {
		t.Fatalf("no native code for %s", c)
	}
	return n
}

func press(t *testing.T, c key.Code, ms int) hook.Event {
	t.Helper()
	return hook.Event{Type: key.Press, Native: native(t, c), Time: t0.Add(time.Duration(ms) * time.Millisecond)}
}

func release(t *testing.T, c key.Code, ms int) hook.Event {
	t.Helper()
	return hook.Event{Type: key.Release, Native: native(t, c), Time: t0.Add(time.Duration(ms) * time.Millisecond)}
}

func chord(t *testing.T, act string, keys ...key.Code) gesture.Rule {
	t.Helper()
	r, err := gesture.NewChord(keys, act)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func sequence(t *testing.T, act string, prefix, follow key.Chord) gesture.Rule {
	t.Helper()
	r, err := gesture.NewSequence(prefix, follow, act, 0)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func newDispatcher(t *testing.T, cfg dispatcher.Config, exec action.Executor, rules ...gesture.Rule) *dispatcher.Dispatcher {
	t.Helper()
	return dispatcher.New(cfg, keymap.Mapper{}, exec, rules)
}

func TestChordFiresOnPress(t *testing.T) {
	rec := &recorder{}
	d := newDispatcher(t, dispatcher.DefaultConfig(), rec,
		chord(t, "iTerm", key.ShiftLeft, key.MetaLeft, key.U))

	steps := []struct {
		ev   hook.Event
		want bool
	}{
		{press(t, key.ShiftLeft, 0), false},
		{press(t, key.MetaLeft, 10), false},
		{press(t, key.U, 20), true},
		{press(t, key.U, 50), true}, // auto-repeat fires again
		{release(t, key.U, 80), false},
		{release(t, key.MetaLeft, 90), false},
		{press(t, key.U, 100), false},
	}
	for i, s := range steps {
		if got := d.Handle(s.ev); got != s.want {
			t.Errorf("step %d: Handle(%v) = %v, want %v", i, s.ev.Type, got, s.want)
		}
	}

	if got := rec.actions(); !reflect.DeepEqual(got, []string{"iTerm", "iTerm"}) {
		t.Errorf("actions = %v, want two iTerm", got)
	}
	want := key.Chord{key.ShiftLeft, key.MetaLeft, key.U}
	if held := rec.calls[0].Held; !reflect.DeepEqual(held, want) {
		t.Errorf("held = %v, want %v", held, want)
	}
}

func TestReleaseEvaluation(t *testing.T) {
	tests := []struct {
		name string
		on   dispatcher.EvaluateOn
		want bool
	}{
		{"press only", dispatcher.EvaluateOnPress, false},
		{"any", dispatcher.EvaluateOnAny, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			cfg := dispatcher.DefaultConfig().WithEvaluateOn(tt.on)
			d := newDispatcher(t, cfg, rec, chord(t, "Firefox", key.A, key.B))

			d.Handle(press(t, key.A, 0))
			d.Handle(press(t, key.B, 10))
			d.Handle(press(t, key.C, 20))
			if got := d.Handle(release(t, key.C, 30)); got != tt.want {
				t.Errorf("release captured = %v, want %v", got, tt.want)
			}
			if !reflect.DeepEqual(d.Held(), key.Chord{key.A, key.B}) {
				t.Errorf("held = %v after release", d.Held())
			}
		})
	}
}

func TestUnmappableKeyPassesThrough(t *testing.T) {
	rec := &recorder{}
	d := newDispatcher(t, dispatcher.DefaultConfig().WithMetrics(), rec, chord(t, "x", key.A))

	d.Handle(press(t, key.ShiftLeft, 0))
	before := d.Held()

	for _, typ := range []key.EventType{key.Press, key.Release} {
		if d.Handle(hook.Event{Type: typ, Native: unmapped, Time: t0}) {
			t.Errorf("unmappable %v was captured", typ)
		}
	}
	if !reflect.DeepEqual(d.Held(), before) {
		t.Errorf("held = %v, want %v", d.Held(), before)
	}
	if n := d.Metrics().Unmappable(); n != 2 {
		t.Errorf("Unmappable() = %d, want 2", n)
	}
	if len(rec.calls) != 0 {
		t.Errorf("executor called: %v", rec.actions())
	}
}

func TestOtherEventsPassThrough(t *testing.T) {
	rec := &recorder{}
	d := newDispatcher(t, dispatcher.DefaultConfig(), rec, chord(t, "x", key.A))

	d.Handle(press(t, key.A, 0))
	if d.Handle(hook.Event{Type: key.Other}) {
		t.Error("Other event was captured")
	}
	if len(rec.calls) != 1 {
		t.Errorf("executor calls = %d, want 1", len(rec.calls))
	}
}

func TestSequenceThroughDispatcher(t *testing.T) {
	prefix := key.Chord{key.ShiftLeft, key.MetaLeft}

	tests := []struct {
		name   string
		events func(t *testing.T) []hook.Event
		want   []string
	}{
		{
			name: "follow within window",
			events: func(t *testing.T) []hook.Event {
				return []hook.Event{
					press(t, key.ShiftLeft, 0), press(t, key.MetaLeft, 10),
					release(t, key.MetaLeft, 100), release(t, key.ShiftLeft, 110),
					press(t, key.N, 300),
				}
			},
			want: []string{"Notion"},
		},
		{
			name: "follow too late",
			events: func(t *testing.T) []hook.Event {
				return []hook.Event{
					press(t, key.ShiftLeft, 0), press(t, key.MetaLeft, 10),
					release(t, key.MetaLeft, 100), release(t, key.ShiftLeft, 110),
					press(t, key.N, 1000),
				}
			},
			want: nil,
		},
		{
			name: "unrelated key disarms",
			events: func(t *testing.T) []hook.Event {
				return []hook.Event{
					press(t, key.ShiftLeft, 0), press(t, key.MetaLeft, 10),
					release(t, key.MetaLeft, 100), release(t, key.ShiftLeft, 110),
					press(t, key.X, 200), release(t, key.X, 220),
					press(t, key.N, 300),
				}
			},
			want: nil,
		},
		{
			name: "prefix still held",
			events: func(t *testing.T) []hook.Event {
				return []hook.Event{
					press(t, key.ShiftLeft, 0), press(t, key.MetaLeft, 10),
					press(t, key.N, 100),
				}
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			d := newDispatcher(t, dispatcher.DefaultConfig(), rec,
				sequence(t, "Notion", prefix, key.Chord{key.N}))

			for _, ev := range tt.events(t) {
				d.Handle(ev)
			}
			if got := rec.actions(); len(got) != len(tt.want) || (len(got) > 0 && !reflect.DeepEqual(got, tt.want)) {
				t.Errorf("actions = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRulesEvaluatedInOrder(t *testing.T) {
	rec := &recorder{}
	d := newDispatcher(t, dispatcher.DefaultConfig(), rec,
		chord(t, "first", key.A),
		chord(t, "none", key.B),
		chord(t, "second", key.A),
	)

	if !d.Handle(press(t, key.A, 0)) {
		t.Fatal("expected capture")
	}
	if got := rec.actions(); !reflect.DeepEqual(got, []string{"first", "second"}) {
		t.Errorf("actions = %v, want [first second]", got)
	}
}

func TestExecutorFailureKeepsCapture(t *testing.T) {
	rec := &recorder{err: &action.ExecError{Action: "x", Err: action.ErrQueueFull}}
	d := newDispatcher(t, dispatcher.DefaultConfig().WithMetrics(), rec, chord(t, "x", key.A))

	if !d.Handle(press(t, key.A, 0)) {
		t.Error("failed action changed the capture decision")
	}
	m := d.Metrics()
	if m.Failures() != 1 {
		t.Errorf("Failures() = %d, want 1", m.Failures())
	}
	if s := m.ActionStats("x"); s == nil || s.FireCount != 1 || s.ErrorCount != 1 {
		t.Errorf("ActionStats(x) = %+v", s)
	}
}

func TestCaptureIsAnyRuleFired(t *testing.T) {
	codes := []key.Code{key.A, key.B, key.C, key.ShiftLeft, key.MetaLeft}
	chords := []key.Chord{
		{key.A, key.B},
		{key.ShiftLeft, key.C},
		{key.MetaLeft},
	}

	var rules []gesture.Rule
	for i, c := range chords {
		rules = append(rules, chord(t, string(rune('a'+i)), c...))
	}

	rng := rand.New(rand.NewSource(7))
	d := newDispatcher(t, dispatcher.DefaultConfig(), &recorder{}, rules...)
	model := map[key.Code]bool{}

	for i := 0; i < 2000; i++ {
		c := codes[rng.Intn(len(codes))]
		var ev hook.Event
		if rng.Intn(2) == 0 {
			ev = press(t, c, i)
			model[c] = true
		} else {
			ev = release(t, c, i)
			delete(model, c)
		}

		want := false
		if ev.Type == key.Press {
			for _, ch := range chords {
				all := true
				for _, k := range ch {
					all = all && model[k]
				}
				want = want || all
			}
		}
		if got := d.Handle(ev); got != want {
			t.Fatalf("event %d (%v %s): captured = %v, want %v", i, ev.Type, c, got, want)
		}
	}
}

func TestReloadKeepsHeldKeys(t *testing.T) {
	rec := &recorder{}
	d := newDispatcher(t, dispatcher.DefaultConfig(), rec, chord(t, "old", key.A, key.B))

	d.Handle(press(t, key.A, 0))
	d.Reload([]gesture.Rule{chord(t, "new", key.A, key.B)})
	d.Handle(press(t, key.B, 10))

	if got := rec.actions(); !reflect.DeepEqual(got, []string{"new"}) {
		t.Errorf("actions = %v, want [new]", got)
	}
	if n := len(d.Rules()); n != 1 {
		t.Errorf("len(Rules()) = %d, want 1", n)
	}

	d.Reset()
	if len(d.Held()) != 0 {
		t.Errorf("held after Reset = %v", d.Held())
	}
}

func TestZeroTimeUsesClock(t *testing.T) {
	rec := &recorder{}
	d := newDispatcher(t, dispatcher.DefaultConfig(), rec,
		sequence(t, "Notion", key.Chord{key.ShiftLeft}, key.Chord{key.N}))

	now := t0
	d.SetClock(func() time.Time { return now })

	untimed := func(typ key.EventType, c key.Code) hook.Event {
		return hook.Event{Type: typ, Native: native(t, c)}
	}

	d.Handle(untimed(key.Press, key.ShiftLeft))
	d.Handle(untimed(key.Release, key.ShiftLeft))
	now = now.Add(time.Second)
	if d.Handle(untimed(key.Press, key.N)) {
		t.Error("fired after the window using the injected clock")
	}
}

func TestAsyncDispatch(t *testing.T) {
	rec := &recorder{}
	cfg := dispatcher.DefaultConfig().WithAsyncDispatch(4)
	d := newDispatcher(t, cfg, rec, chord(t, "Firefox", key.ShiftLeft, key.O))

	d.Start()
	h := d.Handler()

	if h(press(t, key.ShiftLeft, 0)) {
		t.Error("ShiftLeft captured")
	}
	if !h(press(t, key.O, 10)) {
		t.Error("ShiftLeft+O not captured")
	}
	captured, err := d.Submit(release(t, key.O, 20))
	if err != nil || captured {
		t.Errorf("Submit(release) = %v, %v", captured, err)
	}

	d.Stop()
	if _, err := d.Submit(press(t, key.O, 30)); !errors.Is(err, dispatcher.ErrDispatcherStopped) {
		t.Errorf("Submit after Stop error = %v, want ErrDispatcherStopped", err)
	}
	if h(press(t, key.O, 40)) {
		t.Error("handler captured after Stop")
	}
}

func TestSubmitRequiresAsync(t *testing.T) {
	d := newDispatcher(t, dispatcher.DefaultConfig(), &recorder{})
	if _, err := d.Submit(hook.Event{}); !errors.Is(err, dispatcher.ErrAsyncNotEnabled) {
		t.Errorf("Submit error = %v, want ErrAsyncNotEnabled", err)
	}
	d.Start()
	d.Stop()
}

func TestParseEvaluateOn(t *testing.T) {
	tests := []struct {
		in      string
		want    dispatcher.EvaluateOn
		wantErr bool
	}{
		{"", dispatcher.EvaluateOnPress, false},
		{"press", dispatcher.EvaluateOnPress, false},
		{"ANY", dispatcher.EvaluateOnAny, false},
		{"release", dispatcher.EvaluateOnPress, true},
	}
	for _, tt := range tests {
		got, err := dispatcher.ParseEvaluateOn(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseEvaluateOn(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, dispatcher.ErrInvalidEvaluateOn) {
			t.Errorf("ParseEvaluateOn(%q) error = %v, want ErrInvalidEvaluateOn", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseEvaluateOn(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestKeyError(t *testing.T) {
	err := error(&dispatcher.KeyError{Native: 999})
	if !errors.Is(err, dispatcher.ErrUnmappableKey) {
		t.Error("KeyError does not unwrap to ErrUnmappableKey")
	}
	if err.Error() == "" {
		t.Error("empty error message")
	}
}
