package action

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dshills/keyfocus/internal/input/key"
)

// DefaultSynthDelay is the pause between synthetic key events.
const DefaultSynthDelay = 20 * time.Millisecond

// Emitter writes native key events to the output device.
type Emitter interface {
	Emit(native uint16, down bool) error
}

// NativeMapper converts portable key codes to native codes.
type NativeMapper interface {
	Native(c key.Code) (uint16, bool)
}

// Synth substitutes a gesture with a synthetic key chord. It first releases
// the keys that triggered the gesture so they do not modify the output,
// then taps the chord.
type Synth struct {
	out   Emitter
	codes NativeMapper
	delay time.Duration
	sleep func(context.Context, time.Duration) error
}

// NewSynth creates a Synth. A non-positive delay selects DefaultSynthDelay.
func NewSynth(out Emitter, codes NativeMapper, delay time.Duration) *Synth {
	if delay <= 0 {
		delay = DefaultSynthDelay
	}
	return &Synth{out: out, codes: codes, delay: delay, sleep: sleepCtx}
}

// Execute implements Executor. The action is a chord such as "ControlLeft+C".
func (s *Synth) Execute(ctx context.Context, req Request) error {
	chord, err := key.ParseChord(req.Action)
	if err != nil {
		return err
	}
	return s.Tap(ctx, req.Held, chord)
}

// Tap releases held in reverse order, presses chord in order and releases
// it in reverse order.
func (s *Synth) Tap(ctx context.Context, held, chord key.Chord) error {
	type step struct {
		code key.Code
		down bool
	}

	var steps []step
	for _, c := range slices.Backward(held) {
		steps = append(steps, step{c, false})
	}
	for _, c := range chord {
		steps = append(steps, step{c, true})
	}
	for _, c := range slices.Backward(chord) {
		steps = append(steps, step{c, false})
	}

	// Resolve everything up front so a bad code emits nothing.
	natives := make([]uint16, len(steps))
	for i, st := range steps {
		n, ok := s.codes.Native(st.code)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnmappedKey, st.code)
		}
		natives[i] = n
	}

	for i, st := range steps {
		if i > 0 {
			if err := s.sleep(ctx, s.delay); err != nil {
				return err
			}
		}
		if err := s.out.Emit(natives[i], st.down); err != nil {
			return fmt.Errorf("emit %s: %w", st.code, err)
		}
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
