//go:build linux

package hook

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/holoplot/go-evdev"

	"github.com/dshills/keyfocus/internal/input/key"
	"github.com/dshills/keyfocus/internal/logging"
)

// maxKeyCode is KEY_MICMUTE, the last code of the classic keyboard range.
const maxKeyCode = 248

// Evdev reads a grabbed evdev keyboard and forwards uncaptured events
// through a virtual keyboard.
type Evdev struct {
	path   string
	out    *VirtualKeyboard
	logger *logging.Logger
}

// NewEvdev creates an evdev source. An empty path selects the first device
// that looks like a keyboard.
func NewEvdev(path string, out *VirtualKeyboard, logger *logging.Logger) *Evdev {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Evdev{
		path:   path,
		out:    out,
		logger: logger.WithComponent("hook"),
	}
}

// Run grabs the device and delivers events until ctx is cancelled.
func (s *Evdev) Run(ctx context.Context, h Handler) error {
	path := s.path
	if path == "" {
		found, err := FindKeyboard(s.out.Name())
		if err != nil {
			return &InitError{Err: err}
		}
		path = found
	}

	dev, err := evdev.Open(path)
	if err != nil {
		return &InitError{Device: path, Err: fmt.Errorf("open: %w (try running as root or add user to 'input' group)", err)}
	}

	if err := dev.Grab(); err != nil {
		_ = dev.Close()
		return &InitError{Device: path, Err: fmt.Errorf("grab: %w", err)}
	}

	name, _ := dev.Name()
	s.logger.Info("listening on %s (%s)", path, name)

	var closeOnce sync.Once
	closeDev := func() {
		closeOnce.Do(func() {
			_ = dev.Ungrab()
			_ = dev.Close()
		})
	}
	defer closeDev()

	stop := context.AfterFunc(ctx, closeDev)
	defer stop()

	for {
		ev, err := dev.ReadOne()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("reading %s: %w", path, err)
		}

		switch ev.Type {
		case evdev.EV_KEY:
			captured := h(Event{
				Type:   valueType(ev.Value),
				Native: uint16(ev.Code),
				Time:   eventTime(ev),
			})
			if captured {
				continue
			}
			if err := s.out.Write(ev); err != nil {
				s.logger.Warn("forwarding key %d: %v", ev.Code, err)
			}
		case evdev.EV_SYN:
			if err := s.out.Write(ev); err != nil {
				s.logger.Warn("forwarding sync: %v", err)
			}
		default:
			h(Event{Type: key.Other, Time: eventTime(ev)})
		}
	}
}

func eventTime(ev *evdev.InputEvent) time.Time {
	return time.Unix(int64(ev.Time.Sec), int64(ev.Time.Usec)*1000)
}

// FindKeyboard returns the path of the first device that reports letter and
// space keys, skipping the device named ignore.
func FindKeyboard(ignore string) (string, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return "", fmt.Errorf("listing input devices: %w", err)
	}

	for _, p := range paths {
		if ignore != "" && p.Name == ignore {
			continue
		}
		if isKeyboard(p.Path) {
			return p.Path, nil
		}
	}

	return "", ErrNoKeyboard
}

func isKeyboard(path string) bool {
	dev, err := evdev.Open(path)
	if err != nil {
		return false
	}
	defer dev.Close()

	name, _ := dev.Name()
	if strings.Contains(strings.ToLower(name), "mouse") {
		return false
	}

	var hasA, hasSpace bool
	for _, code := range dev.CapableEvents(evdev.EV_KEY) {
		switch code {
		case evdev.KEY_A:
			hasA = true
		case evdev.KEY_SPACE:
			hasSpace = true
		}
	}
	return hasA && hasSpace
}

// VirtualKeyboard is a uinput device used to forward uncaptured events and
// to emit synthetic key events. It is safe for concurrent use.
type VirtualKeyboard struct {
	mu   sync.Mutex
	name string
	dev  *evdev.InputDevice
}

// NewVirtualKeyboard creates a uinput keyboard able to emit every key code
// up to maxKeyCode.
func NewVirtualKeyboard(name string) (*VirtualKeyboard, error) {
	codes := make([]evdev.EvCode, 0, maxKeyCode)
	for c := evdev.EvCode(1); c <= maxKeyCode; c++ {
		codes = append(codes, c)
	}

	dev, err := evdev.CreateDevice(name, evdev.InputID{
		BusType: 0x03, // BUS_USB
		Vendor:  0x4b46,
		Product: 0x0001,
		Version: 1,
	}, map[evdev.EvType][]evdev.EvCode{
		evdev.EV_KEY: codes,
	})
	if err != nil {
		return nil, fmt.Errorf("creating uinput device: %w (is the uinput module loaded?)", err)
	}

	return &VirtualKeyboard{name: name, dev: dev}, nil
}

// Name returns the device name.
func (v *VirtualKeyboard) Name() string {
	if v == nil {
		return ""
	}
	return v.name
}

// Write forwards a raw event.
func (v *VirtualKeyboard) Write(ev *evdev.InputEvent) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.dev.WriteOne(ev)
}

// Emit writes a key event with the given value (0 up, 1 down) followed by
// a sync report.
func (v *VirtualKeyboard) Emit(native uint16, down bool) error {
	value := int32(0)
	if down {
		value = 1
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.dev.WriteOne(&evdev.InputEvent{
		Type:  evdev.EV_KEY,
		Code:  evdev.EvCode(native),
		Value: value,
	}); err != nil {
		return err
	}
	return v.dev.WriteOne(&evdev.InputEvent{
		Type: evdev.EV_SYN,
		Code: evdev.SYN_REPORT,
	})
}

// Close destroys the device.
func (v *VirtualKeyboard) Close() error {
	if v == nil {
		return nil
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.dev == nil {
		return errors.New("hook: virtual keyboard already closed")
	}
	err := v.dev.Close()
	v.dev = nil
	return err
}
