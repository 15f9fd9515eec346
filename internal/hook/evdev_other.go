//go:build !linux

package hook

import (
	"context"

	"github.com/dshills/keyfocus/internal/logging"
)

// Evdev is unavailable on this platform.
type Evdev struct{}

// NewEvdev returns a source whose Run always fails with ErrUnsupported.
func NewEvdev(path string, out *VirtualKeyboard, logger *logging.Logger) *Evdev {
	return &Evdev{}
}

// Run returns an InitError wrapping ErrUnsupported.
func (s *Evdev) Run(ctx context.Context, h Handler) error {
	return &InitError{Err: ErrUnsupported}
}

// FindKeyboard returns ErrUnsupported.
func FindKeyboard(ignore string) (string, error) {
	return "", ErrUnsupported
}

// VirtualKeyboard is unavailable on this platform.
type VirtualKeyboard struct{}

// NewVirtualKeyboard returns ErrUnsupported.
func NewVirtualKeyboard(name string) (*VirtualKeyboard, error) {
	return nil, ErrUnsupported
}

// Name returns an empty string.
func (v *VirtualKeyboard) Name() string {
	return ""
}

// Emit returns ErrUnsupported.
func (v *VirtualKeyboard) Emit(native uint16, down bool) error {
	return ErrUnsupported
}

// Close is a no-op.
func (v *VirtualKeyboard) Close() error {
	return nil
}
