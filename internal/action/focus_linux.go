//go:build linux

package action

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// WindowActivator raises windows with wmctrl, matching on WM_CLASS.
type WindowActivator struct{}

// Activate raises the first window whose class matches app.
func (WindowActivator) Activate(ctx context.Context, app string) error {
	out, err := exec.CommandContext(ctx, "wmctrl", "-x", "-a", app).CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("wmctrl: %w: %s", err, msg)
		}
		return fmt.Errorf("wmctrl: %w: %w", err, ErrAppNotFound)
	}
	return nil
}

// DesktopLauncher starts applications from their desktop entry.
type DesktopLauncher struct{}

// Launch starts app with gtk-launch.
func (DesktopLauncher) Launch(ctx context.Context, app string) error {
	cmd := exec.Command("gtk-launch", desktopID(app))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("gtk-launch: %w", err)
	}
	// gtk-launch exits once the application is spawned.
	go func() { _ = cmd.Wait() }()
	return ctx.Err()
}

func desktopID(app string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(app)), " ", "-")
}

// NewPlatformFocuser returns a focus-or-launch executor backed by wmctrl.
func NewPlatformFocuser(launchMissing bool, opts ...FocusOption) (*Focuser, func() error, error) {
	if _, err := exec.LookPath("wmctrl"); err != nil {
		return nil, nil, fmt.Errorf("wmctrl: %w", ErrUnsupported)
	}
	if launchMissing {
		opts = append(opts, WithLauncher(DesktopLauncher{}), WithProcessLister(Procs{}))
	}
	return NewFocuser(WindowActivator{}, opts...), func() error { return nil }, nil
}
