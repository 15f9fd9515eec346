//go:build darwin

package action

import (
	"context"
	"fmt"
	"os/exec"
)

// OpenLauncher launches applications with open(1).
type OpenLauncher struct{}

// Launch starts app in the background.
func (OpenLauncher) Launch(ctx context.Context, app string) error {
	out, err := exec.CommandContext(ctx, "open", "-g", "-a", app).CombinedOutput()
	if err != nil {
		return fmt.Errorf("open -a %s: %w: %s", app, err, out)
	}
	return nil
}

// NewPlatformFocuser returns a focus-or-launch executor backed by AppleScript.
// The returned closer stops the idle interpreter.
func NewPlatformFocuser(launchMissing bool, opts ...FocusOption) (*Focuser, func() error, error) {
	osa := NewOsaScript()
	if err := osa.Start(); err != nil {
		return nil, nil, err
	}
	if launchMissing {
		opts = append(opts, WithLauncher(OpenLauncher{}), WithProcessLister(Procs{}))
	}
	return NewFocuser(osa, opts...), osa.Close, nil
}
