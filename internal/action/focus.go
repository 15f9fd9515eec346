package action

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/keyfocus/internal/logging"
)

// ErrAppNotFound indicates the application could not be activated or launched.
var ErrAppNotFound = errors.New("action: application not found")

// Activator brings a running application to the foreground.
type Activator interface {
	Activate(ctx context.Context, app string) error
}

// Launcher starts an application.
type Launcher interface {
	Launch(ctx context.Context, app string) error
}

// ProcessLister reports whether an application has a running process.
type ProcessLister interface {
	Running(ctx context.Context, app string) (bool, error)
}

// Focuser implements focus-or-launch: it activates the named application,
// launching it first when no process for it is running.
type Focuser struct {
	activator Activator
	launcher  Launcher
	procs     ProcessLister
	logger    *logging.Logger
}

// FocusOption configures a Focuser.
type FocusOption func(*Focuser)

// WithLauncher sets the launcher used for applications that are not running.
func WithLauncher(l Launcher) FocusOption {
	return func(f *Focuser) { f.launcher = l }
}

// WithProcessLister sets the lister used to detect running applications.
// Without one every application is assumed to be running.
func WithProcessLister(p ProcessLister) FocusOption {
	return func(f *Focuser) { f.procs = p }
}

// WithFocusLogger sets the logger.
func WithFocusLogger(l *logging.Logger) FocusOption {
	return func(f *Focuser) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFocuser creates a Focuser around an activator.
func NewFocuser(a Activator, opts ...FocusOption) *Focuser {
	f := &Focuser{
		activator: a,
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.WithComponent("focus")
	return f
}

// Focus activates app, launching it if needed.
func (f *Focuser) Focus(ctx context.Context, app string) error {
	app = strings.TrimSpace(app)
	if app == "" {
		return ErrEmptyAction
	}
	if f.activator == nil {
		return ErrUnsupported
	}

	if f.procs != nil && f.launcher != nil {
		running, err := f.procs.Running(ctx, app)
		if err != nil {
			f.logger.Warn("process check for %q: %v", app, err)
		} else if !running {
			f.logger.Info("launching %q", app)
			if err := f.launcher.Launch(ctx, app); err != nil {
				return fmt.Errorf("launch %q: %w", app, err)
			}
		}
	}

	f.logger.Info("focus %s", app)
	if err := f.activator.Activate(ctx, app); err != nil {
		return fmt.Errorf("activate %q: %w", app, err)
	}
	return nil
}

// Execute implements Executor. The action is the application name.
func (f *Focuser) Execute(ctx context.Context, req Request) error {
	return f.Focus(ctx, req.Action)
}
