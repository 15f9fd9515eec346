// Package app wires the keyfocus daemon together and manages its lifecycle.
package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/keyfocus/internal/action"
	"github.com/dshills/keyfocus/internal/config"
	"github.com/dshills/keyfocus/internal/config/watcher"
	"github.com/dshills/keyfocus/internal/dispatcher"
	"github.com/dshills/keyfocus/internal/hook"
	"github.com/dshills/keyfocus/internal/input/keymap"
	"github.com/dshills/keyfocus/internal/logging"
)

// VirtualKeyboardName is the name of the uinput device keyfocus creates.
const VirtualKeyboardName = "keyfocus virtual keyboard"

// drainTimeout bounds how long shutdown waits for queued actions.
const drainTimeout = 2 * time.Second

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file. When empty the
	// default path is used and may be missing.
	ConfigPath string

	// Config, when set, is used instead of loading ConfigPath.
	Config *config.Config

	// LogLevel overrides the configured log level.
	LogLevel string

	// Device overrides the configured evdev device path.
	Device string

	// Watch reloads gestures when the configuration file changes.
	Watch bool

	// LogOutput is where logs are written. Defaults to stderr.
	LogOutput io.Writer

	// Source replaces the evdev keyboard hook.
	Source hook.Source

	// Emitter replaces the virtual keyboard for synthetic keys.
	Emitter action.Emitter

	// Focus replaces the platform application focuser.
	Focus action.Executor
}

// Application owns the recognition pipeline:
// hook -> dispatcher -> worker -> router -> executors.
type Application struct {
	mu sync.Mutex

	opts   Options
	config *config.Config
	logger *logging.Logger

	dispatcher *dispatcher.Dispatcher
	worker     *action.Worker
	watcher    *watcher.Watcher

	closers []func() error
	running atomic.Bool
}

// New loads the configuration and builds the logger. Devices are not
// touched until Run.
func New(opts Options) (*Application, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = loadConfig(opts); err != nil {
			return nil, &InitError{Component: ComponentConfig, Err: err}
		}
	}
	if err := applyOverrides(cfg, opts); err != nil {
		return nil, &InitError{Component: ComponentConfig, Err: err}
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Level()
	if opts.LogOutput != nil {
		logCfg.Output = opts.LogOutput
	}

	return &Application{
		opts:   opts,
		config: cfg,
		logger: logging.New(logCfg),
	}, nil
}

func loadConfig(opts Options) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.Load(opts.ConfigPath, true)
	}
	return config.Load(config.DefaultPath(), false)
}

func applyOverrides(cfg *config.Config, opts Options) error {
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.Device != "" {
		cfg.Device = opts.Device
	}
	return cfg.Validate()
}

// Config returns the active configuration.
func (app *Application) Config() *config.Config {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.config
}

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger {
	return app.logger
}

// Dispatcher returns the dispatcher, or nil before Run.
func (app *Application) Dispatcher() *dispatcher.Dispatcher {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.dispatcher
}

// Run installs the keyboard hook and recognizes gestures until ctx is
// cancelled or the hook fails. Hook setup failures match ErrHookInit.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)
	defer app.close()

	cfg := app.Config()

	rules, err := cfg.Rules()
	if err != nil {
		return &InitError{Component: ComponentConfig, Err: err}
	}

	source, emitter, err := app.setupHook(cfg)
	if err != nil {
		return &InitError{Component: ComponentHook, Err: err}
	}

	router := app.setupActions(cfg, emitter)

	d := dispatcher.New(
		dispatcher.DefaultConfig().WithEvaluateOn(cfg.EvaluateTrigger()).WithMetrics(),
		keymap.Mapper{},
		nil,
		rules,
	)
	worker := action.NewWorker(router,
		action.WithQueueSize(cfg.QueueSize),
		action.WithLogger(app.logger),
		action.WithResultCallback(func(r action.Result) {
			if r.Err != nil {
				d.Metrics().RecordFailure(r.Action)
			}
		}),
	)
	d.SetExecutor(worker)
	d.SetLogger(app.logger)
	d.SetContext(ctx)

	app.mu.Lock()
	app.dispatcher = d
	app.worker = worker
	app.mu.Unlock()

	worker.Start()
	defer app.drain()

	if app.opts.Watch && cfg.Path != "" {
		app.startWatcher(cfg.Path)
	}

	app.logger.Info("recognizing %d gestures (evaluate on %s)", len(rules), cfg.EvaluateTrigger())

	err = source.Run(ctx, d.Handler())
	app.logSummary()

	var hookErr *hook.InitError
	switch {
	case errors.As(err, &hookErr):
		return &InitError{Component: ComponentHook, Err: err}
	case err != nil:
		return NewComponentError(ComponentHook, "read events", err)
	}
	return nil
}

// setupHook returns the event source and the synthetic key emitter.
func (app *Application) setupHook(cfg *config.Config) (hook.Source, action.Emitter, error) {
	source, emitter := app.opts.Source, app.opts.Emitter
	if source != nil {
		return source, emitter, nil
	}

	vk, err := hook.NewVirtualKeyboard(VirtualKeyboardName)
	if err != nil {
		return nil, nil, err
	}
	app.addCloser(vk.Close)

	if emitter == nil {
		emitter = vk
	}
	return hook.NewEvdev(cfg.Device, vk, app.logger), emitter, nil
}

// setupActions builds the action router:
//
//	key:<chord>  synthetic key chord
//	lua:<chunk>  Lua script
//	app:<name>   focus an application, also the default
func (app *Application) setupActions(cfg *config.Config, emitter action.Emitter) *action.Router {
	focus := app.opts.Focus
	if focus == nil {
		f, closeFn, err := action.NewPlatformFocuser(cfg.LaunchMissing, action.WithFocusLogger(app.logger))
		if err != nil {
			app.logger.Warn("application focus unavailable: %v", err)
			focus = action.ExecutorFunc(func(context.Context, action.Request) error {
				return err
			})
		} else {
			focus = f
			app.addCloser(closeFn)
		}
	}

	router := action.NewRouter(focus)
	router.Register("app", focus)

	var keys action.Executor
	if emitter != nil {
		keys = action.NewSynth(emitter, keymap.Mapper{}, cfg.SynthDelay.D())
		router.Register("key", keys)
	} else {
		app.logger.Warn("no key emitter; key: actions are disabled")
	}

	router.Register("lua", action.NewScript(focus, keys, app.logger))
	return router
}

func (app *Application) startWatcher(path string) {
	w, err := watcher.New(watcher.WithErrorHandler(func(err error) {
		app.logger.Warn("%v", NewComponentError(ComponentWatcher, "watch", err))
	}))
	if err != nil {
		app.logger.Warn("%v", NewComponentError(ComponentWatcher, "start", err))
		return
	}
	if err := w.Watch(path); err != nil {
		_ = w.Close()
		app.logger.Warn("%v", NewComponentError(ComponentWatcher, "watch "+path, err))
		return
	}

	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			return
		}
		if err := app.Reload(); err != nil {
			app.logger.Error("reload %s: %v (keeping previous gestures)", ev.Path, err)
		}
	})

	app.mu.Lock()
	app.watcher = w
	app.mu.Unlock()
	app.addCloser(w.Close)
	app.logger.Info("watching %s", path)
}

// Reload re-reads the configuration file and swaps in its gestures and
// log level. On error the running configuration is kept.
func (app *Application) Reload() error {
	app.mu.Lock()
	path := app.config.Path
	d := app.dispatcher
	app.mu.Unlock()

	if path == "" {
		return config.ErrFileNotFound
	}

	cfg, err := config.Load(path, true)
	if err != nil {
		return err
	}
	if err := applyOverrides(cfg, app.opts); err != nil {
		return err
	}
	rules, err := cfg.Rules()
	if err != nil {
		return err
	}

	app.mu.Lock()
	app.config = cfg
	app.mu.Unlock()

	app.logger.SetLevel(cfg.Level())
	if d != nil {
		d.Reload(rules)
	}
	return nil
}

func (app *Application) addCloser(fn func() error) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.closers = append(app.closers, fn)
}

// drain lets queued actions finish before shutdown.
func (app *Application) drain() {
	app.mu.Lock()
	w := app.worker
	app.mu.Unlock()
	if w == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := w.Drain(ctx); err != nil {
		app.logger.Warn("dropping queued actions: %v", err)
	}
}

// close releases resources in reverse order of acquisition.
func (app *Application) close() {
	app.mu.Lock()
	closers := app.closers
	app.closers = nil
	app.mu.Unlock()

	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			app.logger.Warn("close: %v", err)
		}
	}
}

func (app *Application) logSummary() {
	d := app.Dispatcher()
	if d == nil || d.Metrics() == nil {
		return
	}
	m := d.Metrics()
	app.logger.Info("handled %d events, captured %d, unmappable %d, failed actions %d",
		m.TotalEvents(), m.Captured(), m.Unmappable(), m.Failures())
	for _, am := range m.TopActions(5) {
		app.logger.Debug("%s fired %d times (%d errors)", am.Action, am.FireCount, am.ErrorCount)
	}
}
