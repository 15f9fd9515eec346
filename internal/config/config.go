package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dshills/keyfocus/internal/config/loader"
	"github.com/dshills/keyfocus/internal/dispatcher"
	"github.com/dshills/keyfocus/internal/gesture"
	"github.com/dshills/keyfocus/internal/input/key"
	"github.com/dshills/keyfocus/internal/logging"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "KEYFOCUS_"

// Defaults.
const (
	DefaultLogLevel   = "info"
	DefaultEvaluateOn = "press"
	DefaultQueueSize  = 64
	DefaultSynthDelay = 20 * time.Millisecond
)

// Config is the complete keyfocus configuration.
type Config struct {
	LogLevel       string    `toml:"log_level" yaml:"log_level"`
	EvaluateOn     string    `toml:"evaluate_on" yaml:"evaluate_on"`
	SequenceWindow Duration  `toml:"sequence_window" yaml:"sequence_window"`
	Device         string    `toml:"device" yaml:"device"`
	SynthDelay     Duration  `toml:"synth_delay" yaml:"synth_delay"`
	QueueSize      int       `toml:"queue_size" yaml:"queue_size"`
	LaunchMissing  bool      `toml:"launch_missing" yaml:"launch_missing"`
	Gestures       []Gesture `toml:"gesture" yaml:"gesture"`

	// Path is the file the configuration was read from, if any.
	Path string `toml:"-" yaml:"-"`
}

// Gesture is one gesture entry. Set Keys for a chord, or Prefix and
// Follow for a sequence.
type Gesture struct {
	Keys   []string `toml:"keys,omitempty" yaml:"keys,omitempty"`
	Prefix []string `toml:"prefix,omitempty" yaml:"prefix,omitempty"`
	Follow []string `toml:"follow,omitempty" yaml:"follow,omitempty"`
	Action string   `toml:"action" yaml:"action"`
	Window Duration `toml:"window,omitempty" yaml:"window,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:       DefaultLogLevel,
		EvaluateOn:     DefaultEvaluateOn,
		SequenceWindow: Duration(gesture.DefaultWindow),
		SynthDelay:     Duration(DefaultSynthDelay),
		QueueSize:      DefaultQueueSize,
		Gestures:       DefaultGestures(),
	}
}

// DefaultGestures returns the built-in gesture table.
func DefaultGestures() []Gesture {
	hyper := []string{"ShiftLeft", "MetaLeft"}
	with := func(k string) []string {
		return append(append([]string(nil), hyper...), k)
	}
	return []Gesture{
		{Keys: with("U"), Action: "iTerm"},
		{Keys: with("I"), Action: "Visual Studio Code"},
		{Keys: with("O"), Action: "Firefox"},
		{Keys: with("K"), Action: "Keybase"},
		{Prefix: append([]string(nil), hyper...), Follow: []string{"N"}, Action: "Notion"},
	}
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "keyfocus.toml"
	}
	return filepath.Join(dir, "keyfocus", "config.toml")
}

// Load reads the configuration file at path over the defaults and applies
// environment overrides. A missing file is not an error unless required.
func Load(path string, required bool) (*Config, error) {
	return LoadWith(loader.New(), loader.NewEnvLoader(EnvPrefix), path, required)
}

// LoadWith is Load with explicit file and environment sources.
func LoadWith(l *loader.Loader, env *loader.EnvLoader, path string, required bool) (*Config, error) {
	cfg := Default()

	var file Config
	found, err := l.Load(path, &file)
	if err != nil {
		return nil, err
	}
	if !found && required {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if found {
		cfg.Path = path
		cfg.merge(&file)
	}

	if env != nil {
		if err := cfg.applyEnv(env); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// merge copies every set field of f into c.
func (c *Config) merge(f *Config) {
	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}
	if f.EvaluateOn != "" {
		c.EvaluateOn = f.EvaluateOn
	}
	if f.SequenceWindow != 0 {
		c.SequenceWindow = f.SequenceWindow
	}
	if f.Device != "" {
		c.Device = f.Device
	}
	if f.SynthDelay != 0 {
		c.SynthDelay = f.SynthDelay
	}
	if f.QueueSize != 0 {
		c.QueueSize = f.QueueSize
	}
	if f.LaunchMissing {
		c.LaunchMissing = true
	}
	if len(f.Gestures) > 0 {
		c.Gestures = f.Gestures
	}
}

// envKeys lists the settings that may be overridden from the environment.
var envKeys = []string{
	"log_level", "evaluate_on", "sequence_window", "device",
	"synth_delay", "queue_size", "launch_missing",
}

func (c *Config) applyEnv(env *loader.EnvLoader) error {
	for k, v := range env.Load(envKeys) {
		bad := func(err error) error {
			return &ValidationError{Setting: env.VarName(k), Message: err.Error(), Value: v}
		}
		switch k {
		case "log_level":
			c.LogLevel = v
		case "evaluate_on":
			c.EvaluateOn = v
		case "device":
			c.Device = v
		case "sequence_window":
			if err := c.SequenceWindow.UnmarshalText([]byte(v)); err != nil {
				return bad(err)
			}
		case "synth_delay":
			if err := c.SynthDelay.UnmarshalText([]byte(v)); err != nil {
				return bad(err)
			}
		case "queue_size":
			n, err := strconv.Atoi(v)
			if err != nil {
				return bad(err)
			}
			c.QueueSize = n
		case "launch_missing":
			b, err := strconv.ParseBool(v)
			if err != nil {
				return bad(err)
			}
			c.LaunchMissing = b
		}
	}
	return nil
}

// Validate checks every setting and gesture.
func (c *Config) Validate() error {
	var errs []error

	if !logging.ValidLevel(c.LogLevel) {
		errs = append(errs, &ValidationError{Setting: "log_level", Message: "must be debug, info, warn or error", Value: c.LogLevel})
	}
	if _, err := dispatcher.ParseEvaluateOn(c.EvaluateOn); err != nil {
		errs = append(errs, &ValidationError{Setting: "evaluate_on", Message: "must be press or any", Value: c.EvaluateOn})
	}
	if c.SequenceWindow <= 0 {
		errs = append(errs, &ValidationError{Setting: "sequence_window", Message: "must be positive", Value: c.SequenceWindow})
	}
	if c.SynthDelay < 0 {
		errs = append(errs, &ValidationError{Setting: "synth_delay", Message: "must not be negative", Value: c.SynthDelay})
	}
	if c.QueueSize <= 0 {
		errs = append(errs, &ValidationError{Setting: "queue_size", Message: "must be positive", Value: c.QueueSize})
	}
	if len(c.Gestures) == 0 {
		errs = append(errs, fmt.Errorf("%w: no gestures configured", ErrInvalidGesture))
	}

	if _, err := c.Specs(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Specs converts the gesture entries into gesture specs. Sequences without
// their own window use SequenceWindow.
func (c *Config) Specs() ([]gesture.Spec, error) {
	var errs []error
	specs := make([]gesture.Spec, 0, len(c.Gestures))

	for i, g := range c.Gestures {
		spec, err := g.spec(c.SequenceWindow.D())
		if err != nil {
			errs = append(errs, &GestureError{Index: i, Action: g.Action, Err: err})
			continue
		}
		specs = append(specs, spec)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return specs, nil
}

// Rules builds the ordered rule list.
func (c *Config) Rules() ([]gesture.Rule, error) {
	specs, err := c.Specs()
	if err != nil {
		return nil, err
	}
	return gesture.Build(specs)
}

// EvaluateTrigger returns the parsed evaluate_on setting.
func (c *Config) EvaluateTrigger() dispatcher.EvaluateOn {
	e, _ := dispatcher.ParseEvaluateOn(c.EvaluateOn)
	return e
}

// Level returns the parsed log level.
func (c *Config) Level() logging.Level {
	return logging.ParseLevel(c.LogLevel)
}

func (g Gesture) spec(window time.Duration) (gesture.Spec, error) {
	parse := func(names []string) (key.Chord, error) {
		if len(names) == 0 {
			return nil, nil
		}
		return key.ParseNames(names)
	}

	keys, err := parse(g.Keys)
	if err != nil {
		return gesture.Spec{}, err
	}
	prefix, err := parse(g.Prefix)
	if err != nil {
		return gesture.Spec{}, err
	}
	follow, err := parse(g.Follow)
	if err != nil {
		return gesture.Spec{}, err
	}

	spec := gesture.Spec{Keys: keys, Prefix: prefix, Follow: follow, Action: g.Action}
	if spec.IsSequence() {
		spec.Window = window
		if g.Window != 0 {
			spec.Window = g.Window.D()
		}
	}

	// Build once so errors carry the entry index.
	if _, err := spec.Rule(); err != nil {
		return gesture.Spec{}, err
	}
	return spec, nil
}
