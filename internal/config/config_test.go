package config_test

import (
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/dshills/keyfocus/internal/config"
	"github.com/dshills/keyfocus/internal/config/loader"
	"github.com/dshills/keyfocus/internal/dispatcher"
	"github.com/dshills/keyfocus/internal/gesture"
	"github.com/dshills/keyfocus/internal/input/key"
)

type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	s, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(s), nil
}

func (m memFS) Stat(path string) (fs.FileInfo, error) {
	return nil, fs.ErrNotExist
}

func noEnv() *loader.EnvLoader {
	return loader.NewEnvLoaderWithLookup(config.EnvPrefix, func(string) (string, bool) { return "", false })
}

func env(vars map[string]string) *loader.EnvLoader {
	return loader.NewEnvLoaderWithLookup(config.EnvPrefix, func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	})
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	rules, err := cfg.Rules()
	if err != nil {
		t.Fatal(err)
	}

	wantActions := []string{"iTerm", "Visual Studio Code", "Firefox", "Keybase", "Notion"}
	if len(rules) != len(wantActions) {
		t.Fatalf("len(rules) = %d, want %d", len(rules), len(wantActions))
	}
	for i, r := range rules {
		if r.Action() != wantActions[i] {
			t.Errorf("rule %d action = %q, want %q", i, r.Action(), wantActions[i])
		}
	}

	seq, ok := rules[4].(*gesture.Sequence)
	if !ok {
		t.Fatalf("rule 4 is %T, want *gesture.Sequence", rules[4])
	}
	if seq.Window() != 750*time.Millisecond {
		t.Errorf("Notion window = %v, want 750ms", seq.Window())
	}
	if got := seq.Prefix().String(); got != "ShiftLeft+MetaLeft" {
		t.Errorf("Notion prefix = %s", got)
	}
	if cfg.EvaluateTrigger() != dispatcher.EvaluateOnPress {
		t.Errorf("EvaluateTrigger() = %v, want press", cfg.EvaluateTrigger())
	}
}

func TestLoadTOML(t *testing.T) {
	files := memFS{"/keyfocus.toml": `
log_level = "debug"
evaluate_on = "any"
sequence_window = "500ms"
queue_size = 8

[[gesture]]
keys = ["ctrl", "alt", "t"]
action = "key:ControlLeft+Alt+T"

[[gesture]]
prefix = ["ShiftLeft", "MetaLeft"]
follow = ["N"]
action = "Notion"

[[gesture]]
prefix = ["ShiftLeft", "MetaLeft"]
follow = ["M"]
action = "Mail"
window = "1s"
`}

	cfg, err := config.LoadWith(loader.NewWithFS(files), noEnv(), "/keyfocus.toml", true)
	if err != nil {
		t.Fatalf("LoadWith error = %v", err)
	}

	if cfg.Path != "/keyfocus.toml" {
		t.Errorf("Path = %q", cfg.Path)
	}
	if cfg.LogLevel != "debug" || cfg.EvaluateTrigger() != dispatcher.EvaluateOnAny || cfg.QueueSize != 8 {
		t.Errorf("scalars = %+v", cfg)
	}
	if cfg.SynthDelay.D() != config.DefaultSynthDelay {
		t.Errorf("SynthDelay = %v, want default", cfg.SynthDelay)
	}

	specs, err := cfg.Specs()
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 3 {
		t.Fatalf("len(specs) = %d, want 3", len(specs))
	}
	if got := specs[0].Keys; len(got) != 3 || got[0] != key.ControlLeft || got[2] != key.T {
		t.Errorf("chord keys = %v", got)
	}
	if specs[1].Window != 500*time.Millisecond {
		t.Errorf("inherited window = %v, want 500ms", specs[1].Window)
	}
	if specs[2].Window != time.Second {
		t.Errorf("own window = %v, want 1s", specs[2].Window)
	}
}

func TestLoadYAML(t *testing.T) {
	files := memFS{"/keyfocus.yaml": `
synth_delay: 5ms
gesture:
  - keys: [ShiftLeft, MetaLeft, U]
    action: iTerm
`}

	cfg, err := config.LoadWith(loader.NewWithFS(files), noEnv(), "/keyfocus.yaml", true)
	if err != nil {
		t.Fatalf("LoadWith error = %v", err)
	}
	if cfg.SynthDelay.D() != 5*time.Millisecond {
		t.Errorf("SynthDelay = %v, want 5ms", cfg.SynthDelay)
	}
	if len(cfg.Gestures) != 1 || cfg.Gestures[0].Action != "iTerm" {
		t.Errorf("Gestures = %+v", cfg.Gestures)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := config.LoadWith(loader.NewWithFS(memFS{}), noEnv(), "/none.toml", false)
	if err != nil {
		t.Fatalf("optional missing file error = %v", err)
	}
	if len(cfg.Gestures) != len(config.DefaultGestures()) || cfg.Path != "" {
		t.Errorf("missing file did not yield defaults: %+v", cfg)
	}

	_, err = config.LoadWith(loader.NewWithFS(memFS{}), noEnv(), "/none.toml", true)
	if !errors.Is(err, config.ErrFileNotFound) {
		t.Errorf("required missing file error = %v, want ErrFileNotFound", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	cfg, err := config.LoadWith(loader.NewWithFS(memFS{}), env(map[string]string{
		"KEYFOCUS_LOG_LEVEL":       "warn",
		"KEYFOCUS_SEQUENCE_WINDOW": "1s",
		"KEYFOCUS_LAUNCH_MISSING":  "true",
		"KEYFOCUS_DEVICE":          "/dev/input/event3",
	}), "/none.toml", false)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "warn" || cfg.SequenceWindow.D() != time.Second || !cfg.LaunchMissing || cfg.Device != "/dev/input/event3" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}

	_, err = config.LoadWith(loader.NewWithFS(memFS{}), env(map[string]string{
		"KEYFOCUS_QUEUE_SIZE": "lots",
	}), "/none.toml", false)
	var ve *config.ValidationError
	if !errors.As(err, &ve) || ve.Setting != "KEYFOCUS_QUEUE_SIZE" {
		t.Errorf("bad env error = %v, want ValidationError for KEYFOCUS_QUEUE_SIZE", err)
	}
}

func TestLoadParseError(t *testing.T) {
	files := memFS{"/bad.toml": "log_level = \n"}
	_, err := config.LoadWith(loader.NewWithFS(files), noEnv(), "/bad.toml", true)
	var pe *config.ParseError
	if !errors.As(err, &pe) {
		t.Errorf("error = %v, want *ParseError", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr error
	}{
		{"valid", func(*config.Config) {}, nil},
		{"log level", func(c *config.Config) { c.LogLevel = "loud" }, config.ErrValidationFailed},
		{"evaluate on", func(c *config.Config) { c.EvaluateOn = "release" }, config.ErrValidationFailed},
		{"window", func(c *config.Config) { c.SequenceWindow = 0 }, config.ErrValidationFailed},
		{"synth delay", func(c *config.Config) { c.SynthDelay = -1 }, config.ErrValidationFailed},
		{"queue size", func(c *config.Config) { c.QueueSize = 0 }, config.ErrValidationFailed},
		{"no gestures", func(c *config.Config) { c.Gestures = nil }, config.ErrInvalidGesture},
		{"unknown key", func(c *config.Config) {
			c.Gestures = []config.Gesture{{Keys: []string{"Hyper"}, Action: "x"}}
		}, key.ErrUnknownKey},
		{"empty action", func(c *config.Config) {
			c.Gestures = []config.Gesture{{Keys: []string{"A"}}}
		}, gesture.ErrEmptyAction},
		{"empty keys", func(c *config.Config) {
			c.Gestures = []config.Gesture{{Action: "x"}}
		}, gesture.ErrEmptyKeys},
		{"ambiguous", func(c *config.Config) {
			c.Gestures = []config.Gesture{{Keys: []string{"A"}, Prefix: []string{"B"}, Follow: []string{"C"}, Action: "x"}}
		}, gesture.ErrAmbiguousSpec},
		{"missing follow", func(c *config.Config) {
			c.Gestures = []config.Gesture{{Prefix: []string{"B"}, Action: "x"}}
		}, gesture.ErrEmptyKeys},
		{"negative window", func(c *config.Config) {
			c.Gestures = []config.Gesture{{Prefix: []string{"B"}, Follow: []string{"C"}, Action: "x", Window: -1}}
		}, gesture.ErrInvalidWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGestureErrorCarriesIndex(t *testing.T) {
	cfg := config.Default()
	cfg.Gestures = append(cfg.Gestures, config.Gesture{Keys: []string{"Nope"}, Action: "Broken"})

	_, err := cfg.Specs()
	var ge *config.GestureError
	if !errors.As(err, &ge) {
		t.Fatalf("error = %v, want *GestureError", err)
	}
	if ge.Index != 5 || ge.Action != "Broken" {
		t.Errorf("GestureError = %+v", ge)
	}
	if !errors.Is(err, config.ErrInvalidGesture) {
		t.Error("GestureError does not match ErrInvalidGesture")
	}
}

func TestDurationText(t *testing.T) {
	var d config.Duration
	if err := d.UnmarshalText([]byte("1m30s")); err != nil {
		t.Fatal(err)
	}
	if d.D() != 90*time.Second {
		t.Errorf("D() = %v", d.D())
	}
	b, _ := d.MarshalText()
	if string(b) != "1m30s" {
		t.Errorf("MarshalText = %s", b)
	}
	if err := d.UnmarshalText([]byte("soon")); err == nil {
		t.Error("expected error for invalid duration")
	}
}
