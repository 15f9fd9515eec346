package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dshills/keyfocus/internal/config"
)

func TestPrintRules(t *testing.T) {
	rules, err := config.Default().Rules()
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := printRules(&buf, rules); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{"KIND", "ShiftLeft+MetaLeft+U", "Visual Studio Code", "sequence", "750ms", "Notion"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines != len(rules)+1 {
		t.Errorf("got %d lines, want %d", lines, len(rules)+1)
	}
}

func TestPrintKeys(t *testing.T) {
	var buf bytes.Buffer
	if err := printKeys(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{"ShiftLeft", "modifier", "CapsLock", "F12"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"run", "check", "keys", "version"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered: %v", name, err)
		}
	}
}
