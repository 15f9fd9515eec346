package action_test

import (
	"testing"

	"github.com/dshills/keyfocus/internal/input/key"
)

func heldChord(t *testing.T, names ...string) key.Chord {
	t.Helper()
	c, err := key.ParseNames(names)
	if err != nil {
		t.Fatalf("ParseNames(%v): %v", names, err)
	}
	return c
}
