package action

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// Procs lists running processes with gopsutil.
type Procs struct{}

// Running reports whether any process name or executable matches app.
// Matching ignores case, spaces and a trailing ".app".
func (Procs) Running(ctx context.Context, app string) (bool, error) {
	want := normalizeApp(app)
	if want == "" {
		return false, nil
	}

	ps, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return false, err
	}
	for _, p := range ps {
		// Processes may exit between listing and inspection.
		if name, err := p.NameWithContext(ctx); err == nil && normalizeApp(name) == want {
			return true, nil
		}
		if exe, err := p.ExeWithContext(ctx); err == nil && appFromExe(exe) == want {
			return true, nil
		}
	}
	return false, nil
}

func normalizeApp(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, ".app")
	return strings.ReplaceAll(s, " ", "")
}

// appFromExe extracts the bundle name from ".../Firefox.app/Contents/MacOS/firefox"
// and falls back to the executable base name.
func appFromExe(exe string) string {
	if i := strings.Index(exe, ".app/"); i >= 0 {
		return normalizeApp(filepath.Base(exe[:i]))
	}
	return normalizeApp(filepath.Base(exe))
}
