package action

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// OsaScript activates applications through AppleScript. It keeps one idle
// interpreter process spawned ahead of time so a focus request only pays
// for writing the script, and replaces it after every use.
type OsaScript struct {
	mu   sync.Mutex
	name string
	args []string
	next *osaProc
}

type osaProc struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr *bytes.Buffer
}

// NewOsaScript creates an activator that runs the osascript binary.
func NewOsaScript() *OsaScript {
	return NewScriptRunner("osascript")
}

// NewScriptRunner creates an activator around an arbitrary interpreter
// that reads a script from standard input.
func NewScriptRunner(name string, args ...string) *OsaScript {
	return &OsaScript{name: name, args: args}
}

// Start spawns the idle interpreter.
func (o *OsaScript) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.next != nil {
		return nil
	}
	p, err := o.spawn()
	if err != nil {
		return err
	}
	o.next = p
	return nil
}

// Close kills the idle interpreter.
func (o *OsaScript) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.next == nil {
		return nil
	}
	p := o.next
	o.next = nil
	_ = p.stdin.Close()
	_ = p.cmd.Process.Kill()
	_ = p.cmd.Wait()
	return nil
}

// Activate brings app to the foreground.
func (o *OsaScript) Activate(ctx context.Context, app string) error {
	return o.Run(ctx, fmt.Sprintf("tell application %q to activate", app))
}

// Run feeds script to the idle interpreter and waits for it to finish.
func (o *OsaScript) Run(ctx context.Context, script string) error {
	o.mu.Lock()
	p := o.next
	o.next = nil
	if p == nil {
		var err error
		if p, err = o.spawn(); err != nil {
			o.mu.Unlock()
			return err
		}
	}
	// A failed respawn is retried on the next call.
	o.next, _ = o.spawn()
	o.mu.Unlock()

	stop := context.AfterFunc(ctx, func() { _ = p.cmd.Process.Kill() })
	defer stop()

	_, werr := io.WriteString(p.stdin, script+"\n")
	_ = p.stdin.Close()
	err := p.cmd.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		msg := strings.TrimSpace(p.stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("%s: %s", o.name, msg)
	}
	if werr != nil {
		return fmt.Errorf("%s: write script: %w", o.name, werr)
	}
	return nil
}

func (o *OsaScript) spawn() (*osaProc, error) {
	cmd := exec.Command(o.name, o.args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", o.name, err)
	}
	return &osaProc{cmd: cmd, stdin: stdin, stderr: stderr}, nil
}
