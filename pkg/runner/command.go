package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/Azure/automata/pkg/logger"
)

// CommandRunner is an interface for executing commands and getting the output/error.
// Every call blocks until the child process exits.
type CommandRunner interface {
	RunCommand(ctx context.Context, dir string, args ...string) (string, error)
	RunCommandStderr(ctx context.Context, dir string, args ...string) (string, error)
}

// DefaultCommandRunner spawns real processes. Output is captured and, when
// Stdout/Stderr are set, streamed to them as well so toolchain output stays
// visible to the user.
type DefaultCommandRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	// Env is appended to the inherited process environment.
	Env []string
}

var _ CommandRunner = &DefaultCommandRunner{}

func (d *DefaultCommandRunner) command(ctx context.Context, dir string, args []string) (*exec.Cmd, error) {
	if len(args) == 0 {
		return nil, errors.New("no command given")
	}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = dir
	if len(d.Env) > 0 {
		cmd.Env = append(os.Environ(), d.Env...)
	}
	return cmd, nil
}

func (d *DefaultCommandRunner) RunCommand(ctx context.Context, dir string, args ...string) (string, error) {
	logger.Debugf("Running command in %s: %s", dir, args)
	cmd, err := d.command(ctx, dir, args)
	if err != nil {
		return "", err
	}

	var out bytes.Buffer
	combined := &lockedWriter{w: &out}
	cmd.Stdout = tee(combined, d.Stdout)
	cmd.Stderr = tee(combined, d.Stderr)

	err = cmd.Run()
	logger.Debugf("Command output: %s", out.String())
	return out.String(), err
}

// RunCommandStderr runs a command and returns only the stderr output
func (d *DefaultCommandRunner) RunCommandStderr(ctx context.Context, dir string, args ...string) (string, error) {
	logger.Debugf("Running command (stderr only) in %s: %v", dir, args)
	cmd, err := d.command(ctx, dir, args)
	if err != nil {
		return "", err
	}

	var stderr bytes.Buffer
	cmd.Stdout = d.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = io.Discard
	}
	cmd.Stderr = tee(&stderr, d.Stderr)

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("failed to start command: %w", err)
	}
	cmdErr := cmd.Wait()

	stderrOutput := stderr.String()
	logger.Debugf("Command stderr output: %s", stderrOutput)

	return stderrOutput, cmdErr
}

func tee(capture io.Writer, stream io.Writer) io.Writer {
	if stream == nil {
		return capture
	}
	return io.MultiWriter(capture, stream)
}

// lockedWriter serializes writes from the stdout and stderr copy goroutines
// into one buffer.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// Call is one invocation recorded by FakeCommandRunner.
type Call struct {
	Dir  string
	Args []string
}

// String renders the argv the way it would be typed.
func (c Call) String() string {
	return strings.Join(c.Args, " ")
}

// FakeCommandRunner records invocations instead of spawning processes.
// ErrStr fails every command; FailOn fails only commands whose joined argv
// matches a key, with the value as error text.
type FakeCommandRunner struct {
	Output string
	ErrStr string
	FailOn map[string]string

	mu    sync.Mutex
	Calls []Call
}

var _ CommandRunner = &FakeCommandRunner{}

func (f *FakeCommandRunner) record(dir string, args []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := Call{Dir: dir, Args: append([]string(nil), args...)}
	f.Calls = append(f.Calls, call)
	if f.ErrStr != "" {
		return errors.New(f.ErrStr)
	}
	if msg, ok := f.FailOn[call.String()]; ok {
		return errors.New(msg)
	}
	return nil
}

func (f *FakeCommandRunner) RunCommand(_ context.Context, dir string, args ...string) (string, error) {
	if err := f.record(dir, args); err != nil {
		return f.Output, err
	}
	return f.Output, nil
}

func (f *FakeCommandRunner) RunCommandStderr(_ context.Context, dir string, args ...string) (string, error) {
	if err := f.record(dir, args); err != nil {
		return err.Error(), err
	}
	return "", nil
}

// Commands returns the recorded argv strings in call order.
func (f *FakeCommandRunner) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.Calls))
	for _, c := range f.Calls {
		out = append(out, c.String())
	}
	return out
}
