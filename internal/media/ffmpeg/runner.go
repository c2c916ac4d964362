package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var commandContext = exec.CommandContext

const stderrTailLimit = 2048

// Output captures what an external process wrote.
type Output struct {
	Stdout []byte
	Stderr []byte
}

// Runner executes an external command to completion.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Output, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, name string, args ...string) (Output, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, name string, args ...string) (Output, error) {
	return f(ctx, name, args...)
}

// ExecRunner runs commands through os/exec.
type ExecRunner struct {
	// Env is appended to the inherited environment when set.
	Env []string
}

// Run executes the command, blocking until it exits.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) (Output, error) {
	cmd := commandContext(ctx, name, args...) //nolint:gosec
	if len(r.Env) > 0 {
		cmd.Env = append(cmd.Environ(), r.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		return out, &ProcessError{
			Name:   name,
			Args:   append([]string(nil), args...),
			Err:    err,
			Stderr: tail(strings.TrimSpace(stderr.String()), stderrTailLimit),
		}
	}
	return out, nil
}

// ProcessError reports a failed external process invocation.
type ProcessError struct {
	Name   string
	Args   []string
	Err    error
	Stderr string
}

func (e *ProcessError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Stderr == "" {
		return fmt.Sprintf("%s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Name, e.Err, e.Stderr)
}

func (e *ProcessError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ExitCode returns the process exit status, or -1 when it never ran.
func (e *ProcessError) ExitCode() int {
	var exitErr *exec.ExitError
	if e != nil && errors.As(e.Err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func tail(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	cut := value[len(value)-limit:]
	if idx := strings.IndexByte(cut, '\n'); idx >= 0 && idx < len(cut)-1 {
		cut = cut[idx+1:]
	}
	return "..." + cut
}

// OutputPath returns the destination argument of an ffmpeg invocation built by
// this package, which always places it last.
func OutputPath(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[len(args)-1]
}
