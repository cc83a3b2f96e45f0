package cmd

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/raphi011/ghmm/internal/log"
)

// Error is a failed command. Its message is the tool's stderr when there
// was any; the underlying *exec.ExitError stays reachable through Unwrap.
type Error struct {
	Name   string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	return e.Name + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// ExitCode returns the exit code of a failed command, or -1 when err does
// not come from a process that exited.
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

type invocation struct {
	dir  string
	name string
	args []string
}

// run executes inv. When combined is set stderr is interleaved into the
// returned output instead of being captured for the error.
func run(ctx context.Context, inv invocation, combined bool) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	done := log.FromContext(ctx).Command(inv.dir, inv.name, inv.args...)
	start := time.Now()
	defer func() { done(time.Since(start)) }()

	c := exec.CommandContext(ctx, inv.name, inv.args...)
	c.Dir = inv.dir

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	if combined {
		c.Stderr = &stdout
	} else {
		c.Stderr = &stderr
	}

	err := c.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return stdout.Bytes(), ctxErr
	}
	return stdout.Bytes(), &Error{
		Name:   inv.name,
		Stderr: strings.TrimSpace(stderr.String()),
		Err:    err,
	}
}

// RunContext executes a command in dir, discarding its output.
func RunContext(ctx context.Context, dir, name string, args ...string) error {
	_, err := run(ctx, invocation{dir, name, args}, false)
	return err
}

// OutputContext executes a command in dir and returns stdout.
func OutputContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	out, err := run(ctx, invocation{dir, name, args}, false)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CombinedOutputContext returns stdout and stderr interleaved, even when
// the command fails. ssh -T reports success on stderr with exit code 1.
func CombinedOutputContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	return run(ctx, invocation{dir, name, args}, true)
}
