package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"testing"

	"github.com/raphi011/ghmm/internal/log"
)

func quietCtx() context.Context {
	return log.WithLogger(context.Background(), log.New(io.Discard, false, false))
}

func TestOutputContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		script   string
		wantOut  string
		wantErr  string
		wantCode int
	}{
		{"stdout returned", "echo hello", "hello\n", "", 0},
		{"stderr becomes message", "echo 'key not found' >&2; exit 1", "", "key not found", 1},
		{"silent failure names the tool", "exit 3", "", "sh: exit status 3", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, err := OutputContext(quietCtx(), "", "sh", "-c", tt.script)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("OutputContext() error = %v", err)
				}
				if string(out) != tt.wantOut {
					t.Errorf("OutputContext() = %q, want %q", out, tt.wantOut)
				}
				return
			}

			var cmdErr *Error
			if !errors.As(err, &cmdErr) {
				t.Fatalf("OutputContext() error = %T %v, want *Error", err, err)
			}
			if err.Error() != tt.wantErr {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.wantErr)
			}
			if got := ExitCode(err); got != tt.wantCode {
				t.Errorf("ExitCode() = %d, want %d", got, tt.wantCode)
			}
			if out != nil {
				t.Errorf("OutputContext() output = %q on failure, want nil", out)
			}
		})
	}
}

func TestRunContext_Dir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := RunContext(quietCtx(), dir, "sh", "-c", "touch marker"); err != nil {
		t.Fatalf("RunContext() error = %v", err)
	}
	if err := RunContext(quietCtx(), dir, "test", "-f", "marker"); err != nil {
		t.Errorf("marker not created in %s: %v", dir, err)
	}
}

func TestCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(quietCtx())
	cancel()

	if err := RunContext(ctx, "", "sleep", "10"); !errors.Is(err, context.Canceled) {
		t.Errorf("RunContext() error = %v, want context.Canceled", err)
	}
	if _, err := CombinedOutputContext(ctx, "", "sleep", "10"); !errors.Is(err, context.Canceled) {
		t.Errorf("CombinedOutputContext() error = %v, want context.Canceled", err)
	}
}

func TestCombinedOutputContext_KeepsOutputOnFailure(t *testing.T) {
	t.Parallel()

	script := "echo out; echo 'Hi octo! You have successfully authenticated' >&2; exit 1"
	out, err := CombinedOutputContext(quietCtx(), "", "sh", "-c", script)
	if ExitCode(err) != 1 {
		t.Errorf("ExitCode() = %d, want 1 (err %v)", ExitCode(err), err)
	}
	got := string(out)
	if !strings.Contains(got, "out") || !strings.Contains(got, "successfully authenticated") {
		t.Errorf("CombinedOutputContext() = %q, want stdout and stderr", got)
	}
}

func TestExitCode_NotAProcess(t *testing.T) {
	t.Parallel()

	if got := ExitCode(errors.New("boom")); got != -1 {
		t.Errorf("ExitCode(plain error) = %d, want -1", got)
	}
	_, err := OutputContext(quietCtx(), "", "ghmm-no-such-binary")
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("missing binary error = %v, want exec.ErrNotFound", err)
	}
	if got := ExitCode(err); got != -1 {
		t.Errorf("ExitCode(missing binary) = %d, want -1", got)
	}
}

func TestVerboseLogsCommand(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(&buf, true, false))
	if err := RunContext(ctx, "", "true"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "$ true") {
		t.Errorf("verbose log = %q, want command line", buf.String())
	}
}
