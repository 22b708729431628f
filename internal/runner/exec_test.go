package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available, skipping")
	}
}

func TestExecRunner_CapturesOutput(t *testing.T) {
	requireShell(t)

	var live bytes.Buffer
	r := &ExecRunner{Stdout: &live}
	out, err := r.Run(context.Background(), t.TempDir(), "sh", "-c", "echo hello; echo oops >&2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", out.ExitCode)
	}
	if strings.TrimSpace(out.Stdout) != "hello" {
		t.Errorf("Stdout = %q, want %q", out.Stdout, "hello\n")
	}
	if strings.TrimSpace(out.Stderr) != "oops" {
		t.Errorf("Stderr = %q, want %q", out.Stderr, "oops\n")
	}
	if live.String() != out.Stdout {
		t.Errorf("live stdout = %q, want %q", live.String(), out.Stdout)
	}
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	requireShell(t)

	r := &ExecRunner{}
	out, err := r.Run(context.Background(), t.TempDir(), "sh", "-c", "exit 42")
	if err != nil {
		t.Fatalf("non-zero exit should not be an error, got %v", err)
	}
	if out.ExitCode != 42 {
		t.Errorf("ExitCode = %d, want 42", out.ExitCode)
	}
}

func TestExecRunner_Timeout(t *testing.T) {
	requireShell(t)

	r := &ExecRunner{Timeout: 50 * time.Millisecond}
	_, err := r.Run(context.Background(), t.TempDir(), "sh", "-c", "exec sleep 5")
	if !errors.Is(err, ErrTimedOut) {
		t.Fatalf("err = %v, want ErrTimedOut", err)
	}
}

func TestExecRunner_CallerDeadlineIsTimeout(t *testing.T) {
	requireShell(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	r := &ExecRunner{}
	_, err := r.Run(ctx, t.TempDir(), "sh", "-c", "exec sleep 5")
	if !errors.Is(err, ErrTimedOut) {
		t.Fatalf("err = %v, want ErrTimedOut", err)
	}
}

func TestExecRunner_Cancelled(t *testing.T) {
	requireShell(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &ExecRunner{}
	_, err := r.Run(ctx, t.TempDir(), "sh", "-c", "exec sleep 5")
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}
}

func TestExecRunner_MissingBinary(t *testing.T) {
	r := &ExecRunner{}
	_, err := r.Run(context.Background(), t.TempDir(), "definitely-not-a-real-binary-xyz")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestExecRunner_Env(t *testing.T) {
	requireShell(t)

	r := &ExecRunner{Env: map[string]string{"FRICTIONLESS_TEST_VAR": "set"}}
	out, err := r.Run(context.Background(), t.TempDir(), "sh", "-c", "printf %s \"$FRICTIONLESS_TEST_VAR\"")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Stdout != "set" {
		t.Errorf("Stdout = %q, want %q", out.Stdout, "set")
	}
}

func TestSetEnv(t *testing.T) {
	tests := []struct {
		name     string
		env      []string
		key      string
		value    string
		expected []string
	}{
		{
			name:     "add new variable",
			env:      []string{"FOO=bar"},
			key:      "BAZ",
			value:    "qux",
			expected: []string{"FOO=bar", "BAZ=qux"},
		},
		{
			name:     "replace existing variable",
			env:      []string{"FOO=bar", "BAZ=old"},
			key:      "BAZ",
			value:    "new",
			expected: []string{"FOO=bar", "BAZ=new"},
		},
		{
			name:     "add to empty env",
			env:      nil,
			key:      "KEY",
			value:    "val",
			expected: []string{"KEY=val"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := setEnv(tt.env, tt.key, tt.value)
			if len(result) != len(tt.expected) {
				t.Fatalf("expected %d entries, got %d: %v", len(tt.expected), len(result), result)
			}
			for i, e := range tt.expected {
				if result[i] != e {
					t.Errorf("env[%d] = %q, want %q", i, result[i], e)
				}
			}
		})
	}
}
