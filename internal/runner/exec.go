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
	"time"
)

const waitDelay = 2 * time.Second

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Timeout bounds each Run call. Zero means DefaultTimeout.
	Timeout time.Duration

	// Env holds extra KEY=VALUE pairs layered over the current environment.
	Env map[string]string

	// Stdout and Stderr, when set, also receive the live output streams.
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes name with args in dir and waits for it to finish.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (*Output, error) {
	bin, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, bin, args...)
	cmd.Dir = dir
	cmd.Env = r.buildEnv()
	// Children that inherit the pipes must not keep Wait blocked after a kill.
	cmd.WaitDelay = waitDelay

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = tee(&stdoutBuf, r.Stdout)
	cmd.Stderr = tee(&stderrBuf, r.Stderr)

	start := time.Now()
	err = cmd.Run()

	output := &Output{
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		Duration: time.Since(start),
	}

	// A killed process surfaces as an ExitError, so check the context first.
	if ctxErr := runCtx.Err(); ctxErr != nil {
		output.ExitCode = -1
		// Any deadline, ours or the caller's, is a timeout.
		if errors.Is(ctxErr, context.Canceled) {
			return output, fmt.Errorf("%w: %s %s", ErrCancelled, name, strings.Join(args, " "))
		}
		return output, fmt.Errorf("%w after %s: %s %s", ErrTimedOut, timeout, name, strings.Join(args, " "))
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output.ExitCode = exitErr.ExitCode()
			return output, nil
		}
		return output, fmt.Errorf("executing %s: %w", name, err)
	}

	output.ExitCode = 0
	return output, nil
}

func (r *ExecRunner) buildEnv() []string {
	env := os.Environ()
	for k, v := range r.Env {
		env = setEnv(env, k, v)
	}
	return env
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(w, buf)
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}
