package runner

import (
	"context"
	"errors"
	"time"
)

// Runner runs a program with arguments inside a working directory.
type Runner interface {
	// Run executes name with args in dir. A non-zero exit is reported through
	// Output.ExitCode, not as an error. Errors are reserved for failures to
	// start the process, timeouts and cancellation.
	Run(ctx context.Context, dir, name string, args ...string) (*Output, error)
}

// Output captures the result of a command execution.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// DefaultTimeout bounds a single command when the caller sets none.
const DefaultTimeout = 5 * time.Minute

var (
	// ErrTimedOut is returned when the command exceeded its timeout.
	ErrTimedOut = errors.New("command timed out")
	// ErrCancelled is returned when the caller's context was cancelled.
	ErrCancelled = errors.New("command cancelled")
	// ErrNotFound is returned when the program is not on PATH.
	ErrNotFound = errors.New("executable not found")
)
