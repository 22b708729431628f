// Package runner executes package-manager command lines as subprocesses.
// It captures stdout, stderr, the exit code and elapsed time, and bounds
// every invocation with a timeout so a hung install cannot block forever.
package runner
