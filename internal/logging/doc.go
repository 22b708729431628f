// Package logging builds the structured logger shared by the engine, the
// package manager backends and the CLI.
package logging
