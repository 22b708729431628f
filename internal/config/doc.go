// Package config manages user-level settings stored at
// ~/.frictionless/config.yaml, overridable through FRICTIONLESS_* environment
// variables. It covers the forced package manager, the install timeout, the
// history bound, scan concurrency and logging.
package config
