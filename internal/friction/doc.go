// Package friction detects dependency friction in a project (packages that
// are imported but not installed, declared but not installed, or installed at
// a version outside the declared range) and eliminates it through the active
// package manager backend.
//
// An Engine is created with New, which selects the backend before returning,
// so detection never races backend selection. Every detected Point is owned
// by the engine; callers read its fields but only Eliminate mutates them.
// Outcomes are appended to a bounded history from which Stats is derived.
package friction
