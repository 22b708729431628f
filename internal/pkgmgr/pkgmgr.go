package pkgmgr

import (
	"context"
	"time"
)

// Supported backend identifiers.
const (
	NPM  = "npm"
	Yarn = "yarn"
	PNPM = "pnpm"
)

// Backend is the capability set every package manager provides. Backends are
// stateless apart from their identity and never return errors: failures are
// reported as negative results.
type Backend interface {
	// Name returns the backend identifier (npm, yarn or pnpm).
	Name() string

	// Commands returns the fixed command templates of this backend.
	Commands() Commands

	// DetectLockFile reports whether this backend's lock file exists in the
	// project root.
	DetectLockFile() bool

	// Install adds a package to the project.
	Install(ctx context.Context, name string, opts InstallOptions) InstallResult

	// CheckInstalled reports whether the package is present under node_modules.
	CheckInstalled(name string) bool

	// Version returns the installed version of a package, or "" if unknown.
	Version(name string) string

	// CommandLine renders the command Install would run for these options.
	CommandLine(name string, opts InstallOptions) string
}

// Commands holds a backend's command templates.
type Commands struct {
	Install string
	Add     string
	Remove  string
	List    string
}

// InstallOptions configures a single install. All fields are optional and
// their effects are additive.
type InstallOptions struct {
	Dev     bool   // install as a dev dependency
	Peer    bool   // install as a peer dependency (ignored when Dev is set)
	Exact   bool   // pin the exact resolved version
	Version string // version or range appended as name@version
	NoSave  bool   // omit the default save flag
}

// InstallResult is the terminal outcome of an install.
type InstallResult struct {
	Success     bool
	PackageName string
	Version     string
	Error       string
	Duration    time.Duration
	Command     string
	ExitCode    int
	Stdout      string
	Stderr      string
}
