package pkgmgr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agentx-labs/frictionless/internal/manifest"
	"github.com/agentx-labs/frictionless/internal/runner"
	"github.com/sirupsen/logrus"
)

// Config carries what every backend needs to operate on a project.
type Config struct {
	// Root is the project directory holding package.json.
	Root string

	// Runner executes the package manager. Defaults to runner.ExecRunner.
	Runner runner.Runner

	// Timeout bounds a single install. Zero means runner.DefaultTimeout.
	Timeout time.Duration

	// Logger receives diagnostics. Defaults to the logrus standard logger.
	Logger logrus.FieldLogger
}

// flags are the command-line switches a backend maps InstallOptions onto.
type flags struct {
	dev   string
	peer  string
	save  string
	exact string
}

// Manager is a package manager backend driven by a fixed command vocabulary.
type Manager struct {
	name     string
	lockFile string
	commands Commands
	flags    flags

	root    string
	runner  runner.Runner
	timeout time.Duration
	log     logrus.FieldLogger
}

// NewNPM returns the npm backend.
func NewNPM(cfg Config) *Manager {
	return newManager(cfg, NPM, "package-lock.json",
		Commands{Install: "npm install", Add: "npm install", Remove: "npm uninstall", List: "npm list"},
		flags{dev: "--save-dev", peer: "--save-peer", save: "--save", exact: "--save-exact"})
}

// NewYarn returns the yarn backend. yarn add always saves, so it has no
// default save flag.
func NewYarn(cfg Config) *Manager {
	return newManager(cfg, Yarn, "yarn.lock",
		Commands{Install: "yarn install", Add: "yarn add", Remove: "yarn remove", List: "yarn list"},
		flags{dev: "--dev", peer: "--peer", exact: "--exact"})
}

// NewPNPM returns the pnpm backend.
func NewPNPM(cfg Config) *Manager {
	return newManager(cfg, PNPM, "pnpm-lock.yaml",
		Commands{Install: "pnpm install", Add: "pnpm add", Remove: "pnpm remove", List: "pnpm list"},
		flags{dev: "--save-dev", peer: "--save-peer", save: "--save-prod", exact: "--save-exact"})
}

// New returns the backend for the given identifier.
func New(name string, cfg Config) (*Manager, error) {
	switch name {
	case NPM:
		return NewNPM(cfg), nil
	case Yarn:
		return NewYarn(cfg), nil
	case PNPM:
		return NewPNPM(cfg), nil
	default:
		return nil, fmt.Errorf("unknown package manager %q: supported are %q, %q and %q", name, NPM, Yarn, PNPM)
	}
}

func newManager(cfg Config, name, lockFile string, commands Commands, f flags) *Manager {
	r := cfg.Runner
	if r == nil {
		r = &runner.ExecRunner{Timeout: cfg.Timeout}
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = runner.DefaultTimeout
	}
	return &Manager{
		name:     name,
		lockFile: lockFile,
		commands: commands,
		flags:    f,
		root:     cfg.Root,
		runner:   r,
		timeout:  timeout,
		log:      log.WithField("package_manager", name),
	}
}

// Name implements Backend.
func (m *Manager) Name() string { return m.name }

// Commands implements Backend.
func (m *Manager) Commands() Commands { return m.commands }

// LockFile returns the lock file name this backend is detected by.
func (m *Manager) LockFile() string { return m.lockFile }

// DetectLockFile implements Backend.
func (m *Manager) DetectLockFile() bool {
	info, err := os.Stat(filepath.Join(m.root, m.lockFile))
	return err == nil && !info.IsDir()
}

// CheckInstalled implements Backend.
func (m *Manager) CheckInstalled(name string) bool {
	info, err := os.Stat(manifest.PackageDir(m.root, name))
	if err != nil {
		return false
	}
	return info.IsDir()
}

// Version implements Backend.
func (m *Manager) Version(name string) string {
	v, err := manifest.InstalledVersion(m.root, name)
	if err != nil {
		m.log.WithError(err).WithField("dependency", name).Debug("installed version unavailable")
		return ""
	}
	return v
}

// CommandLine implements Backend.
func (m *Manager) CommandLine(name string, opts InstallOptions) string {
	return strings.Join(m.argv(name, opts), " ")
}

// argv builds the full command, program first. Flag precedence is dev, then
// peer, then the default save flag; exact and the version pin are additive.
func (m *Manager) argv(name string, opts InstallOptions) []string {
	argv := strings.Fields(m.commands.Add)

	switch {
	case opts.Dev:
		argv = appendFlag(argv, m.flags.dev)
	case opts.Peer:
		argv = appendFlag(argv, m.flags.peer)
	case !opts.NoSave:
		argv = appendFlag(argv, m.flags.save)
	}
	if opts.Exact {
		argv = appendFlag(argv, m.flags.exact)
	}

	spec := name
	if opts.Version != "" {
		spec += "@" + opts.Version
	}
	return append(argv, spec)
}

func appendFlag(argv []string, flag string) []string {
	if flag == "" {
		return argv
	}
	return append(argv, flag)
}

// Install implements Backend. It runs the package manager in the project root
// and maps a non-zero exit, a timeout or a cancellation to a failed result.
func (m *Manager) Install(ctx context.Context, name string, opts InstallOptions) InstallResult {
	argv := m.argv(name, opts)
	command := strings.Join(argv, " ")
	log := m.log.WithFields(logrus.Fields{"dependency": name, "command": command})

	result := InstallResult{PackageName: name, Command: command}
	start := time.Now()

	// Bound every runner, not only the default one.
	runCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	log.Info("installing package")
	out, err := m.runner.Run(runCtx, m.root, argv[0], argv[1:]...)
	result.Duration = time.Since(start)
	err = contextError(runCtx, err)
	if out != nil {
		result.ExitCode = out.ExitCode
		result.Stdout = out.Stdout
		result.Stderr = out.Stderr
	}

	switch {
	case errors.Is(err, runner.ErrTimedOut):
		result.Error = fmt.Sprintf("install timed out: %v", err)
	case errors.Is(err, runner.ErrCancelled):
		result.Error = fmt.Sprintf("install cancelled: %v", err)
	case err != nil:
		result.Error = err.Error()
	case out == nil:
		result.Error = "no output from package manager"
	case out.ExitCode != 0:
		result.Error = fmt.Sprintf("%s exited with code %d: %s", argv[0], out.ExitCode, lastLine(out.Stderr))
	default:
		result.Success = true
		result.Version = opts.Version
		if result.Version == "" {
			result.Version = "latest"
		}
		log.WithField("duration", result.Duration).Info("package installed")
		return result
	}

	log.WithField("duration", result.Duration).Warn(result.Error)
	return result
}

// contextError classifies a failure caused by runCtx ending, for runners that
// return the bare context error.
func contextError(runCtx context.Context, err error) error {
	if err == nil || errors.Is(err, runner.ErrTimedOut) || errors.Is(err, runner.ErrCancelled) {
		return err
	}
	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", runner.ErrTimedOut, err)
	case errors.Is(runCtx.Err(), context.Canceled):
		return fmt.Errorf("%w: %v", runner.ErrCancelled, err)
	}
	return err
}

// lastLine returns the last non-empty line of s, which is where package
// managers print the summary of a failure.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return "no error output"
}
