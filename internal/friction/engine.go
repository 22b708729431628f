package friction

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/agentx-labs/frictionless/internal/manifest"
	"github.com/agentx-labs/frictionless/internal/pkgmgr"
	"github.com/agentx-labs/frictionless/internal/runner"
	"github.com/agentx-labs/frictionless/internal/scanner"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Scanner is the source of generic dependency issues.
type Scanner interface {
	AddFile(path, content string)
	DependencyIssues() []scanner.Issue
}

// Config configures a new Engine.
type Config struct {
	// Root is the project directory holding package.json and node_modules.
	Root string

	// Scanner defaults to scanner.New(Root).
	Scanner Scanner

	// Backend, when set, is used as-is and no lock file probing happens.
	Backend pkgmgr.Backend

	// PackageManager, when set, picks the backend by name instead of probing.
	PackageManager string

	// Backends are the candidates tried in order. Defaults to
	// pkgmgr.Defaults for Root.
	Backends []pkgmgr.Backend

	// Runner and InstallTimeout configure the default backends.
	Runner         runner.Runner
	InstallTimeout time.Duration

	// HistoryLimit bounds the retained outcomes. Zero means DefaultHistoryLimit.
	HistoryLimit int

	// Logger defaults to the logrus standard logger.
	Logger logrus.FieldLogger
}

// Engine detects and eliminates dependency friction for one project.
type Engine struct {
	root    string
	scanner Scanner
	backend pkgmgr.Backend
	log     logrus.FieldLogger
	history *history

	// info is the most recently loaded manifest. Concurrent Detect calls each
	// replace it; the last writer wins.
	mu   sync.RWMutex
	info *manifest.PackageInfo
}

// New selects the active backend and returns a ready engine.
func New(cfg Config) (*Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	root := cfg.Root
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid root path %q: %w", root, err)
	}

	backends := cfg.Backends
	if len(backends) == 0 {
		backends = pkgmgr.Defaults(pkgmgr.Config{
			Root:    abs,
			Runner:  cfg.Runner,
			Timeout: cfg.InstallTimeout,
			Logger:  log,
		})
	}

	backend := cfg.Backend
	switch {
	case backend != nil:
	case cfg.PackageManager != "":
		backend = pkgmgr.ByName(backends, cfg.PackageManager)
		if backend == nil {
			return nil, fmt.Errorf("unknown package manager %q", cfg.PackageManager)
		}
	default:
		backend = pkgmgr.Select(backends)
	}

	sc := cfg.Scanner
	if sc == nil {
		sc = scanner.New(abs)
	}

	e := &Engine{
		root:    abs,
		scanner: sc,
		backend: backend,
		log:     log,
		history: newHistory(cfg.HistoryLimit),
	}
	if backend == nil {
		log.WithField("root", abs).Warn("no package manager available; eliminations will fail")
	} else {
		log.WithFields(logrus.Fields{"root": abs, "package_manager": backend.Name()}).Debug("package manager selected")
	}
	return e, nil
}

// Root returns the absolute project root.
func (e *Engine) Root() string { return e.root }

// Backend returns the active backend, or nil if none was available.
func (e *Engine) Backend() pkgmgr.Backend { return e.backend }

// PackageInfo returns the manifest loaded by the most recent Detect.
func (e *Engine) PackageInfo() *manifest.PackageInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.info
}

// Index feeds a file to the scanner without running detection.
func (e *Engine) Index(path, content string) {
	e.scanner.AddFile(path, content)
}

// Forget drops a file from the scanner index, if the scanner supports it.
func (e *Engine) Forget(path string) {
	if r, ok := e.scanner.(interface{ RemoveFile(string) }); ok {
		r.RemoveFile(path)
	}
}

func (e *Engine) backendName() string {
	if e.backend == nil {
		return ""
	}
	return e.backend.Name()
}

// loadPackageInfo re-reads package.json from dir. A missing or unparsable
// manifest is logged and yields nil.
func (e *Engine) loadPackageInfo(dir string) *manifest.PackageInfo {
	info, err := manifest.Load(dir)
	switch {
	case errors.Is(err, manifest.ErrNotFound):
		e.log.WithField("root", dir).Debug("no package.json found")
		info = nil
	case err != nil:
		e.log.WithError(err).Warn("could not load package.json")
		info = nil
	}

	e.mu.Lock()
	e.info = info
	e.mu.Unlock()
	return info
}

// Detect runs one detection pass and returns the friction points found. It
// never fails: errors are logged and the points collected so far returned.
func (e *Engine) Detect(ctx context.Context, dc DetectionContext) (points []*Point) {
	log := e.log
	if dc.FilePath != "" {
		log = log.WithField("file", dc.FilePath)
	}
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("dependency detection aborted")
		}
	}()

	dir := e.root
	if dc.WorkspaceRoot != "" {
		dir = dc.WorkspaceRoot
	}
	info := e.loadPackageInfo(dir)

	if dc.FilePath != "" && dc.Content != "" {
		e.scanner.AddFile(dc.FilePath, dc.Content)
	}

	for _, issue := range e.scanner.DependencyIssues() {
		if err := ctx.Err(); err != nil {
			log.WithError(err).Warn("dependency detection interrupted")
			return points
		}
		if p := e.pointFromIssue(issue, info); p != nil {
			points = append(points, p)
		}
	}

	if dc.CheckPackageJSON && info != nil {
		points = append(points, e.checkDeclared(ctx, dir, info)...)
	}

	log.WithField("count", len(points)).Debug("dependency detection finished")
	return points
}

// dependencyName returns the first tag that is not a generic marker.
func dependencyName(tags []string) string {
	for _, t := range tags {
		if t != "" && !scanner.GenericTags[t] {
			return t
		}
	}
	return ""
}

// isDev follows the declaration when package.json has one, so a fix never
// moves a package between dependencies and devDependencies.
func isDev(name string, info *manifest.PackageInfo) bool {
	if _, ok := info.Declared(name); ok {
		return info.IsDev(name)
	}
	return IsDevDependency(name)
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// pointFromIssue maps a scanner issue to a friction point, or nil when the
// issue is of an unknown kind or names no package.
func (e *Engine) pointFromIssue(issue scanner.Issue, info *manifest.PackageInfo) *Point {
	name := dependencyName(issue.Metadata.Tags)
	if name == "" {
		return nil
	}
	switch issue.Type {
	case scanner.TypeMissingDependency:
	case scanner.TypeUndeclaredDependency:
		return e.undeclaredPoint(issue, name)
	default:
		return nil
	}

	depType := Missing
	if hasTag(issue.Metadata.Tags, scanner.TagPeer) {
		depType = PeerDependency
	}

	var required string
	if spec, ok := info.Declared(name); ok && manifest.IsRange(spec) {
		required = spec
	}
	dev := isDev(name, info)

	return &Point{
		ID:              uuid.New().String(),
		Description:     fmt.Sprintf("Package '%s' is imported but not installed", name),
		Severity:        Severity(name),
		Location:        Location{File: issue.File, Line: issue.Line, Column: issue.Column},
		DependencyName:  name,
		DependencyType:  depType,
		RequiredVersion: required,
		Suggestions:     suggestions(e.addCommand(), name, info),
		AutoInstallable: IsAutoInstallable(name),
		InstallCommand:  e.installCommand(name, dev, required),
		PackageManager:  e.backendName(),
		CreatedAt:       time.Now(),
		dev:             dev,
		devKnown:        true,
	}
}

// undeclaredPoint maps an installed-but-undeclared import. The fix saves the
// package at a range covering the installed version so it stays put.
func (e *Engine) undeclaredPoint(issue scanner.Issue, name string) *Point {
	var current, required string
	if e.backend != nil {
		current = e.backend.Version(name)
	}
	if current != "" && manifest.IsRange("^"+current) {
		required = "^" + current
	}
	dev := IsDevDependency(name)

	var command string
	var suggested []string
	if e.backend != nil {
		command = e.backend.CommandLine(name, pkgmgr.InstallOptions{Dev: dev, Version: required})
		suggested = []string{command}
	}

	return &Point{
		ID:              uuid.New().String(),
		Description:     fmt.Sprintf("Package '%s' is installed but not declared in package.json", name),
		Severity:        SeverityUndeclared,
		Location:        Location{File: issue.File, Line: issue.Line, Column: issue.Column},
		DependencyName:  name,
		DependencyType:  Missing,
		CurrentVersion:  current,
		RequiredVersion: required,
		Suggestions:     suggested,
		AutoInstallable: IsAutoInstallable(name),
		InstallCommand:  command,
		PackageManager:  e.backendName(),
		CreatedAt:       time.Now(),
		dev:             dev,
		devKnown:        true,
		undeclared:      true,
	}
}

// checkDeclared reports declared dependencies that are not installed, and
// installed ones whose version falls outside the declared range.
func (e *Engine) checkDeclared(ctx context.Context, dir string, info *manifest.PackageInfo) []*Point {
	if e.backend == nil {
		e.log.Warn("skipping package.json check: no package manager")
		return nil
	}
	file := filepath.Join(dir, manifest.FileName)

	var points []*Point
	for _, name := range info.DeclaredNames() {
		if ctx.Err() != nil {
			return points
		}
		spec, _ := info.Declared(name)
		var required string
		if manifest.IsRange(spec) {
			required = spec
		}
		dev := info.IsDev(name)

		if !e.backend.CheckInstalled(name) {
			depType := Missing
			if dev {
				depType = DevDependency
			}
			points = append(points, &Point{
				ID:              uuid.New().String(),
				Description:     fmt.Sprintf("'%s' is declared in package.json but not installed", name),
				Severity:        SeverityDefault,
				Location:        Location{File: file},
				DependencyName:  name,
				DependencyType:  depType,
				RequiredVersion: required,
				Suggestions:     []string{e.backend.Commands().Install, e.installCommand(name, dev, required)},
				AutoInstallable: true,
				InstallCommand:  e.installCommand(name, dev, required),
				PackageManager:  e.backend.Name(),
				CreatedAt:       time.Now(),
				dev:             dev,
				devKnown:        true,
			})
			continue
		}

		if required == "" {
			continue
		}
		current := e.backend.Version(name)
		if current == "" {
			continue
		}
		ok, err := manifest.Satisfies(required, current)
		if err != nil {
			e.log.WithError(err).WithField("dependency", name).Debug("skipping version check")
			continue
		}
		if ok {
			continue
		}
		points = append(points, &Point{
			ID:              uuid.New().String(),
			Description:     fmt.Sprintf("'%s' %s is installed but package.json requires %s", name, current, required),
			Severity:        SeverityConflict,
			Location:        Location{File: file},
			DependencyName:  name,
			DependencyType:  VersionConflict,
			CurrentVersion:  current,
			RequiredVersion: required,
			Suggestions:     []string{e.installCommand(name, dev, required)},
			AutoInstallable: IsAutoInstallable(name),
			InstallCommand:  e.installCommand(name, dev, required),
			PackageManager:  e.backend.Name(),
			CreatedAt:       time.Now(),
			dev:             dev,
			devKnown:        true,
		})
	}
	return points
}

func (e *Engine) addCommand() string {
	if e.backend == nil {
		return ""
	}
	return e.backend.Commands().Add
}

// installCommand renders the add command with only the dev flag and version
// pin applied.
func (e *Engine) installCommand(name string, dev bool, version string) string {
	if e.backend == nil {
		return ""
	}
	return e.backend.CommandLine(name, pkgmgr.InstallOptions{Dev: dev, Version: version, NoSave: true})
}
