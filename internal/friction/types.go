package friction

import (
	"time"

	"github.com/agentx-labs/frictionless/internal/pkgmgr"
)

// DependencyType classifies a friction point.
type DependencyType string

// Dependency types.
const (
	Missing         DependencyType = "missing"
	VersionConflict DependencyType = "version_conflict"
	PeerDependency  DependencyType = "peer_dependency"
	DevDependency   DependencyType = "dev_dependency"
)

// Location is where a friction point was found. Line and Column are 1-based
// and zero when unknown.
type Location struct {
	File   string `json:"file" yaml:"file"`
	Line   int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column int    `json:"column,omitempty" yaml:"column,omitempty"`
}

// Point is a single detected, actionable dependency problem.
//
// PackageManager is fixed to the engine's backend when the point is created.
// Attempted is set as soon as Eliminate starts; Eliminated holds the outcome
// once State reports a terminal state.
type Point struct {
	ID              string         `json:"id" yaml:"id"`
	Description     string         `json:"description" yaml:"description"`
	Severity        float64        `json:"severity" yaml:"severity"`
	Location        Location       `json:"location" yaml:"location"`
	DependencyName  string         `json:"dependency_name" yaml:"dependency_name"`
	DependencyType  DependencyType `json:"dependency_type" yaml:"dependency_type"`
	CurrentVersion  string         `json:"current_version,omitempty" yaml:"current_version,omitempty"`
	RequiredVersion string         `json:"required_version,omitempty" yaml:"required_version,omitempty"`
	Suggestions     []string       `json:"suggestions" yaml:"suggestions"`
	AutoInstallable bool           `json:"auto_installable" yaml:"auto_installable"`
	InstallCommand  string         `json:"install_command,omitempty" yaml:"install_command,omitempty"`
	PackageManager  string         `json:"package_manager" yaml:"package_manager"`
	CreatedAt       time.Time      `json:"created_at" yaml:"created_at"`

	Attempted  bool `json:"attempted" yaml:"attempted"`
	Eliminated bool `json:"eliminated" yaml:"eliminated"`

	// LastInstall is the backend result of the most recent install, if any.
	LastInstall *pkgmgr.InstallResult `json:"-" yaml:"-"`

	// dev is decided once by Detect and drives both InstallCommand and the
	// install Eliminate runs. devKnown is false for caller-built points.
	dev      bool
	devKnown bool

	// undeclared points are installed but missing from package.json; the
	// fix re-adds them with the save flag even though they are on disk.
	undeclared bool

	finished bool
}

// Dev reports whether the point installs as a dev dependency. Points built
// by Detect follow package.json when it declares the package; other points
// fall back to the type and the name heuristic.
func (p *Point) Dev() bool {
	if p.devKnown {
		return p.dev
	}
	return p.DependencyType == DevDependency || IsDevDependency(p.DependencyName)
}

// State is the lifecycle position of a Point.
type State string

// Point states.
const (
	StateCreated       State = "created"
	StateAttempted     State = "attempted"
	StateEliminated    State = "eliminated"
	StateNotEliminated State = "not_eliminated"
)

// State reports where the point is in its lifecycle.
func (p *Point) State() State {
	switch {
	case !p.Attempted:
		return StateCreated
	case !p.finished:
		return StateAttempted
	case p.Eliminated:
		return StateEliminated
	default:
		return StateNotEliminated
	}
}

// DetectionContext is the caller-supplied input of a detection pass.
type DetectionContext struct {
	// FilePath and Content, when both set, are indexed before issues are read.
	FilePath string
	Content  string

	// CheckPackageJSON cross-checks every declared dependency against what is
	// installed.
	CheckPackageJSON bool

	// WorkspaceRoot, when set, is where package.json is read from for this
	// pass instead of the engine root.
	WorkspaceRoot string
}

// Record is one elimination outcome in the history.
type Record struct {
	PointID         string
	DependencyName  string
	DependencyType  DependencyType
	PackageManager  string
	AutoInstallable bool
	Eliminated      bool
	At              time.Time
}

// Stats aggregates the retained history. Every grouped count sums to Total.
type Stats struct {
	Total                int                    `json:"total" yaml:"total"`
	ByType               map[DependencyType]int `json:"by_type" yaml:"by_type"`
	ByPackageManager     map[string]int         `json:"by_package_manager" yaml:"by_package_manager"`
	AutoInstallable      int                    `json:"auto_installable" yaml:"auto_installable"`
	Eliminated           int                    `json:"eliminated" yaml:"eliminated"`
	Failed               int                    `json:"failed" yaml:"failed"`
	ActivePackageManager string                 `json:"active_package_manager" yaml:"active_package_manager"`
}
