package scanner

// Issue kinds reported by the scanner.
const (
	// TypeMissingDependency marks a referenced package absent from node_modules.
	TypeMissingDependency = "dependency-missing"

	// TypeUndeclaredDependency marks a package that is installed but not
	// declared in package.json.
	TypeUndeclaredDependency = "dependency-undeclared"
)

// Generic tags attached to issues alongside the package name.
const (
	TagMissing    = "missing-dependency"
	TagUndeclared = "undeclared-dependency"
	TagImport     = "import"
	TagRequire    = "require"
	TagDynamic    = "dynamic-import"
	TagExport     = "export"
	TagPeer       = "peer"
)

// GenericTags are the tags that never name a package.
var GenericTags = map[string]bool{
	TagMissing:    true,
	TagUndeclared: true,
	TagImport:     true,
	TagRequire:    true,
	TagDynamic:    true,
	TagExport:     true,
	TagPeer:       true,
	"dependency":  true,
}

// Issue is a generic finding. The package name travels as the first
// non-generic entry of Metadata.Tags.
type Issue struct {
	Type     string
	Message  string
	File     string
	Line     int
	Column   int
	Metadata Metadata
}

// Metadata carries free-form classification of an issue.
type Metadata struct {
	Tags []string
}

// Reference is a single module reference found in a file.
type Reference struct {
	Package string // normalized package name, e.g. "lodash" or "@scope/pkg"
	Spec    string // the module specifier as written, e.g. "lodash/fp"
	Kind    string // TagImport, TagRequire, TagDynamic or TagExport
	Line    int
	Column  int
}
