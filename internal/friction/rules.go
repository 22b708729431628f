package friction

import (
	"fmt"
	"strings"

	"github.com/agentx-labs/frictionless/internal/manifest"
	"github.com/agentx-labs/frictionless/internal/similarity"
)

// Severities assigned to friction points.
const (
	SeverityCore       = 0.9
	SeverityDefault    = 0.7
	SeverityConflict   = 0.6
	SeverityDev        = 0.5
	SeverityUndeclared = 0.4
)

// coreFrameworks get the highest severity: nothing runs without them.
var coreFrameworks = map[string]bool{
	"react":         true,
	"vue":           true,
	"angular":       true,
	"@angular/core": true,
	"express":       true,
	"typescript":    true,
}

// devMarkers classify a package name as a dev dependency by substring.
var devMarkers = []string{
	"@types/", "eslint", "prettier", "jest", "mocha", "chai", "sinon",
	"webpack", "babel", "typescript", "ts-node", "nodemon",
}

// manualPrefixes are package families never installed without confirmation.
var manualPrefixes = []string{"@types/", "eslint-", "babel-", "webpack-"}

// alternatives lists well-known replacements offered next to the install.
var alternatives = map[string][]string{
	"lodash":     {"lodash-es", "ramda"},
	"moment":     {"dayjs", "date-fns"},
	"request":    {"axios", "node-fetch"},
	"jquery":     {"vanilla JavaScript"},
	"underscore": {"lodash"},
	"bluebird":   {"native Promise"},
	"uuid":       {"crypto.randomUUID"},
}

// IsDevDependency reports whether name looks like tooling rather than a
// runtime dependency.
func IsDevDependency(name string) bool {
	for _, m := range devMarkers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// IsAutoInstallable reports whether a fix for name may be applied without
// human confirmation.
func IsAutoInstallable(name string) bool {
	for _, p := range manualPrefixes {
		if strings.HasPrefix(name, p) {
			return false
		}
	}
	return true
}

// Severity scores a missing package: core frameworks 0.9, dev tooling 0.5,
// anything else 0.7.
func Severity(name string) float64 {
	switch {
	case coreFrameworks[name]:
		return SeverityCore
	case IsDevDependency(name):
		return SeverityDev
	default:
		return SeverityDefault
	}
}

// Alternatives returns the known replacements for name.
func Alternatives(name string) []string {
	return append([]string(nil), alternatives[name]...)
}

// TypoCandidates returns the declared names that are likely misspellings
// of (or intended by) name.
func TypoCandidates(name string, info *manifest.PackageInfo) []string {
	var out []string
	for _, dep := range info.DeclaredNames() {
		if dep != name && similarity.Similar(name, dep) {
			out = append(out, dep)
		}
	}
	return out
}

// suggestions orders the install command first, then alternatives, then
// typo corrections.
func suggestions(addCommand, name string, info *manifest.PackageInfo) []string {
	var out []string
	if addCommand != "" {
		out = append(out, addCommand+" "+name)
	}
	out = append(out, Alternatives(name)...)
	for _, dep := range TypoCandidates(name, info) {
		out = append(out, fmt.Sprintf("Did you mean `%s`?", dep))
	}
	return out
}
