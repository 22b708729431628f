// Package manifest reads a project's package.json into a PackageInfo snapshot,
// validates it against an embedded JSON Schema and answers version-range
// questions about declared and installed dependencies.
package manifest
