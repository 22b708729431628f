// Package similarity scores how alike two identifiers are. It backs the
// "did you mean" suggestions offered for misspelled package names.
package similarity
