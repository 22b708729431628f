// Package scanner extracts the third-party modules a JavaScript or TypeScript
// source file references through import, export-from and require statements,
// and reports those that are not installed as generic issues.
//
// The scanner is deliberately shallow: it recognizes statements with regular
// expressions and never resolves types, path aliases or bundler config.
package scanner
