// Package pkgmgr implements the npm, yarn and pnpm backends behind a common
// Backend interface, and selects the active one for a project by probing
// lock files in priority order.
package pkgmgr
