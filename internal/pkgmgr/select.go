package pkgmgr

// DefaultPriority is the order lock files are checked in.
var DefaultPriority = []string{PNPM, Yarn, NPM}

// Defaults returns the built-in backends for a project in DefaultPriority order.
func Defaults(cfg Config) []Backend {
	return []Backend{NewPNPM(cfg), NewYarn(cfg), NewNPM(cfg)}
}

// Select returns the first backend whose lock file is present. When none is,
// it falls back to the npm backend from the same list, or nil if the list has
// no npm backend.
func Select(backends []Backend) Backend {
	for _, b := range backends {
		if b.DetectLockFile() {
			return b
		}
	}
	return ByName(backends, NPM)
}

// ByName returns the backend with the given identifier, or nil.
func ByName(backends []Backend, name string) Backend {
	for _, b := range backends {
		if b.Name() == name {
			return b
		}
	}
	return nil
}

// Detected returns the names of all backends whose lock files are present.
// More than one usually means a stale lock file was left behind.
func Detected(backends []Backend) []string {
	var names []string
	for _, b := range backends {
		if b.DetectLockFile() {
			names = append(names, b.Name())
		}
	}
	return names
}
