package manifest

import "sort"

// FileName is the manifest file looked up in a project root.
const FileName = "package.json"

// ModulesDir is the directory packages are installed into.
const ModulesDir = "node_modules"

// PackageInfo is a parsed package.json. It is a snapshot: callers re-read it
// rather than mutate it.
type PackageInfo struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	PackageManager   string            `json:"packageManager,omitempty"`
	Dependencies     map[string]string `json:"dependencies,omitempty"`
	DevDependencies  map[string]string `json:"devDependencies,omitempty"`
	PeerDependencies map[string]string `json:"peerDependencies,omitempty"`
}

// Declared returns the version range declared for name in dependencies or
// devDependencies. Production entries take precedence.
func (p *PackageInfo) Declared(name string) (string, bool) {
	if p == nil {
		return "", false
	}
	if r, ok := p.Dependencies[name]; ok {
		return r, true
	}
	r, ok := p.DevDependencies[name]
	return r, ok
}

// IsDev reports whether name is declared only under devDependencies.
func (p *PackageInfo) IsDev(name string) bool {
	if p == nil {
		return false
	}
	if _, ok := p.Dependencies[name]; ok {
		return false
	}
	_, ok := p.DevDependencies[name]
	return ok
}

// DeclaredNames returns every production and dev dependency name, sorted and
// without duplicates.
func (p *PackageInfo) DeclaredNames() []string {
	if p == nil {
		return nil
	}
	seen := make(map[string]bool, len(p.Dependencies)+len(p.DevDependencies))
	var names []string
	for _, deps := range []map[string]string{p.Dependencies, p.DevDependencies} {
		for name := range deps {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
