package scanner

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/agentx-labs/frictionless/internal/manifest"
)

// Scanner indexes source files and reports their unresolved package
// references. It is safe for concurrent use.
type Scanner struct {
	root string

	mu    sync.RWMutex
	files map[string][]Reference
}

// New returns a scanner resolving packages against root/node_modules.
func New(root string) *Scanner {
	return &Scanner{
		root:  root,
		files: make(map[string][]Reference),
	}
}

// AddFile indexes (or re-indexes) the references of a file.
func (s *Scanner) AddFile(path, content string) {
	refs := Extract(content)
	s.mu.Lock()
	s.files[path] = refs
	s.mu.Unlock()
}

// RemoveFile drops a file from the index.
func (s *Scanner) RemoveFile(path string) {
	s.mu.Lock()
	delete(s.files, path)
	s.mu.Unlock()
}

// References returns the indexed references of a file.
func (s *Scanner) References(path string) []Reference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Reference(nil), s.files[path]...)
}

// DependencyIssues reports, for every indexed file, each referenced package
// that is not installed, plus installed packages missing from package.json.
// A package is reported at most once per file.
func (s *Scanner) DependencyIssues() []Issue {
	s.mu.RLock()
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	byFile := make(map[string][]Reference, len(paths))
	for _, p := range paths {
		byFile[p] = s.files[p]
	}
	s.mu.RUnlock()

	// A missing or broken manifest only disables the undeclared check.
	info, _ := manifest.Load(s.root)

	installed := make(map[string]bool)
	var issues []Issue
	for _, path := range paths {
		reported := make(map[string]bool)
		for _, ref := range byFile[path] {
			if reported[ref.Package] {
				continue
			}
			reported[ref.Package] = true

			ok, cached := installed[ref.Package]
			if !cached {
				ok = s.isInstalled(ref.Package)
				installed[ref.Package] = ok
			}

			switch {
			case !ok:
				issues = append(issues, s.issue(TypeMissingDependency, TagMissing, path, ref, info,
					fmt.Sprintf("Cannot find module '%s'", ref.Spec)))
			case info != nil && !declared(info, ref.Package):
				issues = append(issues, s.issue(TypeUndeclaredDependency, TagUndeclared, path, ref, info,
					fmt.Sprintf("'%s' is installed but not declared in package.json", ref.Package)))
			}
		}
	}
	return issues
}

func (s *Scanner) issue(kind, tag, path string, ref Reference, info *manifest.PackageInfo, msg string) Issue {
	tags := []string{tag, ref.Kind}
	if info != nil {
		if _, ok := info.PeerDependencies[ref.Package]; ok {
			tags = append(tags, TagPeer)
		}
	}
	tags = append(tags, ref.Package)
	return Issue{
		Type:     kind,
		Message:  msg,
		File:     path,
		Line:     ref.Line,
		Column:   ref.Column,
		Metadata: Metadata{Tags: tags},
	}
}

func (s *Scanner) isInstalled(name string) bool {
	fi, err := os.Stat(manifest.PackageDir(s.root, name))
	return err == nil && fi.IsDir()
}

func declared(info *manifest.PackageInfo, name string) bool {
	if _, ok := info.Declared(name); ok {
		return true
	}
	_, ok := info.PeerDependencies[name]
	return ok
}
