package scanner

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// SourceExtensions are the file extensions Walk collects.
var SourceExtensions = map[string]bool{
	".js": true, ".jsx": true, ".mjs": true, ".cjs": true,
	".ts": true, ".tsx": true, ".mts": true, ".cts": true,
	".vue": true, ".svelte": true,
}

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	"node_modules": true, "dist": true, "build": true, "coverage": true, "out": true,
}

// SkipDir reports whether a directory with this name is never scanned.
func SkipDir(name string) bool {
	return skipDirs[name]
}

// IsSource reports whether path has a scannable extension.
func IsSource(path string) bool {
	if strings.HasSuffix(path, ".d.ts") {
		return false
	}
	return SourceExtensions[filepath.Ext(path)]
}

// Walk returns every source file under root, skipping dependency, build and
// hidden directories.
func Walk(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (skipDirs[name] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if IsSource(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
