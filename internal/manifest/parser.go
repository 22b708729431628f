package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when the project has no package.json.
var ErrNotFound = errors.New("package.json not found")

// Load reads and parses <root>/package.json.
func Load(root string) (*PackageInfo, error) {
	path := filepath.Join(root, FileName)
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	info, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return info, nil
}

// Parse decodes package.json bytes.
func Parse(data []byte) (*PackageInfo, error) {
	var info PackageInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("unmarshaling JSON: %w", err)
	}
	return &info, nil
}

// PackageDir returns the directory a package is installed into under root.
func PackageDir(root, name string) string {
	return filepath.Join(root, ModulesDir, filepath.FromSlash(name))
}

// InstalledVersion reads the version field of an installed package's own
// package.json. It returns an error when the package is absent or its
// manifest cannot be parsed.
func InstalledVersion(root, name string) (string, error) {
	info, err := Load(PackageDir(root, name))
	if err != nil {
		return "", err
	}
	if info.Version == "" {
		return "", fmt.Errorf("package %s has no version field", name)
	}
	return info.Version, nil
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
