package manifest

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// nonRegistryPrefixes mark declared specs that are not semver ranges
// (tarballs, git remotes, local paths, aliases, workspace links).
var nonRegistryPrefixes = []string{
	"file:", "link:", "git+", "git:", "github:", "http:", "https:",
	"npm:", "workspace:", "portal:", "patch:",
}

// IsRange reports whether spec is a semver range that can be checked against
// an installed version. Dist-tags such as "latest" and non-registry specs are
// not.
func IsRange(spec string) bool {
	spec = strings.TrimSpace(spec)
	if spec == "" || spec == "latest" || spec == "next" {
		return false
	}
	for _, p := range nonRegistryPrefixes {
		if strings.HasPrefix(spec, p) {
			return false
		}
	}
	if strings.Contains(spec, "/") {
		return false
	}
	_, err := semver.NewConstraint(spec)
	return err == nil
}

// Satisfies reports whether version falls inside the declared range.
func Satisfies(spec, version string) (bool, error) {
	c, err := semver.NewConstraint(strings.TrimSpace(spec))
	if err != nil {
		return false, fmt.Errorf("parsing range %q: %w", spec, err)
	}
	v, err := parseSemver(version)
	if err != nil {
		return false, fmt.Errorf("parsing version %q: %w", version, err)
	}
	return c.Check(v), nil
}

// ValidatePin checks a version or range passed for an explicit install.
func ValidatePin(spec string) error {
	if spec == "" || spec == "latest" || spec == "next" {
		return nil
	}
	if _, err := semver.NewConstraint(spec); err != nil {
		return fmt.Errorf("invalid version %q: %w", spec, err)
	}
	return nil
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	return semver.NewVersion(version)
}
