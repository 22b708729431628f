//go:build integration

package integration_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// fakePackageManager is a POSIX shell stand-in for npm, yarn and pnpm. It
// "installs" the last argument into node_modules, logs every invocation to
// $FAKE_PM_LOG, fails for does-not-exist and hangs for slow-pkg.
const fakePackageManager = `#!/bin/sh
echo "$(basename "$0") $*" >> "$FAKE_PM_LOG"
for spec; do :; done
case "$spec" in
  @*) rest="${spec#@}"
      case "$rest" in
        *@*) pkg="@${rest%@*}"; ver="${rest##*@}" ;;
        *)   pkg="$spec"; ver="" ;;
      esac ;;
  *@*) pkg="${spec%@*}"; ver="${spec##*@}" ;;
  *)   pkg="$spec"; ver="" ;;
esac
ver="${ver#^}"
ver="${ver#~}"
[ -n "$ver" ] || ver="1.0.0"
case "$pkg" in
  does-not-exist)
    echo "npm ERR! code E404" >&2
    echo "npm ERR! 404 Not Found - GET https://registry.npmjs.org/does-not-exist" >&2
    exit 1 ;;
  slow-pkg)
    exec sleep 5 ;;
esac
mkdir -p "node_modules/$pkg"
printf '{"name": "%s", "version": "%s"}\n' "$pkg" "$ver" > "node_modules/$pkg/package.json"
echo "added 1 package"
`

// testEnv is an isolated project with fake package managers on PATH.
type testEnv struct {
	ProjectDir string
	LogFile    string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake package managers are shell scripts")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	binDir := t.TempDir()
	for _, name := range []string{"npm", "yarn", "pnpm"} {
		path := filepath.Join(binDir, name)
		if err := os.WriteFile(path, []byte(fakePackageManager), 0755); err != nil {
			t.Fatalf("writing fake %s: %v", name, err)
		}
	}

	env := &testEnv{
		ProjectDir: t.TempDir(),
		LogFile:    filepath.Join(t.TempDir(), "pm.log"),
	}
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	t.Setenv("FAKE_PM_LOG", env.LogFile)
	return env
}

// writeFile creates a file relative to the project directory.
func (e *testEnv) writeFile(t *testing.T, rel, content string) {
	t.Helper()
	path := filepath.Join(e.ProjectDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", rel, err)
	}
}

// invocations returns the logged package manager command lines.
func (e *testEnv) invocations(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(e.LogFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("reading invocation log: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

// assertFileExists fails the test if path does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected %s to exist: %v", path, err)
	}
}
