package friction

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/agentx-labs/frictionless/internal/pkgmgr"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// fakeBackend is an in-memory package manager. Installing a package marks it
// installed unless the name is in fail.
type fakeBackend struct {
	name string

	mu        sync.Mutex
	installed map[string]string
	fail      map[string]bool
	installs  []string
	opts      []pkgmgr.InstallOptions
}

func newFakeBackend(name string) *fakeBackend {
	return &fakeBackend{name: name, installed: map[string]string{}, fail: map[string]bool{}}
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Commands() pkgmgr.Commands {
	return pkgmgr.Commands{Install: f.name + " install", Add: f.name + " add", Remove: f.name + " remove", List: f.name + " list"}
}

func (f *fakeBackend) DetectLockFile() bool { return false }

func (f *fakeBackend) Install(_ context.Context, name string, opts pkgmgr.InstallOptions) pkgmgr.InstallResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.installs = append(f.installs, name)
	f.opts = append(f.opts, opts)
	if f.fail[name] {
		return pkgmgr.InstallResult{PackageName: name, Error: "boom"}
	}
	v := opts.Version
	if v == "" {
		v = "latest"
	}
	f.installed[name] = "1.0.0"
	return pkgmgr.InstallResult{Success: true, PackageName: name, Version: v}
}

func (f *fakeBackend) CheckInstalled(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.installed[name]
	return ok
}

func (f *fakeBackend) Version(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.installed[name]
}

func (f *fakeBackend) CommandLine(name string, opts pkgmgr.InstallOptions) string {
	cmd := f.name + " add"
	if opts.Dev {
		cmd += " -D"
	}
	if opts.Version != "" {
		name += "@" + opts.Version
	}
	return cmd + " " + name
}

func (f *fakeBackend) installCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.installs)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newNullDebugLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

func newTestEngine(t *testing.T, root string, b pkgmgr.Backend) (*Engine, *test.Hook) {
	t.Helper()
	logger, hook := newNullDebugLogger()
	e, err := New(Config{Root: root, Backend: b, Logger: logger})
	require.NoError(t, err)
	return e, hook
}
