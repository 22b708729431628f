package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/agentx-labs/frictionless/internal/config"
	"github.com/agentx-labs/frictionless/internal/runner"
	"github.com/fatih/color"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// call is one recorded package manager invocation.
type call struct {
	dir  string
	name string
	args []string
}

// fakeRunner pretends to be a package manager: it "installs" the last
// argument into node_modules.
type fakeRunner struct {
	mu    sync.Mutex
	calls []call
}

func (f *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) (*runner.Output, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{dir: dir, name: name, args: append([]string(nil), args...)})
	f.mu.Unlock()

	spec := args[len(args)-1]
	pkg := spec
	if i := strings.LastIndex(spec, "@"); i > 0 {
		pkg = spec[:i]
	}
	pkgDir := filepath.Join(dir, "node_modules", filepath.FromSlash(pkg))
	if err := os.MkdirAll(pkgDir, 0755); err != nil {
		return nil, err
	}
	manifest := `{"name": "` + pkg + `", "version": "1.0.0"}`
	if err := os.WriteFile(filepath.Join(pkgDir, "package.json"), []byte(manifest), 0644); err != nil {
		return nil, err
	}
	return &runner.Output{Stdout: "added 1 package", Duration: time.Millisecond}, nil
}

func (f *fakeRunner) recorded() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

// resetState restores every package-level flag and the viper instance so
// commands can be executed repeatedly in one process.
func resetState(t *testing.T) {
	t.Helper()
	viper.Reset()
	bindFlags()
	config.SetFile("")
	t.Setenv("HOME", t.TempDir())

	flagConfig, flagRoot, flagPackageManager, flagLogLevel, flagOutput = "", ".", "", "", outputText
	detectSkipManifest, detectStrict = false, false
	fixYes, fixDryRun, fixStats = false, false, false
	watchFix = false
	versionShort, versionJSON = false, false

	for _, cmd := range rootCmd.Commands() {
		cmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	}
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) { f.Changed = false })

	color.NoColor = true
}

// runCLI executes the root command with fake package managers installed.
func runCLI(t *testing.T, fake *fakeRunner, stdin string, args ...string) (string, error) {
	t.Helper()
	resetState(t)

	prev := newRunner
	newRunner = func(time.Duration) runner.Runner { return fake }
	t.Cleanup(func() { newRunner = prev })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// newProject writes files (relative path -> content) under a temp root.
func newProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}
