package cli

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/frictionless/internal/config"
	"github.com/agentx-labs/frictionless/internal/manifest"
	"github.com/agentx-labs/frictionless/internal/pkgmgr"
	"github.com/spf13/cobra"
)

// lookPath resolves package manager binaries. Tests replace it.
var lookPath = exec.LookPath

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the project and environment before fixing anything",
	Long: `Validate package.json, report which lock files are present and which
package managers are on PATH, and show where configuration is read from.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		out := cmd.OutOrStdout()
		root := s.engine.Root()
		fmt.Fprintf(out, "Project: %s\n", root)
		fmt.Fprintf(out, "Config:  %s\n\n", config.FilePath())

		manifestErr := runManifestCheck(out, filepath.Join(root, manifest.FileName))
		fmt.Fprintln(out)
		runBackendCheck(out, root, s.engine.Backend())
		return manifestErr
	},
}

func runManifestCheck(out io.Writer, path string) error {
	fmt.Fprintf(out, "Manifest check: %s\n", path)

	result, err := manifest.ValidateFile(path)
	if errors.Is(err, manifest.ErrNotFound) {
		fmt.Fprintln(out, "  [WARN] package.json not found; only imports will be checked")
		return nil
	}
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] %v\n", err)
		return fmt.Errorf("manifest validation failed: %w", err)
	}

	if result.Valid {
		info, err := manifest.Load(filepath.Dir(path))
		if err != nil || info.Name == "" {
			fmt.Fprintln(out, "  [ OK ] Valid package.json")
			return nil
		}
		fmt.Fprintf(out, "  [ OK ] Valid package.json: %s", info.Name)
		if info.Version != "" {
			fmt.Fprintf(out, " (v%s)", info.Version)
		}
		fmt.Fprintln(out)
		for _, name := range info.DeclaredNames() {
			spec, _ := info.Declared(name)
			// Paths, git remotes and protocol specs are never version ranges.
			if strings.ContainsAny(spec, ":/") {
				continue
			}
			if err := manifest.ValidatePin(spec); err != nil {
				fmt.Fprintf(out, "  [WARN] %s: %v\n", name, err)
			}
		}
		return nil
	}

	fmt.Fprintf(out, "  [FAIL] %d validation issue(s):\n", len(result.Issues))
	for _, issue := range result.Issues {
		if issue.Path != "" {
			fmt.Fprintf(out, "    - %s: %s\n", issue.Path, issue.Message)
		} else {
			fmt.Fprintf(out, "    - %s\n", issue.Message)
		}
	}
	return fmt.Errorf("%s has %d validation issue(s)", path, len(result.Issues))
}

func runBackendCheck(out io.Writer, root string, active pkgmgr.Backend) {
	fmt.Fprintln(out, "Package manager check:")
	backends := pkgmgr.Defaults(pkgmgr.Config{Root: root})
	detected := pkgmgr.Detected(backends)
	for _, b := range backends {
		lock := "no lock file"
		if b.DetectLockFile() {
			lock = "lock file present"
		}
		path, err := lookPath(b.Name())
		if err != nil {
			fmt.Fprintf(out, "  [MISS] %s not found (%s)\n", b.Name(), lock)
			continue
		}
		fmt.Fprintf(out, "  [ OK ] %s found at %s (%s)\n", b.Name(), path, lock)
	}
	if len(detected) > 1 {
		fmt.Fprintf(out, "  [WARN] more than one lock file present: %v\n", detected)
	}
	if active == nil {
		fmt.Fprintln(out, "  [FAIL] no package manager selected")
		return
	}
	if _, err := lookPath(active.Name()); err != nil {
		fmt.Fprintf(out, "  [WARN] selected %s is not on PATH; fixes will fail\n", active.Name())
		return
	}
	fmt.Fprintf(out, "  [ OK ] using %s\n", active.Name())
}
