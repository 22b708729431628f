package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentx-labs/frictionless/internal/friction"
	"github.com/agentx-labs/frictionless/internal/scanner"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// errFrictionFound is returned by detect --strict when anything was found.
var errFrictionFound = errors.New("dependency friction found")

var (
	detectSkipManifest bool
	detectStrict       bool
)

func init() {
	detectCmd.Flags().BoolVar(&detectSkipManifest, "skip-package-json", false, "Only report imports, without checking declared dependencies")
	detectCmd.Flags().BoolVar(&detectStrict, "strict", false, "Exit with an error when friction is found")
	rootCmd.AddCommand(detectCmd)
}

var detectCmd = &cobra.Command{
	Use:   "detect [file...]",
	Short: "Report missing, undeclared and mismatched dependencies",
	Long: `Scan source files for imports and report every dependency that is not
installed, installed but not declared in package.json, installed at a version
outside its declared range, or declared in package.json but missing from
node_modules.

With no arguments the whole project under --root is scanned.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		points, err := detectProject(cmd.Context(), s, args, !detectSkipManifest)
		if err != nil {
			return err
		}
		if err := renderPoints(cmd.OutOrStdout(), flagOutput, s.engine.Root(), points); err != nil {
			return err
		}
		if detectStrict && len(points) > 0 {
			return errFrictionFound
		}
		return nil
	},
}

// detectProject indexes the given files (or every source file under the
// project root) and runs a single detection pass over the whole index.
func detectProject(ctx context.Context, s *session, files []string, checkManifest bool) ([]*friction.Point, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	root := s.engine.Root()

	if len(files) == 0 {
		walked, err := scanner.Walk(root)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", root, err)
		}
		files = walked
	} else {
		resolved := make([]string, len(files))
		for i, f := range files {
			if !filepath.IsAbs(f) {
				f = filepath.Join(root, f)
			}
			resolved[i] = f
		}
		files = resolved
	}

	if err := indexFiles(ctx, s, files); err != nil {
		return nil, err
	}

	s.log.WithField("files", len(files)).Debug("running detection")
	return s.engine.Detect(ctx, friction.DetectionContext{CheckPackageJSON: checkManifest}), nil
}

// indexFiles reads files concurrently and adds them to the engine's index.
func indexFiles(ctx context.Context, s *session, files []string) error {
	g, ctx := errgroup.WithContext(ctx)
	limit := s.settings.Concurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for _, f := range files {
		f := f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(f)
			if err != nil {
				return fmt.Errorf("reading %s: %w", f, err)
			}
			s.engine.Index(f, string(data))
			return nil
		})
	}
	return g.Wait()
}
