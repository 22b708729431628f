package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agentx-labs/frictionless/internal/friction"
	"github.com/agentx-labs/frictionless/internal/watch"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	watchFix    bool
	watchSettle time.Duration
)

func init() {
	watchCmd.Flags().BoolVar(&watchFix, "fix", false, "Install missing dependencies as soon as they are found")
	watchCmd.Flags().DurationVar(&watchSettle, "settle", watch.DefaultSettle, "Quiet period before a changed file is re-checked")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-check dependencies whenever a source file changes",
	Long: `Index the project, report its current friction, then keep watching source
files and report new friction as files are saved. With --fix (or auto_fix set
in the config) missing dependencies are installed immediately. Statistics are
printed on exit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		fix := watchFix || s.settings.AutoFix

		// Detect reports the whole index on every pass; only friction that
		// was not present in the previous pass is printed.
		previous := map[string]bool{}
		report := func(all []*friction.Point) {
			current := make(map[string]bool, len(all))
			var points []*friction.Point
			for _, p := range all {
				key := pointKey(p)
				current[key] = true
				if !previous[key] {
					points = append(points, p)
				}
			}
			previous = current
			if len(points) == 0 {
				return
			}
			_ = renderPoints(out, flagOutput, s.engine.Root(), points)
			if fix {
				for _, p := range points {
					s.engine.Eliminate(ctx, p)
					if flagOutput == outputText {
						renderOutcome(out, p)
					}
				}
			}
		}

		points, err := detectProject(ctx, s, nil, true)
		if err != nil {
			return err
		}
		if len(points) == 0 && flagOutput == outputText {
			_ = renderPoints(out, flagOutput, s.engine.Root(), nil)
		}
		report(points)

		w, err := watch.New(s.engine.Root(), watchSettle, s.log)
		if err != nil {
			return err
		}
		defer w.Close()

		s.log.WithField("root", s.engine.Root()).Info("watching for changes")
		if flagOutput == outputText {
			fmt.Fprintln(out, gray("Watching for changes. Press Ctrl+C to stop."))
		}

		err = w.Run(ctx, func(ev watch.Event) {
			if points, ok := recheck(ctx, s, ev); ok {
				report(points)
			}
		})
		if err != nil {
			return err
		}

		if flagOutput == outputText {
			fmt.Fprintln(out)
		}
		return renderStats(out, flagOutput, s.engine.Stats())
	},
}

// recheck re-detects after ev. A removed file is only dropped from the index.
// An emptied file is dropped too, since Detect skips empty content and the
// stale references would otherwise linger.
func recheck(ctx context.Context, s *session, ev watch.Event) ([]*friction.Point, bool) {
	if ev.Removed {
		s.engine.Forget(ev.Path)
		return nil, false
	}
	data, err := os.ReadFile(ev.Path)
	if err != nil {
		s.log.WithError(err).WithField("file", ev.Path).Debug("changed file not readable")
		return nil, false
	}
	s.log.WithFields(logrus.Fields{"file": ev.Path}).Debug("re-checking")
	if len(data) == 0 {
		s.engine.Forget(ev.Path)
		return s.engine.Detect(ctx, friction.DetectionContext{CheckPackageJSON: true}), true
	}
	return s.engine.Detect(ctx, friction.DetectionContext{
		FilePath:         ev.Path,
		Content:          string(data),
		CheckPackageJSON: true,
	}), true
}

// pointKey identifies the same friction across detection passes.
func pointKey(p *friction.Point) string {
	return string(p.DependencyType) + "|" + p.DependencyName + "|" + p.Location.File
}
