package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/agentx-labs/frictionless/internal/friction"
	"github.com/spf13/cobra"
)

var (
	fixYes    bool
	fixDryRun bool
	fixStats  bool
)

func init() {
	fixCmd.Flags().BoolVarP(&fixYes, "yes", "y", false, "Install without asking for confirmation")
	fixCmd.Flags().BoolVar(&fixDryRun, "dry-run", false, "Show the install commands without running them")
	fixCmd.Flags().BoolVar(&fixStats, "stats", false, "Print elimination statistics when done")
	rootCmd.AddCommand(fixCmd)
}

var fixCmd = &cobra.Command{
	Use:   "fix [package...]",
	Short: "Detect dependency friction and install what is missing",
	Long: `Run detection over the project and eliminate every friction point by
installing the dependency with the active package manager. Points that need
a manual decision, such as packages behind a local or git path, are reported
but never installed.

Pass package names to restrict the fix to those dependencies.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		out := cmd.OutOrStdout()
		points, err := detectProject(cmd.Context(), s, nil, true)
		if err != nil {
			return err
		}
		points = filterPoints(points, args)

		if len(points) == 0 {
			return renderPoints(out, flagOutput, s.engine.Root(), nil)
		}

		if fixDryRun {
			for _, p := range points {
				fmt.Fprintln(out, p.InstallCommand)
			}
			return nil
		}

		if flagOutput == outputText {
			if err := renderPoints(out, flagOutput, s.engine.Root(), points); err != nil {
				return err
			}
		}

		if !fixYes && !s.settings.AutoFix {
			backend := "no package manager"
			if b := s.engine.Backend(); b != nil {
				backend = b.Name()
			}
			fmt.Fprintf(out, "\nInstall %d package(s) with %s? (Y/n) ", len(points), backend)
			reader := bufio.NewReader(cmd.InOrStdin())
			answer, _ := reader.ReadString('\n')
			answer = strings.TrimSpace(strings.ToLower(answer))
			if answer != "" && answer != "y" && answer != "yes" {
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}
		}

		ctx := cmd.Context()
		outcomes := make([]outcome, 0, len(points))
		if flagOutput == outputText {
			fmt.Fprintln(out)
		}
		for _, p := range points {
			s.engine.Eliminate(ctx, p)
			outcomes = append(outcomes, outcomeOf(p))
			if flagOutput == outputText {
				renderOutcome(out, p)
			}
		}

		if flagOutput != outputText {
			return writeStructured(out, flagOutput, outcomes)
		}

		eliminated := 0
		for _, o := range outcomes {
			if o.Eliminated {
				eliminated++
			}
		}
		fmt.Fprintln(out)
		printer.Fprintf(out, "%d of %d friction point(s) eliminated.\n", eliminated, len(outcomes))

		if fixStats {
			fmt.Fprintln(out)
			return renderStats(out, flagOutput, s.engine.Stats())
		}
		return nil
	},
}

// filterPoints keeps the points for the named dependencies. No names keeps
// everything.
func filterPoints(points []*friction.Point, names []string) []*friction.Point {
	if len(names) == 0 {
		return points
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var kept []*friction.Point
	for _, p := range points {
		if want[p.DependencyName] {
			kept = append(kept, p)
		}
	}
	return kept
}
