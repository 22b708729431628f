package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/agentx-labs/frictionless/internal/friction"
	"github.com/agentx-labs/frictionless/internal/manifest"
	"github.com/agentx-labs/frictionless/internal/pkgmgr"
	"github.com/agentx-labs/frictionless/internal/similarity"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(suggestCmd)
}

// match is a declared dependency scored against the queried name.
type match struct {
	Name  string  `json:"name" yaml:"name"`
	Score float64 `json:"score" yaml:"score"`
}

// suggestion is the structured form of the suggest report.
type suggestion struct {
	Package         string   `json:"package" yaml:"package"`
	Severity        float64  `json:"severity" yaml:"severity"`
	Dev             bool     `json:"dev" yaml:"dev"`
	AutoInstallable bool     `json:"auto_installable" yaml:"auto_installable"`
	InstallCommand  string   `json:"install_command" yaml:"install_command"`
	Alternatives    []string `json:"alternatives" yaml:"alternatives"`
	Similar         []match  `json:"similar" yaml:"similar"`
}

var suggestCmd = &cobra.Command{
	Use:   "suggest <package>",
	Short: "Show how a package would be classified and installed",
	Long: `Show the severity, dev classification and install command that detection
would assign to a package, together with known alternatives and the declared
dependencies whose names are close enough to be a typo.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		name := args[0]
		dev := friction.IsDevDependency(name)
		res := suggestion{
			Package:         name,
			Severity:        friction.Severity(name),
			Dev:             dev,
			AutoInstallable: friction.IsAutoInstallable(name),
			Alternatives:    friction.Alternatives(name),
			Similar:         []match{},
		}
		if b := s.engine.Backend(); b != nil {
			res.InstallCommand = b.CommandLine(name, pkgmgr.InstallOptions{Dev: dev, NoSave: true})
		}
		if res.Alternatives == nil {
			res.Alternatives = []string{}
		}

		info, err := manifest.Load(s.engine.Root())
		if err != nil && !errors.Is(err, manifest.ErrNotFound) {
			s.log.WithError(err).Warn("could not load package.json")
		}
		for _, dep := range friction.TypoCandidates(name, info) {
			res.Similar = append(res.Similar, match{Name: dep, Score: similarity.Score(name, dep)})
		}
		sort.SliceStable(res.Similar, func(i, j int) bool {
			return res.Similar[i].Score > res.Similar[j].Score
		})

		out := cmd.OutOrStdout()
		if flagOutput != outputText {
			return writeStructured(out, flagOutput, res)
		}

		mode := "manual"
		if res.AutoInstallable {
			mode = "auto"
		}
		kind := "runtime"
		if res.Dev {
			kind = "dev"
		}
		fmt.Fprintf(out, "%s  severity %s  %s  %s\n", res.Package, severityLabel(res.Severity), kind, mode)
		if res.InstallCommand != "" {
			fmt.Fprintf(out, "  install: %s\n", res.InstallCommand)
		}
		for _, alt := range res.Alternatives {
			fmt.Fprintf(out, "  alternative: %s\n", alt)
		}
		for _, m := range res.Similar {
			fmt.Fprintf(out, "  did you mean: %s (%.2f)\n", m.Name, m.Score)
		}
		return nil
	},
}
