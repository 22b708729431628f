package cli

import (
	"fmt"

	"github.com/agentx-labs/frictionless/internal/pkgmgr"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(backendCmd)
}

// backendInfo is the structured form of the backend report.
type backendInfo struct {
	Active   string          `json:"active" yaml:"active"`
	Detected []string        `json:"detected" yaml:"detected"`
	Commands pkgmgr.Commands `json:"commands" yaml:"commands"`
}

var backendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Show which package manager will be used",
	Long: `Show the package manager selected for the project and the lock files that
led to the choice. Lock files are checked in the order pnpm, yarn, npm; npm is
used when none is present. Set package_manager or pass --package-manager to
override the choice.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		info := backendInfo{
			Detected: pkgmgr.Detected(pkgmgr.Defaults(pkgmgr.Config{Root: s.engine.Root()})),
		}
		if b := s.engine.Backend(); b != nil {
			info.Active = b.Name()
			info.Commands = b.Commands()
		}
		if info.Detected == nil {
			info.Detected = []string{}
		}

		out := cmd.OutOrStdout()
		if flagOutput != outputText {
			return writeStructured(out, flagOutput, info)
		}

		fmt.Fprintf(out, "Active:   %s\n", info.Active)
		switch len(info.Detected) {
		case 0:
			fmt.Fprintln(out, "Detected: no lock file (defaulting to npm)")
		case 1:
			fmt.Fprintf(out, "Detected: %s\n", info.Detected[0])
		default:
			fmt.Fprintf(out, "Detected: %v %s\n", info.Detected, yellow("(more than one lock file)"))
		}
		fmt.Fprintf(out, "Install:  %s\n", info.Commands.Install)
		fmt.Fprintf(out, "Add:      %s\n", info.Commands.Add)
		fmt.Fprintf(out, "Remove:   %s\n", info.Commands.Remove)
		fmt.Fprintf(out, "List:     %s\n", info.Commands.List)
		return nil
	},
}
