package cli

import (
	"fmt"
	"os"

	"github.com/agentx-labs/frictionless/internal/branding"
	"github.com/agentx-labs/frictionless/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	flagConfig         string
	flagRoot           string
	flagPackageManager string
	flagLogLevel       string
	flagOutput         string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` finds the packages your JavaScript and TypeScript sources import
but that are not installed, declared but missing, or installed at the wrong
version, and installs them with the project's own package manager.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagConfig != "" {
			config.SetFile(flagConfig)
		}
		config.Load()
		switch flagOutput {
		case outputText, outputJSON, outputYAML:
			return nil
		default:
			return fmt.Errorf("unknown output format %q: use %s, %s or %s", flagOutput, outputText, outputJSON, outputYAML)
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (default ~/"+branding.HomeDir()+"/config.yaml)")
	pf.StringVarP(&flagRoot, "root", "C", ".", "Project directory containing package.json")
	pf.StringVar(&flagPackageManager, "package-manager", "", "Force a package manager (npm, yarn, pnpm)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVarP(&flagOutput, "output", "o", outputText, "Output format (text, json, yaml)")
	bindFlags()
}

// bindFlags lets persistent flags override config file and environment.
func bindFlags() {
	pf := rootCmd.PersistentFlags()
	_ = viper.BindPFlag(config.KeyPackageManager, pf.Lookup("package-manager"))
	_ = viper.BindPFlag(config.KeyLogLevel, pf.Lookup("log-level"))
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}
