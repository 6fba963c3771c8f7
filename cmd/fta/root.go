package main

import (
	"github.com/spf13/cobra"

	"fta/internal/version"
)

var (
	configPathFlag string
	verbosityFlag  int
	quietFlag      bool
	logFileFlag    string
)

var rootCmd = &cobra.Command{
	Use:   "fta [path]",
	Short: "FTA - Fast TypeScript Analyzer",
	Long: `FTA scores the complexity of JavaScript and TypeScript files.

Each file gets Halstead metrics, a cyclomatic complexity and an FTA score
between 0 and 100; higher scores mean harder to maintain code. Files are
listed highest score first.

Examples:
  fta .
  fta --format json src
  fta --score-cap 60 --output-limit 20 .`,
	Args:          cobra.MaximumNArgs(1),
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAnalyze,
}

func init() {
	rootCmd.SetVersionTemplate("fta {{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPathFlag, "config-path", "", "Path to a config file (default: <path>/fta.json)")
	pf.CountVarP(&verbosityFlag, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	pf.BoolVarP(&quietFlag, "quiet", "q", false, "Suppress all log output")
	pf.StringVar(&logFileFlag, "log-file", "", "Write logs to this file instead of stderr")

	addAnalysisFlags(rootCmd)
}
