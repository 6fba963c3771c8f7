package main

import (
	"github.com/spf13/cobra"

	"fta/internal/config"
	"fta/internal/report"
	"fta/internal/storage"
)

var (
	historyLimit  int
	historyFormat string
	historyRoot   string
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List recorded runs, or the files of one run",
	Long: `Without arguments, list the most recent analyses recorded in .fta/fta.db.
With a run id (or a unique prefix of one), list that run's files.

Examples:
  fta history
  fta history --limit 50 --format json
  fta history 0f8fad5b`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of runs to list (0 for all)")
	historyCmd.Flags().StringVar(&historyFormat, "format", "table", "Output format (table, json)")
	historyCmd.Flags().StringVar(&historyRoot, "root", ".", "Project root whose history is read")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(historyFormat)
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfig(historyRoot, configPathFlag)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	db, err := openDB(historyRoot, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	history := storage.NewHistory(db)
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		runs, err := history.ListRuns(ctx, historyLimit)
		if err != nil {
			return err
		}
		return report.WriteRuns(out, runs, format)
	}

	run, err := history.ResolveRun(ctx, args[0])
	if err != nil {
		return err
	}
	files, err := history.RunFiles(ctx, run.ID)
	if err != nil {
		return err
	}
	return report.WriteRunFiles(out, files, format)
}
