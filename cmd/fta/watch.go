package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"fta/internal/report"
	"fta/internal/runner"
	"fta/internal/watcher"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-run the analysis whenever source files change",
	Long: `Analyze the project, then watch it and print a fresh report after
every burst of changes to files the analysis would include. Stop with Ctrl-C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultConfig().Debounce, "Quiet period before re-running")
	addAnalysisFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	root := rootArg(args)

	format, err := report.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, root)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	st := openStores(root, cfg, logger)
	defer st.Close()

	r, err := runner.New(runner.Options{
		Config:  cfg,
		Cache:   st.cache,
		History: st.history,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := analyzeOnce(cmd.Context(), r, root, out, format, logger); err != nil {
		return err
	}

	w, err := watcher.New(root, r.Walker(), watcher.Config{Debounce: watchDebounce}, logger,
		func(ctx context.Context, events []watcher.Event) {
			fmt.Fprintf(out, "\n%d file(s) changed, re-running analysis...\n", len(events))
			if err := analyzeOnce(ctx, r, root, out, format, logger); err != nil {
				logger.Error("Analysis failed", "error", err)
			}
		})
	if err != nil {
		return err
	}
	return w.Run(cmd.Context())
}

// analyzeOnce runs and prints one analysis. A score cap breach is reported but
// does not stop watch mode.
func analyzeOnce(ctx context.Context, r *runner.Runner, root string, out io.Writer, format report.Format, logger *slog.Logger) error {
	res, err := r.Run(ctx, root)
	var capErr *runner.ScoreCapError
	if errors.As(err, &capErr) {
		logger.Warn("Score cap exceeded", "error", capErr.Error())
		err = nil
	}
	if err != nil {
		return err
	}
	return report.Write(out, res.Files, format, res.Elapsed)
}
