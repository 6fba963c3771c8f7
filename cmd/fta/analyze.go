package main

import (
	"github.com/spf13/cobra"

	"fta/internal/report"
	"fta/internal/runner"
)

func runAnalyze(cmd *cobra.Command, args []string) error {
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

	// A score cap breach reports the offender instead of the table.
	res, err := r.Run(cmd.Context(), root)
	if err != nil {
		return err
	}
	return report.Write(cmd.OutOrStdout(), res.Files, format, res.Elapsed)
}
