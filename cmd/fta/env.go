package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"fta/internal/config"
	ftaerrors "fta/internal/errors"
	"fta/internal/slogutil"
	"fta/internal/storage"
)

// Flags that override fta.json. Only flags set on the command line apply.
var (
	formatFlag          string
	outputLimitFlag     int
	scoreCapFlag        int
	includeCommentsFlag bool
	excludeUnderFlag    int
	workersFlag         int
	cacheFlag           bool
	noHistoryFlag       bool
)

func addAnalysisFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&formatFlag, "format", "table", "Output format (table, json, csv)")
	f.IntVar(&outputLimitFlag, "output-limit", 0, "Maximum number of files to list (config default: 5000)")
	f.IntVar(&scoreCapFlag, "score-cap", 0, "Fail when any file scores above this value (config default: 1000)")
	f.BoolVar(&includeCommentsFlag, "include-comments", false, "Count comment-only lines")
	f.IntVar(&excludeUnderFlag, "exclude-under", 0, "Skip files with fewer lines than this (config default: 6)")
	f.IntVar(&workersFlag, "workers", 0, "Number of parallel parsers (default: GOMAXPROCS)")
	f.BoolVar(&cacheFlag, "cache", false, "Reuse results for unchanged files from .fta/fta.db")
	f.BoolVar(&noHistoryFlag, "no-history", false, "Do not record this run in .fta/fta.db")
}

// loadConfig reads the configuration for root and applies flag overrides.
func loadConfig(cmd *cobra.Command, root string) (*config.Config, error) {
	cfg, err := config.LoadConfig(root, configPathFlag)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("output-limit") {
		cfg.OutputLimit = outputLimitFlag
	}
	if flags.Changed("score-cap") {
		cfg.ScoreCap = scoreCapFlag
	}
	if flags.Changed("include-comments") {
		cfg.IncludeComments = includeCommentsFlag
	}
	if flags.Changed("exclude-under") {
		cfg.ExcludeUnder = excludeUnderFlag
	}
	if flags.Changed("workers") {
		cfg.Workers = workersFlag
	}
	if flags.Changed("cache") {
		cfg.Storage.Cache = cacheFlag
	}
	if noHistoryFlag {
		cfg.Storage.History = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, ftaerrors.New(ftaerrors.ConfigInvalid, "invalid command line option", err)
	}
	return cfg, nil
}

// newLogger builds the command logger. The returned func closes a log file
// opened by --log-file.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	opts := slogutil.Options{
		Quiet:      quietFlag,
		Verbosity:  verbosityFlag,
		File:       logFileFlag,
		MaxSize:    "10MB",
		MaxBackups: 3,
	}
	if cfg != nil {
		opts.Format = cfg.Logging.Format
		opts.ConfigLevel = cfg.Logging.Level
	}

	logger, closer, err := slogutil.Setup(os.Stderr, opts)
	if err != nil {
		return nil, nil, ftaerrors.New(ftaerrors.IOError, "open log file", err)
	}
	return logger, func() {
		if closer != nil {
			_ = closer.Close()
		}
	}, nil
}

// storageDir resolves storage.dir against the project root.
func storageDir(root string, cfg *config.Config) string {
	if filepath.IsAbs(cfg.Storage.Dir) {
		return cfg.Storage.Dir
	}
	return filepath.Join(root, cfg.Storage.Dir)
}

// stores bundles the optional cache and history. The zero value disables both.
type stores struct {
	db      *storage.DB
	cache   *storage.Cache
	history *storage.History
}

// openStores opens the database when the cache or history is enabled. A
// database that cannot be opened disables both with a warning.
func openStores(root string, cfg *config.Config, logger *slog.Logger) *stores {
	st := &stores{}
	if !cfg.Storage.Cache && !cfg.Storage.History {
		return st
	}

	db, err := storage.Open(storageDir(root, cfg), logger)
	if err != nil {
		logger.Warn("Storage unavailable; cache and history are disabled", "error", err)
		return st
	}
	st.db = db

	if cfg.Storage.Cache {
		cache, err := storage.NewCache(db)
		if err != nil {
			logger.Warn("Cache unavailable", "error", err)
		} else {
			st.cache = cache
		}
	}
	if cfg.Storage.History {
		st.history = storage.NewHistory(db)
	}
	return st
}

func (s *stores) Close() {
	if s.cache != nil {
		_ = s.cache.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}

// openDB opens the database for commands that read it directly.
func openDB(root string, cfg *config.Config, logger *slog.Logger) (*storage.DB, error) {
	dir := storageDir(root, cfg)
	if _, err := os.Stat(filepath.Join(dir, storage.FileName)); err != nil {
		return nil, ftaerrors.New(ftaerrors.IOError, fmt.Sprintf("no fta database in %s", dir), err)
	}
	db, err := storage.Open(dir, logger)
	if err != nil {
		return nil, ftaerrors.New(ftaerrors.IOError, "open fta database", err)
	}
	return db, nil
}

// rootArg returns the project root argument, defaulting to ".".
func rootArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
