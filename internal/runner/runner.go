// Package runner analyzes every source file of a project: it walks the tree,
// scores files on a bounded pool of parsers, and applies the output limit and
// score cap from the configuration.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"fta/internal/config"
	ftaerrors "fta/internal/errors"
	"fta/internal/metrics"
	"fta/internal/parse"
	"fta/internal/storage"
	"fta/internal/walker"
)

// Options configures a Runner.
type Options struct {
	Config  *config.Config
	Cache   *storage.Cache   // nil disables the analysis cache
	History *storage.History // nil disables run history
	Logger  *slog.Logger
}

// Runner runs whole-project analyses. It is safe to call Run repeatedly, for
// example from watch mode, but not concurrently.
type Runner struct {
	cfg     *config.Config
	cache   *storage.Cache
	history *storage.History
	logger  *slog.Logger
	walker  *walker.Walker
}

// RunResult is the outcome of one analysis.
type RunResult struct {
	Root string

	// Files are sorted by score, highest first, and truncated to output_limit.
	Files []metrics.FileMetrics

	Analyzed  int // files scored, before truncation
	Excluded  int // files under exclude_under lines
	Failed    int // files that could not be read or parsed
	CacheHits int

	RunID   string // empty when history is disabled or recording failed
	Elapsed time.Duration
}

// New creates a runner. It fails when the binary was built without the
// tree-sitter parser.
func New(opts Options) (*Runner, error) {
	if !parse.IsAvailable() {
		return nil, ftaerrors.New(ftaerrors.InternalError, "fta was built without cgo; the parser is unavailable", parse.ErrNoCGO)
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	w, err := walker.New(walker.Options{
		Extensions:         cfg.Extensions,
		ExcludeFilenames:   cfg.ExcludeFilenames,
		ExcludeDirectories: cfg.ExcludeDirectories,
	})
	if err != nil {
		return nil, ftaerrors.New(ftaerrors.ConfigInvalid, "invalid file filters", err)
	}

	return &Runner{
		cfg:     cfg,
		cache:   opts.Cache,
		history: opts.History,
		logger:  logger,
		walker:  w,
	}, nil
}

// Walker returns the file filter the runner applies.
func (r *Runner) Walker() *walker.Walker {
	return r.walker
}

// outcome is the per-file slot filled by a worker.
type outcome struct {
	metrics  metrics.FileMetrics
	ok       bool
	cached   bool
	excluded bool
	hash     string
}

// Run analyzes the project at root. When a file's score exceeds score_cap the
// result is returned together with a *ScoreCapError.
func (r *Runner) Run(ctx context.Context, root string) (*RunResult, error) {
	start := time.Now()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, ftaerrors.New(ftaerrors.IOError, "resolve project root", err)
	}
	if info, err := os.Stat(absRoot); err != nil {
		return nil, ftaerrors.New(ftaerrors.IOError, fmt.Sprintf("project root %s", root), err)
	} else if !info.IsDir() {
		return nil, ftaerrors.Newf(ftaerrors.IOError, "project root %s is not a directory", root)
	}

	files, err := r.walker.Walk(ctx, absRoot)
	if err != nil {
		return nil, ftaerrors.New(ftaerrors.IOError, "walk project", err)
	}
	r.logger.Debug("Discovered files", "root", absRoot, "count", len(files))

	outcomes, err := r.analyzeAll(ctx, files)
	if err != nil {
		return nil, err
	}

	res := &RunResult{Root: absRoot}
	var all []metrics.FileMetrics
	var fresh []storage.CacheEntry
	for i, o := range outcomes {
		switch {
		case !o.ok:
			res.Failed++
			continue
		case o.cached:
			res.CacheHits++
		case r.cache != nil:
			fresh = append(fresh, storage.CacheEntry{
				Path:            files[i].RelPath,
				ContentHash:     o.hash,
				IncludeComments: r.cfg.IncludeComments,
				Metrics:         o.metrics,
			})
		}
		if o.excluded {
			res.Excluded++
			continue
		}
		all = append(all, o.metrics)
	}

	sortResults(all)
	res.Analyzed = len(all)
	res.Files = all
	if len(res.Files) > r.cfg.OutputLimit {
		res.Files = res.Files[:r.cfg.OutputLimit]
	}

	if r.cache != nil {
		if err := r.cache.PutAll(ctx, fresh); err != nil {
			r.logger.Warn("Failed to update analysis cache", "error", err)
		}
	}
	if r.history != nil {
		run, err := r.history.Record(ctx, absRoot, start, all)
		if err != nil {
			r.logger.Warn("Failed to record run history", "error", err)
		} else {
			res.RunID = run.ID
		}
	}

	res.Elapsed = time.Since(start)
	r.logger.Info("Analysis complete",
		"files", res.Analyzed,
		"excluded", res.Excluded,
		"failed", res.Failed,
		"cache_hits", res.CacheHits,
		"elapsed", res.Elapsed,
	)

	if capErr := checkScoreCap(all, r.cfg.ScoreCap); capErr != nil {
		return res, capErr
	}
	return res, nil
}

// analyzeAll scores files on at most Workers goroutines, each holding one
// parser for the duration of a file.
func (r *Runner) analyzeAll(ctx context.Context, files []walker.File) ([]outcome, error) {
	outcomes := make([]outcome, len(files))
	if len(files) == 0 {
		return outcomes, nil
	}

	workers := r.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(files))

	parsers := make(chan *parse.Parser, workers)
	for range workers {
		parsers <- parse.NewParser()
	}
	defer func() {
		close(parsers)
		for p := range parsers {
			p.Close()
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			p := <-parsers
			defer func() { parsers <- p }()
			outcomes[i] = r.analyzeFile(gctx, p, f)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (r *Runner) analyzeFile(ctx context.Context, p *parse.Parser, f walker.File) outcome {
	source, err := os.ReadFile(f.Path)
	if err != nil {
		r.logger.Warn("Failed to read file", "path", f.RelPath, "error", err)
		return outcome{}
	}

	var o outcome
	if r.cache != nil {
		o.hash = storage.HashContent(source)
		fm, hit, err := r.cache.Get(ctx, f.RelPath, o.hash, r.cfg.IncludeComments)
		if err != nil {
			r.logger.Debug("Cache lookup failed", "path", f.RelPath, "error", err)
		} else if hit {
			fm.FileName = f.RelPath
			o.metrics, o.ok, o.cached = fm, true, true
			o.excluded = fm.LineCount < r.cfg.ExcludeUnder
			return o
		}
	}

	dialect := parse.DialectFromPath(f.Path)
	res, fellBack, err := p.ParseWithFallback(ctx, source, dialect)
	if err != nil {
		r.logger.Warn("Failed to analyze file", "path", f.RelPath, "error", err)
		return outcome{}
	}
	if fellBack {
		r.logger.Warn("File was parsed with the other dialect; the file extension may be incorrect",
			"path", f.RelPath,
			"expected", string(dialect),
			"actual", string(dialect.Other()),
		)
	}
	if len(res.Unknown) > 0 {
		r.logger.Debug("Unrecognized syntax node types", "path", f.RelPath, "types", res.Unknown)
	}

	lines := res.LineCount(r.cfg.IncludeComments)
	o.metrics = metrics.AnalyzeNamed(f.RelPath, res.Tree, lines)
	o.ok = true
	o.excluded = lines < r.cfg.ExcludeUnder
	return o
}

// sortResults orders by score, highest first, then by file name.
func sortResults(files []metrics.FileMetrics) {
	sort.Slice(files, func(i, j int) bool {
		if files[i].FTAScore != files[j].FTAScore {
			return files[i].FTAScore > files[j].FTAScore
		}
		return files[i].FileName < files[j].FileName
	})
}
