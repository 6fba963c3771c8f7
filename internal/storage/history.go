package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fta/internal/metrics"
)

var (
	// ErrRunNotFound is returned when no run matches an id or prefix.
	ErrRunNotFound = errors.New("run not found")
	// ErrAmbiguousRun is returned when a prefix matches more than one run.
	ErrAmbiguousRun = errors.New("run id prefix is ambiguous")
)

// Run summarizes one recorded analysis.
type Run struct {
	ID        string
	Root      string
	StartedAt time.Time
	FileCount int
	MaxScore  float64
	AvgScore  float64
}

// RunFile is one file's result within a recorded run.
type RunFile struct {
	FileName  string
	FTAScore  float64
	Cyclo     int
	LineCount int
}

// History records completed runs.
type History struct {
	db *DB
}

// NewHistory creates a history store on db
func NewHistory(db *DB) *History {
	return &History{db: db}
}

// Record stores a run and its files under a fresh UUID.
func (h *History) Record(ctx context.Context, root string, startedAt time.Time, files []metrics.FileMetrics) (*Run, error) {
	run := &Run{
		ID:        uuid.New().String(),
		Root:      root,
		StartedAt: startedAt.UTC(),
		FileCount: len(files),
	}
	var total float64
	for _, f := range files {
		total += f.FTAScore
		if f.FTAScore > run.MaxScore {
			run.MaxScore = f.FTAScore
		}
	}
	if len(files) > 0 {
		run.AvgScore = total / float64(len(files))
	}

	err := h.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO runs (id, root, started_at, file_count, max_score, avg_score)
			VALUES (?, ?, ?, ?, ?, ?)
		`, run.ID, run.Root, run.StartedAt.Format(timeLayout), run.FileCount, run.MaxScore, run.AvgScore)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO run_files (run_id, file_name, fta_score, cyclo, line_count)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare run file insert: %w", err)
		}
		defer stmt.Close()

		for _, f := range files {
			if _, err := stmt.ExecContext(ctx, run.ID, f.FileName, f.FTAScore, f.Cyclo, f.LineCount); err != nil {
				return fmt.Errorf("failed to insert run file %s: %w", f.FileName, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first. A limit of 0 or less
// returns every run.
func (h *History) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := h.db.conn.QueryContext(ctx, `
		SELECT id, root, started_at, file_count, max_score, avg_score
		FROM runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// ResolveRun finds a run by full id or unique id prefix.
func (h *History) ResolveRun(ctx context.Context, idOrPrefix string) (*Run, error) {
	if idOrPrefix == "" {
		return nil, ErrRunNotFound
	}
	rows, err := h.db.conn.QueryContext(ctx, `
		SELECT id, root, started_at, file_count, max_score, avg_score
		FROM runs
		WHERE id = ? OR substr(id, 1, ?) = ?
		LIMIT 2
	`, idOrPrefix, len(idOrPrefix), idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve run: %w", err)
	}
	defer rows.Close()

	var found []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, idOrPrefix)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousRun, idOrPrefix)
	}
}

// RunFiles returns the files of run id, highest score first.
func (h *History) RunFiles(ctx context.Context, id string) ([]RunFile, error) {
	var exists int
	err := h.db.conn.QueryRowContext(ctx, "SELECT 1 FROM runs WHERE id = ?", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up run: %w", err)
	}

	rows, err := h.db.conn.QueryContext(ctx, `
		SELECT file_name, fta_score, cyclo, line_count
		FROM run_files
		WHERE run_id = ?
		ORDER BY fta_score DESC, file_name ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list run files: %w", err)
	}
	defer rows.Close()

	files := []RunFile{}
	for rows.Next() {
		var f RunFile
		if err := rows.Scan(&f.FileName, &f.FTAScore, &f.Cyclo, &f.LineCount); err != nil {
			return nil, fmt.Errorf("failed to scan run file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func scanRun(rows *sql.Rows) (*Run, error) {
	var run Run
	var startedAt string
	if err := rows.Scan(&run.ID, &run.Root, &startedAt, &run.FileCount, &run.MaxScore, &run.AvgScore); err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	t, err := time.Parse(timeLayout, startedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid started_at %q: %w", startedAt, err)
	}
	run.StartedAt = t
	return &run, nil
}
