package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fta/internal/metrics"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), ".fta"), nil)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close database: %v", err)
		}
	})
	return db
}

func sampleMetrics(name string, score float64) metrics.FileMetrics {
	return metrics.FileMetrics{
		FileName:   name,
		Cyclo:      3,
		Halstead:   metrics.NewHalsteadMetrics(6, 8, 12, 12),
		LineCount:  10,
		FTAScore:   score,
		Assessment: metrics.Assess(score),
	}
}

func TestDatabaseInitialization(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".fta")
	db, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
		t.Fatalf("database file was not created: %v", err)
	}
	version, err := db.getSchemaVersion()
	if err != nil {
		t.Fatalf("getSchemaVersion() error = %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("schema version = %d, want %d", version, currentSchemaVersion)
	}
}

func TestReopenKeepsData(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".fta")
	ctx := context.Background()

	db, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := NewHistory(db).Record(ctx, "/repo", time.Now(), []metrics.FileMetrics{sampleMetrics("a.ts", 20)}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	db.Close()

	db, err = Open(dir, nil)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer db.Close()

	runs, err := NewHistory(db).ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("runs after reopen = %d, want 1", len(runs))
	}
}

func TestWithTx_Rollback(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO runs (id, root, started_at, file_count, max_score, avg_score)
			VALUES ('x', '/r', '2026-01-01T00:00:00.000000000Z', 0, 0, 0)`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx() error = %v, want boom", err)
	}

	runs, err := NewHistory(db).ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("rolled back insert is visible: %d runs", len(runs))
	}
}

func TestHashContent(t *testing.T) {
	a := HashContent([]byte("const x = 1;"))
	b := HashContent([]byte("const x = 2;"))

	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
	if a == b {
		t.Error("different content produced the same hash")
	}
	if a != HashContent([]byte("const x = 1;")) {
		t.Error("hash is not deterministic")
	}
	if strings.ToLower(a) != a {
		t.Error("hash should be lowercase hex")
	}
}

func TestCache_GetPut(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	cache, err := NewCache(db)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	defer cache.Close()

	want := sampleMetrics("src/a.ts", 41.5)
	hash := HashContent([]byte("source"))

	if _, ok, err := cache.Get(ctx, "src/a.ts", hash, false); err != nil || ok {
		t.Fatalf("Get() on empty cache = ok %v, err %v", ok, err)
	}

	if err := cache.PutAll(ctx, []CacheEntry{{Path: "src/a.ts", ContentHash: hash, Metrics: want}}); err != nil {
		t.Fatalf("PutAll() error = %v", err)
	}

	got, ok, err := cache.Get(ctx, "src/a.ts", hash, false)
	if err != nil || !ok {
		t.Fatalf("Get() = ok %v, err %v", ok, err)
	}
	if got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}

	tests := []struct {
		name            string
		path            string
		hash            string
		includeComments bool
	}{
		{"changed content", "src/a.ts", HashContent([]byte("edited")), false},
		{"other comment mode", "src/a.ts", hash, true},
		{"other path", "src/b.ts", hash, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok, err := cache.Get(ctx, tt.path, tt.hash, tt.includeComments); err != nil || ok {
				t.Errorf("Get() = ok %v, err %v, want a miss", ok, err)
			}
		})
	}
}

func TestCache_ReplaceCountClear(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	cache, err := NewCache(db)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	defer cache.Close()

	entries := []CacheEntry{
		{Path: "a.ts", ContentHash: "h1", Metrics: sampleMetrics("a.ts", 10)},
		{Path: "a.ts", ContentHash: "h1", IncludeComments: true, Metrics: sampleMetrics("a.ts", 12)},
		{Path: "b.ts", ContentHash: "h2", Metrics: sampleMetrics("b.ts", 20)},
	}
	if err := cache.PutAll(ctx, entries); err != nil {
		t.Fatalf("PutAll() error = %v", err)
	}
	// Same key, new hash replaces the row.
	if err := cache.PutAll(ctx, []CacheEntry{{Path: "b.ts", ContentHash: "h3", Metrics: sampleMetrics("b.ts", 30)}}); err != nil {
		t.Fatalf("PutAll() error = %v", err)
	}

	n, err := cache.Count(ctx)
	if err != nil || n != 3 {
		t.Fatalf("Count() = %d, %v, want 3", n, err)
	}
	got, ok, err := cache.Get(ctx, "b.ts", "h3", false)
	if err != nil || !ok || got.FTAScore != 30 {
		t.Errorf("Get(b.ts) = %+v, %v, %v", got, ok, err)
	}

	removed, err := cache.Clear(ctx)
	if err != nil || removed != 3 {
		t.Fatalf("Clear() = %d, %v, want 3", removed, err)
	}
	if n, _ := cache.Count(ctx); n != 0 {
		t.Errorf("Count() after Clear = %d", n)
	}
}

func TestHistory_RecordAndList(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	history := NewHistory(db)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first, err := history.Record(ctx, "/repo", base, []metrics.FileMetrics{
		sampleMetrics("a.ts", 20),
		sampleMetrics("b.ts", 40),
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if first.FileCount != 2 || first.MaxScore != 40 || first.AvgScore != 30 {
		t.Errorf("Record() summary = %+v", first)
	}

	second, err := history.Record(ctx, "/repo", base.Add(time.Hour), nil)
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if second.ID == first.ID {
		t.Error("run ids must be unique")
	}

	runs, err := history.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 || runs[0].ID != second.ID || runs[1].ID != first.ID {
		t.Fatalf("ListRuns() order = %+v", runs)
	}
	if !runs[1].StartedAt.Equal(base) {
		t.Errorf("StartedAt = %v, want %v", runs[1].StartedAt, base)
	}

	limited, err := history.ListRuns(ctx, 1)
	if err != nil || len(limited) != 1 {
		t.Errorf("ListRuns(1) = %d runs, %v", len(limited), err)
	}

	files, err := history.RunFiles(ctx, first.ID)
	if err != nil {
		t.Fatalf("RunFiles() error = %v", err)
	}
	if len(files) != 2 || files[0].FileName != "b.ts" || files[1].FileName != "a.ts" {
		t.Errorf("RunFiles() = %+v, want b.ts then a.ts", files)
	}

	empty, err := history.RunFiles(ctx, second.ID)
	if err != nil || len(empty) != 0 {
		t.Errorf("RunFiles(empty run) = %+v, %v", empty, err)
	}
}

func TestHistory_ResolveRun(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	history := NewHistory(db)

	run, err := history.Record(ctx, "/repo", time.Now(), nil)
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	for _, id := range []string{run.ID, run.ID[:8]} {
		got, err := history.ResolveRun(ctx, id)
		if err != nil || got.ID != run.ID {
			t.Errorf("ResolveRun(%q) = %v, %v", id, got, err)
		}
	}

	if _, err := history.ResolveRun(ctx, "zzzz"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("ResolveRun(unknown) error = %v, want ErrRunNotFound", err)
	}
	if _, err := history.ResolveRun(ctx, ""); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("ResolveRun(\"\") error = %v, want ErrRunNotFound", err)
	}
	if _, err := history.RunFiles(ctx, "zzzz"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("RunFiles(unknown) error = %v, want ErrRunNotFound", err)
	}
}
