// Package watcher reports batches of source file changes under a project root.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType represents the type of file system event
type EventType int

const (
	EventCreate EventType = iota
	EventModify
	EventDelete
	EventRename
)

// String returns a string representation of the event type
func (e EventType) String() string {
	switch e {
	case EventCreate:
		return "create"
	case EventModify:
		return "modify"
	case EventDelete:
		return "delete"
	case EventRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Event is a change to one source file. Path is slash separated and
// relative to the watched root.
type Event struct {
	Type      EventType
	Path      string
	Timestamp time.Time
}

// Filter decides which files produce events and which directories are
// watched. *walker.Walker satisfies it.
type Filter interface {
	Accept(rel string) bool
	SkipDir(rel string) bool
}

// ChangeHandler receives each debounced batch. Calls never overlap.
type ChangeHandler func(ctx context.Context, events []Event)

// Config contains watcher configuration
type Config struct {
	Debounce time.Duration
}

// DefaultConfig returns the default watcher configuration
func DefaultConfig() Config {
	return Config{Debounce: 300 * time.Millisecond}
}

// Watcher watches a directory tree with fsnotify.
type Watcher struct {
	root    string
	filter  Filter
	logger  *slog.Logger
	handler ChangeHandler

	fs        *fsnotify.Watcher
	debouncer *BatchDebouncer
	batches   chan []Event
	done      chan struct{}
}

// New creates a watcher for root. Nothing is watched until Run.
func New(root string, filter Filter, cfg Config, logger *slog.Logger, handler ChangeHandler) (*Watcher, error) {
	if handler == nil {
		return nil, fmt.Errorf("watcher: nil change handler")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultConfig().Debounce
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		root:    absRoot,
		filter:  filter,
		logger:  logger,
		handler: handler,
		fs:      fsw,
		batches: make(chan []Event),
		done:    make(chan struct{}),
	}
	w.debouncer = NewBatchDebouncer(cfg.Debounce, w.deliver)
	return w, nil
}

// Run watches until ctx is cancelled and then releases the watcher. The
// handler runs on the calling goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		w.debouncer.Cancel()
		close(w.done)
		_ = w.fs.Close()
	}()

	if err := w.addTree(w.root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.root, err)
	}
	w.logger.Info("Watching for changes", "root", w.root)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("File watcher error", "error", err)

		case batch := <-w.batches:
			w.logger.Debug("Changes detected", "count", len(batch))
			w.handler(ctx, batch)
		}
	}
}

// deliver hands a batch to the Run loop.
func (w *Watcher) deliver(events []Event) {
	select {
	case w.batches <- events:
	case <-w.done:
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	rel, ok := w.rel(event.Name)
	if !ok {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if w.skipDir(rel, filepath.Base(event.Name)) {
				return
			}
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("Failed to watch new directory", "path", rel, "error", err)
				return
			}
			w.enqueueExisting(event.Name)
			return
		}
	}

	if !w.filter.Accept(rel) {
		return
	}

	var typ EventType
	switch {
	case event.Has(fsnotify.Create):
		typ = EventCreate
	case event.Has(fsnotify.Write):
		typ = EventModify
	case event.Has(fsnotify.Remove):
		typ = EventDelete
	case event.Has(fsnotify.Rename):
		typ = EventRename
	default:
		return
	}
	w.debouncer.Add(Event{Type: typ, Path: rel, Timestamp: time.Now()})
}

// addTree watches dir and every directory below it that is not skipped.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if rel, ok := w.rel(p); ok && w.skipDir(rel, d.Name()) {
			return filepath.SkipDir
		}
		return w.fs.Add(p)
	})
}

// enqueueExisting reports files already present in a directory that appeared
// after watching started.
func (w *Watcher) enqueueExisting(dir string) {
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if rel, ok := w.rel(p); ok && w.filter.Accept(rel) {
			w.debouncer.Add(Event{Type: EventCreate, Path: rel, Timestamp: time.Now()})
		}
		return nil
	})
}

func (w *Watcher) skipDir(rel, name string) bool {
	return name == "node_modules" || w.filter.SkipDir(rel)
}

func (w *Watcher) rel(p string) (string, bool) {
	rel, err := filepath.Rel(w.root, p)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || len(rel) > 2 && rel[:3] == "../" {
		return "", false
	}
	return rel, true
}
