package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchResult reports one re-analysis pass triggered by a file change.
type WatchResult struct {
	Path    string
	Summary string
	Err     error
}

// Watch re-analyzes the given file whenever it changes, until ctx is
// cancelled. The file is read and analyzed once up front, then on every
// Write/Create event. Results (including failures) are delivered through
// onResult; a change that leaves the extracted text identical to the
// current context is skipped.
//
// The parent directory is watched rather than the file itself so that
// editors which replace files via rename keep triggering events.
func (a *App) Watch(ctx context.Context, path string, onResult func(WatchResult)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	// Initial pass so the user sees a summary immediately.
	a.analyzeFile(ctx, abs, onResult)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			a.analyzeFile(ctx, abs, onResult)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			// Watcher errors are non-fatal; keep watching.
			slog.Warn("watch: watcher error", "error", err)
		}
	}
}

// analyzeFile loads the file into the context and runs an analysis,
// reporting the outcome. An unchanged context is skipped silently.
func (a *App) analyzeFile(ctx context.Context, path string, onResult func(WatchResult)) {
	before := a.Session.Context
	if err := a.LoadContextFile(path); err != nil {
		onResult(WatchResult{Path: path, Err: err})
		return
	}
	if a.Session.Context == before && a.Session.Summary != "" {
		return // no effective change, keep the existing summary
	}
	summary, err := a.Analyze(ctx)
	onResult(WatchResult{Path: path, Summary: summary, Err: err})
}
