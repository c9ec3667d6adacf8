// Package watch re-runs lint when script files change. The watcher
// batches filesystem events with a short debounce so editors that write
// multiple times per save trigger one re-lint, and the TUI presents the
// latest results.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce batches rapid successive writes into one change set.
const defaultDebounce = 100 * time.Millisecond

// Watcher reports debounced changes to script files under a directory.
type Watcher struct {
	dir        string
	extensions []string
	debounce   time.Duration
	logger     *slog.Logger
}

// NewWatcher creates a watcher for script files under dir.
func NewWatcher(dir string, extensions []string, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{
		dir:        dir,
		extensions: extensions,
		debounce:   defaultDebounce,
		logger:     logger,
	}
}

// Run starts watching and returns a channel of change batches. Each
// batch holds the distinct paths that changed since the previous batch,
// sorted. The channel closes when ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) (<-chan []string, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watchDirRecursive(fsw, w.dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	out := make(chan []string, 1)
	go w.loop(ctx, fsw, out)
	return out, nil
}

// loop collects events until they go quiet for the debounce interval,
// then emits the batch.
func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, out chan<- []string) {
	defer close(out)
	defer func() { _ = fsw.Close() }()

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("file event", "op", event.Op.String(), "path", event.Name)
			pending[event.Name] = struct{}{}

			// A fresh timer per event avoids the stale-fire race that
			// Reset has when the old timer already expired.
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			timerCh = timer.C

		case <-timerCh:
			batch := make([]string, 0, len(pending))
			for path := range pending {
				batch = append(batch, path)
			}
			sort.Strings(batch)
			pending = make(map[string]struct{})
			timer, timerCh = nil, nil

			select {
			case out <- batch:
			case <-ctx.Done():
				return
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// relevant filters events down to script file changes. Removals and
// renames count so deleted scripts drop out of the results.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	ext := filepath.Ext(base)
	for _, e := range w.extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// watchDirRecursive adds a directory and all subdirectories to the
// watcher, skipping hidden directories.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if name := info.Name(); path != dir && strings.HasPrefix(name, ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
