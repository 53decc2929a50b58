// Package watcher re-runs a callback when watched documents change.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"docvet/internal/logger"
)

// Watcher coalesces bursts of file events into single callbacks.
type Watcher struct {
	paths    []string
	debounce time.Duration
	log      *zap.SugaredLogger
}

// New creates a Watcher for the given files and directories. Files are
// watched through their parent directory so editors that save by rename are
// still noticed.
func New(paths []string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	return &Watcher{paths: paths, debounce: debounce, log: logger.For(logger.ComponentWatcher)}
}

// Run blocks until ctx is done, calling onChange once per quiet period after
// a change. Callbacks never overlap.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	// files holds watched file paths; dirs holds directories watched as a whole.
	files := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range w.paths {
		clean := filepath.Clean(p)
		dir := clean
		if info, err := os.Stat(clean); err != nil || !info.IsDir() {
			files[clean] = true
			dir = filepath.Dir(clean)
		} else {
			dirs[clean] = true
		}
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	relevant := func(name string) bool {
		name = filepath.Clean(name)
		return files[name] || dirs[filepath.Dir(name)]
	}

	// fire is nil while idle; each relevant event restarts the quiet period.
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod || !relevant(ev.Name) {
				continue
			}
			w.log.Debugw("change detected", "path", ev.Name, "op", ev.Op.String())
			fire = time.After(w.debounce)

		case <-fire:
			fire = nil
			onChange(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("watch error", "error", err)
		}
	}
}
