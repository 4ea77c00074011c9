// Package watch re-runs a callback when files under a set of directory trees
// change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Logger is the subset of the application logger used here.
type Logger interface {
	Warn(format string, args ...interface{})
}

// DefaultDebounce is the quiet period used when Run is given zero.
const DefaultDebounce = 300 * time.Millisecond

// Run watches every directory under roots and calls fn once per burst of
// write, create, remove or rename events, after debounce has passed without
// a new event. Directories created later are watched too. Run returns nil
// when ctx is cancelled.
func Run(ctx context.Context, roots []string, debounce time.Duration, fn func(), log Logger) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	for _, root := range roots {
		if err := addTree(w, root); err != nil {
			return err
		}
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if err := addTree(w, ev.Name); err != nil {
						log.Warn("Cannot watch %s: %v", ev.Name, err)
					}
				}
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("Watcher error: %v", err)

		case <-timer.C:
			fn()
		}
	}
}

// addTree adds root and every directory below it.
func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
