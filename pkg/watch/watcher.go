// Package watch reports source files that change under a directory tree.
package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/panbanda/mehen/internal/scanner"
	"github.com/panbanda/mehen/pkg/config"
	"github.com/panbanda/mehen/pkg/parser"
)

// DefaultDebounce is how long a file must stay untouched before it is
// reported.
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors a directory tree and reports changed source files in
// batches once they stop changing.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	config    *config.Config
	filter    *scanner.Filter
	debounce  time.Duration
	root      string

	mu      sync.Mutex
	pending map[string]time.Time
	onError func(error)
}

// NewWatcher creates a watcher for root. Directories named in the exclude
// section of cfg are not watched.
func NewWatcher(root string, cfg *config.Config, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		fsWatcher: fsWatcher,
		config:    cfg,
		debounce:  debounce,
		root:      abs,
		pending:   make(map[string]time.Time),
	}, nil
}

// SetFilter restricts reported files to those whose path relative to the
// root matches f.
func (w *Watcher) SetFilter(f *scanner.Filter) {
	w.filter = f
}

// OnError sets the handler of watch errors. They are dropped by default.
func (w *Watcher) OnError(fn func(error)) {
	w.onError = fn
}

// Watch blocks until ctx is done, calling fn with every batch of changed
// files. Batches are sorted and delivered one at a time.
func (w *Watcher) Watch(ctx context.Context, fn func(paths []string)) error {
	if err := w.addTree(w.root); err != nil {
		return err
	}

	ticker := time.NewTicker(w.debounce / 5)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			if w.onError != nil {
				w.onError(err)
			}

		case now := <-ticker.C:
			if ready := w.takeReady(now); len(ready) > 0 {
				fn(ready)
			}
		}
	}
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.excludedDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
}

func (w *Watcher) excludedDir(name string) bool {
	return slices.Contains(w.config.Exclude.Dirs, name)
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	path := event.Name

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !w.excludedDir(info.Name()) {
				if err := w.addTree(path); err != nil && w.onError != nil {
					w.onError(err)
				}
			}
			return
		}
	}

	if parser.DetectLanguage(path) == parser.LangUnknown {
		return
	}
	if rel, err := filepath.Rel(w.root, path); err == nil && !w.filter.Match(rel) {
		return
	}

	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

// takeReady removes and returns the files untouched for the debounce period.
func (w *Watcher) takeReady(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	slices.Sort(ready)
	return ready
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsWatcher.Close()
}

// WatchedDirs returns the directories being watched.
func (w *Watcher) WatchedDirs() []string {
	return w.fsWatcher.WatchList()
}

// IsStopped reports whether err only signals the end of a watch.
func IsStopped(err error) bool {
	return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
