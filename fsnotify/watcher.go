// Package fsnotify watches a local dump directory for changes.
package fsnotify

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/fwojciec/schemadex"
)

// DefaultDebounce is how long the directory must stay quiet before a change
// is reported. Dumpers rewrite several files in a row.
const DefaultDebounce = 300 * time.Millisecond

// Watcher reports changes to the files of one directory.
type Watcher struct {
	dir      string
	debounce time.Duration
	names    map[string]bool
	logger   *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Defaults to DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithNames restricts the watcher to the given file names. By default any
// .json file counts.
func WithNames(names ...string) Option {
	return func(w *Watcher) {
		w.names = make(map[string]bool, len(names))
		for _, n := range names {
			w.names[filepath.Clean(filepath.FromSlash(n))] = true
		}
	}
}

// WithLogger sets the logger for change and error events.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// NewWatcher creates a Watcher for dir.
func NewWatcher(dir string, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.New(slog.DiscardHandler)
	}
	return w
}

// Run watches the directory until ctx is canceled, calling onChange once per
// burst of relevant events. onChange runs on the watching goroutine, so calls
// never overlap. Run returns nil when ctx is canceled.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return schemadex.Errorf(schemadex.EUNAVAILABLE, "watch %s: %v", w.dir, err)
	}
	w.logger.Debug("watching", "dir", w.dir)
	for _, sub := range w.subdirs() {
		if err := watcher.Add(sub); err != nil {
			return schemadex.Errorf(schemadex.EUNAVAILABLE, "watch %s: %v", sub, err)
		}
		w.logger.Debug("watching", "dir", sub)
	}

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	var pending bool

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("change", "file", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)
			pending = true

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			onChange(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "dir", w.dir, "err", err)
		}
	}
}

// subdirs returns the directories below dir that hold named files. fsnotify
// watches are not recursive, so each one needs its own watch.
func (w *Watcher) subdirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	for name := range w.names {
		parent := filepath.Dir(name)
		if parent == "." || seen[parent] {
			continue
		}
		seen[parent] = true
		dirs = append(dirs, filepath.Join(w.dir, parent))
	}
	sort.Strings(dirs)
	return dirs
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	rel, err := filepath.Rel(w.dir, event.Name)
	if err != nil {
		return false
	}
	if w.names != nil {
		return w.names[rel]
	}
	return filepath.Ext(rel) == ".json"
}
