package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alnah/go-termblog/internal/logging"
)

// DefaultDebounce is the quiet period before a rebuild starts.
const DefaultDebounce = 200 * time.Millisecond

// ErrWatch indicates the file watcher could not be set up.
var ErrWatch = errors.New("watch failed")

// RebuildFunc rebuilds the site. A returned error is logged and the
// previous output stays in place.
type RebuildFunc func(ctx context.Context) error

// Watcher rebuilds the site when files under its directories change.
type Watcher struct {
	dirs     []string
	rebuild  RebuildFunc
	debounce time.Duration
	log      logging.Logger
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets the quiet period before a rebuild.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatchLogger sets the watcher logger.
func WithWatchLogger(l logging.Logger) WatchOption {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// NewWatcher creates a watcher over dirs. Directories are watched
// recursively; hidden ones are skipped.
func NewWatcher(rebuild RebuildFunc, dirs []string, opts ...WatchOption) *Watcher {
	w := &Watcher{
		dirs:     dirs,
		rebuild:  rebuild,
		debounce: DefaultDebounce,
		log:      logging.NoOp(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is done. Bursts of events collapse into one
// rebuild after the debounce period.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWatch, err)
	}
	defer fw.Close()

	watched := 0
	for _, dir := range w.dirs {
		n, err := addTree(fw, dir)
		if err != nil {
			w.log.Warn("not watching directory", "dir", dir, "error", err)
			continue
		}
		watched += n
	}
	if watched == 0 {
		return fmt.Errorf("%w: no directory to watch", ErrWatch)
	}
	w.log.Info("watching for changes", "dirs", strings.Join(w.dirs, ","))

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ignoreEvent(event) {
				continue
			}
			if event.Has(fsnotify.Create) {
				// New directories are not watched until added.
				if _, err := addTree(fw, event.Name); err != nil {
					w.log.Debug("watch new path", "path", event.Name, "error", err)
				}
			}
			w.log.Trace("change", "path", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)
			pending = true

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", "error", err)

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			w.runRebuild(ctx)
		}
	}
}

func (w *Watcher) runRebuild(ctx context.Context) {
	start := time.Now()
	if err := w.rebuild(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		w.log.Error("rebuild failed, serving previous output", "error", err)
		return
	}
	w.log.Info("site rebuilt", "duration", time.Since(start).Round(time.Millisecond).String())
}

// addTree adds dir and its non-hidden subdirectories. A plain file adds
// nothing.
func addTree(fw *fsnotify.Watcher, dir string) (int, error) {
	added := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return err
		}
		added++
		return nil
	})
	return added, err
}

// ignoreEvent filters permission changes and editor scratch files.
func ignoreEvent(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return true
	}
	base := filepath.Base(ev.Name)
	return strings.HasPrefix(base, ".") ||
		strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".tmp")
}
