// Package watch reruns a generation whenever a preset file changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/phyllo/internal/logger"
)

// DefaultDebounce is how long the file must stay quiet before a rerun.
const DefaultDebounce = 300 * time.Millisecond

// ErrNoPath is returned when there is no file to watch.
var ErrNoPath = errors.New("watch: no config file to watch")

// Func is called after each settled change.
type Func func(ctx context.Context) error

// Stats tracks watcher activity.
type Stats struct {
	Events    int
	Runs      int
	Errors    int
	LastRun   time.Time
	LastError string
}

// Watcher watches a single file. Editors often replace files instead of
// writing in place, so the parent directory is watched and events are
// filtered by name.
type Watcher struct {
	path     string
	debounce time.Duration
	fn       Func
	log      *zap.Logger

	mu      sync.Mutex
	pending time.Time // zero when no change is waiting
	stats   Stats
}

// New returns a watcher for path. A non-positive debounce uses
// DefaultDebounce.
func New(path string, debounce time.Duration, fn Func) (*Watcher, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:     abs,
		debounce: debounce,
		fn:       fn,
		log:      logger.Named("watch"),
	}, nil
}

// Stats returns a snapshot of the watcher counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Run blocks until ctx is cancelled, calling fn once the watched file has
// been quiet for the debounce interval after a change. Errors from fn are
// logged and counted; they do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.log.Info("watching", zap.String("path", w.path), zap.Duration("debounce", w.debounce))

	tick := time.NewTicker(w.debounce / 4)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case now := <-tick.C:
			if w.due(now) {
				w.fire(ctx)
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != w.path {
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return
	}
	w.log.Debug("change", zap.String("op", ev.Op.String()))

	w.mu.Lock()
	w.stats.Events++
	w.pending = time.Now()
	w.mu.Unlock()
}

// due reports whether a pending change has settled, clearing it if so.
func (w *Watcher) due(now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending.IsZero() || now.Sub(w.pending) < w.debounce {
		return false
	}
	w.pending = time.Time{}
	return true
}

func (w *Watcher) fire(ctx context.Context) {
	err := w.fn(ctx)

	w.mu.Lock()
	w.stats.Runs++
	w.stats.LastRun = time.Now()
	if err != nil {
		w.stats.Errors++
		w.stats.LastError = err.Error()
	}
	w.mu.Unlock()

	if err != nil {
		w.log.Warn("regeneration failed", zap.Error(err))
	}
}
