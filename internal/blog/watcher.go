package blog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-pacer/internal/logging"
	"github.com/goliatone/go-pacer/pkg/interfaces"
)

// DefaultWatchDebounce groups editor save bursts into a single reload.
const DefaultWatchDebounce = 250 * time.Millisecond

// Watcher reloads posts when files under the content directory change.
type Watcher struct {
	dir      string
	debounce time.Duration
	onChange func(context.Context) error
	logger   interfaces.Logger
}

// NewWatcher returns a watcher for dir that calls onChange after changes
// settle for debounce.
func NewWatcher(dir string, debounce time.Duration, onChange func(context.Context) error, logger interfaces.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		onChange: onChange,
		logger:   logging.Ensure(logger),
	}
}

// Run blocks until ctx is cancelled. Reload failures are logged and the
// watcher keeps running.
func (w *Watcher) Run(ctx context.Context) error {
	if w.onChange == nil {
		return errors.New("blog watcher: change handler required")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("blog watcher: %w", err)
	}
	defer fsw.Close()

	if err := addRecursive(fsw, w.dir); err != nil {
		return err
	}
	w.logger.Info("blog.watch.started", "dir", w.dir)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			w.logger.Info("blog.watch.stopped", "dir", w.dir)
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				w.watchCreated(fsw, event.Name)
			}
			if !relevant(event) {
				continue
			}
			w.logger.Debug("blog.watch.event", "path", event.Name, "op", event.Op.String())
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
			pending = true
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("blog.watch.error", "error", err)
		case <-timer.C:
			pending = false
			if err := w.onChange(ctx); err != nil {
				w.logger.Error("blog.watch.reload_failed", "error", err)
			}
		}
	}
}

// watchCreated adds a watch for a new sub-directory. Paths removed before
// the walk reaches them are ignored.
func (w *Watcher) watchCreated(fsw *fsnotify.Watcher, path string) {
	if err := addRecursive(fsw, path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		w.logger.Warn("blog.watch.add_failed", "path", path, "error", err)
	}
}

func relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	return true
}

func addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("blog watcher: walk %s: %w", root, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("blog watcher: watch %s: %w", path, err)
		}
		return nil
	})
}
