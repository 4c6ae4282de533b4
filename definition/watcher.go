package definition

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 100 * time.Millisecond

// Watcher reloads a definition file whenever it changes and hands each successfully
// parsed definition to a callback. A file that fails to load is logged and skipped; the
// previous definition stays in effect.
type Watcher struct {
	path     string
	onChange func(*Definition)
	debounce time.Duration
	logger   *zap.Logger
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long the file must be quiet before it is reloaded.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger sets the logger for reload results.
func WithWatcherLogger(logger *zap.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWatcher creates a watcher that calls onChange with every definition loaded from path.
// Nothing is watched until Run is called.
func NewWatcher(path string, onChange func(*Definition), opts ...WatcherOption) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		onChange: onChange,
		debounce: defaultDebounce,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run loads the definition once, delivers it, and then watches for changes until ctx is done.
// The containing directory is watched so that editors replacing the file by rename are seen.
// Run returns an error only if the watch cannot be set up or the first load fails.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	def, err := Load(w.path)
	if err != nil {
		return err
	}
	w.onChange(def)

	var (
		debounce *time.Timer
		reload   <-chan time.Time
	)
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(w.debounce)
			} else {
				debounce.Reset(w.debounce)
			}
			reload = debounce.C

		case <-reload:
			reload = nil
			def, err := Load(w.path)
			if err != nil {
				w.logger.Warn("definition reload failed", zap.String("path", w.path), zap.Error(err))
				continue
			}
			w.logger.Info("definition reloaded",
				zap.String("path", w.path),
				zap.String("machine", def.Name),
				zap.Int("states", len(def.States)))
			w.onChange(def)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("definition watch error", zap.String("path", w.path), zap.Error(err))
		}
	}
}
