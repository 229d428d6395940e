package server

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the Watcher waits for catalog file events to
// settle before reloading. Editors fire several events per save.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reloads the engine when the catalog file changes on disk. A reload
// failure is logged and the previous index stays live; the watcher keeps
// running so a later fix to the file takes effect.
type Watcher struct {
	engine   Engine
	path     string
	debounce time.Duration
	logger   *slog.Logger

	fw      *fsnotify.Watcher
	done    chan struct{}
	stopped bool
	mu      sync.Mutex
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher) error

// WithDebounce sets the settle window before a change triggers a reload.
// Default is DefaultDebounce.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) error {
		if d <= 0 {
			d = DefaultDebounce
		}
		w.debounce = d
		return nil
	}
}

// WithWatcherLogger sets a custom logger.
// Default is slog.Default().
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		w.logger = logger
		return nil
	}
}

// NewWatcher creates a watcher for the catalog file at path.
func NewWatcher(engine Engine, path string, opts ...WatcherOption) (*Watcher, error) {
	if engine == nil {
		return nil, ErrEngineRequired
	}
	if path == "" {
		return nil, ErrCatalogPathRequired
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		engine:   engine,
		path:     absPath,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
		fw:       fw,
		done:     make(chan struct{}),
	}

	for _, opt := range opts {
		if err := opt(w); err != nil {
			fw.Close()
			return nil, err
		}
	}

	return w, nil
}

// Start begins watching. The catalog file's directory is watched rather than
// the file itself because editors typically replace the file via rename,
// which would drop a direct watch.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.fw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	go w.loop(ctx)

	w.logger.Info("watching catalog", "path", w.path, "debounce", w.debounce)
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			// Restart the settle window on every event in the burst.
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			timerC = timer.C

		case <-timerC:
			timer = nil
			timerC = nil
			w.reload(ctx)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("catalog watch error", "err", err)

		case <-ctx.Done():
			return

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}

func (w *Watcher) reload(ctx context.Context) {
	if err := w.engine.ReloadFromFile(ctx); err != nil {
		w.logger.Error("catalog reload failed, previous index stays live", "err", err)
		return
	}
	w.logger.Info("catalog reloaded", "path", w.path)
}

// Stop ends watching and releases resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}
