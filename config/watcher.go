package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jonwraymond/healthops/observe"
)

// Callback receives every successfully reloaded configuration.
type Callback func(*Config)

// ErrorCallback receives reload and watch errors.
type ErrorCallback func(error)

// Watcher reloads a configuration file when it changes on disk.
//
// Contract:
//   - Concurrency: Current and ForceReload are safe to call from any goroutine.
//   - A file that fails to parse or validate is ignored; the last good
//     configuration stays current.
//   - A Watcher is single-use. Start after Stop fails with ErrWatcherStopped.
type Watcher struct {
	path          string
	watcher       *fsnotify.Watcher
	callback      Callback
	errorCallback ErrorCallback
	logger        observe.Logger
	debounceDelay time.Duration

	mu      sync.RWMutex
	current *Config
	running bool
	stopped bool

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounceDelay sets how long the watcher waits for writes to settle.
func WithDebounceDelay(delay time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounceDelay = delay
	}
}

// WithLogger sets the watcher's logger.
func WithLogger(logger observe.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithErrorCallback sets the error callback.
func WithErrorCallback(cb ErrorCallback) WatcherOption {
	return func(w *Watcher) {
		w.errorCallback = cb
	}
}

// NewWatcher creates a watcher for the file at path.
func NewWatcher(path string, callback Callback, opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:          absPath,
		watcher:       fsw,
		callback:      callback,
		debounceDelay: 100 * time.Millisecond,
		logger:        observe.NewNoopLogger(),
		stopCh:        make(chan struct{}),
		stoppedCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start loads the file once and begins watching its directory. Watching
// the directory survives editors that replace the file on save.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return ErrWatcherStopped
	}
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	cfg, err := Load(w.path)
	if err != nil {
		return err
	}

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return ErrWatcherStopped
	}
	w.current = cfg
	w.running = true
	w.mu.Unlock()

	w.logger.Info(ctx, "watching configuration file", observe.Field{Key: "path", Value: w.path})

	go w.watch(ctx)
	return nil
}

// Stop ends the watch loop and releases the file watcher. Calling it
// again is a no-op.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.stoppedCh
	return w.watcher.Close()
}

// Current returns the last successfully loaded configuration.
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// ForceReload reloads immediately and invokes the callback on success.
func (w *Watcher) ForceReload() error {
	cfg, err := Load(w.path)
	if err != nil {
		return err
	}
	w.apply(cfg)
	return nil
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.stoppedCh)

	var timer *time.Timer
	var debounceCh <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug(ctx, "configuration file changed",
				observe.Field{Key: "path", Value: event.Name},
				observe.Field{Key: "op", Value: event.Op.String()},
			)
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounceDelay)
			debounceCh = timer.C

		case <-debounceCh:
			debounceCh = nil
			w.reload(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error(ctx, "configuration watcher error", observe.Field{Key: "error", Value: err.Error()})
			if w.errorCallback != nil {
				w.errorCallback(err)
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (w *Watcher) reload(ctx context.Context) {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Error(ctx, "configuration reload failed", observe.Field{Key: "error", Value: err.Error()})
		if w.errorCallback != nil {
			w.errorCallback(err)
		}
		return
	}

	w.logger.Info(ctx, "configuration reloaded", observe.Field{Key: "path", Value: w.path})
	w.apply(cfg)
}

func (w *Watcher) apply(cfg *Config) {
	w.mu.Lock()
	w.current = cfg
	w.mu.Unlock()

	if w.callback != nil {
		w.callback(cfg)
	}
}
