// Package watcher watches drop directories for batch JSON files with
// fsnotify and debouncing.
package watcher

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher watches directories and invokes the callback for each settled
// batch file. Writes are debounced per path so a file still being copied in
// triggers one build, not one per write chunk.
type Watcher struct {
	roots    []string
	onBatch  func(path string)
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *zap.Logger

	mu          sync.Mutex
	debounceMap map[string]*time.Timer
	done        chan struct{}
	started     bool
	stopOnce    sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// WithDebounce overrides the settle delay before a batch file is processed.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher over the given drop directories. onBatch is called
// with the path of each created or modified .json file after it settles.
func New(roots []string, onBatch func(path string), opts ...Option) *Watcher {
	w := &Watcher{
		roots:       roots,
		onBatch:     onBatch,
		debounce:    defaultDebounce,
		debounceMap: make(map[string]*time.Timer),
		done:        make(chan struct{}),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start starts the watcher. It runs until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.watcher = watcher
	w.started = true
	w.logger.Debug("watcher starting", zap.Strings("roots", w.roots))
	for _, root := range w.roots {
		if err := watcher.Add(root); err != nil {
			_ = watcher.Close()
			w.watcher = nil
			w.started = false
			w.mu.Unlock()
			return err
		}
	}
	w.mu.Unlock()
	go w.run(ctx)
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if err != nil {
				w.logger.Debug("watcher error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if !strings.EqualFold(filepath.Ext(ev.Name), ".json") {
		return
	}
	if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	w.logger.Debug("batch file event", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))

	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.debounceMap[ev.Name]; ok {
		timer.Stop()
	}
	path := ev.Name
	w.debounceMap[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.debounceMap, path)
		w.mu.Unlock()
		w.onBatch(path)
	})
}

// Stop stops the watcher and cancels pending debounce timers.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		for _, timer := range w.debounceMap {
			timer.Stop()
		}
		w.debounceMap = make(map[string]*time.Timer)
		if w.watcher != nil {
			_ = w.watcher.Close()
		}
		close(w.done)
	})
}
