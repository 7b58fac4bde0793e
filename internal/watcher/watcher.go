package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/zheng/ratioflow/internal/pipeline"
)

// RegenerateFunc rebuilds the model after an input changed
type RegenerateFunc func() (*pipeline.Result, error)

// Watcher watches the input files and regenerates the model when they change
type Watcher struct {
	files      map[string]struct{}
	regenerate RegenerateFunc
	fsWatcher  *fsnotify.Watcher

	// Debouncing
	debounceDelay time.Duration
	pendingFiles  map[string]struct{}
	pendingMu     sync.Mutex
	debounceTimer *time.Timer

	// one regeneration at a time
	runMu sync.Mutex

	// Callbacks
	onRegenerateStart func(changed []string)
	onRegenerateDone  func(res *pipeline.Result, duration time.Duration)
	onError           func(error)

	// Control
	done     chan struct{}
	stopOnce sync.Once
}

// WatcherOption configures the watcher
type WatcherOption func(*Watcher)

// WithDebounceDelay sets the debounce delay
func WithDebounceDelay(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounceDelay = d
	}
}

// WithOnRegenerateStart sets the callback for when regeneration starts
func WithOnRegenerateStart(fn func(changed []string)) WatcherOption {
	return func(w *Watcher) {
		w.onRegenerateStart = fn
	}
}

// WithOnRegenerateDone sets the callback for when regeneration succeeds
func WithOnRegenerateDone(fn func(res *pipeline.Result, duration time.Duration)) WatcherOption {
	return func(w *Watcher) {
		w.onRegenerateDone = fn
	}
}

// WithOnError sets the callback for errors
func WithOnError(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// New creates a Watcher for the given input files. The parent directories are
// watched rather than the files, so editors that save by rename still trigger.
func New(files []string, regenerate RegenerateFunc, opts ...WatcherOption) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		files:         make(map[string]struct{}),
		regenerate:    regenerate,
		fsWatcher:     fsWatcher,
		debounceDelay: 500 * time.Millisecond, // Default debounce
		pendingFiles:  make(map[string]struct{}),
		done:          make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	if err := w.addFiles(files); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to add input files to watch: %w", err)
	}

	return w, nil
}

// addFiles registers each file and watches its directory once
func (w *Watcher) addFiles(files []string) error {
	dirs := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			return fmt.Errorf("%s: %w", dir, err)
		}
	}
	return nil
}

// Start begins watching for changes
func (w *Watcher) Start() {
	go w.eventLoop()
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		w.pendingMu.Lock()
		if w.debounceTimer != nil {
			w.debounceTimer.Stop()
		}
		w.pendingMu.Unlock()
		err = w.fsWatcher.Close()
	})
	return err
}

// eventLoop handles file system events
func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

// handleEvent processes a single file system event
func (w *Watcher) handleEvent(event fsnotify.Event) {
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}
	if _, ok := w.files[name]; !ok {
		return
	}

	// Chmod alone does not change content
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	select {
	case <-w.done:
		return
	default:
	}

	w.pendingFiles[name] = struct{}{}

	// Reset debounce timer
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, w.triggerRegenerate)
}

// triggerRegenerate runs the regeneration after debounce
func (w *Watcher) triggerRegenerate() {
	w.pendingMu.Lock()
	files := make([]string, 0, len(w.pendingFiles))
	for f := range w.pendingFiles {
		files = append(files, f)
	}
	w.pendingFiles = make(map[string]struct{})
	w.pendingMu.Unlock()

	if len(files) == 0 {
		return
	}

	w.runMu.Lock()
	defer w.runMu.Unlock()

	if w.onRegenerateStart != nil {
		w.onRegenerateStart(files)
	}

	startTime := time.Now()
	res, err := w.regenerate()
	if err != nil {
		if w.onError != nil {
			w.onError(fmt.Errorf("regeneration failed: %w", err))
		}
		return
	}

	if w.onRegenerateDone != nil {
		w.onRegenerateDone(res, time.Since(startTime))
	}
}
