// Package watch reports changes to the open folder. Raw fsnotify events are
// filtered by extension and coalesced into batches so an editor saving a file
// or a copy of many images costs one rescan.
package watch

import (
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"glance/internal/errors"
	"glance/internal/log"
	"glance/internal/navigator"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period that closes a batch.
const DefaultDebounce = 150 * time.Millisecond

// Batch is what changed in Dir during one debounce window. ListChanged means
// a matching file appeared, disappeared or was renamed; Modified lists files
// whose contents were rewritten.
type Batch struct {
	Dir         string
	ListChanged bool
	Modified    []string
}

// Watcher monitors one directory at a time.
type Watcher struct {
	filter   *navigator.Filter
	debounce time.Duration
	logger   *log.Logger

	fsWatcher *fsnotify.Watcher
	batches   chan Batch
	stopChan  chan struct{}
	done      chan struct{}

	mutex       sync.Mutex
	dir         string
	running     bool
	listChanged bool
	modified    map[string]struct{}
	timer       *time.Timer
}

// New creates a watcher for files accepted by filter.
func New(filter *navigator.Filter, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	return &Watcher{
		filter:    filter,
		debounce:  debounce,
		logger:    log.LogWithFields(log.F("component", "watch")),
		fsWatcher: fsWatcher,
		batches:   make(chan Batch, 8),
		modified:  make(map[string]struct{}),
	}, nil
}

// SetDirectory moves the watch to dir and discards any pending batch.
func (w *Watcher) SetDirectory(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return errors.FromIO(dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return errors.FromIO(abs, err)
	}
	if !info.IsDir() {
		return errors.NewFileError("not a directory", abs, errors.InvalidPath, nil)
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()
	if abs == w.dir {
		return nil
	}
	if w.dir != "" {
		if err := w.fsWatcher.Remove(w.dir); err != nil {
			w.logger.WithError(err).With(log.F("directory", w.dir)).Debug("remove watch")
		}
	}
	if err := w.fsWatcher.Add(abs); err != nil {
		w.dir = ""
		return errors.Wrapf(err, "failed to watch %s", abs)
	}
	w.dir = abs
	w.resetPending()
	w.logger.With(log.F("directory", abs)).Info("watching directory")
	return nil
}

// Dir is the watched directory, or "" before SetDirectory.
func (w *Watcher) Dir() string {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.dir
}

// Events delivers batches. It is closed by Stop.
func (w *Watcher) Events() <-chan Batch {
	return w.batches
}

// Start begins processing fsnotify events.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.running {
		return errors.New("watcher already running")
	}
	if w.stopChan != nil {
		return errors.New("watcher was stopped")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.done = make(chan struct{})
	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Error("fsnotify watcher error")

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !w.filter.Match(event.Name) {
		return
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()
	if !w.running || filepath.Dir(event.Name) != w.dir {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		w.listChanged = true
	case event.Op.Has(fsnotify.Write):
		w.modified[event.Name] = struct{}{}
	default:
		return
	}

	if w.timer == nil {
		w.timer = time.AfterFunc(w.debounce, w.flush)
	} else {
		w.timer.Reset(w.debounce)
	}
}

func (w *Watcher) flush() {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if !w.running || (!w.listChanged && len(w.modified) == 0) {
		return
	}

	batch := Batch{Dir: w.dir, ListChanged: w.listChanged}
	for path := range w.modified {
		batch.Modified = append(batch.Modified, path)
	}
	slices.Sort(batch.Modified)
	w.resetPending()

	select {
	case w.batches <- batch:
		w.logger.With(log.F("list_changed", batch.ListChanged), log.F("modified", len(batch.Modified))).Debug("batch")
	default:
		w.logger.With(log.F("directory", batch.Dir)).Warn("event channel is full, dropped batch")
	}
}

// resetPending must be called with the mutex held.
func (w *Watcher) resetPending() {
	w.listChanged = false
	clear(w.modified)
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// Stop halts the watcher and closes the Events channel. It is idempotent.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	if !w.running {
		w.mutex.Unlock()
		return
	}
	w.running = false
	w.resetPending()
	close(w.stopChan)
	w.mutex.Unlock()

	if err := w.fsWatcher.Close(); err != nil {
		w.logger.WithError(err).Error("error closing fsnotify watcher")
	}
	<-w.done

	w.mutex.Lock()
	close(w.batches)
	w.mutex.Unlock()
	w.logger.Debug("watcher stopped")
}

// IsRunning reports whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.running
}
