package batch

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher calls a function for each NCP file in a directory that is written
// or created. Rapid successive events for the same file are collapsed into
// one call, debounce after the last of them.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	changed  func(path string)
	log      *zap.SugaredLogger

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
	running sync.WaitGroup // callbacks in progress
}

func NewWatcher(dir string, debounce time.Duration, changed func(path string),
	log *zap.SugaredLogger) (*Watcher, error) {

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, errors.Wrapf(err, "failed to watch %s", dir)
	}

	return &Watcher{
		watcher:  watcher,
		debounce: debounce,
		changed:  changed,
		log:      log,
		timers:   map[string]*time.Timer{},
	}, nil
}

// Run handles events until ctx is done, then closes the watcher. It returns
// once any call already in progress has finished.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !IsSource(event.Name) {
				continue
			}
			w.log.Debugw("watcher event", "file", event.Name, "op", event.Op.String())
			w.schedule(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("watcher error", "error", err)
		}
	}
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		if w.stopped {
			w.mu.Unlock()
			return
		}
		delete(w.timers, path)
		w.running.Add(1)
		w.mu.Unlock()

		defer w.running.Done()
		w.changed(path)
	})
}

func (w *Watcher) stop() {
	w.mu.Lock()
	w.stopped = true
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()

	w.running.Wait()
	w.watcher.Close()
}
