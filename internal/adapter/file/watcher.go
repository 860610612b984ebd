package file

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports changes to a slot's file made by someone other than the
// slot itself, such as a second instance sharing the same data file.
type Watcher struct {
	slot     *Slot
	watcher  *fsnotify.Watcher
	onChange func()
	log      *zap.Logger
	debounce time.Duration

	mu      sync.Mutex
	running bool
	pending time.Time
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher calling onChange after a foreign write to the
// slot's file. Bursts of events within debounce are reported once.
func NewWatcher(slot *Slot, onChange func(), log *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		slot:     slot,
		watcher:  fw,
		onChange: onChange,
		log:      log,
		debounce: 200 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start watches the slot's directory. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	// The directory is watched rather than the file: atomic replaces swap
	// the inode and would drop a file watch.
	dir := filepath.Dir(w.slot.Path())
	if err := w.watcher.Add(dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	w.log.Info("watching storage file", zap.String("path", w.slot.Path()))

	go w.run(ctx)
	return nil
}

// Stop ends the event loop and releases the underlying watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		_ = w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.log.Warn("closing storage watcher", zap.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := time.NewTicker(w.debounce / 4)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("storage watcher error", zap.Error(err))
		case <-tick.C:
			w.flush()
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Name != w.slot.Path() {
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return
	}
	w.log.Debug("storage file event", zap.String("op", ev.Op.String()))
	w.mu.Lock()
	w.pending = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if w.pending.IsZero() || time.Since(w.pending) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.pending = time.Time{}
	w.mu.Unlock()

	if w.slot.isOwn() {
		return
	}
	w.log.Warn("storage file changed by another process")
	if w.onChange != nil {
		w.onChange()
	}
}
