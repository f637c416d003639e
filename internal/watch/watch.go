// Package watch reports edits made to a flow file by other programs.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	game_log "github.com/ingyamilmolinar/flowcanvas/internal/log"
)

var ErrAlreadyStarted = errors.New("watcher already started")

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option { return func(w *Watcher) { w.debounce = d } }

func WithLogger(l *game_log.Logger) Option { return func(w *Watcher) { w.logger = l } }

// Watcher signals Changes when the watched file is written, created or
// renamed into place. Bursts of events collapse into one signal, and a
// signal not yet drained is not duplicated.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *game_log.Logger

	mu        sync.Mutex
	fs        *fsnotify.Watcher
	debouncer *Debouncer
	cancel    context.CancelFunc
	done      chan struct{}

	changes chan struct{}
	errs    chan error
}

func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	w := &Watcher{
		path:    abs,
		changes: make(chan struct{}, 1),
		errs:    make(chan error, 1),
	}
	for _, o := range opts {
		o(w)
	}
	w.debouncer = NewDebouncer(w.debounce)
	return w, nil
}

func (w *Watcher) Path() string { return w.path }

// Changes receives after each debounced burst of edits.
func (w *Watcher) Changes() <-chan struct{} { return w.changes }

// Errors receives watcher failures; only the latest undrained one is kept.
func (w *Watcher) Errors() <-chan error { return w.errs }

// Start watches the file's directory so atomic replace-by-rename is seen.
// The watch ends when ctx is cancelled or Close is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fs != nil {
		return ErrAlreadyStarted
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}
	ctx, cancel := context.WithCancel(ctx)
	w.fs, w.cancel, w.done = fsw, cancel, make(chan struct{})
	go w.loop(ctx, fsw, w.done)
	w.logger.Infof("[WATCH] Watching %s", w.path)
	return nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	target := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.logger.Debugf("[WATCH] %s", ev)
				w.debouncer.Trigger(w.notify)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warnf("[WATCH] %v", err)
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

func (w *Watcher) notify() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}

// Close stops the watch. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	fsw, cancel, done := w.fs, w.cancel, w.done
	w.fs, w.cancel, w.done = nil, nil, nil
	w.mu.Unlock()
	if fsw == nil {
		return nil
	}
	cancel()
	err := fsw.Close()
	<-done
	w.debouncer.Cancel()
	return err
}
