// Package uplink receives command programs from the ground side: program
// files dropped into an inbox directory are picked up, executed, and
// archived. Transport is the filesystem so the station needs no listening
// socket for command ingest.
package uplink

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/signalsfoundry/satellite-control-sim/internal/logging"
)

// debounceDefault absorbs the write/rename event bursts editors and copies
// produce for a single file.
const debounceDefault = 200 * time.Millisecond

// programExt is the only file extension the watcher picks up.
const programExt = ".txt"

// Watcher watches an inbox directory for new program files.
type Watcher struct {
	inbox    string
	handler  func(path string)
	debounce time.Duration
	log      logging.Logger
}

// NewWatcher creates a watcher for the inbox directory. handler is invoked
// once per settled program file, sequentially, in the watcher's goroutine.
func NewWatcher(inbox string, handler func(path string), log logging.Logger) *Watcher {
	return &Watcher{
		inbox:    inbox,
		handler:  handler,
		debounce: debounceDefault,
		log:      logging.ForActor(log, "uplink"),
	}
}

// WithDebounce overrides the settle interval; tests shorten it.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	if d > 0 {
		w.debounce = d
	}
	return w
}

// Run watches the inbox until ctx is cancelled. Files already present at
// startup are processed first, then fsnotify events drive the rest. Program
// files are executed one at a time: commands from different programs must
// not interleave on the uplink.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(w.inbox); err != nil {
		return err
	}

	w.drainExisting(ctx)

	// pending collects paths seen since the last flush; one shared timer
	// resets per event and flushes the whole batch, so a burst of events
	// for the same file runs the handler once.
	var mu sync.Mutex
	pending := make(map[string]bool)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !w.isProgram(ev.Name) {
				continue
			}
			mu.Lock()
			pending[ev.Name] = true
			mu.Unlock()
			timer.Reset(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn(ctx, "inbox watch error", logging.String("error", err.Error()))

		case <-timer.C:
			mu.Lock()
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			pending = make(map[string]bool)
			mu.Unlock()

			for _, path := range batch {
				w.process(ctx, path)
			}
		}
	}
}

// drainExisting handles program files that were already waiting when the
// watcher started.
func (w *Watcher) drainExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.inbox)
	if err != nil {
		w.log.Warn(ctx, "cannot list inbox", logging.String("error", err.Error()))
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(w.inbox, e.Name())
		if w.isProgram(path) {
			w.process(ctx, path)
		}
	}
}

// process runs the handler and archives the file so it is not replayed on
// restart. Handler panics are contained: a bad program must not stop the
// uplink.
func (w *Watcher) process(ctx context.Context, path string) {
	if _, err := os.Stat(path); err != nil {
		return // already archived or removed
	}

	w.log.Info(ctx, "processing uplinked program", logging.String("path", path))
	func() {
		defer func() {
			if r := recover(); r != nil {
				w.log.Error(ctx, "program handler panicked", logging.Any("panic", r))
			}
		}()
		w.handler(path)
	}()

	archived := path + ".done"
	if err := os.Rename(path, archived); err != nil {
		w.log.Warn(ctx, "cannot archive processed program",
			logging.String("path", path),
			logging.String("error", err.Error()))
	}
}

func (w *Watcher) isProgram(path string) bool {
	return strings.EqualFold(filepath.Ext(path), programExt)
}
