package uplink

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/signalsfoundry/satellite-control-sim/internal/logging"
)

type recordingHandler struct {
	mu    sync.Mutex
	paths []string
}

func (h *recordingHandler) handle(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paths = append(h.paths, path)
}

func (h *recordingHandler) snapshot() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.paths...)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func startWatcher(t *testing.T, inbox string, h *recordingHandler) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	w := NewWatcher(inbox, h.handle, logging.Noop()).WithDebounce(20 * time.Millisecond)

	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-errc:
			if err != nil {
				t.Errorf("watcher returned %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Errorf("watcher did not exit")
		}
	})
	return cancel
}

func TestExistingFilesProcessedAtStartup(t *testing.T) {
	inbox := t.TempDir()
	path := filepath.Join(inbox, "plan.txt")
	if err := os.WriteFile(path, []byte("MAKE PHOTO\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	h := &recordingHandler{}
	startWatcher(t, inbox, h)

	waitFor(t, 2*time.Second, func() bool { return len(h.snapshot()) == 1 })
	if got := h.snapshot()[0]; got != path {
		t.Fatalf("handled %q, want %q", got, path)
	}
	waitFor(t, 2*time.Second, func() bool {
		_, err := os.Stat(path + ".done")
		return err == nil
	})
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("original file not archived: %v", err)
	}
}

func TestNewFileIsPickedUpAndArchived(t *testing.T) {
	inbox := t.TempDir()
	h := &recordingHandler{}
	startWatcher(t, inbox, h)

	path := filepath.Join(inbox, "plan-1.txt")
	if err := os.WriteFile(path, []byte("MAKE PHOTO\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	waitFor(t, 3*time.Second, func() bool { return len(h.snapshot()) == 1 })
	waitFor(t, 2*time.Second, func() bool {
		_, err := os.Stat(path + ".done")
		return err == nil
	})
}

func TestNonProgramFilesIgnored(t *testing.T) {
	inbox := t.TempDir()
	h := &recordingHandler{}
	startWatcher(t, inbox, h)

	if err := os.WriteFile(filepath.Join(inbox, "notes.md"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(inbox, "plan.txt.part"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	time.Sleep(150 * time.Millisecond)
	if got := h.snapshot(); len(got) != 0 {
		t.Fatalf("non-program files handled: %v", got)
	}
}

func TestHandlerPanicIsContained(t *testing.T) {
	inbox := t.TempDir()
	h := &recordingHandler{}
	panicky := func(path string) {
		h.handle(path)
		panic("bad program")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := NewWatcher(inbox, panicky, logging.Noop()).WithDebounce(20 * time.Millisecond)
	go func() { _ = w.Run(ctx) }()

	first := filepath.Join(inbox, "a.txt")
	if err := os.WriteFile(first, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitFor(t, 3*time.Second, func() bool { return len(h.snapshot()) == 1 })

	// The watcher survives and keeps processing.
	second := filepath.Join(inbox, "b.txt")
	if err := os.WriteFile(second, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitFor(t, 3*time.Second, func() bool { return len(h.snapshot()) == 2 })
}

func TestRunFailsOnMissingInbox(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "absent"), func(string) {}, logging.Noop())
	if err := w.Run(context.Background()); err == nil {
		t.Fatalf("expected error for missing inbox directory")
	}
}
