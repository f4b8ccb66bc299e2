package actor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/signalsfoundry/satellite-control-sim/bus"
	"github.com/signalsfoundry/satellite-control-sim/internal/logging"
	"github.com/signalsfoundry/satellite-control-sim/model"
)

// collector is a handler that records the operations it sees.
type collector struct {
	mu  sync.Mutex
	ops []string
}

func (c *collector) HandleEvent(_ context.Context, ev model.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = append(c.ops, ev.Operation)
}

func (c *collector) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.ops...)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func TestProcessDrainsInOrder(t *testing.T) {
	dir := bus.NewDirectory()
	c := &collector{}
	p, err := New("satellite", dir, c, logging.Noop(), WithPollInterval(time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, op := range []string{"one", "two", "three"} {
		p.Inbox().Send(model.Event{Operation: op})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := p.Run(ctx)

	waitFor(t, time.Second, func() bool { return len(c.snapshot()) == 3 })
	got := c.snapshot()
	for i, want := range []string{"one", "two", "three"} {
		if got[i] != want {
			t.Fatalf("order = %v", got)
		}
	}

	p.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("actor did not stop")
	}
}

func TestStopFinishesQueuedWorkFirst(t *testing.T) {
	dir := bus.NewDirectory()
	c := &collector{}
	p, err := New("optics", dir, c, logging.Noop(), WithPollInterval(time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Events queued before the loop even starts are still drained: the stop
	// check happens between drain passes, and a pass consumes the whole
	// backlog.
	for i := 0; i < 10; i++ {
		p.Inbox().Send(model.Event{Operation: "op"})
	}

	done := p.Run(context.Background())
	waitFor(t, time.Second, func() bool { return len(c.snapshot()) == 10 })

	p.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("actor did not stop")
	}
}

func TestContextCancelStopsLoop(t *testing.T) {
	dir := bus.NewDirectory()
	p, err := New("drawer", dir, HandlerFunc(func(context.Context, model.Event) {}), logging.Noop(),
		WithPollInterval(time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := p.Run(ctx)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("actor did not stop on context cancel")
	}
}

func TestDuplicateChannelName(t *testing.T) {
	dir := bus.NewDirectory()
	h := HandlerFunc(func(context.Context, model.Event) {})
	if _, err := New("dup", dir, h, logging.Noop()); err != nil {
		t.Fatalf("first New: %v", err)
	}
	if _, err := New("dup", dir, h, logging.Noop()); err == nil {
		t.Fatalf("second New with same name must fail")
	}
}
