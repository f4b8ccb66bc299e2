// Package actor provides the run loop shared by all subsystem processes.
// Each actor owns an inbound event mailbox plus a low-traffic control
// channel, and drains them with a non-blocking poll: stop requests are
// checked between events, never in the middle of one.
package actor

import (
	"context"
	"time"

	"github.com/signalsfoundry/satellite-control-sim/bus"
	"github.com/signalsfoundry/satellite-control-sim/internal/logging"
	"github.com/signalsfoundry/satellite-control-sim/model"
)

// defaultPollInterval is the idle sleep between poll iterations.
const defaultPollInterval = 10 * time.Millisecond

// Handler processes one inbound event. Handlers are invoked serially by the
// owning actor's loop; each event completes before the next is dequeued, so
// handler state needs no locking of its own for loop-only access.
type Handler interface {
	HandleEvent(ctx context.Context, ev model.Event)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, ev model.Event)

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, ev model.Event) { f(ctx, ev) }

// Process is one running subsystem: a named mailbox, a control channel, and
// the goroutine draining them.
type Process struct {
	name    string
	inbox   *bus.Mailbox
	control chan model.ControlEvent
	handler Handler
	log     logging.Logger
	poll    time.Duration
}

// Option configures a Process.
type Option func(*Process)

// WithPollInterval overrides the idle sleep between polls. Tests use a short
// interval to keep runs fast.
func WithPollInterval(d time.Duration) Option {
	return func(p *Process) {
		if d > 0 {
			p.poll = d
		}
	}
}

// New registers a mailbox under name in the directory and wraps handler in a
// Process. It returns an error if the channel name is taken.
func New(name string, dir *bus.Directory, handler Handler, log logging.Logger, opts ...Option) (*Process, error) {
	inbox, err := dir.Register(name)
	if err != nil {
		return nil, err
	}

	p := &Process{
		name:    name,
		inbox:   inbox,
		control: make(chan model.ControlEvent, 4),
		handler: handler,
		log:     logging.ForActor(log, name),
		poll:    defaultPollInterval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Name returns the actor's channel name.
func (p *Process) Name() string { return p.name }

// Inbox returns the actor's mailbox, mainly for tests that inject events
// directly.
func (p *Process) Inbox() *bus.Mailbox { return p.inbox }

// Stop asks the loop to exit after the in-flight event, via the control
// channel. It never blocks; repeated stops are harmless.
func (p *Process) Stop() {
	select {
	case p.control <- model.ControlEvent{Op: model.ControlStop}:
	default:
	}
}

// Run starts the poll loop in its own goroutine and returns a channel that
// is closed when the loop exits. The loop stops on a control-channel stop
// request or when ctx is cancelled; either way the event being handled
// finishes first.
func (p *Process) Run(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.log.Info(ctx, "actor started")

		for {
			if p.stopRequested(ctx) {
				p.log.Info(ctx, "actor stopping")
				return
			}

			drained := p.drainInbox(ctx)
			if drained == 0 {
				time.Sleep(p.poll)
			}
		}
	}()
	return done
}

// stopRequested performs the non-blocking control-channel check.
func (p *Process) stopRequested(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	case ce := <-p.control:
		return ce.Op == model.ControlStop
	default:
		return false
	}
}

// drainInbox handles every currently queued event, one synchronous step per
// event, and returns the number handled.
func (p *Process) drainInbox(ctx context.Context) int {
	n := 0
	for {
		ev, ok := p.inbox.ReceiveNoWait()
		if !ok {
			return n
		}
		p.handler.HandleEvent(ctx, ev)
		n++
	}
}
