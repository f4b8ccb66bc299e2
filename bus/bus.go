// Package bus provides the named-channel directory through which subsystem
// actors exchange events. Every actor owns one inbound mailbox registered
// under its channel name; senders resolve the name at send time, so the
// directory is the only shared rendezvous point in the system.
package bus

import (
	"fmt"
	"sync"

	"github.com/signalsfoundry/satellite-control-sim/model"
)

// DefaultMailboxDepth is the buffer size of a mailbox created by Register.
const DefaultMailboxDepth = 64

// Mailbox is an ordered, multi-producer inbound queue for one actor.
type Mailbox struct {
	name string
	ch   chan model.Event
}

// Name returns the channel name the mailbox is registered under.
func (m *Mailbox) Name() string { return m.name }

// Send enqueues an event, blocking if the mailbox is full.
func (m *Mailbox) Send(ev model.Event) { m.ch <- ev }

// TrySend enqueues an event without blocking. It reports false when the
// mailbox is full.
func (m *Mailbox) TrySend(ev model.Event) bool {
	select {
	case m.ch <- ev:
		return true
	default:
		return false
	}
}

// ReceiveNoWait dequeues the next event without blocking. ok is false when
// the mailbox is currently empty.
func (m *Mailbox) ReceiveNoWait() (ev model.Event, ok bool) {
	select {
	case ev = <-m.ch:
		return ev, true
	default:
		return model.Event{}, false
	}
}

// Len returns the number of queued events.
func (m *Mailbox) Len() int { return len(m.ch) }

// Directory is a thread-safe registry of mailboxes by channel name. Many
// actors resolve names concurrently while the run loops drain their own
// mailboxes, so all access goes through an RWMutex.
type Directory struct {
	mu    sync.RWMutex
	boxes map[string]*Mailbox
}

// NewDirectory constructs an empty directory.
func NewDirectory() *Directory {
	return &Directory{boxes: make(map[string]*Mailbox)}
}

// Register creates a mailbox under the given name. It returns an error if
// the name is already taken.
func (d *Directory) Register(name string) (*Mailbox, error) {
	return d.RegisterDepth(name, DefaultMailboxDepth)
}

// RegisterDepth creates a mailbox with an explicit buffer depth.
func (d *Directory) RegisterDepth(name string, depth int) (*Mailbox, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.boxes[name]; exists {
		return nil, fmt.Errorf("channel %q already registered", name)
	}
	mb := &Mailbox{name: name, ch: make(chan model.Event, depth)}
	d.boxes[name] = mb
	return mb, nil
}

// Resolve returns the mailbox registered under name, or nil if there is no
// such channel. A nil result is an expected condition: senders treat it as a
// logged no-op, not an error.
func (d *Directory) Resolve(name string) *Mailbox {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.boxes[name]
}

// Names returns a snapshot of all registered channel names.
func (d *Directory) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	res := make([]string, 0, len(d.boxes))
	for name := range d.boxes {
		res = append(res, name)
	}
	return res
}
