package bus

import (
	"fmt"
	"sync"
	"testing"

	"github.com/signalsfoundry/satellite-control-sim/model"
)

func TestRegisterAndResolve(t *testing.T) {
	dir := NewDirectory()
	mb, err := dir.Register("satellite")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if mb.Name() != "satellite" {
		t.Fatalf("Name() = %q", mb.Name())
	}
	if dir.Resolve("satellite") != mb {
		t.Fatalf("Resolve returned a different mailbox")
	}
	if dir.Resolve("missing") != nil {
		t.Fatalf("Resolve of unknown name must be nil")
	}
}

func TestRegisterDuplicateFails(t *testing.T) {
	dir := NewDirectory()
	if _, err := dir.Register("satellite"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := dir.Register("satellite"); err == nil {
		t.Fatalf("duplicate Register must fail")
	}
}

func TestMailboxOrdering(t *testing.T) {
	dir := NewDirectory()
	mb, _ := dir.Register("orbit_control")

	for i := 0; i < 5; i++ {
		mb.Send(model.Event{Operation: fmt.Sprintf("op-%d", i)})
	}
	if mb.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", mb.Len())
	}
	for i := 0; i < 5; i++ {
		ev, ok := mb.ReceiveNoWait()
		if !ok {
			t.Fatalf("ReceiveNoWait returned empty at %d", i)
		}
		if want := fmt.Sprintf("op-%d", i); ev.Operation != want {
			t.Fatalf("event %d = %q, want %q", i, ev.Operation, want)
		}
	}
	if _, ok := mb.ReceiveNoWait(); ok {
		t.Fatalf("mailbox should be empty")
	}
}

func TestTrySendFullMailbox(t *testing.T) {
	dir := NewDirectory()
	mb, _ := dir.RegisterDepth("tiny", 1)

	if !mb.TrySend(model.Event{Operation: "first"}) {
		t.Fatalf("TrySend into empty mailbox failed")
	}
	if mb.TrySend(model.Event{Operation: "second"}) {
		t.Fatalf("TrySend into full mailbox should report false")
	}
	ev, _ := mb.ReceiveNoWait()
	if ev.Operation != "first" {
		t.Fatalf("got %q", ev.Operation)
	}
}

func TestConcurrentSenders(t *testing.T) {
	dir := NewDirectory()
	mb, _ := dir.RegisterDepth("busy", 256)

	const senders, perSender = 8, 16
	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func(src int) {
			defer wg.Done()
			for j := 0; j < perSender; j++ {
				mb.Send(model.Event{Source: fmt.Sprintf("s%d", src)})
			}
		}(i)
	}
	wg.Wait()

	if mb.Len() != senders*perSender {
		t.Fatalf("Len() = %d, want %d", mb.Len(), senders*perSender)
	}
}

func TestNames(t *testing.T) {
	dir := NewDirectory()
	for _, name := range []string{"a", "b", "c"} {
		if _, err := dir.Register(name); err != nil {
			t.Fatalf("Register(%q): %v", name, err)
		}
	}
	names := dir.Names()
	if len(names) != 3 {
		t.Fatalf("Names() = %v", names)
	}
	seen := map[string]bool{}
	for _, n := range names {
		seen[n] = true
	}
	for _, want := range []string{"a", "b", "c"} {
		if !seen[want] {
			t.Fatalf("Names() missing %q: %v", want, names)
		}
	}
}
