// Package sched provides the time-offset command scheduler: commands are
// registered with an offset from start, kept sorted, and fired once when
// their time arrives.
package sched

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/signalsfoundry/satellite-control-sim/internal/logging"
)

// defaultTick is the scheduler's poll resolution.
const defaultTick = 100 * time.Millisecond

// entry is one scheduled command.
type entry struct {
	offset time.Duration
	fn     func()
	fired  bool
}

// Scheduler dispatches registered commands at their offsets from Start.
type Scheduler struct {
	mu      sync.Mutex
	entries []*entry
	started bool

	tick time.Duration
	log  logging.Logger
}

// New constructs a scheduler.
func New(log logging.Logger) *Scheduler {
	return &Scheduler{
		tick: defaultTick,
		log:  logging.ForActor(log, "scheduler"),
	}
}

// WithTick overrides the poll resolution; tests use a short tick.
func (s *Scheduler) WithTick(d time.Duration) *Scheduler {
	if d > 0 {
		s.tick = d
	}
	return s
}

// Add registers fn to run offset after Start. Adding after Start is allowed
// as long as the offset is still in the future; entries stay sorted by
// offset.
func (s *Scheduler) Add(offset time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, &entry{offset: offset, fn: fn})
	sort.SliceStable(s.entries, func(i, j int) bool {
		return s.entries[i].offset < s.entries[j].offset
	})
}

// Len returns the number of registered commands.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Start runs the dispatch loop in its own goroutine and returns a channel
// closed when every command has fired or ctx is cancelled. Each command
// fires at most once, in offset order; a panicking command is contained so
// it cannot take the loop down.
func (s *Scheduler) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})

	s.mu.Lock()
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(done)
		s.log.Info(ctx, "scheduler started", logging.Int("commands", s.Len()))

		start := time.Now()
		ticker := time.NewTicker(s.tick)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.log.Info(ctx, "scheduler stopped", logging.Int("pending", s.pending()))
				return
			case <-ticker.C:
			}

			elapsed := time.Since(start)
			s.fireDue(ctx, elapsed)

			if s.pending() == 0 {
				s.log.Info(ctx, "all scheduled commands dispatched")
				return
			}
		}
	}()
	return done
}

// fireDue runs every unfired entry whose offset has elapsed. Entries are
// sorted, so dispatch order matches offset order.
func (s *Scheduler) fireDue(ctx context.Context, elapsed time.Duration) {
	s.mu.Lock()
	var due []*entry
	for _, e := range s.entries {
		if !e.fired && elapsed >= e.offset {
			e.fired = true
			due = append(due, e)
		}
	}
	s.mu.Unlock()

	for _, e := range due {
		s.dispatch(ctx, e)
	}
}

func (s *Scheduler) dispatch(ctx context.Context, e *entry) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error(ctx, "scheduled command panicked", logging.Any("panic", r))
		}
	}()
	s.log.Debug(ctx, "dispatching scheduled command",
		logging.String("offset", e.offset.String()))
	e.fn()
}

func (s *Scheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.entries {
		if !e.fired {
			n++
		}
	}
	return n
}
