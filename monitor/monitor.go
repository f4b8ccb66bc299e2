// Package monitor implements the security monitor mediating all
// externally-originated commands. Every event addressed to a subsystem
// passes through here: the monitor applies its policy rules, geofences
// photo-related events against the restricted zone registry, and either
// forwards, transforms, or silently drops the event while keeping a
// per-user violation ledger.
package monitor

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/satellite-control-sim/bus"
	"github.com/signalsfoundry/satellite-control-sim/internal/logging"
	"github.com/signalsfoundry/satellite-control-sim/model"
	"github.com/signalsfoundry/satellite-control-sim/zone"
)

// Decision labels attached to logs and metrics for every handled event.
const (
	DecisionForwarded = "forwarded"
	DecisionBlocked   = "blocked"
	DecisionDropped   = "dropped"
	DecisionDenied    = "denied"
	DecisionApplied   = "applied"
)

// Recorder receives monitor decision and state-change observations. The
// observability collector implements it; tests use a capturing fake.
type Recorder interface {
	ObserveEvent(operation, decision string)
	ObserveDuration(operation string, d time.Duration)
	ObserveViolation(user string)
	SetActiveZones(n int)
}

type noopRecorder struct{}

func (noopRecorder) ObserveEvent(string, string)           {}
func (noopRecorder) ObserveDuration(string, time.Duration) {}
func (noopRecorder) ObserveViolation(string)               {}
func (noopRecorder) SetActiveZones(int)                    {}

// Monitor is the mediating security actor. Its registries are owned by the
// actor's run loop; the mutex exists because the read-only stats accessors
// are served to other goroutines (status endpoint, tests).
type Monitor struct {
	name     string
	sinkName string
	dir      *bus.Directory
	log      logging.Logger
	tracer   trace.Tracer
	metrics  Recorder

	mu         sync.RWMutex
	zones      map[int]*zone.RestrictedZone
	violations map[string]int
	rules      []Rule
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithRules replaces the default allow-all policy rule set.
func WithRules(rules []Rule) Option {
	return func(m *Monitor) { m.rules = rules }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(m *Monitor) {
		if r != nil {
			m.metrics = r
		}
	}
}

// New constructs a monitor. name is the monitor's own channel name, used as
// the source of every event it emits; sinkName is the map/drawing sink's
// channel.
func New(name, sinkName string, dir *bus.Directory, log logging.Logger, opts ...Option) *Monitor {
	m := &Monitor{
		name:       name,
		sinkName:   sinkName,
		dir:        dir,
		log:        logging.ForActor(log, name),
		tracer:     otel.Tracer("satellite-control-sim/monitor"),
		metrics:    noopRecorder{},
		zones:      make(map[int]*zone.RestrictedZone),
		violations: make(map[string]int),
		rules:      AllowAll(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name returns the monitor's channel name.
func (m *Monitor) Name() string { return m.name }

// CheckEvent runs the policy gate: the event is accepted if any rule's three
// patterns all match. With the default allow-all rule this is a cheap
// pre-filter, kept in the pipeline so tightening policy needs no code change.
func (m *Monitor) CheckEvent(ev model.Event) bool {
	m.mu.RLock()
	rules := m.rules
	m.mu.RUnlock()

	for _, r := range rules {
		if r.Permits(ev) {
			return true
		}
	}
	return false
}

// HandleEvent processes one dequeued inbound event. It never returns an
// error: malformed payloads, unknown destinations, and absent zone ids are
// logged no-ops, and nothing here may take the actor loop down.
func (m *Monitor) HandleEvent(ctx context.Context, ev model.Event) {
	ctx, span := m.tracer.Start(ctx, "monitor.handle_event",
		trace.WithAttributes(
			attribute.String("event.source", ev.Source),
			attribute.String("event.destination", ev.Destination),
			attribute.String("event.operation", ev.Operation),
		))
	defer span.End()

	if !m.CheckEvent(ev) {
		span.SetAttributes(attribute.String("event.decision", DecisionDenied))
		m.metrics.ObserveEvent(ev.Operation, DecisionDenied)
		m.log.Warn(ctx, "event denied by policy",
			logging.String("source", ev.Source),
			logging.String("operation", ev.Operation))
		return
	}

	start := time.Now()
	decision := m.proceed(ctx, ev)
	span.SetAttributes(attribute.String("event.decision", decision))
	m.metrics.ObserveEvent(ev.Operation, decision)
	m.metrics.ObserveDuration(ev.Operation, time.Since(start))
}

// proceed dispatches a policy-accepted event by operation kind and returns
// the decision taken.
func (m *Monitor) proceed(ctx context.Context, ev model.Event) string {
	switch model.KindOf(ev.Operation) {
	case model.KindPhotoCheck:
		return m.checkPhoto(ctx, ev)
	case model.KindAddZone:
		return m.addZone(ctx, ev)
	case model.KindRemoveZone:
		return m.removeZone(ctx, ev)
	case model.KindRelay:
		return m.relay(ctx, ev)
	default:
		// KindOf is total; this is unreachable.
		return m.relay(ctx, ev)
	}
}

// checkPhoto geofences a photo event. Inside any restricted zone the event
// is blocked and the user's violation count incremented; outside all zones
// it is re-emitted to the map sink as update_photo_map with the original
// extras and signature preserved.
func (m *Monitor) checkPhoto(ctx context.Context, ev model.Event) string {
	pt, ok := model.GeoPointFrom(ev.Parameters)
	if !ok {
		m.log.Warn(ctx, "photo event with malformed payload dropped",
			logging.String("source", ev.Source),
			logging.String("operation", ev.Operation))
		return DecisionDropped
	}

	if blocked := m.zoneContaining(pt); blocked != nil {
		user := ev.User()

		m.mu.Lock()
		m.violations[user]++
		m.mu.Unlock()
		m.metrics.ObserveViolation(user)

		m.log.Error(ctx, "photo blocked inside restricted zone",
			logging.String("user", user),
			logging.Int("zone_id", blocked.ID),
			logging.Float64("lat", pt.Lat),
			logging.Float64("lon", pt.Lon))
		return DecisionBlocked
	}

	out := model.Event{
		Source:      m.name,
		Destination: m.sinkName,
		Operation:   model.OpUpdatePhotoMap,
		Parameters:  pt,
		Extra:       ev.Extra,
		Signature:   ev.Signature,
	}
	if !m.send(ctx, out) {
		return DecisionDropped
	}
	m.log.Info(ctx, "photo allowed, map updated",
		logging.String("user", ev.User()),
		logging.Float64("lat", pt.Lat),
		logging.Float64("lon", pt.Lon))
	return DecisionForwarded
}

// zoneContaining returns the first registered zone containing the point, or
// nil. Registry iteration order is unspecified; zones are not expected to
// overlap, so any match is authoritative.
func (m *Monitor) zoneContaining(pt model.GeoPoint) *zone.RestrictedZone {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, z := range m.zones {
		if z.Contains(pt.Lat, pt.Lon) {
			return z
		}
	}
	return nil
}

// addZone inserts (or overwrites) a zone in the registry and fans a draw
// command out to the map sink.
func (m *Monitor) addZone(ctx context.Context, ev model.Event) string {
	z, ok := ev.Parameters.(*zone.RestrictedZone)
	if !ok || z == nil {
		m.log.Warn(ctx, "add_restricted_zone with malformed payload dropped",
			logging.String("source", ev.Source))
		return DecisionDropped
	}

	m.mu.Lock()
	m.zones[z.ID] = z
	active := len(m.zones)
	m.mu.Unlock()
	m.metrics.SetActiveZones(active)

	m.log.Info(ctx, "restricted zone added",
		logging.Int("zone_id", z.ID),
		logging.String("user", ev.User()),
		logging.Int("severity", z.Severity))

	m.send(ctx, model.Event{
		Source:      m.name,
		Destination: m.sinkName,
		Operation:   model.OpDrawRestrictedZone,
		Parameters:  z,
	})
	return DecisionApplied
}

// removeZone deletes a zone by id. Removing an absent id is a no-op, not an
// error; the clear command only reaches the sink when something was removed.
func (m *Monitor) removeZone(ctx context.Context, ev model.Event) string {
	id, ok := ev.Parameters.(int)
	if !ok {
		m.log.Warn(ctx, "remove_restricted_zone with malformed payload dropped",
			logging.String("source", ev.Source))
		return DecisionDropped
	}

	m.mu.Lock()
	_, present := m.zones[id]
	if present {
		delete(m.zones, id)
	}
	active := len(m.zones)
	m.mu.Unlock()

	if !present {
		m.log.Debug(ctx, "remove for unknown zone ignored", logging.Int("zone_id", id))
		return DecisionDropped
	}
	m.metrics.SetActiveZones(active)

	m.log.Info(ctx, "restricted zone removed",
		logging.Int("zone_id", id),
		logging.String("user", ev.User()))

	m.send(ctx, model.Event{
		Source:      m.name,
		Destination: m.sinkName,
		Operation:   model.OpClearRestrictedZone,
		Parameters:  id,
	})
	return DecisionApplied
}

// relay is the general-purpose mediation path: the event goes unchanged to
// whatever channel it names.
func (m *Monitor) relay(ctx context.Context, ev model.Event) string {
	if !m.send(ctx, ev) {
		return DecisionDropped
	}
	m.log.Info(ctx, "event forwarded",
		logging.String("source", ev.Source),
		logging.String("destination", ev.Destination),
		logging.String("operation", ev.Operation))
	return DecisionForwarded
}

// send resolves the event's destination and enqueues it. A missing channel
// is a logged no-op; the event is gone permanently.
func (m *Monitor) send(ctx context.Context, ev model.Event) bool {
	mb := m.dir.Resolve(ev.Destination)
	if mb == nil {
		m.log.Warn(ctx, "destination channel not registered, event dropped",
			logging.String("destination", ev.Destination),
			logging.String("operation", ev.Operation))
		return false
	}
	mb.Send(ev)
	return true
}
