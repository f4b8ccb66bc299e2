// Package drawer implements the map/drawing sink. It is the terminal
// consumer of the monitor's fan-out: allowed photos land on the photo map,
// zone add/remove commands draw and clear zone overlays. State is queryable
// for the status endpoint and for tests.
package drawer

import (
	"context"
	"sort"
	"sync"

	"github.com/signalsfoundry/satellite-control-sim/internal/logging"
	"github.com/signalsfoundry/satellite-control-sim/model"
	"github.com/signalsfoundry/satellite-control-sim/zone"
)

// Sink is the drawing actor's event handler.
type Sink struct {
	name string
	log  logging.Logger

	mu     sync.RWMutex
	points []model.GeoPoint
	zones  map[int]zone.Record
}

// NewSink constructs the handler.
func NewSink(name string, log logging.Logger) *Sink {
	return &Sink{
		name:  name,
		log:   logging.ForActor(log, name),
		zones: make(map[int]zone.Record),
	}
}

// HandleEvent processes one inbound event. Malformed payloads are logged
// no-ops, same contract as everywhere else in the pipeline.
func (s *Sink) HandleEvent(ctx context.Context, ev model.Event) {
	switch ev.Operation {
	case model.OpUpdatePhotoMap:
		pt, ok := model.GeoPointFrom(ev.Parameters)
		if !ok {
			s.log.Warn(ctx, "update_photo_map with malformed payload ignored")
			return
		}
		s.mu.Lock()
		s.points = append(s.points, pt)
		s.mu.Unlock()
		s.log.Info(ctx, "photo plotted",
			logging.Float64("lat", pt.Lat),
			logging.Float64("lon", pt.Lon))

	case model.OpDrawRestrictedZone:
		z, ok := ev.Parameters.(*zone.RestrictedZone)
		if !ok || z == nil {
			s.log.Warn(ctx, "draw_restricted_zone with malformed payload ignored")
			return
		}
		s.mu.Lock()
		s.zones[z.ID] = z.ToRecord()
		s.mu.Unlock()
		s.log.Info(ctx, "zone drawn", logging.Int("zone_id", z.ID))

	case model.OpClearRestrictedZone:
		id, ok := ev.Parameters.(int)
		if !ok {
			s.log.Warn(ctx, "clear_restricted_zone with malformed payload ignored")
			return
		}
		s.mu.Lock()
		delete(s.zones, id)
		s.mu.Unlock()
		s.log.Info(ctx, "zone cleared", logging.Int("zone_id", id))

	default:
		s.log.Debug(ctx, "unknown operation ignored", logging.String("operation", ev.Operation))
	}
}

// PhotoCount returns the number of plotted photo points.
func (s *Sink) PhotoCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points)
}

// Points returns a snapshot of the plotted photo points.
func (s *Sink) Points() []model.GeoPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.GeoPoint, len(s.points))
	copy(out, s.points)
	return out
}

// ZoneIDs returns the ids of currently drawn zones, sorted.
func (s *Sink) ZoneIDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int, 0, len(s.zones))
	for id := range s.zones {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ZoneRecord returns the drawn record for a zone id.
func (s *Sink) ZoneRecord(id int) (zone.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.zones[id]
	return r, ok
}
