package drawer

import (
	"context"
	"testing"

	"github.com/signalsfoundry/satellite-control-sim/internal/logging"
	"github.com/signalsfoundry/satellite-control-sim/model"
	"github.com/signalsfoundry/satellite-control-sim/zone"
)

func TestPhotoPlotting(t *testing.T) {
	s := NewSink("orbit_drawer", logging.Noop())
	ctx := context.Background()

	s.HandleEvent(ctx, model.Event{
		Operation:  model.OpUpdatePhotoMap,
		Parameters: model.GeoPoint{Lat: 10, Lon: 20},
	})
	s.HandleEvent(ctx, model.Event{
		Operation:  model.OpUpdatePhotoMap,
		Parameters: model.GeoPoint{Lat: -5, Lon: 30},
	})

	if s.PhotoCount() != 2 {
		t.Fatalf("PhotoCount() = %d, want 2", s.PhotoCount())
	}
	pts := s.Points()
	if pts[0] != (model.GeoPoint{Lat: 10, Lon: 20}) || pts[1] != (model.GeoPoint{Lat: -5, Lon: 30}) {
		t.Fatalf("Points() = %v", pts)
	}
}

func TestDrawAndClearZones(t *testing.T) {
	s := NewSink("orbit_drawer", logging.Noop())
	ctx := context.Background()

	za, err := zone.New(2, 0, 0, 10, 10, "a", zone.SeverityLow)
	if err != nil {
		t.Fatalf("zone.New: %v", err)
	}
	zb, err := zone.New(1, 20, 20, 30, 30, "b", zone.SeverityHigh)
	if err != nil {
		t.Fatalf("zone.New: %v", err)
	}

	s.HandleEvent(ctx, model.Event{Operation: model.OpDrawRestrictedZone, Parameters: za})
	s.HandleEvent(ctx, model.Event{Operation: model.OpDrawRestrictedZone, Parameters: zb})

	ids := s.ZoneIDs()
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("ZoneIDs() = %v, want sorted [1 2]", ids)
	}
	rec, ok := s.ZoneRecord(2)
	if !ok || rec.Description != "a" || rec.Area != 100 {
		t.Fatalf("ZoneRecord(2) = %+v ok=%v", rec, ok)
	}

	s.HandleEvent(ctx, model.Event{Operation: model.OpClearRestrictedZone, Parameters: 2})
	if ids := s.ZoneIDs(); len(ids) != 1 || ids[0] != 1 {
		t.Fatalf("ZoneIDs() after clear = %v, want [1]", ids)
	}
	if _, ok := s.ZoneRecord(2); ok {
		t.Fatalf("cleared zone still present")
	}
}

func TestMalformedPayloadsIgnored(t *testing.T) {
	s := NewSink("orbit_drawer", logging.Noop())
	ctx := context.Background()

	s.HandleEvent(ctx, model.Event{Operation: model.OpUpdatePhotoMap, Parameters: "nope"})
	s.HandleEvent(ctx, model.Event{Operation: model.OpDrawRestrictedZone, Parameters: 7})
	s.HandleEvent(ctx, model.Event{Operation: model.OpClearRestrictedZone, Parameters: "7"})
	s.HandleEvent(ctx, model.Event{Operation: "telemetry_ping"})

	if s.PhotoCount() != 0 || len(s.ZoneIDs()) != 0 {
		t.Fatalf("malformed events mutated the sink")
	}
}

func TestPointsReturnsCopy(t *testing.T) {
	s := NewSink("orbit_drawer", logging.Noop())
	s.HandleEvent(context.Background(), model.Event{
		Operation:  model.OpUpdatePhotoMap,
		Parameters: model.GeoPoint{Lat: 1, Lon: 1},
	})

	pts := s.Points()
	pts[0] = model.GeoPoint{Lat: 99, Lon: 99}
	if got := s.Points()[0]; got != (model.GeoPoint{Lat: 1, Lon: 1}) {
		t.Fatalf("sink state mutated through snapshot: %v", got)
	}
}
