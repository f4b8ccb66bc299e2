// Package optics implements the camera subsystem. A photo request is
// geotagged with the current sub-satellite point and submitted to the
// security monitor for geofencing; the optics actor itself takes no
// allow/deny decision.
package optics

import (
	"context"
	"time"

	"github.com/signalsfoundry/satellite-control-sim/bus"
	"github.com/signalsfoundry/satellite-control-sim/internal/logging"
	"github.com/signalsfoundry/satellite-control-sim/model"
)

// PositionSource answers where the platform currently is. The satellite
// tracker implements it.
type PositionSource interface {
	SubPoint(at time.Time) model.GeoPoint
}

// Control is the optics actor's event handler.
type Control struct {
	name        string
	monitorName string
	dir         *bus.Directory
	source      PositionSource
	now         func() time.Time
	log         logging.Logger
}

// NewControl constructs the handler. The now function defaults to wall time
// and exists so tests can pin the sampled instant.
func NewControl(name, monitorName string, dir *bus.Directory, source PositionSource, log logging.Logger) *Control {
	return &Control{
		name:        name,
		monitorName: monitorName,
		dir:         dir,
		source:      source,
		now:         time.Now,
		log:         logging.ForActor(log, name),
	}
}

// WithClock overrides the time source.
func (c *Control) WithClock(now func() time.Time) *Control {
	if now != nil {
		c.now = now
	}
	return c
}

// HandleEvent processes one inbound event.
func (c *Control) HandleEvent(ctx context.Context, ev model.Event) {
	switch ev.Operation {
	case model.OpRequestPhoto:
		c.capture(ctx, ev)
	default:
		c.log.Debug(ctx, "unknown operation ignored", logging.String("operation", ev.Operation))
	}
}

// capture samples the sub-satellite point and submits the shot for
// geofencing, preserving the requester's extras and signature so the
// monitor can attribute a violation.
func (c *Control) capture(ctx context.Context, ev model.Event) {
	pt := c.source.SubPoint(c.now())

	mb := c.dir.Resolve(c.monitorName)
	if mb == nil {
		c.log.Warn(ctx, "security monitor channel not registered, photo dropped")
		return
	}

	mb.Send(model.Event{
		Source:      c.name,
		Destination: c.monitorName,
		Operation:   model.OpPostPhotoCheck,
		Parameters:  pt,
		Extra:       ev.Extra,
		Signature:   ev.Signature,
	})
	c.log.Info(ctx, "photo captured, submitted for geofencing",
		logging.String("user", ev.User()),
		logging.Float64("lat", pt.Lat),
		logging.Float64("lon", pt.Lon))
}
