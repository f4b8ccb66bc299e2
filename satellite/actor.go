package satellite

import (
	"context"
	"time"

	"github.com/signalsfoundry/satellite-control-sim/internal/logging"
	"github.com/signalsfoundry/satellite-control-sim/model"
)

// Actor is the platform-side event handler: it applies mediated change_orbit
// commands to the tracker. Everything reaching it has already passed the
// security monitor.
type Actor struct {
	name    string
	tracker *Tracker
	now     func() time.Time
	log     logging.Logger
}

// NewActor constructs the handler around a tracker.
func NewActor(name string, tracker *Tracker, log logging.Logger) *Actor {
	return &Actor{
		name:    name,
		tracker: tracker,
		now:     time.Now,
		log:     logging.ForActor(log, name),
	}
}

// WithClock overrides the time source for tests.
func (a *Actor) WithClock(now func() time.Time) *Actor {
	if now != nil {
		a.now = now
	}
	return a
}

// HandleEvent processes one inbound event.
func (a *Actor) HandleEvent(ctx context.Context, ev model.Event) {
	switch ev.Operation {
	case model.OpChangeOrbit:
		params, ok := ev.Parameters.(model.OrbitParams)
		if !ok {
			a.log.Warn(ctx, "change_orbit with malformed payload ignored",
				logging.String("source", ev.Source))
			return
		}
		if err := a.tracker.ApplyOrbit(a.now(), params); err != nil {
			a.log.Error(ctx, "orbit change rejected", logging.String("error", err.Error()))
			return
		}
		a.log.Info(ctx, "orbit changed",
			logging.Float64("altitude_m", params.AltitudeM),
			logging.Float64("raan_rad", params.RAANRad),
			logging.Float64("inclination_rad", params.InclinationRad))
	default:
		a.log.Debug(ctx, "unknown operation ignored", logging.String("operation", ev.Operation))
	}
}
