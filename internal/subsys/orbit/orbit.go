// Package orbit implements the orbit-control subsystem. It performs no
// flight dynamics of its own: a change_orbit command is validated for shape
// and relayed onward to the satellite platform, always through the security
// monitor so the manoeuvre is mediated and audited like any other command.
package orbit

import (
	"context"
	"fmt"

	"github.com/signalsfoundry/satellite-control-sim/bus"
	"github.com/signalsfoundry/satellite-control-sim/internal/logging"
	"github.com/signalsfoundry/satellite-control-sim/model"
)

// Control is the orbit-control actor's event handler.
type Control struct {
	name          string
	monitorName   string
	satelliteName string
	dir           *bus.Directory
	log           logging.Logger
}

// NewControl constructs the handler. name is the actor's own channel;
// relayed requests go to the monitor's channel addressed to the satellite's.
func NewControl(name, monitorName, satelliteName string, dir *bus.Directory, log logging.Logger) *Control {
	return &Control{
		name:          name,
		monitorName:   monitorName,
		satelliteName: satelliteName,
		dir:           dir,
		log:           logging.ForActor(log, name),
	}
}

// HandleEvent processes one inbound event.
func (c *Control) HandleEvent(ctx context.Context, ev model.Event) {
	switch ev.Operation {
	case model.OpChangeOrbit:
		params, ok := ev.Parameters.(model.OrbitParams)
		if !ok {
			c.log.Warn(ctx, "change_orbit with malformed payload ignored",
				logging.String("source", ev.Source))
			return
		}
		c.relayOrbitChange(ctx, params, ev)
	default:
		c.log.Debug(ctx, "unknown operation ignored", logging.String("operation", ev.Operation))
	}
}

// relayOrbitChange forwards the manoeuvre to the satellite via the monitor.
// The derived signature ties the relayed event back to the parameters.
func (c *Control) relayOrbitChange(ctx context.Context, params model.OrbitParams, ev model.Event) {
	c.log.Info(ctx, "orbit change requested",
		logging.Float64("altitude_m", params.AltitudeM),
		logging.Float64("raan_rad", params.RAANRad),
		logging.Float64("inclination_rad", params.InclinationRad))

	mb := c.dir.Resolve(c.monitorName)
	if mb == nil {
		c.log.Warn(ctx, "security monitor channel not registered, orbit change dropped")
		return
	}

	mb.Send(model.Event{
		Source:      c.name,
		Destination: c.satelliteName,
		Operation:   model.OpChangeOrbit,
		Parameters:  params,
		Extra:       ev.Extra,
		Signature: fmt.Sprintf("orbit_%.0f_%.4f_%.4f",
			params.AltitudeM, params.RAANRad, params.InclinationRad),
	})
	c.log.Info(ctx, "orbit change relayed to satellite")
}
