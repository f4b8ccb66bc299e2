package program

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/signalsfoundry/satellite-control-sim/bus"
	"github.com/signalsfoundry/satellite-control-sim/internal/logging"
	"github.com/signalsfoundry/satellite-control-sim/model"
	"github.com/signalsfoundry/satellite-control-sim/zone"
)

// Orbit parameter bounds enforced before a command becomes an event.
const (
	MinAltitudeM = 160000
	MaxAltitudeM = 2000000
	MaxRAANRad   = 3.14
	MaxIncRad    = 1.57
)

// Interpreter executes a parsed program on behalf of one user: it checks
// permissions per command, validates arguments, and submits every permitted
// command as an event addressed through the security monitor. A denied or
// invalid command is skipped with a log line; execution continues.
type Interpreter struct {
	user string
	role model.Role
	dir  *bus.Directory
	log  logging.Logger

	monitorName string
	orbitName   string
	opticsName  string

	pause   time.Duration
	counter int
}

// NewInterpreter constructs an interpreter for the given user and role.
// monitorName is where every event is submitted; orbitName and opticsName
// are the destinations the monitor relays to.
func NewInterpreter(user string, role model.Role, dir *bus.Directory, monitorName, orbitName, opticsName string, log logging.Logger) *Interpreter {
	return &Interpreter{
		user:        user,
		role:        role,
		dir:         dir,
		log:         logging.ForActor(log, "interpreter").With(logging.String("user", user)),
		monitorName: monitorName,
		orbitName:   orbitName,
		opticsName:  opticsName,
	}
}

// WithPause sets a delay between submitted commands, as the live system
// uses to avoid flooding the uplink. Tests leave it at zero.
func (in *Interpreter) WithPause(d time.Duration) *Interpreter {
	in.pause = d
	return in
}

// Run executes the program and returns the number of commands actually
// submitted.
func (in *Interpreter) Run(ctx context.Context, commands []Command) int {
	in.log.Info(ctx, "program execution started", logging.Int("commands", len(commands)))
	if len(commands) == 0 {
		in.log.Warn(ctx, "program is empty")
		return 0
	}

	executed := 0
	for i, cmd := range commands {
		if ctx.Err() != nil {
			in.log.Warn(ctx, "program execution cancelled", logging.Int("at_command", i+1))
			return executed
		}

		if !Allowed(in.role, cmd.Kind) {
			in.log.Warn(ctx, "command denied: insufficient role",
				logging.String("command", cmd.Kind.String()),
				logging.String("role", in.role.String()))
			continue
		}

		if err := in.execute(ctx, cmd); err != nil {
			in.log.Error(ctx, "command rejected",
				logging.String("command", cmd.Kind.String()),
				logging.Int("line", cmd.Line),
				logging.String("error", err.Error()))
			continue
		}
		executed++
		in.log.Info(ctx, "command submitted", logging.String("command", cmd.Kind.String()))

		if in.pause > 0 && i < len(commands)-1 {
			time.Sleep(in.pause)
		}
	}

	in.log.Info(ctx, "program execution finished", logging.Int("executed", executed))
	return executed
}

func (in *Interpreter) execute(ctx context.Context, cmd Command) error {
	switch cmd.Kind {
	case KindOrbit:
		return in.submitOrbit(cmd)
	case KindMakePhoto:
		return in.submitPhoto()
	case KindAddZone:
		return in.submitAddZone(cmd)
	case KindRemoveZone:
		return in.submitRemoveZone(cmd)
	default:
		return fmt.Errorf("unknown command kind %d", cmd.Kind)
	}
}

func (in *Interpreter) submitOrbit(cmd Command) error {
	if cmd.AltitudeM < MinAltitudeM || cmd.AltitudeM > MaxAltitudeM {
		return fmt.Errorf("altitude %.0f outside [%d, %d]", cmd.AltitudeM, MinAltitudeM, MaxAltitudeM)
	}
	if math.Abs(cmd.RAANRad) > MaxRAANRad {
		return fmt.Errorf("raan %.4f outside [-%.2f, %.2f]", cmd.RAANRad, MaxRAANRad, MaxRAANRad)
	}
	if math.Abs(cmd.InclinationRad) > MaxIncRad {
		return fmt.Errorf("inclination %.4f outside [-%.2f, %.2f]", cmd.InclinationRad, MaxIncRad, MaxIncRad)
	}

	return in.submit(model.Event{
		Source:      in.source(),
		Destination: in.orbitName,
		Operation:   model.OpChangeOrbit,
		Parameters: model.OrbitParams{
			AltitudeM:      cmd.AltitudeM,
			RAANRad:        cmd.RAANRad,
			InclinationRad: cmd.InclinationRad,
		},
		Extra:     in.extras(),
		Signature: in.signature("orbit"),
	})
}

func (in *Interpreter) submitPhoto() error {
	return in.submit(model.Event{
		Source:      in.source(),
		Destination: in.opticsName,
		Operation:   model.OpRequestPhoto,
		Extra:       in.extras(),
		Signature:   in.signature("photo"),
	})
}

func (in *Interpreter) submitAddZone(cmd Command) error {
	lat1, lon1, lat2, lon2 := cmd.Corners[0], cmd.Corners[1], cmd.Corners[2], cmd.Corners[3]

	// Corner order is a caller responsibility: always hand the constructor
	// the min corner as bottom-left.
	z, err := zone.New(cmd.ZoneID,
		math.Min(lat1, lat2), math.Min(lon1, lon2),
		math.Max(lat1, lat2), math.Max(lon1, lon2),
		fmt.Sprintf("added by %s", in.user),
		zone.SeverityHigh,
	)
	if err != nil {
		return err
	}

	return in.submit(model.Event{
		Source:      in.source(),
		Destination: in.monitorName,
		Operation:   model.OpAddRestrictedZone,
		Parameters:  z,
		Extra:       in.extras(),
		Signature:   in.signature("addzone"),
	})
}

func (in *Interpreter) submitRemoveZone(cmd Command) error {
	return in.submit(model.Event{
		Source:      in.source(),
		Destination: in.monitorName,
		Operation:   model.OpRemoveRestrictedZone,
		Parameters:  cmd.ZoneID,
		Extra:       in.extras(),
		Signature:   in.signature("removezone"),
	})
}

// submit places the event on the security monitor's channel. Every command
// flows through the monitor regardless of its final destination.
func (in *Interpreter) submit(ev model.Event) error {
	mb := in.dir.Resolve(in.monitorName)
	if mb == nil {
		return fmt.Errorf("security monitor channel %q not registered", in.monitorName)
	}
	mb.Send(ev)
	return nil
}

func (in *Interpreter) source() string {
	return "client_" + in.user
}

func (in *Interpreter) extras() map[string]any {
	return map[string]any{"user": in.user, "role": int(in.role)}
}

// signature derives an opaque per-command signature. It is carried end to
// end but never verified.
func (in *Interpreter) signature(kind string) string {
	in.counter++
	return fmt.Sprintf("%s_cmd_%s_%d_%s", kind, in.user, in.counter, uuid.NewString())
}
