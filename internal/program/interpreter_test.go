package program

import (
	"context"
	"strings"
	"testing"

	"github.com/signalsfoundry/satellite-control-sim/bus"
	"github.com/signalsfoundry/satellite-control-sim/internal/logging"
	"github.com/signalsfoundry/satellite-control-sim/model"
	"github.com/signalsfoundry/satellite-control-sim/zone"
)

const (
	testMonitor = "security_monitor"
	testOrbit   = "orbit_control"
	testOptics  = "optics_control"
)

func newTestInterpreter(t *testing.T, user string, role model.Role) (*Interpreter, *bus.Mailbox) {
	t.Helper()
	dir := bus.NewDirectory()
	mon, err := dir.Register(testMonitor)
	if err != nil {
		t.Fatalf("register monitor: %v", err)
	}
	in := NewInterpreter(user, role, dir, testMonitor, testOrbit, testOptics, logging.Noop())
	return in, mon
}

func parseProgram(t *testing.T, src string) []Command {
	t.Helper()
	cmds, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return cmds
}

func TestRunSubmitsThroughMonitor(t *testing.T) {
	in, mon := newTestInterpreter(t, "alice", model.RoleAdmin)
	cmds := parseProgram(t, "ORBIT 400000 0.5 0.9\nMAKE PHOTO\nADD ZONE 1 50 30 60 40\nREMOVE ZONE 1\n")

	if n := in.Run(context.Background(), cmds); n != 4 {
		t.Fatalf("executed = %d, want 4", n)
	}
	if mon.Len() != 4 {
		t.Fatalf("monitor queue = %d, want 4", mon.Len())
	}

	orbit, _ := mon.ReceiveNoWait()
	if orbit.Operation != model.OpChangeOrbit || orbit.Destination != testOrbit {
		t.Fatalf("orbit event = %+v", orbit)
	}
	params, ok := orbit.Parameters.(model.OrbitParams)
	if !ok || params.AltitudeM != 400000 {
		t.Fatalf("orbit payload = %v", orbit.Parameters)
	}
	if orbit.Source != "client_alice" {
		t.Fatalf("source = %q", orbit.Source)
	}
	if orbit.Extra["user"] != "alice" || orbit.Extra["role"] != int(model.RoleAdmin) {
		t.Fatalf("extras = %v", orbit.Extra)
	}
	if orbit.Signature == "" || !strings.HasPrefix(orbit.Signature, "orbit_cmd_alice_1_") {
		t.Fatalf("signature = %q", orbit.Signature)
	}

	photo, _ := mon.ReceiveNoWait()
	if photo.Operation != model.OpRequestPhoto || photo.Destination != testOptics {
		t.Fatalf("photo event = %+v", photo)
	}

	add, _ := mon.ReceiveNoWait()
	if add.Operation != model.OpAddRestrictedZone || add.Destination != testMonitor {
		t.Fatalf("add zone event = %+v", add)
	}
	z, ok := add.Parameters.(*zone.RestrictedZone)
	if !ok || z.ID != 1 || z.Severity != zone.SeverityHigh {
		t.Fatalf("zone payload = %v", add.Parameters)
	}

	rem, _ := mon.ReceiveNoWait()
	if rem.Operation != model.OpRemoveRestrictedZone {
		t.Fatalf("remove event = %+v", rem)
	}
	if id, ok := rem.Parameters.(int); !ok || id != 1 {
		t.Fatalf("remove payload = %v", rem.Parameters)
	}
}

func TestDeniedCommandsAreSkipped(t *testing.T) {
	in, mon := newTestInterpreter(t, "bob", model.RolePhoto)
	cmds := parseProgram(t, "ORBIT 400000 0.5 0.9\nMAKE PHOTO\nADD ZONE 1 50 30 60 40\n")

	if n := in.Run(context.Background(), cmds); n != 1 {
		t.Fatalf("executed = %d, want 1", n)
	}
	ev, ok := mon.ReceiveNoWait()
	if !ok || ev.Operation != model.OpRequestPhoto {
		t.Fatalf("surviving event = %+v ok=%v", ev, ok)
	}
	if mon.Len() != 0 {
		t.Fatalf("denied commands leaked into the queue")
	}
}

func TestInvalidOrbitParametersRejected(t *testing.T) {
	cases := []string{
		"ORBIT 100000 0 0\n",   // below minimum altitude
		"ORBIT 3000000 0 0\n",  // above maximum altitude
		"ORBIT 400000 3.2 0\n", // raan out of range
		"ORBIT 400000 0 1.6\n", // inclination out of range
	}
	for _, src := range cases {
		in, mon := newTestInterpreter(t, "alice", model.RoleVIP)
		if n := in.Run(context.Background(), parseProgram(t, src)); n != 0 {
			t.Fatalf("%q: executed = %d, want 0", src, n)
		}
		if mon.Len() != 0 {
			t.Fatalf("%q: invalid command was submitted", src)
		}
	}
}

// Corner order in the program text is free-form; the interpreter hands the
// constructor a normalized min/max pair.
func TestAddZoneNormalizesCorners(t *testing.T) {
	in, mon := newTestInterpreter(t, "alice", model.RoleAdmin)
	cmds := parseProgram(t, "ADD ZONE 5 60 40 50 30\n")

	if n := in.Run(context.Background(), cmds); n != 1 {
		t.Fatalf("executed = %d, want 1", n)
	}
	ev, _ := mon.ReceiveNoWait()
	z := ev.Parameters.(*zone.RestrictedZone)
	if z.LatBotLeft != 50 || z.LonBotLeft != 30 || z.LatTopRight != 60 || z.LonTopRight != 40 {
		t.Fatalf("zone corners = %+v", z)
	}
}

func TestInvalidZoneRejected(t *testing.T) {
	in, mon := newTestInterpreter(t, "alice", model.RoleAdmin)
	// Latitudes out of range.
	cmds := parseProgram(t, "ADD ZONE 1 95 0 99 10\n")

	if n := in.Run(context.Background(), cmds); n != 0 {
		t.Fatalf("executed = %d, want 0", n)
	}
	if mon.Len() != 0 {
		t.Fatalf("invalid zone was submitted")
	}
}

func TestRunWithoutMonitorChannel(t *testing.T) {
	dir := bus.NewDirectory()
	in := NewInterpreter("alice", model.RoleAdmin, dir, testMonitor, testOrbit, testOptics, logging.Noop())
	cmds := parseProgram(t, "MAKE PHOTO\n")

	if n := in.Run(context.Background(), cmds); n != 0 {
		t.Fatalf("executed = %d, want 0 with no monitor registered", n)
	}
}

func TestSignaturesAreUniquePerCommand(t *testing.T) {
	in, mon := newTestInterpreter(t, "alice", model.RoleAdmin)
	cmds := parseProgram(t, "MAKE PHOTO\nMAKE PHOTO\n")

	if n := in.Run(context.Background(), cmds); n != 2 {
		t.Fatalf("executed = %d, want 2", n)
	}
	a, _ := mon.ReceiveNoWait()
	b, _ := mon.ReceiveNoWait()
	if a.Signature == b.Signature {
		t.Fatalf("signatures must differ: %q", a.Signature)
	}
}
