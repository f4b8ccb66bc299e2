package program

import (
	"strings"
	"testing"
)

func TestParseFullProgram(t *testing.T) {
	src := `
# mission plan
ORBIT 400000 0.5 0.9

MAKE PHOTO
ADD ZONE 3 50 30 60 40
REMOVE ZONE 3
`
	cmds, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cmds) != 4 {
		t.Fatalf("got %d commands, want 4", len(cmds))
	}

	if cmds[0].Kind != KindOrbit || cmds[0].AltitudeM != 400000 || cmds[0].RAANRad != 0.5 || cmds[0].InclinationRad != 0.9 {
		t.Fatalf("orbit command = %+v", cmds[0])
	}
	if cmds[0].Line != 3 {
		t.Fatalf("orbit line = %d, want 3", cmds[0].Line)
	}

	if cmds[1].Kind != KindMakePhoto {
		t.Fatalf("command 2 = %+v", cmds[1])
	}

	if cmds[2].Kind != KindAddZone || cmds[2].ZoneID != 3 {
		t.Fatalf("add zone command = %+v", cmds[2])
	}
	if cmds[2].Corners != [4]float64{50, 30, 60, 40} {
		t.Fatalf("corners = %v", cmds[2].Corners)
	}

	if cmds[3].Kind != KindRemoveZone || cmds[3].ZoneID != 3 {
		t.Fatalf("remove zone command = %+v", cmds[3])
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"unknown command", "LAUNCH NOW\n"},
		{"orbit too few args", "ORBIT 400000 0.5\n"},
		{"orbit non-numeric", "ORBIT high 0.5 0.9\n"},
		{"make without photo", "MAKE COFFEE\n"},
		{"add zone wrong arity", "ADD ZONE 1 50 30 60\n"},
		{"add zone bad id", "ADD ZONE one 50 30 60 40\n"},
		{"remove zone missing id", "REMOVE ZONE\n"},
		{"remove zone bad id", "REMOVE ZONE x\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tc.src)); err == nil {
				t.Fatalf("expected parse error for %q", tc.src)
			}
		})
	}
}

func TestParseErrorReportsLineNumber(t *testing.T) {
	src := "MAKE PHOTO\n\n# ok so far\nORBIT nope 0 0\n"
	_, err := Parse(strings.NewReader(src))
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if !strings.Contains(err.Error(), "line 4") {
		t.Fatalf("error %q does not name line 4", err)
	}
}

func TestParseEmptyProgram(t *testing.T) {
	cmds, err := Parse(strings.NewReader("# nothing here\n\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cmds) != 0 {
		t.Fatalf("got %d commands, want 0", len(cmds))
	}
}
