// Package program implements the ground-side command layer: the text
// program parser, the role permission table, and the interpreter that turns
// commands into mediated events.
//
// Program syntax, one command per line, "#" comments and blank lines
// ignored:
//
//	ORBIT <altitude_m> <raan_rad> <inclination_rad>
//	MAKE PHOTO
//	ADD ZONE <id> <lat1> <lon1> <lat2> <lon2>
//	REMOVE ZONE <id>
package program

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Kind enumerates the command vocabulary.
type Kind int

const (
	KindOrbit Kind = iota
	KindMakePhoto
	KindAddZone
	KindRemoveZone
)

func (k Kind) String() string {
	switch k {
	case KindOrbit:
		return "ORBIT"
	case KindMakePhoto:
		return "MAKE PHOTO"
	case KindAddZone:
		return "ADD ZONE"
	case KindRemoveZone:
		return "REMOVE ZONE"
	default:
		return "UNKNOWN"
	}
}

// Command is one parsed program line.
type Command struct {
	Kind Kind
	// Line is the 1-based source line, kept for diagnostics.
	Line int

	// ORBIT arguments.
	AltitudeM      float64
	RAANRad        float64
	InclinationRad float64

	// Zone arguments. Corners are raw user input, not yet min/max
	// normalized; the interpreter normalizes before construction.
	ZoneID  int
	Corners [4]float64 // lat1, lon1, lat2, lon2
}

// Parse reads a command program. Any malformed line fails the whole program
// with its line number; a program is executed all-or-nothing at the syntax
// level.
func Parse(r io.Reader) ([]Command, error) {
	var commands []Command

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		s := strings.TrimSpace(scanner.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}

		parts := strings.Fields(s)
		cmd, err := parseLine(parts)
		if err != nil {
			return nil, fmt.Errorf("syntax error at line %d: %w", lineNo, err)
		}
		cmd.Line = lineNo
		commands = append(commands, cmd)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read program: %w", err)
	}
	return commands, nil
}

func parseLine(parts []string) (Command, error) {
	switch {
	case parts[0] == "ORBIT":
		if len(parts) != 4 {
			return Command{}, fmt.Errorf("ORBIT wants 3 arguments, got %d", len(parts)-1)
		}
		args, err := parseFloats(parts[1:4])
		if err != nil {
			return Command{}, err
		}
		return Command{
			Kind:           KindOrbit,
			AltitudeM:      args[0],
			RAANRad:        args[1],
			InclinationRad: args[2],
		}, nil

	case parts[0] == "MAKE" && len(parts) == 2 && parts[1] == "PHOTO":
		return Command{Kind: KindMakePhoto}, nil

	case parts[0] == "ADD" && len(parts) >= 2 && parts[1] == "ZONE":
		if len(parts) != 7 {
			return Command{}, fmt.Errorf("ADD ZONE wants 5 arguments, got %d", len(parts)-2)
		}
		id, err := strconv.Atoi(parts[2])
		if err != nil {
			return Command{}, fmt.Errorf("zone id %q: %w", parts[2], err)
		}
		args, err := parseFloats(parts[3:7])
		if err != nil {
			return Command{}, err
		}
		return Command{
			Kind:    KindAddZone,
			ZoneID:  id,
			Corners: [4]float64{args[0], args[1], args[2], args[3]},
		}, nil

	case parts[0] == "REMOVE" && len(parts) >= 2 && parts[1] == "ZONE":
		if len(parts) != 3 {
			return Command{}, fmt.Errorf("REMOVE ZONE wants 1 argument, got %d", len(parts)-2)
		}
		id, err := strconv.Atoi(parts[2])
		if err != nil {
			return Command{}, fmt.Errorf("zone id %q: %w", parts[2], err)
		}
		return Command{Kind: KindRemoveZone, ZoneID: id}, nil

	default:
		return Command{}, fmt.Errorf("unknown command %q", strings.Join(parts, " "))
	}
}

func parseFloats(parts []string) ([]float64, error) {
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}
