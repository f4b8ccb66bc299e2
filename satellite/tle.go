package satellite

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/signalsfoundry/satellite-control-sim/model"
)

const (
	// earthMuKm3S2 is the geocentric gravitational parameter, km³/s².
	earthMuKm3S2 = 398600.4418
	// earthRadiusKm is the mean Earth radius used for the semi-major axis.
	earthRadiusKm = 6371.0

	// synthSatnum is the catalog number stamped on synthesized element sets,
	// picked from the 9xxxx analyst range so it cannot collide with a real
	// object.
	synthSatnum = 90001
)

// ErrAltitude rejects orbits whose altitude SGP4 cannot meaningfully model.
var ErrAltitude = errors.New("orbit altitude outside supported range")

// CircularTLE synthesizes a two-line element set for a circular orbit with
// the requested altitude, RAAN, and inclination, with its epoch at t. The
// column layout follows the TLE standard exactly since SGP4 parsers index by
// position.
func CircularTLE(t time.Time, p model.OrbitParams) (line1, line2 string, err error) {
	altKm := p.AltitudeM / 1000.0
	if altKm < 120 || altKm > 40000 {
		return "", "", fmt.Errorf("%.0f km: %w", altKm, ErrAltitude)
	}

	// Mean motion in revolutions per day from the semi-major axis.
	aKm := earthRadiusKm + altKm
	periodSec := 2 * math.Pi * math.Sqrt(aKm*aKm*aKm/earthMuKm3S2)
	meanMotion := 86400.0 / periodSec

	incDeg := wrapDeg(p.InclinationRad * 180 / math.Pi)
	raanDeg := wrapDeg(p.RAANRad * 180 / math.Pi)

	t = t.UTC()
	epochYear := t.Year() % 100
	epochDay := float64(t.YearDay()) + secondsIntoDay(t)/86400.0

	l1 := fmt.Sprintf("1 %05dU 00000A   %02d%012.8f  .00000000  00000-0  00000-0 0 %4d",
		synthSatnum, epochYear, epochDay, 1)
	l2 := fmt.Sprintf("2 %05d %8.4f %8.4f 0000000 %8.4f %8.4f %11.8f%5d",
		synthSatnum, incDeg, raanDeg, 0.0, 0.0, meanMotion, 1)

	return l1 + tleChecksum(l1), l2 + tleChecksum(l2), nil
}

// tleChecksum returns the mod-10 checksum digit of a TLE line: digits count
// as themselves, minus signs as 1, everything else as 0.
func tleChecksum(line string) string {
	sum := 0
	for _, r := range line {
		switch {
		case r >= '0' && r <= '9':
			sum += int(r - '0')
		case r == '-':
			sum++
		}
	}
	return fmt.Sprintf("%d", sum%10)
}

// wrapDeg maps an angle into [0, 360).
func wrapDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func secondsIntoDay(t time.Time) float64 {
	h, m, s := t.Clock()
	return float64(h*3600+m*60+s) + float64(t.Nanosecond())/1e9
}
