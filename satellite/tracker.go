// Package satellite tracks the simulated platform's orbital state. It
// propagates position with SGP4 from a TLE and answers the sub-satellite
// point queries the optics subsystem needs to geotag photo requests.
package satellite

import (
	"fmt"
	"sync"
	"time"

	sgp4 "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/satellite-control-sim/model"
)

// Tracker holds the active orbital model. Orbit retargeting swaps the model
// under a lock; position queries come from other goroutines (optics).
type Tracker struct {
	mu  sync.RWMutex
	sat sgp4.Satellite
}

// NewFromTLE builds a tracker from two TLE lines.
func NewFromTLE(line1, line2 string) *Tracker {
	return &Tracker{sat: sgp4.TLEToSat(line1, line2, sgp4.GravityWGS72)}
}

// ApplyOrbit replaces the orbital model with a circular orbit derived from
// the change request: altitude fixes the mean motion, RAAN and inclination
// are taken as given, and the TLE epoch is set to now so propagation starts
// from the moment of the manoeuvre.
func (t *Tracker) ApplyOrbit(now time.Time, p model.OrbitParams) error {
	line1, line2, err := CircularTLE(now, p)
	if err != nil {
		return fmt.Errorf("apply orbit: %w", err)
	}

	sat := sgp4.TLEToSat(line1, line2, sgp4.GravityWGS72)

	t.mu.Lock()
	t.sat = sat
	t.mu.Unlock()
	return nil
}

// SubPoint returns the geodetic point directly beneath the platform at the
// given time, in degrees.
func (t *Tracker) SubPoint(at time.Time) model.GeoPoint {
	t.mu.RLock()
	sat := t.sat
	t.mu.RUnlock()

	at = at.UTC()
	year, month, day := at.Date()
	hour, min, sec := at.Clock()

	posECI, _ := sgp4.Propagate(sat, year, int(month), day, hour, min, sec)
	gmst := sgp4.ThetaG_JD(sgp4.JDay(year, int(month), day, hour, min, sec))

	_, _, ll := sgp4.ECIToLLA(posECI, gmst)
	deg := sgp4.LatLongDeg(ll)
	return model.GeoPoint{Lat: deg.Latitude, Lon: normalizeLon(deg.Longitude)}
}

// PositionECEF returns the platform's ECEF position in kilometres, for
// telemetry display.
func (t *Tracker) PositionECEF(at time.Time) (x, y, z float64) {
	t.mu.RLock()
	sat := t.sat
	t.mu.RUnlock()

	at = at.UTC()
	year, month, day := at.Date()
	hour, min, sec := at.Clock()

	posECI, _ := sgp4.Propagate(sat, year, int(month), day, hour, min, sec)
	gmst := sgp4.ThetaG_JD(sgp4.JDay(year, int(month), day, hour, min, sec))
	ecef := sgp4.ECIToECEF(posECI, gmst)
	return ecef.X, ecef.Y, ecef.Z
}

// normalizeLon maps a longitude into (-180, 180].
func normalizeLon(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon <= -180 {
		lon += 360
	}
	return lon
}
