package model

// GeoPoint is a geodetic position in degrees.
type GeoPoint struct {
	Lat float64
	Lon float64
}

// OrbitParams is the payload of a change_orbit request.
type OrbitParams struct {
	// AltitudeM is the target circular orbit altitude in metres.
	AltitudeM float64
	// RAANRad is the right ascension of the ascending node, radians.
	RAANRad float64
	// InclinationRad is the orbital inclination, radians.
	InclinationRad float64
}

// GeoPointFrom extracts a GeoPoint from an event payload. Photo events carry
// either a GeoPoint or an ordered numeric pair of at least two elements; any
// other shape reports ok=false and the caller drops the event.
func GeoPointFrom(payload any) (GeoPoint, bool) {
	switch p := payload.(type) {
	case GeoPoint:
		return p, true
	case *GeoPoint:
		if p != nil {
			return *p, true
		}
	case []float64:
		if len(p) >= 2 {
			return GeoPoint{Lat: p[0], Lon: p[1]}, true
		}
	}
	return GeoPoint{}, false
}
