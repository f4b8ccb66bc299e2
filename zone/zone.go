// Package zone implements the rectangular no-photography regions enforced by
// the security monitor. A zone is an axis-aligned lat/lon box described by
// its bottom-left and top-right corners in degrees.
package zone

import (
	"errors"
	"fmt"
	"math"
)

// Severity levels. Higher means stricter enforcement.
const (
	SeverityLow    = 1 // informational restrictions
	SeverityMedium = 2 // photography restricted
	SeverityHigh   = 3 // full ban
)

// Construction validation failures. Each invariant violation is a distinct
// error so callers can report precisely which bound was wrong.
var (
	ErrLatRange = errors.New("latitude out of range [-90, 90]")
	ErrLonRange = errors.New("longitude out of range [-180, 180]")
	ErrLatOrder = errors.New("bottom latitude must be strictly below top latitude")
	ErrLonWrap  = errors.New("zone may not span the antimeridian")
	ErrSeverity = errors.New("severity level must be between 1 and 3")
)

// RestrictedZone is a rectangular region in which photography is blocked.
// Instances built through New are validated; the containment and area logic
// nevertheless keeps its antimeridian branches so that a zone assembled by
// hand (e.g. from trusted storage) still behaves sensibly.
type RestrictedZone struct {
	ID          int
	LatBotLeft  float64
	LonBotLeft  float64
	LatTopRight float64
	LonTopRight float64
	Description string
	Severity    int
}

// New validates the corner coordinates and severity and returns the zone.
// Callers are responsible for passing corners already ordered min/max; the
// command layer normalizes raw user input before calling New.
func New(id int, latBotLeft, lonBotLeft, latTopRight, lonTopRight float64, description string, severity int) (*RestrictedZone, error) {
	if latBotLeft < -90 || latBotLeft > 90 || latTopRight < -90 || latTopRight > 90 {
		return nil, fmt.Errorf("zone %d: %w", id, ErrLatRange)
	}
	if lonBotLeft < -180 || lonBotLeft > 180 || lonTopRight < -180 || lonTopRight > 180 {
		return nil, fmt.Errorf("zone %d: %w", id, ErrLonRange)
	}
	if latBotLeft >= latTopRight {
		return nil, fmt.Errorf("zone %d: bottom %v >= top %v: %w", id, latBotLeft, latTopRight, ErrLatOrder)
	}
	// Zones crossing the date line are rejected for now; the containment
	// math below would handle them, but up-stream tooling (drawing, area
	// reporting) assumes a single contiguous box.
	if normLon(lonBotLeft) >= normLon(lonTopRight) {
		return nil, fmt.Errorf("zone %d: left %v right %v: %w", id, lonBotLeft, lonTopRight, ErrLonWrap)
	}
	if severity < SeverityLow || severity > SeverityHigh {
		return nil, fmt.Errorf("zone %d: level %d: %w", id, severity, ErrSeverity)
	}
	return &RestrictedZone{
		ID:          id,
		LatBotLeft:  latBotLeft,
		LonBotLeft:  lonBotLeft,
		LatTopRight: latTopRight,
		LonTopRight: lonTopRight,
		Description: description,
		Severity:    severity,
	}, nil
}

// normLon maps a longitude into [0, 360) so interval comparisons work across
// the ±180° seam.
func normLon(lon float64) float64 {
	return math.Mod(lon+360, 360)
}

// Contains reports whether the point lies inside the zone. Latitude is a
// plain closed-interval test; longitude comparisons run in normalized
// [0, 360) space, including the wraparound branch for zones whose normalized
// bounds cross zero.
func (z *RestrictedZone) Contains(lat, lon float64) bool {
	if lat < z.LatBotLeft || lat > z.LatTopRight {
		return false
	}

	l := normLon(lon)
	left := normLon(z.LonBotLeft)
	right := normLon(z.LonTopRight)

	if left <= right {
		return left <= l && l <= right
	}
	// Zone spans the antimeridian.
	return l >= left || l <= right
}

// Center returns the arithmetic midpoint of the corners. Not wraparound
// aware, which is fine while New rejects wrapping zones.
func (z *RestrictedZone) Center() (lat, lon float64) {
	return (z.LatBotLeft + z.LatTopRight) / 2, (z.LonBotLeft + z.LonTopRight) / 2
}

// Area returns the zone extent in square degrees. A coarse proxy for
// reporting, not a geodesic area.
func (z *RestrictedZone) Area() float64 {
	latRange := math.Abs(z.LatTopRight - z.LatBotLeft)

	left := normLon(z.LonBotLeft)
	right := normLon(z.LonTopRight)

	var lonRange float64
	if left <= right {
		lonRange = right - left
	} else {
		lonRange = (360 - left) + right
	}
	return latRange * lonRange
}

// Intersects reports whether the two boxes overlap. The longitude test works
// on raw coordinates and is an approximation near the antimeridian.
func (z *RestrictedZone) Intersects(other *RestrictedZone) bool {
	if z.LatTopRight < other.LatBotLeft || z.LatBotLeft > other.LatTopRight {
		return false
	}
	if z.LonTopRight < other.LonBotLeft || z.LonBotLeft > other.LonTopRight {
		return false
	}
	return true
}

// SeverityDescription returns the operator-facing meaning of the severity
// level.
func (z *RestrictedZone) SeverityDescription() string {
	switch z.Severity {
	case SeverityLow:
		return "low: informational restrictions"
	case SeverityMedium:
		return "medium: photography restricted"
	case SeverityHigh:
		return "high: full ban"
	default:
		return "unknown severity"
	}
}

func (z *RestrictedZone) String() string {
	return fmt.Sprintf("RestrictedZone(id=%d, bounds=[%.2f, %.2f]->[%.2f, %.2f], severity=%d)",
		z.ID, z.LatBotLeft, z.LonBotLeft, z.LatTopRight, z.LonTopRight, z.Severity)
}
