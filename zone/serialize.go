package zone

import (
	"encoding/json"
	"fmt"
)

// Record is the wire form of a zone, exchanged with the map sink and any
// persistence layer. The derived fields (center, area, severity description)
// are included for consumers that render without importing this package, but
// they are never trusted on the way back in: FromRecord recomputes them.
type Record struct {
	ZoneID      int     `json:"zone_id"`
	LatBotLeft  float64 `json:"lat_bot_left"`
	LonBotLeft  float64 `json:"lon_bot_left"`
	LatTopRight float64 `json:"lat_top_right"`
	LonTopRight float64 `json:"lon_top_right"`
	Description string  `json:"description"`
	Severity    int     `json:"severity_level"`

	Center              [2]float64 `json:"center"`
	Area                float64    `json:"area"`
	SeverityDescription string     `json:"severity_description"`
}

// ToRecord builds the wire form including derived fields.
func (z *RestrictedZone) ToRecord() Record {
	lat, lon := z.Center()
	return Record{
		ZoneID:              z.ID,
		LatBotLeft:          z.LatBotLeft,
		LonBotLeft:          z.LonBotLeft,
		LatTopRight:         z.LatTopRight,
		LonTopRight:         z.LonTopRight,
		Description:         z.Description,
		Severity:            z.Severity,
		Center:              [2]float64{lat, lon},
		Area:                z.Area(),
		SeverityDescription: z.SeverityDescription(),
	}
}

// MarshalJSON emits the Record form so a zone serializes the same whether it
// is encoded directly or via ToRecord.
func (z *RestrictedZone) MarshalJSON() ([]byte, error) {
	return json.Marshal(z.ToRecord())
}

// FromRecord rebuilds a zone from its wire form, revalidating all invariants
// and discarding the record's derived fields.
func FromRecord(r Record) (*RestrictedZone, error) {
	z, err := New(r.ZoneID, r.LatBotLeft, r.LonBotLeft, r.LatTopRight, r.LonTopRight, r.Description, r.Severity)
	if err != nil {
		return nil, fmt.Errorf("decode zone record: %w", err)
	}
	return z, nil
}

// FromJSON decodes and validates a zone from its JSON wire form.
func FromJSON(data []byte) (*RestrictedZone, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode zone record: %w", err)
	}
	return FromRecord(r)
}
