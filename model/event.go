package model

// Event is the message exchanged between subsystem actors. Events are
// immutable after construction: a forwarding hop builds a new Event rather
// than mutating one in flight.
type Event struct {
	// Source identifies the sending actor (its channel name).
	Source string
	// Destination names the channel the event is addressed to.
	Destination string
	// Operation selects the behaviour at the receiver, e.g. "post_photo_check".
	Operation string
	// Parameters is an operation-dependent payload: a GeoPoint, a
	// *zone.RestrictedZone, a zone id, OrbitParams, or nil.
	Parameters any
	// Extra carries optional request metadata such as "user" and "role".
	Extra map[string]any
	// Signature is an opaque sender-supplied string. It is carried end to
	// end but never verified.
	Signature string
}

// User returns the "user" entry of Extra, or "unknown" when absent.
func (e Event) User() string {
	if u, ok := e.Extra["user"].(string); ok && u != "" {
		return u
	}
	return "unknown"
}

// ControlOp is an out-of-band instruction delivered on an actor's control
// channel, separate from its event inbox.
type ControlOp int

const (
	// ControlStop asks the actor loop to exit after the in-flight event.
	ControlStop ControlOp = iota
)

// ControlEvent is the message type of control channels.
type ControlEvent struct {
	Op ControlOp
}
