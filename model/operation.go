package model

// Wire-level operation names. Kept as strings on the Event so that channels
// stay agnostic of the receiving actor, but dispatched through OpKind so the
// handler switch is exhaustive over the closed set.
const (
	OpPostPhotoCheck       = "post_photo_check"
	OpUpdatePhotoMap       = "update_photo_map"
	OpAddRestrictedZone    = "add_restricted_zone"
	OpRemoveRestrictedZone = "remove_restricted_zone"
	OpDrawRestrictedZone   = "draw_restricted_zone"
	OpClearRestrictedZone  = "clear_restricted_zone"
	OpChangeOrbit          = "change_orbit"
	OpRequestPhoto         = "request_photo"
)

// OpKind is the closed set of operations the Security Monitor treats
// specially. Everything else relays through KindRelay.
type OpKind int

const (
	// KindRelay is the default: forward the event to its named destination.
	KindRelay OpKind = iota
	KindPhotoCheck
	KindAddZone
	KindRemoveZone
)

// KindOf maps a wire operation name onto its dispatch kind.
func KindOf(op string) OpKind {
	switch op {
	case OpPostPhotoCheck, OpUpdatePhotoMap:
		return KindPhotoCheck
	case OpAddRestrictedZone:
		return KindAddZone
	case OpRemoveRestrictedZone:
		return KindRemoveZone
	default:
		return KindRelay
	}
}
