package monitor

import "github.com/signalsfoundry/satellite-control-sim/model"

// Pattern matches one event field: either any value, or one exact string.
// The explicit wildcard type avoids colliding with a literal "*" source or
// destination name.
type Pattern struct {
	exact string
	any   bool
}

// Any returns a pattern matching every value.
func Any() Pattern { return Pattern{any: true} }

// Exact returns a pattern matching exactly s.
func Exact(s string) Pattern { return Pattern{exact: s} }

// ParsePattern interprets "*" as the wildcard and everything else as an
// exact match. Used when rules come from configuration.
func ParsePattern(s string) Pattern {
	if s == "*" {
		return Any()
	}
	return Exact(s)
}

// Matches reports whether the pattern accepts v.
func (p Pattern) Matches(v string) bool {
	return p.any || p.exact == v
}

func (p Pattern) String() string {
	if p.any {
		return "*"
	}
	return p.exact
}

// Rule permits events whose source, destination, and operation all match.
// Rules are checked in order; the first full match accepts the event.
type Rule struct {
	Source      Pattern
	Destination Pattern
	Operation   Pattern
}

// AllowAll is the default rule set: every event passes the policy gate and
// enforcement rests entirely on the geofencing stage. Tightening the rule
// set is a configuration change, not a code change.
func AllowAll() []Rule {
	return []Rule{{Source: Any(), Destination: Any(), Operation: Any()}}
}

// Permits reports whether the rule accepts the event.
func (r Rule) Permits(ev model.Event) bool {
	return r.Source.Matches(ev.Source) &&
		r.Destination.Matches(ev.Destination) &&
		r.Operation.Matches(ev.Operation)
}
