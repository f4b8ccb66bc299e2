package model

// Role is the access level attached to a command program's user.
type Role int

const (
	// RolePhoto may only request photographs.
	RolePhoto Role = 1
	// RoleVIP may additionally retarget the orbit.
	RoleVIP Role = 2
	// RoleAdmin may additionally manage restricted zones.
	RoleAdmin Role = 3
)

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	return r >= RolePhoto && r <= RoleAdmin
}

func (r Role) String() string {
	switch r {
	case RolePhoto:
		return "photo"
	case RoleVIP:
		return "vip"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}
