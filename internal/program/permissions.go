package program

import "github.com/signalsfoundry/satellite-control-sim/model"

// permissions maps each command kind to the roles allowed to issue it.
// Photography is open to everyone; orbit changes need VIP; zone management
// is admin-only.
var permissions = map[Kind]map[model.Role]bool{
	KindMakePhoto:  {model.RolePhoto: true, model.RoleVIP: true, model.RoleAdmin: true},
	KindOrbit:      {model.RoleVIP: true, model.RoleAdmin: true},
	KindAddZone:    {model.RoleAdmin: true},
	KindRemoveZone: {model.RoleAdmin: true},
}

// Allowed reports whether the role may issue the command kind. Unknown
// kinds are denied.
func Allowed(role model.Role, k Kind) bool {
	return permissions[k][role]
}
