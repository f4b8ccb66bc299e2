package program

import (
	"testing"

	"github.com/signalsfoundry/satellite-control-sim/model"
)

func TestPermissionTable(t *testing.T) {
	cases := []struct {
		role model.Role
		kind Kind
		want bool
	}{
		{model.RolePhoto, KindMakePhoto, true},
		{model.RolePhoto, KindOrbit, false},
		{model.RolePhoto, KindAddZone, false},
		{model.RolePhoto, KindRemoveZone, false},

		{model.RoleVIP, KindMakePhoto, true},
		{model.RoleVIP, KindOrbit, true},
		{model.RoleVIP, KindAddZone, false},
		{model.RoleVIP, KindRemoveZone, false},

		{model.RoleAdmin, KindMakePhoto, true},
		{model.RoleAdmin, KindOrbit, true},
		{model.RoleAdmin, KindAddZone, true},
		{model.RoleAdmin, KindRemoveZone, true},
	}
	for _, tc := range cases {
		if got := Allowed(tc.role, tc.kind); got != tc.want {
			t.Fatalf("Allowed(%v, %v) = %v, want %v", tc.role, tc.kind, got, tc.want)
		}
	}
}

func TestUnknownRoleDenied(t *testing.T) {
	if Allowed(model.Role(0), KindMakePhoto) {
		t.Fatalf("zero role must be denied")
	}
	if Allowed(model.Role(99), KindOrbit) {
		t.Fatalf("unknown role must be denied")
	}
}
