package access

import (
	"testing"

	"vet-practice/internal/domain/catalog"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCan_DefaultDenyForUnknownAndMissingRole(t *testing.T) {
	r := NewResolver(DefaultTable())

	resources := []string{catalog.Clients, catalog.Patients, catalog.Invoices, ResourceAll, "unknown"}

	for _, res := range resources {
		for _, a := range Actions {
			d := r.Can(RoleNone, res, a)
			assert.False(t, d.Permitted, "no role %s/%s", res, a)
			assert.Equal(t, ReasonNoRole, d.Reason)

			d = r.Can(Role("JANITOR"), res, a)
			assert.False(t, d.Permitted, "unknown role %s/%s", res, a)
			assert.Equal(t, ReasonInvalidRole, d.Reason)
		}
	}
}

func TestCan_UnlistedResourceIsDenied(t *testing.T) {
	r := NewResolver(DefaultTable())

	d := r.Can(RoleNurse, catalog.Invoices, ActionList)
	assert.False(t, d.Permitted)
	assert.Empty(t, d.Reason)

	d = r.Can(RoleNurse, catalog.Patients, ActionDelete)
	assert.False(t, d.Permitted)
}

func TestCan_WildcardWinsOverSpecificEntry(t *testing.T) {
	table := Table{
		"AUDITOR": {
			ResourceAll:     perms(ActionList, ActionShow),
			catalog.Clients: full(),
		},
	}
	r := NewResolver(table)

	for _, a := range Actions {
		want := table["AUDITOR"][ResourceAll][a]
		for _, res := range []string{catalog.Clients, catalog.Patients, "anything"} {
			got := r.Can("AUDITOR", res, a)
			assert.Equal(t, want, got.Permitted, "%s/%s", res, a)
		}
	}

	// sin fallback: "all" no define delete y la entrada específica sí
	assert.False(t, r.Can("AUDITOR", catalog.Clients, ActionDelete).Permitted)
}

func TestCan_DefaultTable(t *testing.T) {
	r := NewResolver(DefaultTable())

	cases := []struct {
		role     Role
		resource string
		action   Action
		want     bool
	}{
		{RoleCEO, catalog.Analytics, ActionDelete, true},
		{RoleCEO, "anything", ActionCreate, true},
		{RoleManager, catalog.MedicalRecords, ActionShow, true},
		{RoleManager, catalog.MedicalRecords, ActionEdit, false},
		{RoleManager, catalog.Staff, ActionDelete, false},
		{RoleVeterinarian, catalog.MedicalRecords, ActionCreate, true},
		{RoleVeterinarian, catalog.Invoices, ActionEdit, false},
		{RoleNurse, catalog.Clients, ActionShow, true},
		{RoleNurse, catalog.Clients, ActionEdit, false},
		{RoleReceptionist, catalog.Appointments, ActionDelete, true},
		{RoleReceptionist, catalog.MedicalRecords, ActionList, false},
	}

	for _, tc := range cases {
		got := r.Can(tc.role, tc.resource, tc.action)
		assert.Equal(t, tc.want, got.Permitted, "%s %s %s", tc.role, tc.resource, tc.action)
	}
}

func TestNewResolver_CopiesTable(t *testing.T) {
	table := Table{RoleNurse: {catalog.Patients: perms(ActionList)}}
	r := NewResolver(table)

	table[RoleNurse][catalog.Patients][ActionDelete] = true
	assert.False(t, r.Can(RoleNurse, catalog.Patients, ActionDelete).Permitted)

	dump := r.Table()
	dump[RoleNurse][catalog.Patients][ActionEdit] = true
	assert.False(t, r.Can(RoleNurse, catalog.Patients, ActionEdit).Permitted)
}

func TestRolesAndAllowed(t *testing.T) {
	r := NewResolver(DefaultTable())

	assert.Equal(t, []Role{RoleCEO, RoleManager, RoleNurse, RoleReceptionist, RoleVeterinarian}, r.Roles())
	assert.True(t, r.HasRole(RoleNurse))
	assert.False(t, r.HasRole(RoleNone))

	assert.Equal(t, []Action{ActionList, ActionShow, ActionEdit}, r.Allowed(RoleNurse, catalog.Patients))
	assert.Equal(t, Actions, r.Allowed(RoleCEO, catalog.Invoices))
}

func TestMatrix(t *testing.T) {
	r := NewResolver(Table{
		RoleNurse: {
			catalog.Patients: perms(ActionShow, ActionList),
			catalog.Invoices: {ActionList: false},
		},
	})

	want := map[Role]map[string][]Action{
		RoleNurse: {catalog.Patients: {ActionList, ActionShow}},
	}
	if diff := cmp.Diff(want, r.Matrix()); diff != "" {
		t.Fatalf("matrix mismatch (-want +got):\n%s", diff)
	}
}

func TestParse(t *testing.T) {
	assert.Equal(t, RoleNurse, ParseRole("  nurse "))
	assert.Equal(t, RoleNone, ParseRole(""))

	a, ok := ParseAction("EDIT")
	require.True(t, ok)
	assert.Equal(t, ActionEdit, a)

	_, ok = ParseAction("approve")
	assert.False(t, ok)
}
