package access

import "vet-practice/internal/domain/catalog"

func full() Permissions {
	return Permissions{ActionList: true, ActionShow: true, ActionCreate: true, ActionEdit: true, ActionDelete: true}
}

func readOnly() Permissions {
	return Permissions{ActionList: true, ActionShow: true}
}

func perms(actions ...Action) Permissions {
	p := Permissions{}
	for _, a := range actions {
		p[a] = true
	}
	return p
}

// DefaultTable es la tabla de permisos de la práctica.
// Agregar un rol o recurso se hace aquí; Resolver.Can no cambia.
func DefaultTable() Table {
	return Table{
		RoleCEO: {
			ResourceAll: full(),
		},
		RoleManager: {
			catalog.Clients:        full(),
			catalog.Patients:       full(),
			catalog.Appointments:   full(),
			catalog.MedicalRecords: readOnly(),
			catalog.Invoices:       full(),
			catalog.Staff:          perms(ActionList, ActionShow, ActionCreate, ActionEdit),
			catalog.Analytics:      readOnly(),
		},
		RoleVeterinarian: {
			catalog.Clients:        perms(ActionList, ActionShow, ActionEdit),
			catalog.Patients:       perms(ActionList, ActionShow, ActionCreate, ActionEdit),
			catalog.Appointments:   perms(ActionList, ActionShow, ActionCreate, ActionEdit),
			catalog.MedicalRecords: perms(ActionList, ActionShow, ActionCreate, ActionEdit),
			catalog.Invoices:       readOnly(),
		},
		RoleNurse: {
			catalog.Clients:        readOnly(),
			catalog.Patients:       perms(ActionList, ActionShow, ActionEdit),
			catalog.Appointments:   perms(ActionList, ActionShow, ActionEdit),
			catalog.MedicalRecords: perms(ActionList, ActionShow, ActionCreate),
		},
		RoleReceptionist: {
			catalog.Clients:      perms(ActionList, ActionShow, ActionCreate, ActionEdit),
			catalog.Patients:     perms(ActionList, ActionShow, ActionCreate),
			catalog.Appointments: full(),
			catalog.Invoices:     perms(ActionList, ActionShow, ActionCreate),
		},
	}
}
