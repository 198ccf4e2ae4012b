package access

import "sort"

// Resolver decide (rol, recurso, acción) contra una tabla estática.
// La tabla se copia al construir y no se modifica después, así que el
// Resolver es seguro para uso concurrente sin locks.
type Resolver struct {
	table Table
}

func NewResolver(t Table) *Resolver {
	return &Resolver{table: cloneTable(t)}
}

// Can nunca falla: la ausencia de datos es en sí una denegación.
//
// Precedencia: si el rol tiene entrada "all", esa entrada decide y NO se
// consulta la entrada específica del recurso (aunque la acción falte en "all").
func (r *Resolver) Can(role Role, resource string, action Action) Decision {
	if role == RoleNone {
		return Decision{Permitted: false, Reason: ReasonNoRole}
	}

	resources, ok := r.table[role]
	if !ok {
		return Decision{Permitted: false, Reason: ReasonInvalidRole}
	}

	if perms, ok := resources[ResourceAll]; ok {
		return Decision{Permitted: perms[action]}
	}

	if perms, ok := resources[resource]; ok {
		return Decision{Permitted: perms[action]}
	}

	return Decision{Permitted: false}
}

// HasRole indica si el rol está definido en la tabla.
func (r *Resolver) HasRole(role Role) bool {
	_, ok := r.table[role]
	return ok
}

// Roles devuelve los roles de la tabla ordenados.
func (r *Resolver) Roles() []Role {
	out := make([]Role, 0, len(r.table))
	for role := range r.table {
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Allowed devuelve las acciones permitidas para (rol, recurso), en orden de Actions.
func (r *Resolver) Allowed(role Role, resource string) []Action {
	out := make([]Action, 0, len(Actions))
	for _, a := range Actions {
		if r.Can(role, resource, a).Permitted {
			out = append(out, a)
		}
	}
	return out
}

// Table devuelve una copia de la tabla (para dump/CLI).
func (r *Resolver) Table() Table {
	return cloneTable(r.table)
}

func cloneTable(t Table) Table {
	out := make(Table, len(t))
	for role, resources := range t {
		rc := make(map[string]Permissions, len(resources))
		for res, perms := range resources {
			pc := make(Permissions, len(perms))
			for a, v := range perms {
				pc[a] = v
			}
			rc[res] = pc
		}
		out[role] = rc
	}
	return out
}

// Matrix resume la tabla como rol -> recurso -> acciones permitidas (dump/CLI).
// Recursos sin ninguna acción permitida no aparecen.
func (r *Resolver) Matrix() map[Role]map[string][]Action {
	out := make(map[Role]map[string][]Action, len(r.table))
	for role, resources := range r.table {
		m := make(map[string][]Action, len(resources))
		for res, perms := range resources {
			allowed := make([]Action, 0, len(Actions))
			for _, a := range Actions {
				if perms[a] {
					allowed = append(allowed, a)
				}
			}
			if len(allowed) > 0 {
				m[res] = allowed
			}
		}
		out[role] = m
	}
	return out
}
