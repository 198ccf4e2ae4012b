package access

import "strings"

// Role es el rol elegido en el paso de selección de rol tras el login.
// El rol vacío significa "sin rol seleccionado".
type Role string

const (
	RoleNone         Role = ""
	RoleCEO          Role = "CEO"
	RoleManager      Role = "MANAGER"
	RoleVeterinarian Role = "VETERINARIAN"
	RoleNurse        Role = "NURSE"
	RoleReceptionist Role = "RECEPTIONIST"
)

// ParseRole normaliza mayúsculas/espacios. No valida contra la tabla.
func ParseRole(s string) Role {
	return Role(strings.ToUpper(strings.TrimSpace(s)))
}

type Action string

const (
	ActionList   Action = "list"
	ActionShow   Action = "show"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// Actions en el orden en que se muestran/serializan.
var Actions = []Action{ActionList, ActionShow, ActionCreate, ActionEdit, ActionDelete}

func ParseAction(s string) (Action, bool) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Actions {
		if a == known {
			return a, true
		}
	}
	return "", false
}

// ResourceAll es el recurso comodín: si existe para un rol, se evalúa primero.
const ResourceAll = "all"

// Permissions: acción -> permitido. Acción ausente = false.
type Permissions map[Action]bool

// Table: rol -> recurso (o "all") -> acción -> bool.
type Table map[Role]map[string]Permissions

const (
	ReasonNoRole      = "no role assigned"
	ReasonInvalidRole = "invalid role"
)

// Decision es el resultado de Can. Reason vacío = default-deny sin motivo específico.
type Decision struct {
	Permitted bool   `json:"permitted"`
	Reason    string `json:"reason,omitempty"`
}
