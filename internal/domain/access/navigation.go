package access

import "vet-practice/internal/domain/catalog"

// MenuItem es una entrada del árbol de navegación visible para un rol.
type MenuItem struct {
	Resource string   `json:"resource"`
	Label    string   `json:"label"`
	Path     string   `json:"path"`
	Actions  []Action `json:"actions"`
}

// Compose arma el menú: solo entran los recursos que el rol puede listar,
// en el orden recibido. Sin rol (o rol inválido) el menú queda vacío.
func Compose(r *Resolver, role Role, resources []catalog.Resource) []MenuItem {
	out := make([]MenuItem, 0, len(resources))
	for _, res := range resources {
		if !r.Can(role, res.Name, ActionList).Permitted {
			continue
		}
		out = append(out, MenuItem{
			Resource: res.Name,
			Label:    res.Label,
			Path:     res.Path,
			Actions:  r.Allowed(role, res.Name),
		})
	}
	return out
}
