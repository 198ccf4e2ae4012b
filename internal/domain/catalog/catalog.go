package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownResource = errors.New("unknown resource")
	ErrInvalidInput    = errors.New("invalid input")
)

// Nombres de recursos expuestos por la API CRUD.
const (
	Clients        = "clients"
	Patients       = "patients"
	Appointments   = "appointments"
	MedicalRecords = "medical_records"
	Invoices       = "invoices"
	Staff          = "staff"
	Analytics      = "analytics"
)

// Resource describe una colección del backend tabular.
type Resource struct {
	Name  string
	Label string
	Path  string // ruta en la UI

	// Required: campos obligatorios en create (validación de formulario).
	Required []string

	// Validate es opcional; corre después de Required.
	Validate func(values map[string]any) error
}

// resources en el orden del menú.
var resources = []Resource{
	{Name: Clients, Label: "Clients", Path: "/clients", Required: []string{"first_name", "last_name", "phone"}},
	{Name: Patients, Label: "Patients", Path: "/patients", Required: []string{"name", "species", "client_id"}, Validate: validatePatient},
	{Name: Appointments, Label: "Appointments", Path: "/appointments", Required: []string{"patient_id", "scheduled_at"}, Validate: validateAppointment},
	{Name: MedicalRecords, Label: "Medical Records", Path: "/medical-records", Required: []string{"patient_id", "type"}, Validate: validateMedicalRecord},
	{Name: Invoices, Label: "Billing", Path: "/billing", Required: []string{"client_id", "total"}},
	{Name: Staff, Label: "Staff", Path: "/staff", Required: []string{"full_name", "role"}},
	{Name: Analytics, Label: "Analytics", Path: "/analytics"},
}

// All devuelve los recursos en orden de menú.
func All() []Resource {
	out := make([]Resource, len(resources))
	copy(out, resources)
	return out
}

func Lookup(name string) (Resource, error) {
	name = strings.TrimSpace(name)
	for _, r := range resources {
		if r.Name == name {
			return r, nil
		}
	}
	return Resource{}, ErrUnknownResource
}

// ValidateCreate aplica Required + Validate del recurso.
func (r Resource) ValidateCreate(values map[string]any) error {
	for _, f := range r.Required {
		v, ok := values[f]
		if !ok || v == nil {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, f)
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, f)
		}
	}
	if r.Validate != nil {
		return r.Validate(values)
	}
	return nil
}

// ValidateUpdate solo corre Validate (PATCH parcial: Required no aplica).
func (r Resource) ValidateUpdate(values map[string]any) error {
	if r.Validate != nil {
		return r.Validate(values)
	}
	return nil
}
