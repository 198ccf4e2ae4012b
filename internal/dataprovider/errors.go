package dataprovider

import (
	"errors"
	"fmt"

	"vet-practice/internal/ports/backend"
)

const (
	ActionGetList   = "getList"
	ActionGetOne    = "getOne"
	ActionCreate    = "create"
	ActionUpdate    = "update"
	ActionDeleteOne = "deleteOne"
	ActionCustom    = "custom"
)

const (
	CodeInternal   = "500"
	CodeBadRequest = "400"
)

var (
	ErrTenantRequired = errors.New("tenant id is required")
	ErrNoResponse     = errors.New("no response from backend")
)

// fallbackMessages se usan cuando el fallo no vino del backend como *backend.Error.
var fallbackMessages = map[string]string{
	ActionGetList:   "An error occurred while fetching the list",
	ActionGetOne:    "An error occurred while fetching the record",
	ActionCreate:    "An error occurred while creating the record",
	ActionUpdate:    "An error occurred while updating the record",
	ActionDeleteOne: "An error occurred while deleting the record",
	ActionCustom:    "An error occurred while executing the custom request",
}

type ErrorContext struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
	ID       string `json:"id,omitempty"`
	// Cause es el error crudo del backend (o del fallo inesperado).
	Cause error `json:"-"`
}

// Error es la única forma de error que sale del provider.
type Error struct {
	Message string       `json:"message"`
	Code    string       `json:"code"`
	Context ErrorContext `json:"context"`
}

func (e *Error) Error() string {
	if e.Context.ID != "" {
		return fmt.Sprintf("%s %s/%s: %s (code %s)", e.Context.Action, e.Context.Resource, e.Context.ID, e.Message, e.Code)
	}
	return fmt.Sprintf("%s %s: %s (code %s)", e.Context.Action, e.Context.Resource, e.Message, e.Code)
}

func (e *Error) Unwrap() error {
	return e.Context.Cause
}

// AsError extrae el *Error del provider.
func AsError(err error) (*Error, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// normalize reduce cualquier fallo a *Error:
//   - *backend.Error: se conserva mensaje y código del backend.
//   - cualquier otro: mensaje fijo por acción y código 500.
func normalize(err error, resource, action, id string) *Error {
	ctx := ErrorContext{Resource: resource, Action: action, ID: id, Cause: err}

	if be, ok := backend.AsError(err); ok {
		return &Error{Message: be.Message, Code: be.Code, Context: ctx}
	}

	return &Error{Message: fallbackMessages[action], Code: CodeInternal, Context: ctx}
}

func tenantRequired(resource, action, id string) *Error {
	return &Error{
		Message: ErrTenantRequired.Error(),
		Code:    CodeBadRequest,
		Context: ErrorContext{Resource: resource, Action: action, ID: id, Cause: ErrTenantRequired},
	}
}
