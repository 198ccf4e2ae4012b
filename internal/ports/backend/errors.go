package backend

import (
	"errors"
	"fmt"
)

const (
	// CodeNoRows usa el mismo código que PostgREST para "0 (o >1) filas en single".
	CodeNoRows = "PGRST116"
	// CodeUnscopedWrite: update/delete sin condiciones.
	CodeUnscopedWrite = "unscoped_write"
	// CodeUniqueViolation es el SQLSTATE de Postgres para unique_violation.
	CodeUniqueViolation = "23505"
)

// Error es un error reportado explícitamente por el backend.
type Error struct {
	Message string
	Code    string
	Details string
	Status  int // status HTTP si el backend es HTTP; 0 si no aplica
}

func (e *Error) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("backend error %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("backend error %s: %s (%s)", e.Code, e.Message, e.Details)
}

func NoRows(table string) *Error {
	return &Error{
		Message: "JSON object requested, multiple (or no) rows returned",
		Code:    CodeNoRows,
		Details: "table " + table,
		Status:  406,
	}
}

func UnscopedWrite(table string) *Error {
	return &Error{
		Message: "update/delete requires at least one condition",
		Code:    CodeUnscopedWrite,
		Details: "table " + table,
		Status:  400,
	}
}

// AsError extrae el *Error si err (o algo que envuelve) lo es.
func AsError(err error) (*Error, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
