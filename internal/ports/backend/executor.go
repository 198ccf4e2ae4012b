package backend

import "context"

// Record es una fila genérica del backend tabular (columna -> valor).
type Record = map[string]any

type Op string

const (
	OpEq    Op = "eq"
	OpGt    Op = "gt"
	OpGte   Op = "gte"
	OpLt    Op = "lt"
	OpLte   Op = "lte"
	OpILike Op = "ilike" // Value es un patrón con % (case-insensitive)
)

type Condition struct {
	Field string
	Op    Op
	Value any
}

type Order struct {
	Field string
	Desc  bool
}

// Range es inclusivo y zero-based: {From: 0, To: 9} = primeras 10 filas.
type Range struct {
	From int
	To   int
}

type SelectQuery struct {
	Table   string
	Where   []Condition
	OrderBy []Order
	Range   *Range

	// Count pide el total de filas que matchean Where (ignora Range).
	Count bool
	// Single exige exactamente una fila; si no, el backend devuelve CodeNoRows.
	Single bool
}

type InsertQuery struct {
	Table  string
	Values Record
}

type UpdateQuery struct {
	Table  string
	Values Record
	Where  []Condition
	Single bool
}

type DeleteQuery struct {
	Table  string
	Where  []Condition
	Single bool
}

// Result: Count solo se completa si SelectQuery.Count.
type Result struct {
	Rows  []Record
	Count int
}

// Executor es el cliente de consultas del backend (Postgres, PostgREST, memoria).
// Un fallo reportado por el backend viene como *Error; cualquier otro error
// es un fallo inesperado (red, driver, etc).
type Executor interface {
	Select(ctx context.Context, q SelectQuery) (*Result, error)
	Insert(ctx context.Context, q InsertQuery) (*Result, error)
	Update(ctx context.Context, q UpdateQuery) (*Result, error)
	Delete(ctx context.Context, q DeleteQuery) (*Result, error)
}
