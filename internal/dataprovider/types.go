package dataprovider

import (
	"context"
	"math"

	"vet-practice/internal/ports/backend"
)

type Record = backend.Record

const (
	DefaultCurrent  = 1
	DefaultPageSize = 10

	// MaxPageSize acota page_size en HTTP y en Range.
	MaxPageSize = 1000
)

type Pagination struct {
	Current  int `json:"current"`
	PageSize int `json:"pageSize"`
}

// Range devuelve el rango zero-based inclusivo, aplicando defaults (1, 10).
// size se acota a MaxPageSize y current a la última página representable,
// así from y to nunca desbordan.
func (p Pagination) Range() (from, to int) {
	current := p.Current
	if current <= 0 {
		current = DefaultCurrent
	}
	size := p.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if maxPage := math.MaxInt / size; current > maxPage {
		current = maxPage
	}
	from = (current - 1) * size
	return from, from + size - 1
}

type Operator string

const (
	OpEq       Operator = "eq"
	OpGt       Operator = "gt"
	OpGte      Operator = "gte"
	OpLt       Operator = "lt"
	OpLte      Operator = "lte"
	OpContains Operator = "contains"
)

type Filter struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

type Sorter struct {
	Field string    `json:"field"`
	Order SortOrder `json:"order"`
}

// ListParams es el query descriptor de GetList.
type ListParams struct {
	Resource   string
	Pagination Pagination
	Filters    []Filter
	Sorters    []Sorter
	Tenant     string
}

type ListResult struct {
	Data  []Record `json:"data"`
	Total int      `json:"total"`
}

type OneResult struct {
	Data Record `json:"data"`
}

type Method string

const (
	MethodGet    Method = "get"
	MethodPost   Method = "post"
	MethodPut    Method = "put"
	MethodDelete Method = "delete"
)

// CustomParams cubre los verbos que no son las cinco operaciones estándar.
type CustomParams struct {
	Target  string // tabla/recurso destino
	Method  Method
	Filters []Filter
	Sorters []Sorter
	Payload Record
	Query   map[string]any
	Tenant  string
}

type CustomResult struct {
	Data []Record `json:"data"`
}

// DataProvider es la interfaz uniforme CRUD que consumen los handlers.
// Todo fallo sale como *Error.
type DataProvider interface {
	GetList(ctx context.Context, p ListParams) (ListResult, error)
	GetOne(ctx context.Context, resource, id, tenant string) (OneResult, error)
	Create(ctx context.Context, resource string, variables Record, tenant string) (OneResult, error)
	Update(ctx context.Context, resource, id string, variables Record, tenant string) (OneResult, error)
	DeleteOne(ctx context.Context, resource, id, tenant string) (OneResult, error)
	Custom(ctx context.Context, p CustomParams) (CustomResult, error)
}
