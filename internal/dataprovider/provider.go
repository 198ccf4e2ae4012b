package dataprovider

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"vet-practice/internal/ports/backend"
)

const (
	DefaultTenantField = "tenant_id"
	DefaultIDField     = "id"
)

// Provider traduce el query descriptor a llamadas del backend.
// No guarda estado entre llamadas: es seguro usarlo concurrentemente.
// No reintenta: cada fallo sale exactamente una vez como *Error.
type Provider struct {
	exec        backend.Executor
	tenantField string
	idField     string
}

type Option func(*Provider)

// WithTenantField cambia la columna de tenant (default "tenant_id").
func WithTenantField(field string) Option {
	return func(p *Provider) {
		if f := strings.TrimSpace(field); f != "" {
			p.tenantField = f
		}
	}
}

// WithIDField cambia la columna de id (default "id").
func WithIDField(field string) Option {
	return func(p *Provider) {
		if f := strings.TrimSpace(field); f != "" {
			p.idField = f
		}
	}
}

func New(exec backend.Executor, opts ...Option) *Provider {
	p := &Provider{
		exec:        exec,
		tenantField: DefaultTenantField,
		idField:     DefaultIDField,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ DataProvider = (*Provider)(nil)

func (p *Provider) GetList(ctx context.Context, lp ListParams) (ListResult, error) {
	if strings.TrimSpace(lp.Tenant) == "" {
		return ListResult{}, tenantRequired(lp.Resource, ActionGetList, "")
	}

	from, to := lp.Pagination.Range()
	q := backend.SelectQuery{
		Table: lp.Resource,
		Where: []backend.Condition{p.tenantCond(lp.Tenant)},
		Range: &backend.Range{From: from, To: to},
		Count: true,
	}
	for _, f := range lp.Filters {
		if c, ok := toCondition(f); ok {
			q.Where = append(q.Where, c)
		}
	}
	q.OrderBy = toOrders(lp.Sorters)

	res, err := p.exec.Select(ctx, q)
	if err != nil {
		return ListResult{}, normalize(err, lp.Resource, ActionGetList, "")
	}
	if res == nil {
		return ListResult{}, normalize(ErrNoResponse, lp.Resource, ActionGetList, "")
	}

	return ListResult{Data: nonNilRows(res.Rows), Total: res.Count}, nil
}

func (p *Provider) GetOne(ctx context.Context, resource, id, tenant string) (OneResult, error) {
	if strings.TrimSpace(tenant) == "" {
		return OneResult{}, tenantRequired(resource, ActionGetOne, id)
	}

	res, err := p.exec.Select(ctx, backend.SelectQuery{
		Table:  resource,
		Where:  p.scoped(id, tenant),
		Single: true,
	})
	if err != nil {
		return OneResult{}, normalize(err, resource, ActionGetOne, id)
	}
	if res == nil {
		return OneResult{}, normalize(ErrNoResponse, resource, ActionGetOne, id)
	}
	if len(res.Rows) == 0 {
		return OneResult{}, normalize(backend.NoRows(resource), resource, ActionGetOne, id)
	}

	return OneResult{Data: res.Rows[0]}, nil
}

func (p *Provider) Create(ctx context.Context, resource string, variables Record, tenant string) (OneResult, error) {
	if strings.TrimSpace(tenant) == "" {
		return OneResult{}, tenantRequired(resource, ActionCreate, "")
	}

	values := withTenant(variables, p.tenantField, tenant)
	res, err := p.exec.Insert(ctx, backend.InsertQuery{Table: resource, Values: values})
	if err != nil {
		return OneResult{}, normalize(err, resource, ActionCreate, "")
	}
	if res == nil {
		return OneResult{}, normalize(ErrNoResponse, resource, ActionCreate, "")
	}
	if len(res.Rows) == 0 {
		return OneResult{Data: values}, nil
	}
	return OneResult{Data: res.Rows[0]}, nil
}

func (p *Provider) Update(ctx context.Context, resource, id string, variables Record, tenant string) (OneResult, error) {
	if strings.TrimSpace(tenant) == "" {
		return OneResult{}, tenantRequired(resource, ActionUpdate, id)
	}

	// El tenant del payload se pisa igual que en create: un update no puede mover la fila de tenant.
	values := withTenant(variables, p.tenantField, tenant)
	res, err := p.exec.Update(ctx, backend.UpdateQuery{
		Table:  resource,
		Values: values,
		Where:  p.scoped(id, tenant),
		Single: true,
	})
	if err != nil {
		return OneResult{}, normalize(err, resource, ActionUpdate, id)
	}
	if res == nil {
		return OneResult{}, normalize(ErrNoResponse, resource, ActionUpdate, id)
	}
	if len(res.Rows) == 0 {
		return OneResult{}, normalize(backend.NoRows(resource), resource, ActionUpdate, id)
	}
	return OneResult{Data: res.Rows[0]}, nil
}

func (p *Provider) DeleteOne(ctx context.Context, resource, id, tenant string) (OneResult, error) {
	if strings.TrimSpace(tenant) == "" {
		return OneResult{}, tenantRequired(resource, ActionDeleteOne, id)
	}

	res, err := p.exec.Delete(ctx, backend.DeleteQuery{
		Table:  resource,
		Where:  p.scoped(id, tenant),
		Single: true,
	})
	if err != nil {
		return OneResult{}, normalize(err, resource, ActionDeleteOne, id)
	}
	if res == nil || len(res.Rows) == 0 {
		// backend que no devuelve la fila borrada
		return OneResult{Data: Record{p.idField: id}}, nil
	}
	return OneResult{Data: res.Rows[0]}, nil
}

// Custom cubre verbos fuera de las cinco operaciones.
//
// get: tenant, luego filtros (solo eq; el resto se ignora), sorters y
// por último las igualdades de Query en orden de clave.
// post: inyecta tenant como create. put/delete: no reinyectan tenant,
// el caller apunta con filtros/query.
func (p *Provider) Custom(ctx context.Context, cp CustomParams) (CustomResult, error) {
	var (
		res *backend.Result
		err error
	)

	switch cp.Method {
	case MethodGet:
		if strings.TrimSpace(cp.Tenant) == "" {
			return CustomResult{}, tenantRequired(cp.Target, ActionCustom, "")
		}
		where := append([]backend.Condition{p.tenantCond(cp.Tenant)}, eqConditions(cp.Filters, nil)...)
		q := backend.SelectQuery{
			Table:   cp.Target,
			Where:   where,
			OrderBy: toOrders(cp.Sorters),
		}
		q.Where = append(q.Where, eqConditions(nil, cp.Query)...)
		res, err = p.exec.Select(ctx, q)

	case MethodPost:
		if strings.TrimSpace(cp.Tenant) == "" {
			return CustomResult{}, tenantRequired(cp.Target, ActionCustom, "")
		}
		res, err = p.exec.Insert(ctx, backend.InsertQuery{
			Table:  cp.Target,
			Values: withTenant(cp.Payload, p.tenantField, cp.Tenant),
		})

	case MethodPut:
		res, err = p.exec.Update(ctx, backend.UpdateQuery{
			Table:  cp.Target,
			Values: copyRecord(cp.Payload),
			Where:  eqConditions(cp.Filters, cp.Query),
		})

	case MethodDelete:
		res, err = p.exec.Delete(ctx, backend.DeleteQuery{
			Table: cp.Target,
			Where: eqConditions(cp.Filters, cp.Query),
		})

	default:
		return CustomResult{}, &Error{
			Message: fmt.Sprintf("unsupported method %q", cp.Method),
			Code:    CodeBadRequest,
			Context: ErrorContext{Resource: cp.Target, Action: ActionCustom},
		}
	}

	if err != nil {
		return CustomResult{}, normalize(err, cp.Target, ActionCustom, "")
	}
	if res == nil {
		return CustomResult{}, normalize(ErrNoResponse, cp.Target, ActionCustom, "")
	}
	return CustomResult{Data: nonNilRows(res.Rows)}, nil
}

func (p *Provider) tenantCond(tenant string) backend.Condition {
	return backend.Condition{Field: p.tenantField, Op: backend.OpEq, Value: tenant}
}

// scoped: id Y tenant a la vez.
func (p *Provider) scoped(id, tenant string) []backend.Condition {
	return []backend.Condition{
		{Field: p.idField, Op: backend.OpEq, Value: id},
		p.tenantCond(tenant),
	}
}

// withTenant es el único punto que escribe el tenant en un payload.
// Copia el mapa y pisa cualquier valor que haya mandado el caller.
func withTenant(values Record, field, tenant string) Record {
	out := copyRecord(values)
	out[field] = tenant
	return out
}

func copyRecord(in Record) Record {
	out := make(Record, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}

var operators = map[Operator]backend.Op{
	OpEq:  backend.OpEq,
	OpGt:  backend.OpGt,
	OpGte: backend.OpGte,
	OpLt:  backend.OpLt,
	OpLte: backend.OpLte,
}

// toCondition: operadores no soportados devuelven ok=false y se ignoran.
func toCondition(f Filter) (backend.Condition, bool) {
	if strings.TrimSpace(f.Field) == "" {
		return backend.Condition{}, false
	}
	if f.Operator == OpContains {
		return backend.Condition{Field: f.Field, Op: backend.OpILike, Value: fmt.Sprintf("%%%v%%", f.Value)}, true
	}
	op, ok := operators[f.Operator]
	if !ok {
		return backend.Condition{}, false
	}
	return backend.Condition{Field: f.Field, Op: op, Value: f.Value}, true
}

// eqConditions: filtros eq (el resto se ignora) seguidos de query en orden de clave.
func eqConditions(filters []Filter, query map[string]any) []backend.Condition {
	out := make([]backend.Condition, 0, len(filters)+len(query))
	for _, f := range filters {
		if f.Operator != OpEq || strings.TrimSpace(f.Field) == "" {
			continue
		}
		out = append(out, backend.Condition{Field: f.Field, Op: backend.OpEq, Value: f.Value})
	}

	keys := make([]string, 0, len(query))
	for k := range query {
		if strings.TrimSpace(k) != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, backend.Condition{Field: k, Op: backend.OpEq, Value: query[k]})
	}
	return out
}

func toOrders(sorters []Sorter) []backend.Order {
	if len(sorters) == 0 {
		return nil
	}
	out := make([]backend.Order, 0, len(sorters))
	for _, s := range sorters {
		if strings.TrimSpace(s.Field) == "" {
			continue
		}
		out = append(out, backend.Order{Field: s.Field, Desc: s.Order == Desc})
	}
	return out
}

func nonNilRows(rows []Record) []Record {
	if rows == nil {
		return []Record{}
	}
	return rows
}
