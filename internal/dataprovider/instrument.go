package dataprovider

import (
	"context"
	"time"

	"vet-practice/internal/platform/logger"
	"vet-practice/internal/platform/metrics"
)

// instrumented loguea cada fallo una sola vez y registra métricas.
// No toca los errores: el *Error sale tal cual.
type instrumented struct {
	next DataProvider
	log  logger.Logger
	m    *metrics.Provider
}

// Instrument envuelve un DataProvider con logging y métricas.
// log y m pueden ser nil.
func Instrument(next DataProvider, log logger.Logger, m *metrics.Provider) DataProvider {
	if log == nil {
		log = logger.Nop()
	}
	return &instrumented{next: next, log: log, m: m}
}

func (i *instrumented) GetList(ctx context.Context, p ListParams) (ListResult, error) {
	start := time.Now()
	out, err := i.next.GetList(ctx, p)
	i.observe(p.Resource, ActionGetList, "", p.Tenant, start, err)
	return out, err
}

func (i *instrumented) GetOne(ctx context.Context, resource, id, tenant string) (OneResult, error) {
	start := time.Now()
	out, err := i.next.GetOne(ctx, resource, id, tenant)
	i.observe(resource, ActionGetOne, id, tenant, start, err)
	return out, err
}

func (i *instrumented) Create(ctx context.Context, resource string, variables Record, tenant string) (OneResult, error) {
	start := time.Now()
	out, err := i.next.Create(ctx, resource, variables, tenant)
	i.observe(resource, ActionCreate, "", tenant, start, err)
	return out, err
}

func (i *instrumented) Update(ctx context.Context, resource, id string, variables Record, tenant string) (OneResult, error) {
	start := time.Now()
	out, err := i.next.Update(ctx, resource, id, variables, tenant)
	i.observe(resource, ActionUpdate, id, tenant, start, err)
	return out, err
}

func (i *instrumented) DeleteOne(ctx context.Context, resource, id, tenant string) (OneResult, error) {
	start := time.Now()
	out, err := i.next.DeleteOne(ctx, resource, id, tenant)
	i.observe(resource, ActionDeleteOne, id, tenant, start, err)
	return out, err
}

func (i *instrumented) Custom(ctx context.Context, p CustomParams) (CustomResult, error) {
	start := time.Now()
	out, err := i.next.Custom(ctx, p)
	i.observe(p.Target, ActionCustom, "", p.Tenant, start, err)
	return out, err
}

func (i *instrumented) observe(resource, action, id, tenant string, start time.Time, err error) {
	i.m.Observe(resource, action, start, err)

	if err == nil {
		return
	}

	fields := map[string]any{
		"resource": resource,
		"action":   action,
		"tenant":   tenant,
		"error":    err,
	}
	if id != "" {
		fields["id"] = id
	}
	if pe, ok := AsError(err); ok {
		fields["code"] = pe.Code
	}
	i.log.Warn("data provider operation failed", fields)
}
