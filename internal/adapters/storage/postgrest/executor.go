package postgrest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"vet-practice/internal/platform/httpclient"
	"vet-practice/internal/ports/backend"
)

var (
	ErrNotConfigured = errors.New("postgrest client not configured")
)

const (
	acceptObject = "application/vnd.pgrst.object+json"
)

// Config del cliente PostgREST / Supabase REST.
// BaseURL incluye el prefijo (Supabase: https://<ref>.supabase.co/rest/v1).
type Config struct {
	BaseURL string
	APIKey  string

	// Schema opcional (Accept-Profile / Content-Profile).
	Schema  string
	Timeout time.Duration
}

// Executor implementa backend.Executor hablando con PostgREST.
type Executor struct {
	http   *httpclient.Client
	apiKey string
	schema string
}

func NewExecutor(cfg Config) (*Executor, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNotConfigured
	}
	c, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return NewExecutorWithClient(c, cfg.APIKey, cfg.Schema), nil
}

// NewExecutorWithClient permite inyectar el cliente (tests con httptest).
func NewExecutorWithClient(c *httpclient.Client, apiKey, schema string) *Executor {
	return &Executor{
		http:   c,
		apiKey: strings.TrimSpace(apiKey),
		schema: strings.TrimSpace(schema),
	}
}

var _ backend.Executor = (*Executor)(nil)

func (e *Executor) Select(ctx context.Context, q backend.SelectQuery) (*backend.Result, error) {
	params := url.Values{}
	params.Set("select", "*")
	if err := addFilters(params, q.Where); err != nil {
		return nil, err
	}
	if len(q.OrderBy) > 0 {
		parts := make([]string, 0, len(q.OrderBy))
		for _, o := range q.OrderBy {
			dir := "asc"
			if o.Desc {
				dir = "desc"
			}
			parts = append(parts, o.Field+"."+dir)
		}
		params.Set("order", strings.Join(parts, ","))
	}
	if q.Range != nil && !q.Single {
		from := q.Range.From
		if from < 0 {
			from = 0
		}
		limit := q.Range.To - from + 1
		if limit < 0 {
			limit = 0
		}
		params.Set("offset", strconv.Itoa(from))
		params.Set("limit", strconv.Itoa(limit))
	}

	headers := e.headers(http.MethodGet)
	if q.Count {
		headers["Prefer"] = "count=exact"
	}

	if q.Single {
		headers["Accept"] = acceptObject
		var row backend.Record
		if _, err := e.do(ctx, http.MethodGet, q.Table, params, headers, nil, &row); err != nil {
			return nil, err
		}
		return &backend.Result{Rows: []backend.Record{row}, Count: 1}, nil
	}

	var rows []backend.Record
	hdr, err := e.do(ctx, http.MethodGet, q.Table, params, headers, nil, &rows)
	if err != nil {
		return nil, err
	}

	res := &backend.Result{Rows: rows}
	if q.Count {
		total, err := parseContentRange(hdr.Get("Content-Range"))
		if err != nil {
			return nil, err
		}
		res.Count = total
	}
	return res, nil
}

func (e *Executor) Insert(ctx context.Context, q backend.InsertQuery) (*backend.Result, error) {
	headers := e.headers(http.MethodPost)
	headers["Prefer"] = "return=representation"

	var rows []backend.Record
	if _, err := e.do(ctx, http.MethodPost, q.Table, nil, headers, q.Values, &rows); err != nil {
		return nil, err
	}
	return &backend.Result{Rows: rows}, nil
}

func (e *Executor) Update(ctx context.Context, q backend.UpdateQuery) (*backend.Result, error) {
	if len(q.Where) == 0 {
		return nil, backend.UnscopedWrite(q.Table)
	}
	return e.write(ctx, http.MethodPatch, q.Table, q.Where, q.Values, q.Single)
}

func (e *Executor) Delete(ctx context.Context, q backend.DeleteQuery) (*backend.Result, error) {
	if len(q.Where) == 0 {
		return nil, backend.UnscopedWrite(q.Table)
	}
	return e.write(ctx, http.MethodDelete, q.Table, q.Where, nil, q.Single)
}

func (e *Executor) write(ctx context.Context, method, table string, where []backend.Condition, body backend.Record, single bool) (*backend.Result, error) {
	params := url.Values{}
	if err := addFilters(params, where); err != nil {
		return nil, err
	}

	headers := e.headers(method)
	headers["Prefer"] = "return=representation"

	var in any
	if body != nil {
		in = body
	}

	if single {
		// PostgREST responde 406 PGRST116 si no afectó exactamente una fila
		headers["Accept"] = acceptObject
		var row backend.Record
		if _, err := e.do(ctx, method, table, params, headers, in, &row); err != nil {
			return nil, err
		}
		return &backend.Result{Rows: []backend.Record{row}}, nil
	}

	var rows []backend.Record
	if _, err := e.do(ctx, method, table, params, headers, in, &rows); err != nil {
		return nil, err
	}
	return &backend.Result{Rows: rows}, nil
}

func (e *Executor) headers(method string) map[string]string {
	h := map[string]string{}
	if e.apiKey != "" {
		h["apikey"] = e.apiKey
		h["Authorization"] = "Bearer " + e.apiKey
	}
	if e.schema != "" {
		if method == http.MethodGet {
			h["Accept-Profile"] = e.schema
		} else {
			h["Content-Profile"] = e.schema
		}
	}
	return h
}

func (e *Executor) do(ctx context.Context, method, table string, params url.Values, headers map[string]string, in, out any) (http.Header, error) {
	if e == nil || e.http == nil {
		return nil, ErrNotConfigured
	}

	hdr, err := e.http.Do(ctx, httpclient.Request{
		Method: method,
		Path:   "/" + url.PathEscape(table),
		Query:  params,
		Header: headers,
		Body:   in,
	}, out)
	if err != nil {
		return nil, mapErr(err)
	}
	return hdr, nil
}

// apiError es el cuerpo de error estándar de PostgREST.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// mapErr: respuestas no-2xx pasan a *backend.Error; fallas de red quedan envueltas.
func mapErr(err error) error {
	var httpErr *httpclient.HTTPError
	if !errors.As(err, &httpErr) {
		return err
	}

	var body apiError
	if jsonErr := httpErr.DecodeBody(&body); jsonErr != nil || body.Message == "" {
		return &backend.Error{
			Message: strings.TrimSpace(httpErr.Body),
			Code:    strconv.Itoa(httpErr.StatusCode),
			Status:  httpErr.StatusCode,
		}
	}

	details := body.Details
	if body.Hint != "" {
		details = strings.TrimSpace(details + " " + body.Hint)
	}
	return &backend.Error{
		Message: body.Message,
		Code:    body.Code,
		Details: details,
		Status:  httpErr.StatusCode,
	}
}

func addFilters(params url.Values, where []backend.Condition) error {
	for _, c := range where {
		v, err := filterValue(c)
		if err != nil {
			return err
		}
		params.Add(c.Field, v)
	}
	return nil
}

// filterValue arma "op.valor" (sintaxis PostgREST).
func filterValue(c backend.Condition) (string, error) {
	if c.Value == nil && c.Op == backend.OpEq {
		return "is.null", nil
	}
	v := formatValue(c.Value)

	switch c.Op {
	case backend.OpEq, backend.OpGt, backend.OpGte, backend.OpLt, backend.OpLte:
		return string(c.Op) + "." + v, nil
	case backend.OpILike:
		// en la URL PostgREST usa * como comodín
		return "ilike." + strings.ReplaceAll(v, "%", "*"), nil
	default:
		return "", &backend.Error{
			Message: fmt.Sprintf("unsupported operator %q", c.Op),
			Code:    "PGRST100",
			Status:  400,
		}
	}
}

func formatValue(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case string:
		return t
	default:
		return fmt.Sprint(v)
	}
}

// parseContentRange lee el total de "0-9/15" o "*/0".
func parseContentRange(h string) (int, error) {
	h = strings.TrimSpace(h)
	i := strings.LastIndex(h, "/")
	if i < 0 || i == len(h)-1 {
		return 0, fmt.Errorf("postgrest: invalid Content-Range %q", h)
	}
	total := h[i+1:]
	if total == "*" {
		return 0, fmt.Errorf("postgrest: Content-Range without total %q", h)
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return 0, fmt.Errorf("postgrest: invalid Content-Range %q: %w", h, err)
	}
	return n, nil
}
