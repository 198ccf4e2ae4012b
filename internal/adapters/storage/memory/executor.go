package memory

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"vet-practice/internal/ports/backend"

	"github.com/google/uuid"
)

// Executor es un backend tabular en memoria (modo dev y tests).
// Implementa la misma semántica que Postgres/PostgREST para lo que usa el provider.
type Executor struct {
	mu     sync.RWMutex
	tables map[string][]backend.Record
	idKey  string
}

func NewExecutor() *Executor {
	return &Executor{
		tables: make(map[string][]backend.Record),
		idKey:  "id",
	}
}

var _ backend.Executor = (*Executor)(nil)

// Seed agrega filas tal cual (sin generar id si falta). Útil en dev/tests.
func (e *Executor) Seed(table string, rows ...backend.Record) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, r := range rows {
		e.tables[table] = append(e.tables[table], copyRecord(r))
	}
}

// Rows devuelve una copia de todas las filas de la tabla.
func (e *Executor) Rows(table string) []backend.Record {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return copyRows(e.tables[table])
}

func (e *Executor) Select(ctx context.Context, q backend.SelectQuery) (*backend.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	matched := make([]backend.Record, 0)
	for _, r := range e.tables[q.Table] {
		ok, err := matchAll(r, q.Where)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, r)
		}
	}

	if len(q.OrderBy) > 0 {
		sortRows(matched, q.OrderBy)
	}

	if q.Single && len(matched) != 1 {
		return nil, backend.NoRows(q.Table)
	}

	res := &backend.Result{}
	if q.Count {
		res.Count = len(matched)
	}

	if q.Range != nil {
		matched = applyRange(matched, *q.Range)
	}
	res.Rows = copyRows(matched)
	return res, nil
}

func (e *Executor) Insert(ctx context.Context, q backend.InsertQuery) (*backend.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	r := copyRecord(q.Values)
	if id, ok := r[e.idKey]; !ok || id == nil || fmt.Sprint(id) == "" {
		r[e.idKey] = uuid.NewString()
	}

	for _, existing := range e.tables[q.Table] {
		if fmt.Sprint(existing[e.idKey]) == fmt.Sprint(r[e.idKey]) {
			return nil, &backend.Error{
				Message: fmt.Sprintf("duplicate key value violates unique constraint \"%s_pkey\"", q.Table),
				Code:    backend.CodeUniqueViolation,
				Status:  409,
			}
		}
	}

	e.tables[q.Table] = append(e.tables[q.Table], r)
	return &backend.Result{Rows: []backend.Record{copyRecord(r)}}, nil
}

func (e *Executor) Update(ctx context.Context, q backend.UpdateQuery) (*backend.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(q.Where) == 0 {
		return nil, backend.UnscopedWrite(q.Table)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	rows := e.tables[q.Table]
	idx, err := matchIndexes(rows, q.Where)
	if err != nil {
		return nil, err
	}
	if q.Single && len(idx) != 1 {
		return nil, backend.NoRows(q.Table)
	}

	out := make([]backend.Record, 0, len(idx))
	for _, i := range idx {
		for k, v := range q.Values {
			rows[i][k] = v
		}
		out = append(out, copyRecord(rows[i]))
	}
	return &backend.Result{Rows: out}, nil
}

func (e *Executor) Delete(ctx context.Context, q backend.DeleteQuery) (*backend.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(q.Where) == 0 {
		return nil, backend.UnscopedWrite(q.Table)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	rows := e.tables[q.Table]
	idx, err := matchIndexes(rows, q.Where)
	if err != nil {
		return nil, err
	}
	if q.Single && len(idx) != 1 {
		return nil, backend.NoRows(q.Table)
	}

	drop := make(map[int]struct{}, len(idx))
	out := make([]backend.Record, 0, len(idx))
	for _, i := range idx {
		drop[i] = struct{}{}
		out = append(out, copyRecord(rows[i]))
	}

	kept := make([]backend.Record, 0, len(rows)-len(idx))
	for i, r := range rows {
		if _, gone := drop[i]; !gone {
			kept = append(kept, r)
		}
	}
	e.tables[q.Table] = kept

	return &backend.Result{Rows: out}, nil
}

func matchIndexes(rows []backend.Record, where []backend.Condition) ([]int, error) {
	out := make([]int, 0)
	for i, r := range rows {
		ok, err := matchAll(r, where)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, i)
		}
	}
	return out, nil
}

func matchAll(r backend.Record, where []backend.Condition) (bool, error) {
	for _, c := range where {
		ok, err := match(r[c.Field], c)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func match(v any, c backend.Condition) (bool, error) {
	if v == nil {
		// NULL no matchea ningún operador (igual que SQL)
		return false, nil
	}

	switch c.Op {
	case backend.OpEq:
		if cmp, ok := compare(v, c.Value); ok {
			return cmp == 0, nil
		}
		return fmt.Sprint(v) == fmt.Sprint(c.Value), nil
	case backend.OpGt, backend.OpGte, backend.OpLt, backend.OpLte:
		cmp, ok := compare(v, c.Value)
		if !ok {
			return false, nil
		}
		switch c.Op {
		case backend.OpGt:
			return cmp > 0, nil
		case backend.OpGte:
			return cmp >= 0, nil
		case backend.OpLt:
			return cmp < 0, nil
		default:
			return cmp <= 0, nil
		}
	case backend.OpILike:
		re, err := likeRegexp(fmt.Sprint(c.Value))
		if err != nil {
			return false, &backend.Error{Message: "invalid pattern", Code: "22025", Details: err.Error(), Status: 400}
		}
		return re.MatchString(fmt.Sprint(v)), nil
	default:
		return false, &backend.Error{
			Message: fmt.Sprintf("unsupported operator %q", c.Op),
			Code:    "PGRST100",
			Status:  400,
		}
	}
}

// likeRegexp traduce un patrón LIKE: % es cualquier secuencia y _ un solo carácter.
func likeRegexp(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("(?is)^")
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

// compare devuelve -1/0/1 y ok=false si los tipos no son comparables.
// El tipo del valor guardado manda: una columna de texto se compara como
// texto aunque el filtro parezca un número ("1" != "01"). Solo columnas
// numéricas, de tiempo o bool convierten el filtro (caso típico: filtros HTTP).
func compare(a, b any) (int, bool) {
	switch av := a.(type) {
	case string:
		switch bv := b.(type) {
		case string:
			return strings.Compare(av, bv), true
		case time.Time:
			if ta, ok := toTime(av); ok {
				return ta.Compare(bv), true
			}
			return 0, false
		default:
			return strings.Compare(av, fmt.Sprint(b)), true
		}
	case time.Time:
		if tb, ok := toTime(b); ok {
			return av.Compare(tb), true
		}
		return 0, false
	case bool:
		bb, ok := toBool(b)
		if !ok {
			return 0, false
		}
		return cmpBool(av, bb), true
	}

	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return cmpFloat(fa, fb), true
		}
	}
	return 0, false
}

// sortCompare ordena primero por tipo y después por valor, así el orden es
// total aunque una columna mezcle números y textos.
func sortCompare(a, b any) int {
	if ka, kb := kindRank(a), kindRank(b); ka != kb {
		return ka - kb
	}
	if c, ok := compare(a, b); ok {
		return c
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func kindRank(v any) int {
	switch v.(type) {
	case bool:
		return 0
	case time.Time:
		return 2
	case string:
		return 3
	}
	if _, ok := toFloat(v); ok {
		return 1
	}
	return 4
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed, true
		}
		if parsed, err := time.Parse("2006-01-02", t); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(b)
		return parsed, err == nil
	}
	return false, false
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// sortRows ordena estable por cada Order; NULL va al final (como Postgres ASC).
func sortRows(rows []backend.Record, orders []backend.Order) {
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range orders {
			a, b := rows[i][o.Field], rows[j][o.Field]
			if a == nil || b == nil {
				if a == nil && b == nil {
					continue
				}
				// nil al final en asc, al principio en desc
				return (b == nil) != o.Desc
			}
			cmp := sortCompare(a, b)
			if cmp == 0 {
				continue
			}
			if o.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func applyRange(rows []backend.Record, r backend.Range) []backend.Record {
	from := r.From
	if from < 0 {
		from = 0
	}
	if from >= len(rows) {
		return rows[:0]
	}
	to := r.To + 1
	if to > len(rows) {
		to = len(rows)
	}
	if to < from {
		return rows[:0]
	}
	return rows[from:to]
}

func copyRecord(r backend.Record) backend.Record {
	out := make(backend.Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func copyRows(rows []backend.Record) []backend.Record {
	out := make([]backend.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, copyRecord(r))
	}
	return out
}
