package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vet-practice/internal/ports/backend"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgExecutor lo cumplen *pgxpool.Pool, pgx.Tx y pgxmock.
type pgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Executor implementa backend.Executor sobre Postgres.
// Tablas y columnas se citan con pgx.Identifier; los valores van siempre como args.
type Executor struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

func NewExecutor(exec pgExecutor) *Executor {
	return &Executor{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var _ backend.Executor = (*Executor)(nil)

// WithTx devuelve un executor que corre dentro de la transacción.
func (e *Executor) WithTx(tx pgx.Tx) *Executor {
	if tx == nil {
		return e
	}
	return &Executor{exec: tx, builder: e.builder}
}

func (e *Executor) Select(ctx context.Context, q backend.SelectQuery) (*backend.Result, error) {
	where, err := conditions(q.Where)
	if err != nil {
		return nil, err
	}

	sb := e.builder.Select("*").From(ident(q.Table))
	for _, w := range where {
		sb = sb.Where(w)
	}
	for _, o := range q.OrderBy {
		dir := " ASC"
		if o.Desc {
			dir = " DESC"
		}
		sb = sb.OrderBy(ident(o.Field) + dir)
	}
	switch {
	case q.Single:
		// 2 alcanza para detectar "más de una fila"
		sb = sb.Limit(2)
	case q.Range != nil:
		from, to := q.Range.From, q.Range.To
		if from < 0 {
			from = 0
		}
		if to < from {
			to = from - 1
		}
		sb = sb.Limit(uint64(to - from + 1)).Offset(uint64(from))
	}

	stmt, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select %s sql: %w", q.Table, err)
	}

	rows, err := e.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, mapErr(err, "select "+q.Table)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, mapErr(err, "scan "+q.Table)
	}

	if q.Single && len(records) != 1 {
		return nil, backend.NoRows(q.Table)
	}

	res := &backend.Result{Rows: toRecords(records)}

	if q.Count {
		cb := e.builder.Select("count(*)").From(ident(q.Table))
		for _, w := range where {
			cb = cb.Where(w)
		}
		stmt, args, err := cb.ToSql()
		if err != nil {
			return nil, fmt.Errorf("build count %s sql: %w", q.Table, err)
		}
		var n int64
		if err := e.exec.QueryRow(ctx, stmt, args...).Scan(&n); err != nil {
			return nil, mapErr(err, "count "+q.Table)
		}
		res.Count = int(n)
	}

	return res, nil
}

func (e *Executor) Insert(ctx context.Context, q backend.InsertQuery) (*backend.Result, error) {
	stmt, args, err := e.builder.Insert(ident(q.Table)).
		SetMap(quoteKeys(q.Values)).
		Suffix("RETURNING *").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert %s sql: %w", q.Table, err)
	}
	return e.returning(ctx, stmt, args, q.Table, false)
}

func (e *Executor) Update(ctx context.Context, q backend.UpdateQuery) (*backend.Result, error) {
	if len(q.Where) == 0 {
		return nil, backend.UnscopedWrite(q.Table)
	}
	where, err := conditions(q.Where)
	if err != nil {
		return nil, err
	}

	ub := e.builder.Update(ident(q.Table)).SetMap(quoteKeys(q.Values))
	for _, w := range where {
		ub = ub.Where(w)
	}
	stmt, args, err := ub.Suffix("RETURNING *").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update %s sql: %w", q.Table, err)
	}
	return e.returning(ctx, stmt, args, q.Table, q.Single)
}

func (e *Executor) Delete(ctx context.Context, q backend.DeleteQuery) (*backend.Result, error) {
	if len(q.Where) == 0 {
		return nil, backend.UnscopedWrite(q.Table)
	}
	where, err := conditions(q.Where)
	if err != nil {
		return nil, err
	}

	db := e.builder.Delete(ident(q.Table))
	for _, w := range where {
		db = db.Where(w)
	}
	stmt, args, err := db.Suffix("RETURNING *").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build delete %s sql: %w", q.Table, err)
	}
	return e.returning(ctx, stmt, args, q.Table, q.Single)
}

func (e *Executor) returning(ctx context.Context, stmt string, args []any, table string, single bool) (*backend.Result, error) {
	rows, err := e.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, mapErr(err, "write "+table)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, mapErr(err, "write "+table)
	}
	if single && len(records) != 1 {
		return nil, backend.NoRows(table)
	}
	return &backend.Result{Rows: toRecords(records)}, nil
}

func conditions(in []backend.Condition) ([]squirrel.Sqlizer, error) {
	out := make([]squirrel.Sqlizer, 0, len(in))
	for _, c := range in {
		col := ident(c.Field)
		switch c.Op {
		case backend.OpEq:
			out = append(out, squirrel.Eq{col: c.Value})
		case backend.OpGt:
			out = append(out, squirrel.Gt{col: c.Value})
		case backend.OpGte:
			out = append(out, squirrel.GtOrEq{col: c.Value})
		case backend.OpLt:
			out = append(out, squirrel.Lt{col: c.Value})
		case backend.OpLte:
			out = append(out, squirrel.LtOrEq{col: c.Value})
		case backend.OpILike:
			out = append(out, squirrel.ILike{col: c.Value})
		default:
			return nil, &backend.Error{
				Message: fmt.Sprintf("unsupported operator %q", c.Op),
				Code:    "PGRST100",
				Status:  400,
			}
		}
	}
	return out, nil
}

// ident cita "schema.tabla" o "columna" como identificador Postgres.
func ident(name string) string {
	return pgx.Identifier(strings.Split(strings.TrimSpace(name), ".")).Sanitize()
}

func quoteKeys(values backend.Record) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[ident(k)] = v
	}
	return out
}

func toRecords(in []map[string]any) []backend.Record {
	out := make([]backend.Record, 0, len(in))
	for _, r := range in {
		out = append(out, backend.Record(r))
	}
	return out
}

// mapErr: errores de Postgres (SQLSTATE) pasan a *backend.Error; el resto
// (red, pool, contexto) se envuelve tal cual.
func mapErr(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &backend.Error{
			Message: pgErr.Message,
			Code:    pgErr.Code,
			Details: pgErr.Detail,
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
