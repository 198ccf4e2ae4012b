package postgrest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"vet-practice/internal/ports/backend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	method string
	path   string
	query  url.Values
	header http.Header
	body   map[string]any
}

func newServer(t *testing.T, handler func(w http.ResponseWriter, c captured)) (*Executor, *[]captured) {
	t.Helper()

	var calls []captured
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := captured{method: r.Method, path: r.URL.Path, query: r.URL.Query(), header: r.Header.Clone()}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &c.body)
		}
		calls = append(calls, c)
		handler(w, c)
	}))
	t.Cleanup(ts.Close)

	exec, err := NewExecutor(Config{BaseURL: ts.URL + "/rest/v1", APIKey: "anon-key", Schema: "clinic"})
	require.NoError(t, err)
	return exec, &calls
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestSelect_ListWithCount(t *testing.T) {
	exec, calls := newServer(t, func(w http.ResponseWriter, _ captured) {
		w.Header().Set("Content-Range", "20-21/57")
		writeJSON(w, http.StatusOK, []map[string]any{{"id": "p1"}, {"id": "p2"}})
	})

	res, err := exec.Select(context.Background(), backend.SelectQuery{
		Table: "patients",
		Where: []backend.Condition{
			{Field: "tenant_id", Op: backend.OpEq, Value: "t1"},
			{Field: "name", Op: backend.OpILike, Value: "%mi%"},
			{Field: "weight", Op: backend.OpGte, Value: 3.5},
		},
		OrderBy: []backend.Order{{Field: "name"}, {Field: "id", Desc: true}},
		Range:   &backend.Range{From: 20, To: 29},
		Count:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, 57, res.Count)
	assert.Len(t, res.Rows, 2)

	require.Len(t, *calls, 1)
	c := (*calls)[0]
	assert.Equal(t, http.MethodGet, c.method)
	assert.Equal(t, "/rest/v1/patients", c.path)
	assert.Equal(t, "*", c.query.Get("select"))
	assert.Equal(t, "eq.t1", c.query.Get("tenant_id"))
	assert.Equal(t, "ilike.*mi*", c.query.Get("name"))
	assert.Equal(t, "gte.3.5", c.query.Get("weight"))
	assert.Equal(t, "name.asc,id.desc", c.query.Get("order"))
	assert.Equal(t, "20", c.query.Get("offset"))
	assert.Equal(t, "10", c.query.Get("limit"))
	assert.Equal(t, "count=exact", c.header.Get("Prefer"))
	assert.Equal(t, "anon-key", c.header.Get("apikey"))
	assert.Equal(t, "Bearer anon-key", c.header.Get("Authorization"))
	assert.Equal(t, "clinic", c.header.Get("Accept-Profile"))
}

func TestSelect_InvertedRangeLimitsToZero(t *testing.T) {
	exec, calls := newServer(t, func(w http.ResponseWriter, _ captured) {
		writeJSON(w, http.StatusOK, []map[string]any{})
	})

	_, err := exec.Select(context.Background(), backend.SelectQuery{
		Table: "patients",
		Range: &backend.Range{From: 10, To: 5},
	})
	require.NoError(t, err)

	c := (*calls)[0]
	assert.Equal(t, "10", c.query.Get("offset"))
	assert.Equal(t, "0", c.query.Get("limit"))
}

func TestSelect_EmptyCount(t *testing.T) {
	exec, _ := newServer(t, func(w http.ResponseWriter, _ captured) {
		w.Header().Set("Content-Range", "*/0")
		writeJSON(w, http.StatusOK, []map[string]any{})
	})

	res, err := exec.Select(context.Background(), backend.SelectQuery{Table: "patients", Count: true})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
	assert.Empty(t, res.Rows)
}

func TestSelect_SingleNotFound(t *testing.T) {
	exec, calls := newServer(t, func(w http.ResponseWriter, _ captured) {
		writeJSON(w, http.StatusNotAcceptable, map[string]any{
			"code":    "PGRST116",
			"message": "JSON object requested, multiple (or no) rows returned",
			"details": "The result contains 0 rows",
		})
	})

	_, err := exec.Select(context.Background(), backend.SelectQuery{
		Table:  "clients",
		Where:  []backend.Condition{{Field: "id", Op: backend.OpEq, Value: "c1"}},
		Single: true,
	})
	be, ok := backend.AsError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, backend.CodeNoRows, be.Code)
	assert.Equal(t, http.StatusNotAcceptable, be.Status)
	assert.Equal(t, acceptObject, (*calls)[0].header.Get("Accept"))
}

func TestInsert_ReturnRepresentation(t *testing.T) {
	exec, calls := newServer(t, func(w http.ResponseWriter, c captured) {
		writeJSON(w, http.StatusCreated, []map[string]any{{"id": "c1", "first_name": c.body["first_name"]}})
	})

	res, err := exec.Insert(context.Background(), backend.InsertQuery{
		Table:  "clients",
		Values: backend.Record{"first_name": "Eve", "tenant_id": "t1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Eve", res.Rows[0]["first_name"])

	c := (*calls)[0]
	assert.Equal(t, http.MethodPost, c.method)
	assert.Equal(t, "return=representation", c.header.Get("Prefer"))
	assert.Equal(t, "clinic", c.header.Get("Content-Profile"))
	assert.Equal(t, "t1", c.body["tenant_id"])
}

func TestInsert_ConflictMapsToBackendError(t *testing.T) {
	exec, _ := newServer(t, func(w http.ResponseWriter, _ captured) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"code":    "23505",
			"message": "duplicate key value violates unique constraint",
			"details": "Key (id)=(c1) already exists.",
			"hint":    nil,
		})
	})

	_, err := exec.Insert(context.Background(), backend.InsertQuery{Table: "clients", Values: backend.Record{"id": "c1"}})
	be, ok := backend.AsError(err)
	require.True(t, ok)
	assert.Equal(t, backend.CodeUniqueViolation, be.Code)
	assert.Equal(t, http.StatusConflict, be.Status)
	assert.Equal(t, "Key (id)=(c1) already exists.", be.Details)
}

func TestUpdateSingle_PatchWithFilters(t *testing.T) {
	exec, calls := newServer(t, func(w http.ResponseWriter, _ captured) {
		writeJSON(w, http.StatusOK, map[string]any{"id": "c1", "phone": "555"})
	})

	res, err := exec.Update(context.Background(), backend.UpdateQuery{
		Table:  "clients",
		Values: backend.Record{"phone": "555"},
		Where: []backend.Condition{
			{Field: "id", Op: backend.OpEq, Value: "c1"},
			{Field: "tenant_id", Op: backend.OpEq, Value: "t1"},
		},
		Single: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "555", res.Rows[0]["phone"])

	c := (*calls)[0]
	assert.Equal(t, http.MethodPatch, c.method)
	assert.Equal(t, "eq.c1", c.query.Get("id"))
	assert.Equal(t, "eq.t1", c.query.Get("tenant_id"))
	assert.Equal(t, acceptObject, c.header.Get("Accept"))
	assert.Equal(t, "555", c.body["phone"])
}

func TestDelete_ManyAndNull(t *testing.T) {
	exec, calls := newServer(t, func(w http.ResponseWriter, _ captured) {
		writeJSON(w, http.StatusOK, []map[string]any{{"id": "r1"}, {"id": "r2"}})
	})

	res, err := exec.Delete(context.Background(), backend.DeleteQuery{
		Table: "reminders",
		Where: []backend.Condition{{Field: "done_at", Op: backend.OpEq, Value: nil}},
	})
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)

	c := (*calls)[0]
	assert.Equal(t, http.MethodDelete, c.method)
	assert.Equal(t, "is.null", c.query.Get("done_at"))
}

func TestUnscopedWrites_NoRequest(t *testing.T) {
	exec, calls := newServer(t, func(w http.ResponseWriter, _ captured) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := exec.Delete(context.Background(), backend.DeleteQuery{Table: "reminders"})
	be, ok := backend.AsError(err)
	require.True(t, ok)
	assert.Equal(t, backend.CodeUnscopedWrite, be.Code)
	assert.Empty(t, *calls)
}

func TestPlainTextError(t *testing.T) {
	exec, _ := newServer(t, func(w http.ResponseWriter, _ captured) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := exec.Select(context.Background(), backend.SelectQuery{Table: "clients"})
	be, ok := backend.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "502", be.Code)
	assert.Equal(t, "bad gateway", be.Message)
}

func TestNewExecutor_RequiresBaseURL(t *testing.T) {
	_, err := NewExecutor(Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestParseContentRange(t *testing.T) {
	n, err := parseContentRange("0-9/15")
	require.NoError(t, err)
	assert.Equal(t, 15, n)

	n, err = parseContentRange("*/0")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	for _, bad := range []string{"", "0-9", "0-9/*", "0-9/x"} {
		_, err := parseContentRange(bad)
		assert.Error(t, err, bad)
	}
}
