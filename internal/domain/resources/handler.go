package resources

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"vet-practice/internal/dataprovider"
	"vet-practice/internal/domain/access"
	"vet-practice/internal/domain/catalog"
	"vet-practice/internal/middleware"
	"vet-practice/internal/ports/backend"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta el CRUD genérico bajo /api. Cada verbo exige su acción.
// tenantField es la columna de tenant que custom put/delete fijan al del usuario
// (vacío => dataprovider.DefaultTenantField).
func RegisterRoutes(r chi.Router, provider dataprovider.DataProvider, gate *middleware.Gate, tenantField string) {
	tenantField = strings.TrimSpace(tenantField)
	if tenantField == "" {
		tenantField = dataprovider.DefaultTenantField
	}

	r.Route("/api", func(ar chi.Router) {
		ar.Post("/custom/{target}", customHandler(provider, gate, tenantField))

		ar.Route("/{resource}", func(rr chi.Router) {
			rr.With(gate.RequirePermission(access.ActionList)).Get("/", listHandler(provider))
			rr.With(gate.RequirePermission(access.ActionCreate)).Post("/", createHandler(provider))

			rr.With(gate.RequirePermission(access.ActionShow)).Get("/{id}", showHandler(provider))
			rr.With(gate.RequirePermission(access.ActionEdit)).Patch("/{id}", updateHandler(provider))
			rr.With(gate.RequirePermission(access.ActionDelete)).Delete("/{id}", deleteHandler(provider))
		})
	})
}

// listHandler godoc
// @Summary List records of a resource
// @Description Paginado (page, page_size), orden (sort=f:asc,g:desc) y filtros repetibles (filter=f:op:v; op eq|gt|gte|lt|lte|contains). El total va en el body y en X-Total-Count.
// @Tags resources
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param X-Debug-Tenant-ID header string false "Solo en modo dev"
// @Param resource path string true "clients, patients, appointments, ..."
// @Param page query int false "página (default 1)"
// @Param page_size query int false "tamaño (default 10, máximo 1000)"
// @Param sort query string false "f:asc,g:desc"
// @Param filter query []string false "field:operator:value" collectionFormat(multi)
// @Success 200 {object} dataprovider.ListResult
// @Failure 400 {object} errorResponse
// @Failure 403 {object} map[string]string
// @Router /api/{resource} [get]
func listHandler(provider dataprovider.DataProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		res, ok := lookupResource(w, r)
		if !ok {
			return
		}

		pagination, filters, sorters, err := parseListParams(r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		out, err := provider.GetList(r.Context(), dataprovider.ListParams{
			Resource:   res.Name,
			Pagination: pagination,
			Filters:    filters,
			Sorters:    sorters,
			Tenant:     claims.TenantID,
		})
		if err != nil {
			writeProviderError(w, err)
			return
		}

		w.Header().Set("X-Total-Count", strconv.Itoa(out.Total))
		writeJSON(w, http.StatusOK, out)
	}
}

// showHandler godoc
// @Summary Get one record
// @Tags resources
// @Produce json
// @Param resource path string true "resource"
// @Param id path string true "record id"
// @Success 200 {object} dataprovider.OneResult
// @Failure 404 {object} errorResponse
// @Router /api/{resource}/{id} [get]
func showHandler(provider dataprovider.DataProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		res, ok := lookupResource(w, r)
		if !ok {
			return
		}

		out, err := provider.GetOne(r.Context(), res.Name, chi.URLParam(r, "id"), claims.TenantID)
		if err != nil {
			writeProviderError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// createHandler godoc
// @Summary Create a record
// @Description El tenant del usuario se inyecta siempre; un tenant_id en el body se ignora.
// @Tags resources
// @Accept json
// @Produce json
// @Param resource path string true "resource"
// @Param payload body map[string]interface{} true "campos del registro"
// @Success 201 {object} dataprovider.OneResult
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /api/{resource} [post]
func createHandler(provider dataprovider.DataProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		res, ok := lookupResource(w, r)
		if !ok {
			return
		}

		values, ok := decodeRecord(w, r)
		if !ok {
			return
		}
		if err := res.ValidateCreate(values); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		out, err := provider.Create(r.Context(), res.Name, values, claims.TenantID)
		if err != nil {
			writeProviderError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

// updateHandler godoc
// @Summary Update a record (partial)
// @Tags resources
// @Accept json
// @Produce json
// @Param resource path string true "resource"
// @Param id path string true "record id"
// @Param payload body map[string]interface{} true "campos a modificar"
// @Success 200 {object} dataprovider.OneResult
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/{resource}/{id} [patch]
func updateHandler(provider dataprovider.DataProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		res, ok := lookupResource(w, r)
		if !ok {
			return
		}

		values, ok := decodeRecord(w, r)
		if !ok {
			return
		}
		if err := res.ValidateUpdate(values); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		out, err := provider.Update(r.Context(), res.Name, chi.URLParam(r, "id"), values, claims.TenantID)
		if err != nil {
			writeProviderError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// deleteHandler godoc
// @Summary Delete a record
// @Tags resources
// @Produce json
// @Param resource path string true "resource"
// @Param id path string true "record id"
// @Success 200 {object} dataprovider.OneResult
// @Failure 404 {object} errorResponse
// @Router /api/{resource}/{id} [delete]
func deleteHandler(provider dataprovider.DataProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		res, ok := lookupResource(w, r)
		if !ok {
			return
		}

		out, err := provider.DeleteOne(r.Context(), res.Name, chi.URLParam(r, "id"), claims.TenantID)
		if err != nil {
			writeProviderError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type customRequest struct {
	Method  string                `json:"method"`
	Filters []dataprovider.Filter `json:"filters"`
	Sorters []dataprovider.Sorter `json:"sorters"`
	Payload map[string]any        `json:"payload"`
	Query   map[string]any        `json:"query"`
}

// acción exigida según el método custom
var customActions = map[dataprovider.Method]access.Action{
	dataprovider.MethodGet:    access.ActionList,
	dataprovider.MethodPost:   access.ActionCreate,
	dataprovider.MethodPut:    access.ActionEdit,
	dataprovider.MethodDelete: access.ActionDelete,
}

// customHandler godoc
// @Summary Custom request against a table
// @Description get: solo filtros eq + query. put/delete exigen filtros o query y quedan acotados al tenant del usuario.
// @Tags resources
// @Accept json
// @Produce json
// @Param target path string true "tabla destino"
// @Param payload body customRequest true "method, filters, sorters, payload, query"
// @Success 200 {object} dataprovider.CustomResult
// @Failure 400 {object} errorResponse
// @Router /api/custom/{target} [post]
func customHandler(provider dataprovider.DataProvider, gate *middleware.Gate, tenantField string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := strings.TrimSpace(chi.URLParam(r, "target"))

		var req customRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		method := dataprovider.Method(strings.ToLower(strings.TrimSpace(req.Method)))
		action, ok := customActions[method]
		if !ok {
			http.Error(w, "method must be get, post, put or delete", http.StatusBadRequest)
			return
		}

		if !gate.Authorize(w, r, target, action) {
			return
		}
		claims, _ := middleware.GetClaims(r.Context())

		if method == dataprovider.MethodPut || method == dataprovider.MethodDelete {
			if !scopeWrite(w, &req, target, tenantField, claims.TenantID) {
				return
			}
		}

		out, err := provider.Custom(r.Context(), dataprovider.CustomParams{
			Target:  target,
			Method:  method,
			Filters: req.Filters,
			Sorters: req.Sorters,
			Payload: req.Payload,
			Query:   req.Query,
			Tenant:  claims.TenantID,
		})
		if err != nil {
			writeProviderError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// scopeWrite fija el tenant del usuario en query (y en payload si lo trae)
// para que un put/delete custom nunca alcance filas de otro tenant.
func scopeWrite(w http.ResponseWriter, req *customRequest, target, tenantField, tenant string) bool {
	if strings.TrimSpace(tenant) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Message:  dataprovider.ErrTenantRequired.Error(),
			Code:     dataprovider.CodeBadRequest,
			Resource: target,
			Action:   dataprovider.ActionCustom,
		})
		return false
	}
	if len(req.Filters) == 0 && len(req.Query) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Message:  "put and delete require filters or query",
			Code:     dataprovider.CodeBadRequest,
			Resource: target,
			Action:   dataprovider.ActionCustom,
		})
		return false
	}

	query := make(map[string]any, len(req.Query)+1)
	for k, v := range req.Query {
		query[k] = v
	}
	query[tenantField] = tenant
	req.Query = query

	if _, ok := req.Payload[tenantField]; ok {
		req.Payload[tenantField] = tenant
	}
	return true
}

func lookupResource(w http.ResponseWriter, r *http.Request) (catalog.Resource, bool) {
	res, err := catalog.Lookup(chi.URLParam(r, "resource"))
	if err != nil {
		http.Error(w, "resource not found", http.StatusNotFound)
		return catalog.Resource{}, false
	}
	return res, true
}

func decodeRecord(w http.ResponseWriter, r *http.Request) (dataprovider.Record, bool) {
	var values map[string]any
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil || values == nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return nil, false
	}
	return values, true
}

type errorResponse struct {
	Message  string `json:"message"`
	Code     string `json:"code"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
	ID       string `json:"id,omitempty"`
}

// writeProviderError traduce el *dataprovider.Error a status HTTP.
func writeProviderError(w http.ResponseWriter, err error) {
	pe, ok := dataprovider.AsError(err)
	if !ok {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, statusFor(pe), errorResponse{
		Message:  pe.Message,
		Code:     pe.Code,
		Resource: pe.Context.Resource,
		Action:   pe.Context.Action,
		ID:       pe.Context.ID,
	})
}

func statusFor(pe *dataprovider.Error) int {
	switch pe.Code {
	case backend.CodeNoRows:
		return http.StatusNotFound
	case backend.CodeUniqueViolation:
		return http.StatusConflict
	case dataprovider.CodeBadRequest:
		return http.StatusBadRequest
	}

	var be *backend.Error
	if errors.As(pe.Context.Cause, &be) && be.Status >= 400 && be.Status < 500 {
		return be.Status
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
