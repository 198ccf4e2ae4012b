package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"vet-practice/internal/domain/access"
	"vet-practice/internal/domain/catalog"
	"vet-practice/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, resolver *access.Resolver) {
	r.Route("/session", func(sr chi.Router) {
		sr.Get("/", currentSessionHandler(svc))
		sr.Post("/role", selectRoleHandler(svc))
		sr.Delete("/", logoutHandler(svc))
	})

	r.Route("/me", func(mr chi.Router) {
		mr.Get("/navigation", navigationHandler(svc, resolver))
		mr.Get("/can", canHandler(svc, resolver))
	})
}

type selectRoleRequest struct {
	Role string `json:"role"`
}

// selectRoleHandler godoc
// @Summary      Select the session role
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      selectRoleRequest  true  "role"
// @Success      201   {object}  Session
// @Failure      400   {string}  string
// @Failure      409   {string}  string
// @Router       /session/role [post]
func selectRoleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req selectRoleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sess, err := svc.SelectRole(r.Context(), SelectRoleInput{
			UserID:   claims.UserID,
			TenantID: claims.TenantID,
			Role:     req.Role,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidRole), errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrRoleAlreadySelected):
				http.Error(w, err.Error(), http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, sess)
	}
}

// currentSessionHandler godoc
// @Summary  Current session
// @Tags     session
// @Produce  json
// @Success  200  {object}  Session
// @Failure  404  {string}  string
// @Router   /session [get]
func currentSessionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		sess, err := svc.Current(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "no role selected", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

// logoutHandler godoc
// @Summary  Logout (clears the selected role)
// @Tags     session
// @Success  204
// @Router   /session [delete]
func logoutHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Logout(r.Context(), claims.UserID); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type navigationResponse struct {
	Role  access.Role       `json:"role"`
	Items []access.MenuItem `json:"items"`
}

// navigationHandler godoc
// @Summary  Navigation menu for the session role
// @Tags     me
// @Produce  json
// @Success  200  {object}  navigationResponse
// @Router   /me/navigation [get]
func navigationHandler(svc *Service, resolver *access.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		role, err := svc.RoleOf(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, navigationResponse{
			Role:  role,
			Items: access.Compose(resolver, role, catalog.All()),
		})
	}
}

// canHandler godoc
// @Summary  Check a permission for the session role
// @Tags     me
// @Produce  json
// @Param    resource  query     string  true  "resource"
// @Param    action    query     string  true  "list|show|create|edit|delete"
// @Success  200       {object}  access.Decision
// @Failure  400       {string}  string
// @Router   /me/can [get]
func canHandler(svc *Service, resolver *access.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		resource := strings.TrimSpace(r.URL.Query().Get("resource"))
		action, ok := access.ParseAction(r.URL.Query().Get("action"))
		if resource == "" || !ok {
			http.Error(w, "resource and action required", http.StatusBadRequest)
			return
		}

		role, err := svc.RoleOf(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, resolver.Can(role, resource, action))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
