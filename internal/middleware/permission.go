package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"vet-practice/internal/domain/access"
	"vet-practice/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// RoleLookup devuelve el rol de sesión del usuario (RoleNone si no eligió).
type RoleLookup interface {
	RoleOf(ctx context.Context, userID string) (access.Role, error)
}

// Gate aplica el resolver de permisos a las rutas /api.
type Gate struct {
	resolver *access.Resolver
	roles    RoleLookup
	log      logger.Logger
}

func NewGate(resolver *access.Resolver, roles RoleLookup, log logger.Logger) *Gate {
	if log == nil {
		log = logger.Nop()
	}
	return &Gate{resolver: resolver, roles: roles, log: log}
}

// RequirePermission exige (rol de sesión, {resource}, action). El recurso sale
// del parámetro de ruta "resource" (o "target" en custom).
func (g *Gate) RequirePermission(action access.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resource := chi.URLParam(r, "resource")
			if resource == "" {
				resource = chi.URLParam(r, "target")
			}
			if !g.Authorize(w, r, resource, action) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Authorize escribe 401/403/500 y devuelve false si el request no pasa.
// Lo usan los handlers cuya acción depende del body (custom).
func (g *Gate) Authorize(w http.ResponseWriter, r *http.Request, resource string, action access.Action) bool {
	claims, ok := GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		writeError(w, http.StatusUnauthorized, map[string]string{
			"error": "authentication required",
		})
		return false
	}

	role, err := g.roles.RoleOf(r.Context(), claims.UserID)
	if err != nil {
		g.log.Error("role lookup failed", map[string]any{
			"user_id": claims.UserID,
			"error":   err,
		})
		writeError(w, http.StatusInternalServerError, map[string]string{
			"error": "authorization check failed",
		})
		return false
	}

	decision := g.resolver.Can(role, resource, action)
	if !decision.Permitted {
		g.log.Info("access denied", map[string]any{
			"user_id":  claims.UserID,
			"role":     string(role),
			"resource": resource,
			"action":   string(action),
			"reason":   decision.Reason,
		})
		writeError(w, http.StatusForbidden, map[string]string{
			"error":    "forbidden",
			"reason":   decision.Reason,
			"resource": resource,
			"action":   string(action),
		})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
