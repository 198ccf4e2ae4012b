package session

import (
	"context"
	"errors"
	"time"

	"vet-practice/internal/domain/access"
)

var (
	ErrNotFound            = errors.New("session not found")
	ErrExists              = errors.New("session already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidRole         = errors.New("invalid role")
	ErrRoleAlreadySelected = errors.New("role already selected for this session")
)

// Session guarda el rol elegido por el usuario después del login.
// El rol no cambia mientras la sesión exista: para cambiarlo hay que salir.
type Session struct {
	UserID     string      `json:"user_id"`
	TenantID   string      `json:"tenant_id"`
	Role       access.Role `json:"role"`
	SelectedAt time.Time   `json:"selected_at"`
}

// Store persiste sesiones por user id.
type Store interface {
	Get(ctx context.Context, userID string) (Session, error)
	// Set no pisa una sesión existente: devuelve ErrExists.
	Set(ctx context.Context, s Session) error
	Clear(ctx context.Context, userID string) error
}
