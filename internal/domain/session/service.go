package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"vet-practice/internal/domain/access"
)

type Service struct {
	store    Store
	resolver *access.Resolver
	now      func() time.Time
}

func NewService(store Store, resolver *access.Resolver) *Service {
	return &Service{
		store:    store,
		resolver: resolver,
		now:      time.Now,
	}
}

type SelectRoleInput struct {
	UserID   string
	TenantID string
	Role     string
}

// SelectRole fija el rol de la sesión. Solo se acepta un rol definido en la tabla.
func (s *Service) SelectRole(ctx context.Context, in SelectRoleInput) (Session, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return Session{}, ErrInvalidInput
	}

	role := access.ParseRole(in.Role)
	if role == access.RoleNone || !s.resolver.HasRole(role) {
		return Session{}, ErrInvalidRole
	}

	sess := Session{
		UserID:     userID,
		TenantID:   strings.TrimSpace(in.TenantID),
		Role:       role,
		SelectedAt: s.now().UTC(),
	}

	if err := s.store.Set(ctx, sess); err != nil {
		if errors.Is(err, ErrExists) {
			return Session{}, ErrRoleAlreadySelected
		}
		return Session{}, err
	}
	return sess, nil
}

func (s *Service) Current(ctx context.Context, userID string) (Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Session{}, ErrInvalidInput
	}
	return s.store.Get(ctx, userID)
}

// RoleOf devuelve RoleNone si el usuario todavía no eligió rol.
func (s *Service) RoleOf(ctx context.Context, userID string) (access.Role, error) {
	sess, err := s.Current(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
			return access.RoleNone, nil
		}
		return access.RoleNone, err
	}
	return sess.Role, nil
}

// Logout borra la sesión. Salir sin sesión no es error.
func (s *Service) Logout(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrInvalidInput
	}
	return s.store.Clear(ctx, userID)
}
