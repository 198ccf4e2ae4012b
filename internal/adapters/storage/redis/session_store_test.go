package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	red "github.com/redis/go-redis/v9"

	"vet-practice/internal/domain/access"
	"vet-practice/internal/domain/session"
)

func newTestRedis(t *testing.T) (*red.Client, *miniredis.Miniredis) {
	t.Helper()

	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := red.NewClient(&red.Options{Addr: server.Addr()})

	t.Cleanup(func() {
		_ = client.Close()
		server.Close()
	})

	return client, server
}

func TestSessionStore_SetGetClear(t *testing.T) {
	client, server := newTestRedis(t)
	store := NewSessionStore(client, "sess", 30*time.Minute)
	ctx := context.Background()

	in := session.Session{UserID: "u1", TenantID: "t1", Role: access.RoleVeterinarian, SelectedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	if err := store.Set(ctx, in); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	got, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.UserID != in.UserID || got.TenantID != in.TenantID || got.Role != in.Role || !got.SelectedAt.Equal(in.SelectedAt) {
		t.Fatalf("expected %+v, got %+v", in, got)
	}

	remaining := server.TTL("sess:u1")
	if remaining <= 0 || remaining > 30*time.Minute {
		t.Fatalf("expected ttl within (0, 30m], got %v", remaining)
	}

	if err := store.Clear(ctx, "u1"); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if _, err := store.Get(ctx, "u1"); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionStore_SetDoesNotOverwrite(t *testing.T) {
	client, _ := newTestRedis(t)
	store := NewSessionStore(client, "", 0)
	ctx := context.Background()

	if err := store.Set(ctx, session.Session{UserID: "u1", Role: access.RoleNurse}); err != nil {
		t.Fatalf("first Set: %v", err)
	}
	if err := store.Set(ctx, session.Session{UserID: "u1", Role: access.RoleCEO}); !errors.Is(err, session.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	got, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Role != access.RoleNurse {
		t.Fatalf("role must stay NURSE, got %q", got.Role)
	}
}

func TestSessionStore_Expires(t *testing.T) {
	client, server := newTestRedis(t)
	store := NewSessionStore(client, "sess", time.Minute)
	ctx := context.Background()

	if err := store.Set(ctx, session.Session{UserID: "u1", Role: access.RoleNurse}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	server.FastForward(2 * time.Minute)

	if _, err := store.Get(ctx, "u1"); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after ttl, got %v", err)
	}
}

func TestSessionStore_EmptyUser(t *testing.T) {
	client, _ := newTestRedis(t)
	store := NewSessionStore(client, "sess", time.Minute)

	if _, err := store.Get(context.Background(), " "); !errors.Is(err, session.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSessionStore_WithService(t *testing.T) {
	client, _ := newTestRedis(t)
	svc := session.NewService(NewSessionStore(client, "sess", time.Hour), access.NewResolver(access.DefaultTable()))
	ctx := context.Background()

	if _, err := svc.SelectRole(ctx, session.SelectRoleInput{UserID: "u9", Role: "receptionist"}); err != nil {
		t.Fatalf("SelectRole: %v", err)
	}
	if _, err := svc.SelectRole(ctx, session.SelectRoleInput{UserID: "u9", Role: "CEO"}); !errors.Is(err, session.ErrRoleAlreadySelected) {
		t.Fatalf("expected ErrRoleAlreadySelected, got %v", err)
	}
	role, err := svc.RoleOf(ctx, "u9")
	if err != nil || role != access.RoleReceptionist {
		t.Fatalf("expected RECEPTIONIST, got %q err=%v", role, err)
	}
}
