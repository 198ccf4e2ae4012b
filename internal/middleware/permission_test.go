package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"vet-practice/internal/domain/access"
	"vet-practice/internal/platform/logger"
	"vet-practice/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeRoles struct {
	roles map[string]access.Role
	err   error
}

func (f fakeRoles) RoleOf(_ context.Context, userID string) (access.Role, error) {
	if f.err != nil {
		return access.RoleNone, f.err
	}
	return f.roles[userID], nil
}

func gatedRouter(g *Gate) http.Handler {
	r := chi.NewRouter()
	r.With(g.RequirePermission(access.ActionDelete)).Delete("/api/{resource}/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

func serve(t *testing.T, h http.Handler, userID string) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodDelete, "/api/clients/c1", nil)
	if userID != "" {
		req = req.WithContext(WithClaims(req.Context(), auth.Claims{UserID: userID, TenantID: "t1"}))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]string
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid json body %q: %v", rec.Body.String(), err)
		}
	}
	return rec, body
}

func TestGate_Allowed(t *testing.T) {
	g := NewGate(access.NewResolver(access.DefaultTable()), fakeRoles{roles: map[string]access.Role{"boss": access.RoleCEO}}, nil)

	rec, _ := serve(t, gatedRouter(g), "boss")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestGate_DeniedIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	g := NewGate(
		access.NewResolver(access.DefaultTable()),
		fakeRoles{roles: map[string]access.Role{"n1": access.RoleNurse}},
		logger.FromZap(zap.New(core)),
	)

	rec, body := serve(t, gatedRouter(g), "n1")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if body["error"] != "forbidden" || body["resource"] != "clients" || body["action"] != "delete" {
		t.Fatalf("unexpected body %+v", body)
	}

	entries := logs.FilterMessage("access denied").All()
	if len(entries) != 1 {
		t.Fatalf("expected one denial log, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["role"]; got != "NURSE" {
		t.Fatalf("expected role NURSE in log, got %v", got)
	}
}

func TestGate_NoRoleSelected(t *testing.T) {
	g := NewGate(access.NewResolver(access.DefaultTable()), fakeRoles{}, nil)

	rec, body := serve(t, gatedRouter(g), "u1")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if body["reason"] != access.ReasonNoRole {
		t.Fatalf("expected reason %q, got %q", access.ReasonNoRole, body["reason"])
	}
}

func TestGate_NoIdentity(t *testing.T) {
	g := NewGate(access.NewResolver(access.DefaultTable()), fakeRoles{}, nil)

	rec, body := serve(t, gatedRouter(g), "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body["error"] != "authentication required" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestGate_RoleLookupError(t *testing.T) {
	g := NewGate(access.NewResolver(access.DefaultTable()), fakeRoles{err: errors.New("redis down")}, nil)

	rec, _ := serve(t, gatedRouter(g), "u1")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

type stubVerifier struct {
	claims auth.Claims
	err    error
}

func (s stubVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	if token != "good" {
		return auth.Claims{}, errors.New("bad token")
	}
	return s.claims, s.err
}

func TestAuthContext(t *testing.T) {
	var got auth.Claims
	var ok bool
	capture := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got, ok = GetClaims(r.Context())
	})

	cases := []struct {
		name     string
		verifier auth.AuthVerifier
		headers  map[string]string
		wantOK   bool
		wantUser string
	}{
		{"dev headers", nil, map[string]string{HeaderDebugUserID: "u1", HeaderDebugTenantID: "t1"}, true, "u1"},
		{"dev without header", nil, nil, false, ""},
		{"bearer ok", stubVerifier{claims: auth.Claims{UserID: "u2"}}, map[string]string{"Authorization": "Bearer good"}, true, "u2"},
		{"bearer rejected", stubVerifier{}, map[string]string{"Authorization": "Bearer nope"}, false, ""},
		{"debug header ignored with verifier", stubVerifier{}, map[string]string{HeaderDebugUserID: "u1"}, false, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok = auth.Claims{}, false
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			AuthContext(tc.verifier)(capture).ServeHTTP(httptest.NewRecorder(), req)

			if ok != tc.wantOK || got.UserID != tc.wantUser {
				t.Fatalf("expected ok=%v user=%q, got ok=%v user=%q", tc.wantOK, tc.wantUser, ok, got.UserID)
			}
		})
	}
}
