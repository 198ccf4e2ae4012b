package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"vet-practice/internal/platform/config"
	"vet-practice/internal/platform/logger"

	"gopkg.in/yaml.v3"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCanCommand(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"can", "NURSE", "patients", "delete"}, "denied"},
		{[]string{"can", "nurse", "medical_records", "create"}, "permitted"},
		{[]string{"can", "CEO", "anything", "delete"}, "permitted"},
		{[]string{"can", "JANITOR", "clients", "list"}, "denied (invalid role)"},
		{[]string{"can", "", "clients", "list"}, "denied (no role assigned)"},
	}

	for _, tc := range cases {
		got, err := run(t, tc.args...)
		if err != nil {
			t.Fatalf("%v: unexpected error %v", tc.args, err)
		}
		if strings.TrimSpace(got) != tc.want {
			t.Fatalf("%v: expected %q, got %q", tc.args, tc.want, got)
		}
	}

	if _, err := run(t, "can", "CEO", "clients", "archive"); err == nil {
		t.Fatalf("expected error for unknown action")
	}
}

func TestPermissionsCommand(t *testing.T) {
	got, err := run(t, "permissions")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var matrix map[string]map[string][]string
	if err := yaml.Unmarshal([]byte(got), &matrix); err != nil {
		t.Fatalf("invalid yaml: %v\n%s", err, got)
	}
	if strings.Join(matrix["NURSE"]["medical_records"], ",") != "list,show,create" {
		t.Fatalf("unexpected NURSE medical_records %v", matrix["NURSE"]["medical_records"])
	}
	if _, ok := matrix["NURSE"]["invoices"]; ok {
		t.Fatalf("NURSE must not list invoices")
	}
}

func TestBuildOptions_MemoryDefaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}

	opts, cleanup, err := buildOptions(context.Background(), cfg, logger.Nop())
	if err != nil {
		t.Fatalf("buildOptions: %v", err)
	}
	defer cleanup()

	if opts.Executor == nil || opts.SessionStore == nil || opts.Registry == nil {
		t.Fatalf("expected executor, session store and registry, got %+v", opts)
	}
	if opts.AuthVerifier != nil {
		t.Fatalf("devmode must not build a verifier")
	}
	if opts.TenantField != cfg.Backend.TenantField {
		t.Fatalf("expected tenant field %q, got %q", cfg.Backend.TenantField, opts.TenantField)
	}
}
