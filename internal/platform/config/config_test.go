package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, BackendMemory, cfg.Backend.Driver)
	assert.Equal(t, "tenant_id", cfg.Backend.TenantField)
	assert.Equal(t, SessionMemory, cfg.Session.Store)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL())
	assert.True(t, cfg.Auth.DevMode)
	assert.Equal(t, 5*time.Second, cfg.Auth.Odin.Timeout())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
backend:
  driver: postgrest
postgrest:
  url: http://localhost:3000
  schema: clinic
session:
  store: redis
redis:
  addr: cache:6379
`), 0o600))

	t.Setenv("VETPRACTICE_SERVER_PORT", "9100")
	t.Setenv("VETPRACTICE_POSTGREST_TIMEOUTSECS", "3")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, BackendPostgREST, cfg.Backend.Driver)
	assert.Equal(t, "clinic", cfg.PostgREST.Schema)
	assert.Equal(t, 3*time.Second, cfg.PostgREST.Timeout())
	assert.Equal(t, SessionRedis, cfg.Session.Store)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "vetpractice:session", cfg.Redis.Prefix)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Backend: BackendConfig{Driver: BackendMemory},
			Session: SessionConfig{Store: SessionMemory},
			Auth:    AuthConfig{DevMode: true},
		}
	}

	cases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"memory ok", func(*Config) {}, false},
		{"postgres without url", func(c *Config) { c.Backend.Driver = BackendPostgres }, true},
		{"postgres with url", func(c *Config) {
			c.Backend.Driver = BackendPostgres
			c.Database.URL = "postgres://localhost/vet"
		}, false},
		{"postgrest without url", func(c *Config) { c.Backend.Driver = BackendPostgREST }, true},
		{"unknown driver", func(c *Config) { c.Backend.Driver = "mongo" }, true},
		{"unknown session store", func(c *Config) { c.Session.Store = "file" }, true},
		{"no devmode without odin", func(c *Config) { c.Auth.DevMode = false }, true},
		{"no devmode with odin", func(c *Config) {
			c.Auth.DevMode = false
			c.Auth.Odin.URL = "https://odin.local"
		}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := base()
			tc.mutate(&c)
			err := c.Validate()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
