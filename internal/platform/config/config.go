package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const EnvPrefix = "VETPRACTICE_"

const (
	BackendMemory    = "memory"
	BackendPostgres  = "postgres"
	BackendPostgREST = "postgrest"

	SessionMemory = "memory"
	SessionRedis  = "redis"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Backend   BackendConfig   `koanf:"backend"`
	Database  DatabaseConfig  `koanf:"database"`
	PostgREST PostgRESTConfig `koanf:"postgrest"`
	Session   SessionConfig   `koanf:"session"`
	Redis     RedisConfig     `koanf:"redis"`
	Auth      AuthConfig      `koanf:"auth"`
}

type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// BackendConfig elige el executor del data provider.
type BackendConfig struct {
	Driver      string `koanf:"driver"`
	TenantField string `koanf:"tenantfield"`
	IDField     string `koanf:"idfield"`
}

type DatabaseConfig struct {
	URL      string `koanf:"url"`
	MaxConns int    `koanf:"maxconns"`
}

type PostgRESTConfig struct {
	URL         string `koanf:"url"`
	APIKey      string `koanf:"apikey"`
	Schema      string `koanf:"schema"`
	TimeoutSecs int    `koanf:"timeoutsecs"`
}

func (p PostgRESTConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSecs) * time.Second
}

type SessionConfig struct {
	Store      string `koanf:"store"`
	TTLMinutes int    `koanf:"ttlminutes"`
}

func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLMinutes) * time.Minute
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	Prefix   string `koanf:"prefix"`
}

// AuthConfig: en devmode no hay verifier y se aceptan los headers X-Debug-*.
type AuthConfig struct {
	DevMode bool       `koanf:"devmode"`
	Odin    OdinConfig `koanf:"odin"`
}

type OdinConfig struct {
	URL         string `koanf:"url"`
	APIKey      string `koanf:"apikey"`
	TimeoutSecs int    `koanf:"timeoutsecs"`
}

func (o OdinConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutSecs) * time.Second
}

// Load: defaults, luego YAML (opcionales), luego env VETPRACTICE_*.
// VETPRACTICE_BACKEND_DRIVER -> backend.driver
func Load(configPaths ...string) (*Config, error) {
	k := koanf.New(".")

	_ = k.Load(confmap.Provider(map[string]any{
		"server.host":           "0.0.0.0",
		"server.port":           8080,
		"log.level":             "info",
		"log.format":            "json",
		"backend.driver":        BackendMemory,
		"backend.tenantfield":   "tenant_id",
		"backend.idfield":       "id",
		"database.maxconns":     10,
		"postgrest.timeoutsecs": 10,
		"session.store":         SessionMemory,
		"session.ttlminutes":    720,
		"redis.addr":            "localhost:6379",
		"redis.prefix":          "vetpractice:session",
		"auth.devmode":          true,
		"auth.odin.timeoutsecs": 5,
	}, "."), nil)

	for _, path := range configPaths {
		if strings.TrimSpace(path) == "" {
			continue
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	_ = k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, EnvPrefix)),
			"_", ".",
		)
	}), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Backend.Driver {
	case BackendMemory:
	case BackendPostgres:
		if strings.TrimSpace(c.Database.URL) == "" {
			return fmt.Errorf("config: database.url is required for backend %q", c.Backend.Driver)
		}
	case BackendPostgREST:
		if strings.TrimSpace(c.PostgREST.URL) == "" {
			return fmt.Errorf("config: postgrest.url is required for backend %q", c.Backend.Driver)
		}
	default:
		return fmt.Errorf("config: unknown backend.driver %q", c.Backend.Driver)
	}

	switch c.Session.Store {
	case SessionMemory, SessionRedis:
	default:
		return fmt.Errorf("config: unknown session.store %q", c.Session.Store)
	}

	if !c.Auth.DevMode && strings.TrimSpace(c.Auth.Odin.URL) == "" {
		return fmt.Errorf("config: auth.odin.url is required when auth.devmode is false")
	}
	return nil
}
