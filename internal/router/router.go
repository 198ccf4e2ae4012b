package router

import (
	"net/http"

	_ "vet-practice/docs"
	mem "vet-practice/internal/adapters/storage/memory"
	"vet-practice/internal/dataprovider"
	"vet-practice/internal/domain/access"
	"vet-practice/internal/domain/resources"
	"vet-practice/internal/domain/session"
	"vet-practice/internal/middleware"
	"vet-practice/internal/platform/logger"
	"vet-practice/internal/platform/metrics"
	"vet-practice/internal/ports/auth"
	"vet-practice/internal/ports/backend"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcionales: lo que venga nil se arma in-memory (dev / tests).
	Executor     backend.Executor
	SessionStore session.Store
	Table        access.Table
	Logger       logger.Logger
	Registry     *prometheus.Registry

	// TenantField es la columna de tenant (vacío => dataprovider.DefaultTenantField).
	TenantField     string
	ProviderOptions []dataprovider.Option
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	exec := opts.Executor
	if exec == nil {
		exec = mem.NewExecutor()
	}
	store := opts.SessionStore
	if store == nil {
		store = mem.NewSessionStore()
	}
	table := opts.Table
	if table == nil {
		table = access.DefaultTable()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover(log))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Core: resolver + provider instrumentado
	resolver := access.NewResolver(table)
	providerOpts := append([]dataprovider.Option{dataprovider.WithTenantField(opts.TenantField)}, opts.ProviderOptions...)
	provider := dataprovider.Instrument(
		dataprovider.New(exec, providerOpts...),
		log.With(map[string]any{"component": "dataprovider"}),
		metrics.NewProvider(reg),
	)

	sessionSvc := session.NewService(store, resolver)
	gate := middleware.NewGate(resolver, sessionSvc, log.With(map[string]any{"component": "gate"}))

	// Rutas por módulo
	session.RegisterRoutes(r, sessionSvc, resolver)
	resources.RegisterRoutes(r, provider, gate, opts.TenantField)

	return r
}
