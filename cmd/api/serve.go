package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"vet-practice/internal/adapters/auth/odin"
	mem "vet-practice/internal/adapters/storage/memory"
	pg "vet-practice/internal/adapters/storage/postgres"
	"vet-practice/internal/adapters/storage/postgrest"
	rds "vet-practice/internal/adapters/storage/redis"
	"vet-practice/internal/dataprovider"
	"vet-practice/internal/platform/config"
	"vet-practice/internal/platform/logger"
	"vet-practice/internal/router"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    "vetpractice",
	})
	if zl, ok := log.(*logger.ZapLogger); ok {
		defer func() { _ = zl.Sync() }()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts, cleanup, err := buildOptions(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.NewRouter(opts),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{
			"addr":    srv.Addr,
			"backend": cfg.Backend.Driver,
			"session": cfg.Session.Store,
			"devmode": cfg.Auth.DevMode,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildOptions arma executor, session store y verifier según config.
// cleanup cierra pool/clientes abiertos.
func buildOptions(ctx context.Context, cfg *config.Config, log logger.Logger) (router.Options, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := router.Options{
		Logger:      log,
		Registry:    reg,
		TenantField: cfg.Backend.TenantField,
		ProviderOptions: []dataprovider.Option{
			dataprovider.WithIDField(cfg.Backend.IDField),
		},
	}

	switch cfg.Backend.Driver {
	case config.BackendPostgres:
		pool, err := pg.Open(ctx, cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			return router.Options{}, cleanup, err
		}
		closers = append(closers, pool.Close)
		opts.Executor = pg.NewExecutor(pool)
	case config.BackendPostgREST:
		exec, err := postgrest.NewExecutor(postgrest.Config{
			BaseURL: cfg.PostgREST.URL,
			APIKey:  cfg.PostgREST.APIKey,
			Schema:  cfg.PostgREST.Schema,
			Timeout: cfg.PostgREST.Timeout(),
		})
		if err != nil {
			return router.Options{}, cleanup, err
		}
		opts.Executor = exec
	default:
		opts.Executor = mem.NewExecutor()
	}

	switch cfg.Session.Store {
	case config.SessionRedis:
		client, err := rds.Open(ctx, rds.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			cleanup()
			return router.Options{}, func() {}, err
		}
		closers = append(closers, func() { _ = client.Close() })
		opts.SessionStore = rds.NewSessionStore(client, cfg.Redis.Prefix, cfg.Session.TTL())
	default:
		opts.SessionStore = mem.NewSessionStore()
	}

	if !cfg.Auth.DevMode {
		client, err := odin.NewClient(odin.Config{
			BaseURL: cfg.Auth.Odin.URL,
			APIKey:  cfg.Auth.Odin.APIKey,
			Timeout: cfg.Auth.Odin.Timeout(),
		})
		if err != nil {
			cleanup()
			return router.Options{}, func() {}, err
		}
		opts.AuthVerifier = odin.NewVerifier(client)
	}

	return opts, cleanup, nil
}
