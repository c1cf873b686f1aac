package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/aretw0/wanderbuddy"
	"github.com/aretw0/wanderbuddy/internal/config"
	"github.com/aretw0/wanderbuddy/pkg/adapters/file"
	httpadapter "github.com/aretw0/wanderbuddy/pkg/adapters/http"
	"github.com/aretw0/wanderbuddy/pkg/adapters/memory"
	"github.com/aretw0/wanderbuddy/pkg/adapters/redis"
	"github.com/aretw0/wanderbuddy/pkg/domain"
	"github.com/aretw0/wanderbuddy/pkg/observability"
	"github.com/aretw0/wanderbuddy/pkg/persistence/middleware"
	"github.com/aretw0/wanderbuddy/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App is everything a command needs, built from the configuration.
type App struct {
	Config   *config.Config
	Client   *wanderbuddy.Client
	Logger   *slog.Logger
	Metrics  *observability.Metrics
	Registry *prometheus.Registry

	closers []io.Closer
}

// Open wires store, backend client and core for cfg. Close releases them.
func Open(cfg *config.Config, logger *slog.Logger, hooks domain.Hooks) (*App, error) {
	app := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	}
	app.Metrics = observability.NewMetrics(app.Registry)

	store, err := app.openStore()
	if err != nil {
		return nil, err
	}

	backend, err := httpadapter.New(cfg.API.BaseURL,
		httpadapter.WithTimeout(cfg.API.Timeout),
		httpadapter.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst),
		httpadapter.WithMetrics(app.Metrics),
		httpadapter.WithLogger(logger.With("component", "backend")),
		httpadapter.WithUserAgent("wanderbuddy/"+wanderbuddy.Version),
	)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Client = wanderbuddy.New(backend, store,
		wanderbuddy.WithLogger(logger),
		wanderbuddy.WithHooks(hooks),
		wanderbuddy.WithMetrics(app.Metrics),
	)
	return app, nil
}

func (a *App) openStore() (ports.KeyValueStore, error) {
	cfg := a.Config.Store

	var store ports.KeyValueStore
	switch cfg.Kind {
	case config.StoreMemory:
		store = memory.NewStore()
	case config.StoreFile:
		store = file.New(cfg.Path)
	case config.StoreRedis:
		rs := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		a.closers = append(a.closers, rs)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rs.Ping(ctx); err != nil {
			// Persistence is best effort; the session still works in memory.
			a.Logger.Warn("Redis unreachable, sessions will not survive this process", "addr", cfg.Redis.Addr, "err", err)
		}
		store = rs
	default:
		return nil, fmt.Errorf("unknown store kind %q", cfg.Kind)
	}

	enc, ok, err := a.Config.EncryptionConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key: %w", err)
	}
	if ok {
		store = middleware.Chain(store, middleware.NewEncryptionMiddleware(enc))
	}
	return store, nil
}

// ServeMetrics exposes the registry on cfg.Metrics.Addr until ctx is done.
// It returns the bound address, or "" when metrics are disabled.
func (a *App) ServeMetrics(ctx context.Context) (string, error) {
	if a.Config.Metrics.Addr == "" {
		return "", nil
	}

	ln, err := net.Listen("tcp", a.Config.Metrics.Addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen for metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Warn("Metrics server stopped", "err", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	a.Logger.Debug("Serving metrics", "addr", ln.Addr().String())
	return ln.Addr().String(), nil
}

// Close waits for background session work and releases the store.
func (a *App) Close() error {
	if a.Client != nil {
		a.Client.Wait()
	}
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
