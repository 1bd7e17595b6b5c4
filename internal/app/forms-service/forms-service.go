// Package formsservice собирает зависимости сервиса форм и запускает HTTP-сервер.
package formsservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/magabrotheeeer/forms-service/internal/authclient"
	"github.com/magabrotheeeer/forms-service/internal/cache"
	"github.com/magabrotheeeer/forms-service/internal/config"
	"github.com/magabrotheeeer/forms-service/internal/lib/sl"
	"github.com/magabrotheeeer/forms-service/internal/migrations"
	"github.com/magabrotheeeer/forms-service/internal/services/forms"
	"github.com/magabrotheeeer/forms-service/internal/storage/repository"
)

const (
	connectRetries = 5
	connectDelay   = 2 * time.Second
	shutdownGrace  = 15 * time.Second
)

// App — собранный сервис форм.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	redis  *cache.Cache
}

// New готовит базу (создаёт её при отсутствии и накатывает миграции),
// подключает кеш и сервис авторизации и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.New"

	authClient, err := authclient.New(authclient.Config{
		Host:          cfg.AuthHost,
		Port:          cfg.AuthPort,
		UserEndpoint:  cfg.UserEndpoint,
		TokenEndpoint: cfg.TokenEndpoint,
		Timeout:       cfg.AuthTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := prepareStorage(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	listCache, redis, err := newListCache(ctx, cfg.Redis, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	deps := Dependencies{
		Cancellations: forms.NewCancellationService(db, authClient, listCache, logger),
		Feedback:      forms.NewFeedbackService(db, authClient, listCache, logger),
		Tokens:        authClient,
		DB:            db,
		Metrics:       newRegistry(),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, deps)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address(),
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		redis:  redis,
	}, nil
}

// prepareStorage создаёт базу при необходимости, подключается к ней
// и приводит схему к последней версии.
func prepareStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*repository.Storage, error) {
	created, err := repository.EnsureDatabase(ctx, cfg.Postgres.DSN("postgres"), cfg.PGDBName)
	if err != nil {
		return nil, err
	}
	if created {
		logger.Info("database created", slog.String("db", cfg.PGDBName))
	}

	db, err := repository.Connect(cfg.Postgres.DSN(""), connectRetries, connectDelay)
	if err != nil {
		return nil, err
	}

	if cfg.FreshBootstrap {
		logger.Warn("fresh bootstrap: dropping and recreating form tables", slog.String("env", cfg.Env))
		err = migrations.Reset(db.DB, cfg.MigrationsPath, cfg.Env == sl.EnvLocal || cfg.Env == sl.EnvDevelopment)
	} else {
		err = migrations.Run(db.DB, cfg.MigrationsPath)
	}
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	ok, err := db.TablesExist(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if !ok {
		_ = db.Close()
		return nil, errors.New("form tables are missing after migrations")
	}
	return db, nil
}

// Run обслуживает запросы до отмены ctx, затем корректно останавливает сервер.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", sl.Err(err))
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", sl.Err(err))
		}
	}
}

// newRegistry — реестр метрик сервиса вместе с метриками рантайма и процесса.
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// newListCache возвращает Redis-кеш списков, если задан адрес и ненулевой ttl.
// Иначе кеширование выключено и списки читаются из базы. Второе значение не nil только для Redis.
func newListCache(ctx context.Context, cfg config.Redis, logger *slog.Logger) (forms.Cache, *cache.Cache, error) {
	if cfg.RedisAddress == "" || cfg.RedisTTL <= 0 {
		logger.Info("list cache disabled")
		return cache.Noop{}, nil, nil
	}
	redis, err := cache.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("list cache enabled", slog.String("address", cfg.RedisAddress))
	return redis, redis, nil
}
