package formsservice

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрация спецификации OpenAPI для /docs.
	_ "github.com/magabrotheeeer/forms-service/docs"

	"github.com/magabrotheeeer/forms-service/internal/config"
	"github.com/magabrotheeeer/forms-service/internal/http/handlers/auth/token"
	"github.com/magabrotheeeer/forms-service/internal/http/handlers/forms/archive"
	"github.com/magabrotheeeer/forms-service/internal/http/handlers/forms/create"
	"github.com/magabrotheeeer/forms-service/internal/http/handlers/forms/list"
	"github.com/magabrotheeeer/forms-service/internal/http/handlers/health"
	"github.com/magabrotheeeer/forms-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/forms-service/internal/lib/sl"
	"github.com/magabrotheeeer/forms-service/internal/models"
)

// CancellationService — операции над заявками на расторжение.
type CancellationService interface {
	create.Service[models.CreateCancellation]
	list.Service[models.Cancellation]
	archive.Service
}

// FeedbackService — операции над отзывами.
type FeedbackService interface {
	create.Service[models.CreateFeedback]
	list.Service[models.Feedback]
	archive.Service
}

// Dependencies — всё, что нужно маршрутам.
type Dependencies struct {
	Cancellations CancellationService
	Feedback      FeedbackService
	Tokens        token.Service
	DB            health.Pinger
	Metrics       *prometheus.Registry
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, deps Dependencies) {
	metrics := middlewarectx.NewMetrics(deps.Metrics)
	limiter := middlewarectx.NewIPLimiter(cfg.RPS, cfg.Burst)

	// Глобальные middleware
	r.Use(middleware.RequestID)
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		metrics.Middleware,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
		}),
	)

	// Открытые конечные точки с ограничением частоты
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))
		r.Post("/token", token.New(logger, deps.Tokens).ServeHTTP)
		r.Post("/forms/cancellation", createCancellation(logger, deps.Cancellations))
		r.Post("/forms/feedback", createFeedback(logger, deps.Feedback))
	})

	// Только для администратора: токен проверяется сервисом авторизации
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.BearerToken(logger))

		r.Get("/forms/cancellation", listCancellations(logger, deps.Cancellations))
		archiveC := archiveCancellation(logger, deps.Cancellations)
		r.Patch("/forms/cancellation/{id}/archive", archiveC)
		r.Put("/forms/cancellation/{id}/archive", archiveC)

		r.Get("/forms/feedback", listFeedback(logger, deps.Feedback))
		archiveF := archiveFeedback(logger, deps.Feedback)
		r.Patch("/forms/feedback/{id}/archive", archiveF)
		r.Put("/forms/feedback/{id}/archive", archiveF)
	})

	r.Get("/health", health.New(logger, deps.DB).ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))

	if cfg.Env == sl.EnvDevelopment {
		r.Get("/docs/*", httpSwagger.WrapHandler)
	}
}
