// Package list реализует HTTP-обработчик просмотра всех форм одного вида.
// Доступен только администратору; архивные записи тоже возвращаются.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/forms-service/internal/http/handlers/httperr"
	"github.com/magabrotheeeer/forms-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/forms-service/internal/http/response"
)

// Service описывает получение списка форм типа T от имени владельца токена.
type Service[T any] interface {
	List(ctx context.Context, token string) ([]T, error)
}

// Handler отдаёт список форм.
type Handler[T any] struct {
	log     *slog.Logger
	service Service[T]
	kind    string
}

// New создает Handler для форм вида kind.
func New[T any](log *slog.Logger, service Service[T], kind string) *Handler[T] {
	return &Handler[T]{
		log:     log,
		service: service,
		kind:    kind,
	}
}

func (h *Handler[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	op := "handlers.forms.list." + h.kind
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token, ok := middlewarectx.TokenFromContext(r.Context())
	if !ok {
		httperr.Unauthenticated(w, r)
		return
	}

	items, err := h.service.List(r.Context(), token)
	if err != nil {
		httperr.Write(w, r, log, err, "list", h.kind)
		return
	}

	log.Info("forms listed", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(items))
}
