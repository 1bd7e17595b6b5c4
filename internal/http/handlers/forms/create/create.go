// Package create реализует HTTP-обработчик создания формы.
//
// Handler принимает JSON с полями формы, валидирует его и сохраняет через сервис.
// Авторизация не требуется. В ответ возвращается ID записи и текст подтверждения.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/forms-service/internal/http/handlers/httperr"
	"github.com/magabrotheeeer/forms-service/internal/http/response"
	"github.com/magabrotheeeer/forms-service/internal/lib/sl"
)

// Service описывает создание формы типа T.
type Service[T any] interface {
	Create(ctx context.Context, req T) (string, error)
}

// Handler обрабатывает создание форм одного вида.
type Handler[T any] struct {
	log      *slog.Logger
	service  Service[T]
	validate *validator.Validate
	kind     string // cancellation или feedback
	detail   string // текст подтверждения
}

// New создает Handler для форм вида kind. detail возвращается клиенту при успехе.
func New[T any](log *slog.Logger, service Service[T], kind, detail string) *Handler[T] {
	return &Handler[T]{
		log:      log,
		service:  service,
		validate: validator.New(),
		kind:     kind,
		detail:   detail,
	}
}

func (h *Handler[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	op := "handlers.forms.create." + h.kind
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(httperr.MsgInvalidBody))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	id, err := h.service.Create(r.Context(), req)
	if err != nil {
		httperr.Write(w, r, log, err, "create", h.kind)
		return
	}

	log.Info("form created", slog.String("id", id))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(response.Ack{ID: id, Detail: h.detail}))
}
