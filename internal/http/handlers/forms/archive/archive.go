// Package archive реализует HTTP-обработчик архивирования формы по ID.
package archive

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/forms-service/internal/http/handlers/httperr"
	"github.com/magabrotheeeer/forms-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/forms-service/internal/http/response"
	"github.com/magabrotheeeer/forms-service/internal/lib/sl"
)

// Service описывает архивирование формы от имени владельца токена.
type Service interface {
	Archive(ctx context.Context, token, id string) error
}

// Handler помечает форму архивной.
type Handler struct {
	log     *slog.Logger
	service Service
	kind    string
	detail  string
}

// New создает Handler для форм вида kind.
func New(log *slog.Logger, service Service, kind, detail string) *Handler {
	return &Handler{
		log:     log,
		service: service,
		kind:    kind,
		detail:  detail,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	op := "handlers.forms.archive." + h.kind
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token, ok := middlewarectx.TokenFromContext(r.Context())
	if !ok {
		httperr.Unauthenticated(w, r)
		return
	}

	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Warn("invalid id format", slog.String("id", idStr), sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(httperr.MsgInvalidID))
		return
	}

	if err := h.service.Archive(r.Context(), token, id.String()); err != nil {
		httperr.Write(w, r, log, err, "archive", h.kind)
		return
	}

	log.Info("form archived", slog.String("id", id.String()))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(response.Ack{ID: id.String(), Detail: h.detail}))
}
