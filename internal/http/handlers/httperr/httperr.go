// Package httperr переводит ошибки сервисного слоя в HTTP-ответы.
package httperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/forms-service/internal/authclient"
	"github.com/magabrotheeeer/forms-service/internal/http/response"
	"github.com/magabrotheeeer/forms-service/internal/lib/sl"
	"github.com/magabrotheeeer/forms-service/internal/services/access"
	"github.com/magabrotheeeer/forms-service/internal/services/forms"
)

// Сообщения об ошибках, видимые клиенту.
const (
	MsgInvalidBody      = "invalid request body"
	MsgInvalidID        = "invalid id"
	MsgNotAuthenticated = "not authenticated"
	MsgAuthUnavailable  = "authentication service unavailable"
)

// Write пишет ответ для err. action и kind формируют сообщение о сбое хранилища,
// например "failed to list feedback"; kind также используется в "<kind> not found".
// Текст ошибок драйвера и SQL клиенту не отдаётся.
func Write(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, action, kind string) {
	status, msg := classify(err, action, kind)

	if status >= http.StatusInternalServerError {
		log.Error("request failed", slog.Int("status", status), sl.Err(err))
	} else {
		log.Warn("request rejected", slog.Int("status", status), sl.Err(err))
	}

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	render.Status(r, status)
	render.JSON(w, r, response.Error(msg))
}

// Unauthenticated отвечает 401 на запрос без Bearer-токена.
func Unauthenticated(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error(MsgNotAuthenticated))
}

func classify(err error, action, kind string) (int, string) {
	var upstream *authclient.UpstreamError
	switch {
	case errors.As(err, &upstream):
		return upstream.StatusCode, upstream.Detail
	case errors.Is(err, authclient.ErrUnavailable):
		return http.StatusServiceUnavailable, MsgAuthUnavailable
	case errors.Is(err, access.ErrForbidden):
		return http.StatusForbidden, access.ErrForbidden.Error()
	case errors.Is(err, forms.ErrNotFound):
		return http.StatusNotFound, fmt.Sprintf("%s not found", kind)
	case errors.Is(err, forms.ErrInvalidInput):
		return http.StatusUnprocessableEntity, MsgInvalidBody
	default:
		return http.StatusInternalServerError, fmt.Sprintf("failed to %s %s", action, kind)
	}
}
