// Package middlewarectx содержит HTTP middleware сервиса форм: извлечение
// Bearer-токена, ограничение частоты запросов и сбор метрик.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/forms-service/internal/http/handlers/httperr"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// Token — ключ для Bearer-токена в контексте.
const Token Key = "token"

const bearerPrefix = "Bearer "

// BearerToken кладёт токен из заголовка Authorization в контекст запроса.
// Без заголовка или с другой схемой отвечает 401. Сам токен проверяет
// сервис авторизации при обращении к защищённой операции.
func BearerToken(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.BearerToken"

			authHeader := r.Header.Get("Authorization")
			if len(authHeader) < len(bearerPrefix) || !strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
				log.Warn("missing or invalid authorization header",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
				httperr.Unauthenticated(w, r)
				return
			}
			token := strings.TrimSpace(authHeader[len(bearerPrefix):])
			if token == "" {
				httperr.Unauthenticated(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), Token, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenFromContext возвращает токен, сохранённый BearerToken.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(Token).(string)
	return token, ok && token != ""
}
