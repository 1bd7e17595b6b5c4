// Package token реализует HTTP-обработчик обмена логина и пароля на токен доступа.
//
// Запрос принимается в виде формы (OAuth2 password flow) и передаётся сервису
// авторизации без изменений. Статус и текст ошибки сервиса авторизации
// возвращаются клиенту как есть.
package token

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/forms-service/internal/http/handlers/httperr"
	"github.com/magabrotheeeer/forms-service/internal/http/response"
	"github.com/magabrotheeeer/forms-service/internal/lib/sl"
	"github.com/magabrotheeeer/forms-service/internal/models"
)

// Request — учетные данные из формы.
type Request struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// Handler обрабатывает запросы на получение токена.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает обмен учетных данных на токен.
type Service interface {
	Token(ctx context.Context, usernameOrEmail, password string, stayLoggedIn bool) (*models.Token, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Получить токен доступа
// @Description Передаёт логин (или email) и пароль сервису авторизации. При stay_logged_in=true дополнительно выдаётся refresh-токен.
// @Tags Auth
// @Accept  x-www-form-urlencoded
// @Produce  json
// @Param username formData string true "Логин или email"
// @Param password formData string true "Пароль"
// @Param stay_logged_in query bool false "Выдать refresh-токен"
// @Success 200 {object} models.Token
// @Failure 400 {object} response.ErrorResponse "Некорректная форма"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 503 {object} response.ErrorResponse "Сервис авторизации недоступен"
// @Router /token [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.token"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(httperr.MsgInvalidBody))
		return
	}

	stayLoggedIn := false
	if raw := r.URL.Query().Get("stay_logged_in"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			log.Warn("invalid stay_logged_in", slog.String("value", raw))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("field stay_logged_in must be a boolean"))
			return
		}
		stayLoggedIn = v
	}

	req := Request{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}
	if err := h.validate.Struct(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	tok, err := h.service.Token(r.Context(), req.Username, req.Password, stayLoggedIn)
	if err != nil {
		httperr.Write(w, r, log, err, "issue", "token")
		return
	}

	log.Info("token issued", slog.String("username", req.Username), slog.Bool("stay_logged_in", stayLoggedIn))
	render.JSON(w, r, tok)
}
