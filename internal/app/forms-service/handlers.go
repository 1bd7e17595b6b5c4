package formsservice

import (
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/forms-service/internal/http/handlers/forms/archive"
	"github.com/magabrotheeeer/forms-service/internal/http/handlers/forms/create"
	"github.com/magabrotheeeer/forms-service/internal/http/handlers/forms/list"
	"github.com/magabrotheeeer/forms-service/internal/models"
)

// createCancellation godoc
// @Summary Создать заявку на расторжение
// @Description Сохраняет заявку на расторжение договора. Авторизация не требуется. Возвращает ID созданной записи.
// @Tags Cancellation
// @Accept  json
// @Produce  json
// @Param request body models.CreateCancellation true "Данные заявки"
// @Success 201 {object} response.OKResponse{data=response.Ack} "Заявка создана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 429 {object} response.ErrorResponse "Слишком много запросов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании заявки"
// @Router /forms/cancellation [post]
func createCancellation(log *slog.Logger, service CancellationService) http.HandlerFunc {
	return create.New[models.CreateCancellation](log, service,
		"cancellation", "Cancellation created successfully").ServeHTTP
}

// listCancellations godoc
// @Summary Список заявок на расторжение
// @Description Возвращает все заявки, включая архивные, в порядке создания. Только для администратора.
// @Tags Cancellation
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse{data=[]models.Cancellation} "Список заявок"
// @Failure 401 {object} response.ErrorResponse "Нет токена или токен недействителен"
// @Failure 403 {object} response.ErrorResponse "Не администратор"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при чтении заявок"
// @Failure 503 {object} response.ErrorResponse "Сервис авторизации недоступен"
// @Router /forms/cancellation [get]
func listCancellations(log *slog.Logger, service CancellationService) http.HandlerFunc {
	return list.New[models.Cancellation](log, service, "cancellation").ServeHTTP
}

// archiveCancellation godoc
// @Summary Архивировать заявку
// @Description Помечает заявку архивной. Повторная архивация не ошибка. Только для администратора.
// @Tags Cancellation
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID заявки (UUID)"
// @Success 201 {object} response.OKResponse{data=response.Ack} "Заявка архивирована"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Нет токена или токен недействителен"
// @Failure 403 {object} response.ErrorResponse "Не администратор"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при архивировании"
// @Failure 503 {object} response.ErrorResponse "Сервис авторизации недоступен"
// @Router /forms/cancellation/{id}/archive [patch]
// @Router /forms/cancellation/{id}/archive [put]
func archiveCancellation(log *slog.Logger, service CancellationService) http.HandlerFunc {
	return archive.New(log, service, "cancellation", "Cancellation archived successfully").ServeHTTP
}

// createFeedback godoc
// @Summary Оставить отзыв
// @Description Сохраняет отзыв. Email необязателен. Авторизация не требуется.
// @Tags Feedback
// @Accept  json
// @Produce  json
// @Param request body models.CreateFeedback true "Текст отзыва"
// @Success 201 {object} response.OKResponse{data=response.Ack} "Отзыв создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 429 {object} response.ErrorResponse "Слишком много запросов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании отзыва"
// @Router /forms/feedback [post]
func createFeedback(log *slog.Logger, service FeedbackService) http.HandlerFunc {
	return create.New[models.CreateFeedback](log, service,
		"feedback", "Feedback created successfully").ServeHTTP
}

// listFeedback godoc
// @Summary Список отзывов
// @Description Возвращает все отзывы, включая архивные. Только для администратора.
// @Tags Feedback
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse{data=[]models.Feedback} "Список отзывов"
// @Failure 401 {object} response.ErrorResponse "Нет токена или токен недействителен"
// @Failure 403 {object} response.ErrorResponse "Не администратор"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при чтении отзывов"
// @Failure 503 {object} response.ErrorResponse "Сервис авторизации недоступен"
// @Router /forms/feedback [get]
func listFeedback(log *slog.Logger, service FeedbackService) http.HandlerFunc {
	return list.New[models.Feedback](log, service, "feedback").ServeHTTP
}

// archiveFeedback godoc
// @Summary Архивировать отзыв
// @Description Помечает отзыв архивным. Только для администратора.
// @Tags Feedback
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID отзыва (UUID)"
// @Success 201 {object} response.OKResponse{data=response.Ack} "Отзыв архивирован"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Нет токена или токен недействителен"
// @Failure 403 {object} response.ErrorResponse "Не администратор"
// @Failure 404 {object} response.ErrorResponse "Отзыв не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при архивировании"
// @Failure 503 {object} response.ErrorResponse "Сервис авторизации недоступен"
// @Router /forms/feedback/{id}/archive [patch]
// @Router /forms/feedback/{id}/archive [put]
func archiveFeedback(log *slog.Logger, service FeedbackService) http.HandlerFunc {
	return archive.New(log, service, "feedback", "Feedback archived successfully").ServeHTTP
}
