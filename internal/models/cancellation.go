// Package models содержит доменные структуры сервиса форм: заявки на расторжение
// договора, отзывы, а также модели пользователя и токена внешнего сервиса авторизации.
package models

import "time"

// DateLayout — формат даты расторжения в JSON и при валидации.
const DateLayout = "2006-01-02"

// Cancellation представляет сохранённую заявку на расторжение договора.
// После создания изменяется только флаг IsArchived.
type Cancellation struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name"`
	LastName          string    `json:"last_name"`
	Address           string    `json:"address"`
	Town              string    `json:"town"`
	TownNumber        string    `json:"town_number"`
	IsUnordinary      bool      `json:"is_unordinary"`
	Reason            *string   `json:"reason"`
	LastInvoiceNumber string    `json:"last_invoice_number"`
	TerminationDate   string    `json:"termination_date"` // Дата в формате DateLayout
	CreatedAt         time.Time `json:"created_at"`
	IsArchived        bool      `json:"is_archived"`
}

// CreateCancellation используется для приёма заявки из JSON-запроса.
// Ограничения длины повторяют размеры колонок таблицы cancellation.
type CreateCancellation struct {
	Email             string  `json:"email" validate:"required,max=255"`
	Name              string  `json:"name" validate:"required,max=100"`
	LastName          string  `json:"last_name" validate:"required,max=100"`
	Address           string  `json:"address" validate:"required,max=255"`
	Town              string  `json:"town" validate:"required,max=100"`
	TownNumber        string  `json:"town_number" validate:"required,max=10"`
	IsUnordinary      bool    `json:"is_unordinary"`
	Reason            *string `json:"reason,omitempty" validate:"omitempty,max=255"`
	LastInvoiceNumber string  `json:"last_invoice_number" validate:"required,max=50"`
	TerminationDate   string  `json:"termination_date" validate:"required,datetime=2006-01-02"`
}
