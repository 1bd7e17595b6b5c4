package models

import "time"

// Feedback представляет сохранённый отзыв.
type Feedback struct {
	ID         string    `json:"id"`
	Email      *string   `json:"email"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
	IsArchived bool      `json:"is_archived"`
}

// CreateFeedback — входные данные для создания отзыва. Email необязателен.
type CreateFeedback struct {
	Email *string `json:"email,omitempty" validate:"omitempty,max=255"`
	Text  string  `json:"text" validate:"required,max=500"`
}
