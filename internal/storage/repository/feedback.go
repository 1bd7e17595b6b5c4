package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/forms-service/internal/models"
)

// CreateFeedback вставляет отзыв и возвращает его ID.
func (s *Storage) CreateFeedback(ctx context.Context, f models.CreateFeedback) (string, error) {
	const op = "storage.CreateFeedback"

	var id string
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO feedback (email, text) VALUES ($1, $2) RETURNING id`,
		f.Email, f.Text).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, ErrQuery, err)
	}
	return id, nil
}

// ListFeedback возвращает все отзывы, включая архивные.
func (s *Storage) ListFeedback(ctx context.Context) ([]models.Feedback, error) {
	const op = "storage.ListFeedback"

	rows, err := s.DB.QueryContext(ctx, `SELECT id, email, text, created_at, is_archived
			  FROM feedback
			  ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrQuery, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Feedback, 0)
	for rows.Next() {
		var (
			item  models.Feedback
			email sql.NullString
		)
		if err := rows.Scan(&item.ID, &email, &item.Text, &item.CreatedAt, &item.IsArchived); err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, ErrQuery, err)
		}
		if email.Valid {
			item.Email = &email.String
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrQuery, err)
	}
	return result, nil
}

// ArchiveFeedback помечает отзыв архивным.
func (s *Storage) ArchiveFeedback(ctx context.Context, id string) (int64, error) {
	const op = "storage.ArchiveFeedback"

	n, err := s.RunMutation(ctx, `UPDATE feedback SET is_archived = true WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
