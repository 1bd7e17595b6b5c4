package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/forms-service/internal/models"
)

// CreateCancellation вставляет заявку и возвращает её сгенерированный ID.
func (s *Storage) CreateCancellation(ctx context.Context, c models.CreateCancellation, terminationDate time.Time) (string, error) {
	const op = "storage.CreateCancellation"

	query := `INSERT INTO cancellation (email, name, last_name, address, town, town_number,
			      is_unordinary, reason, last_invoice_number, termination_date)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id`
	var id string
	err := s.DB.QueryRowContext(ctx, query,
		c.Email, c.Name, c.LastName, c.Address, c.Town, c.TownNumber,
		c.IsUnordinary, c.Reason, c.LastInvoiceNumber, terminationDate).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, ErrQuery, err)
	}
	return id, nil
}

// ListCancellations возвращает все заявки, включая архивные, в порядке создания.
func (s *Storage) ListCancellations(ctx context.Context) ([]models.Cancellation, error) {
	const op = "storage.ListCancellations"

	query := `SELECT id, email, name, last_name, address, town, town_number, is_unordinary,
			      reason, last_invoice_number, termination_date, created_at, is_archived
			  FROM cancellation
			  ORDER BY created_at, id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrQuery, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Cancellation, 0)
	for rows.Next() {
		var (
			item            models.Cancellation
			reason          sql.NullString
			terminationDate time.Time
		)
		if err := rows.Scan(&item.ID, &item.Email, &item.Name, &item.LastName, &item.Address,
			&item.Town, &item.TownNumber, &item.IsUnordinary, &reason, &item.LastInvoiceNumber,
			&terminationDate, &item.CreatedAt, &item.IsArchived); err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, ErrQuery, err)
		}
		if reason.Valid {
			item.Reason = &reason.String
		}
		item.TerminationDate = terminationDate.Format(models.DateLayout)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrQuery, err)
	}
	return result, nil
}

// ArchiveCancellation помечает заявку архивной и возвращает число затронутых строк.
// Повторная архивация снова затрагивает строку, неизвестный ID — ноль строк.
func (s *Storage) ArchiveCancellation(ctx context.Context, id string) (int64, error) {
	const op = "storage.ArchiveCancellation"

	n, err := s.RunMutation(ctx, `UPDATE cancellation SET is_archived = true WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
