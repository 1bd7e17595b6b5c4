// Package repository реализует хранилище форм на основе PostgreSQL:
// параметризованные запросы, заявки на расторжение, отзывы и подготовку схемы.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrQuery — запрос к базе завершился ошибкой драйвера.
// Пустой результат ошибкой не считается.
var ErrQuery = errors.New("query failed")

// Storage инкапсулирует пул соединений с PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New открывает пул соединений и проверяет, что база отвечает.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// Connect вызывает New до retries раз с паузой delay между попытками.
func Connect(storageConnectionString string, retries int, delay time.Duration) (*Storage, error) {
	const op = "storage.Connect"
	var (
		s   *Storage
		err error
	)

	if retries < 1 {
		retries = 1
	}
	for attempt := range retries {
		s, err = New(storageConnectionString)
		if err == nil {
			return s, nil
		}
		if attempt < retries-1 {
			time.Sleep(delay)
		}
	}
	return nil, fmt.Errorf("%s: %w", op, err)
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// Ping проверяет доступность базы.
func (s *Storage) Ping(ctx context.Context) error {
	const op = "storage.Ping"
	if err := s.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RunQuery выполняет читающий запрос с позиционными параметрами ($1, $2, ...)
// и возвращает строки как отображение имени колонки в значение.
// Ошибка драйвера оборачивает ErrQuery; пустая выборка — пустой срез и nil.
func (s *Storage) RunQuery(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	const op = "storage.RunQuery"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrQuery, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrQuery, err)
	}

	result := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, ErrQuery, err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrQuery, err)
	}
	return result, nil
}

// RunMutation выполняет INSERT/UPDATE одним автокоммитным запросом
// и возвращает число затронутых строк.
func (s *Storage) RunMutation(ctx context.Context, query string, args ...any) (int64, error) {
	const op = "storage.RunMutation"

	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %w", op, ErrQuery, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %w", op, ErrQuery, err)
	}
	return affected, nil
}
