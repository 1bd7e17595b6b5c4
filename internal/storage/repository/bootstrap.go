package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// FormTables — таблицы, без которых сервис не может работать.
var FormTables = []string{"cancellation", "feedback"}

// EnsureDatabase создаёт базу dbName, если её ещё нет.
// maintenanceDSN должен указывать на существующую базу (обычно postgres).
// Возвращает true, если база была создана.
func EnsureDatabase(ctx context.Context, maintenanceDSN, dbName string) (bool, error) {
	const op = "storage.EnsureDatabase"

	s, err := New(maintenanceDSN)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = s.Close()
	}()

	rows, err := s.RunQuery(ctx, `SELECT 1 FROM pg_catalog.pg_database WHERE datname = $1`, dbName)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if len(rows) > 0 {
		return false, nil
	}

	// CREATE DATABASE не принимает параметры, имя экранируется как идентификатор.
	if _, err := s.RunMutation(ctx, "CREATE DATABASE "+pgx.Identifier{dbName}.Sanitize()); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// TablesExist проверяет, что все таблицы форм присутствуют в схеме public.
func (s *Storage) TablesExist(ctx context.Context) (bool, error) {
	const op = "storage.TablesExist"

	rows, err := s.RunQuery(ctx, `SELECT table_name
			  FROM information_schema.tables
			  WHERE table_schema = 'public' AND table_name = ANY($1)`, FormTables)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return len(rows) == len(FormTables), nil
}
