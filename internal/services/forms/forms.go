// Package forms содержит бизнес-логику форм: создание без авторизации,
// просмотр и архивирование только для администраторов.
package forms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/forms-service/internal/lib/sl"
	"github.com/magabrotheeeer/forms-service/internal/models"
	"github.com/magabrotheeeer/forms-service/internal/services/access"
)

var (
	// ErrNotFound — записи с таким ID нет.
	ErrNotFound = errors.New("not found")
	// ErrPersistence — хранилище не смогло выполнить операцию.
	ErrPersistence = errors.New("persistence failure")
	// ErrInvalidInput — данные формы не прошли разбор.
	ErrInvalidInput = errors.New("invalid input")
)

const (
	kindCancellation = "cancellation"
	kindFeedback     = "feedback"
)

// generationKey — счётчик изменений таблицы kind.
func generationKey(kind string) string {
	return "forms:" + kind + ":generation"
}

// listKey — снимок списка kind, прочитанный в поколении gen.
func listKey(kind string, gen int64) string {
	return fmt.Sprintf("forms:%s:list:%d", kind, gen)
}

// IdentityResolver определяет пользователя по токену через внешний сервис авторизации.
type IdentityResolver interface {
	User(ctx context.Context, token string) (*models.User, error)
}

// Cache описывает методы для кеширования списков форм.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш.
	Set(ctx context.Context, key string, value any) error
	// Generation возвращает текущее значение счётчика key.
	Generation(ctx context.Context, key string) (int64, error)
	// Bump увеличивает счётчик key.
	Bump(ctx context.Context, key string) error
}

// requireAdmin разрешает токен в пользователя и проверяет права администратора.
// Вызывается до любого обращения к хранилищу.
func requireAdmin(ctx context.Context, resolver IdentityResolver, token string) (*models.User, error) {
	user, err := resolver.User(ctx, token)
	if err != nil {
		return nil, err
	}
	return access.RequireAdmin(user)
}

func persistenceErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

// cachedList читает список kind через кеш. Снимок хранится под ключом текущего
// поколения, а запись увеличивает поколение после изменения в хранилище.
// Снимок, прочитанный до записи, попадает под старый ключ и больше не читается.
func cachedList[T any](ctx context.Context, c Cache, log *slog.Logger, kind string,
	load func(context.Context) ([]T, error),
) ([]T, error) {
	gen, err := c.Generation(ctx, generationKey(kind))
	if err != nil {
		log.Warn("failed to read cache generation", slog.String("kind", kind), sl.Err(err))
		return load(ctx)
	}

	key := listKey(kind, gen)
	var cached []T
	found, err := c.Get(ctx, key, &cached)
	if err != nil {
		log.Warn("failed to read cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	result, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Set(ctx, key, result); err != nil {
		log.Warn("failed to add to cache", slog.String("key", key), sl.Err(err))
	}
	return result, nil
}

// bumpGeneration вызывается после успешной записи в таблицу kind.
func bumpGeneration(ctx context.Context, c Cache, log *slog.Logger, kind string) {
	if err := c.Bump(ctx, generationKey(kind)); err != nil {
		log.Error("failed to bump cache generation", slog.String("kind", kind), sl.Err(err))
	}
}
