// Package cache хранит сериализованные списки форм и счётчики их поколений в Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/forms-service/internal/config"
)

// Cache — кеш поверх Redis со сроком жизни записей ttl.
type Cache struct {
	Db  *redis.Client
	ttl time.Duration
}

// New подключается к Redis и проверяет соединение.
func New(ctx context.Context, cfg config.Redis) (*Cache, error) {
	const op = "cache.New"
	db := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db, ttl: cfg.RedisTTL}, nil
}

// Get читает ключ в result. false без ошибки означает промах.
func (c *Cache) Get(ctx context.Context, key string, result any) (bool, error) {
	const op = "cache.Get"
	val, err := c.Db.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(val, result); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Set сохраняет value в JSON на ttl.
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	const op = "cache.Set"
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.Db.Set(ctx, key, jsonData, c.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Generation возвращает значение счётчика key. Отсутствующий счётчик
// создаётся со значением от текущего времени, чтобы после потери ключа
// не совпасть ни с одним из прежних поколений.
func (c *Cache) Generation(ctx context.Context, key string) (int64, error) {
	const op = "cache.Generation"
	gen, err := c.Db.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.Db.SetNX(ctx, key, time.Now().UnixNano(), 0).Err(); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		gen, err = c.Db.Get(ctx, key).Int64()
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return gen, nil
}

// Bump атомарно увеличивает счётчик key.
func (c *Cache) Bump(ctx context.Context, key string) error {
	const op = "cache.Bump"
	if err := c.Db.Incr(ctx, key).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает соединение с Redis.
func (c *Cache) Close() error {
	return c.Db.Close()
}

// Noop — кеш, который ничего не хранит.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error)    { return false, nil }
func (Noop) Set(context.Context, string, any) error            { return nil }
func (Noop) Generation(context.Context, string) (int64, error) { return 0, nil }
func (Noop) Bump(context.Context, string) error                { return nil }
