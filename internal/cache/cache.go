// cache — опциональный Redis-кэш записей refresh-токенов.
//
// Хэши токенов в БД посолены, поэтому ключом служит не хэш, а ID
// пользователя: кэшируется весь список его записей, который service
// перебирает при refresh. Кэш — только ускорение чтения; источник истины
// всегда БД, и любое изменение записей сопровождается Invalidate.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pribylovaa/go-job-board/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RefreshCache — минимальный контракт кэша refresh-токенов.
type RefreshCache interface {
	// Tokens возвращает записи пользователя и признак наличия в кэше.
	Tokens(ctx context.Context, userID uuid.UUID) ([]models.RefreshToken, bool, error)
	// Store сохраняет записи пользователя с TTL.
	Store(ctx context.Context, userID uuid.UUID, tokens []models.RefreshToken, ttl time.Duration) error
	// Invalidate сбрасывает ключ пользователя после любой мутации записей.
	Invalidate(ctx context.Context, userID uuid.UUID) error
	// Close закрывает клиент Redis.
	Close() error
}

type redisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "auth:rt:".
func NewRedisCache(redisURL, prefix string) (RefreshCache, error) {
	if prefix == "" {
		prefix = "auth:rt:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &redisCache{rdb: rdb, prefix: prefix}, nil
}

func (c *redisCache) key(userID uuid.UUID) string { return c.prefix + userID.String() }

func (c *redisCache) Tokens(ctx context.Context, userID uuid.UUID) ([]models.RefreshToken, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}

		return nil, false, err
	}

	var tokens []models.RefreshToken
	if err := json.Unmarshal(raw, &tokens); err != nil {
		// Битое значение равносильно промаху.
		return nil, false, nil
	}

	return tokens, true, nil
}

func (c *redisCache) Store(ctx context.Context, userID uuid.UUID, tokens []models.RefreshToken, ttl time.Duration) error {
	raw, err := json.Marshal(tokens)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, c.key(userID), raw, ttl).Err()
}

func (c *redisCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return c.rdb.Del(ctx, c.key(userID)).Err()
}

func (c *redisCache) Close() error { return c.rdb.Close() }
