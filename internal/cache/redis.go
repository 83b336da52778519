package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisCache хранит ответы в redis без срока жизни. Все ключи получают префикс.
type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(ctx context.Context, redisURL string, prefix string) (*RedisCache, error) {
	const op = "cache.NewRedisCache"

	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: разбор адреса redis: %w", op, err)
	}

	client := redis.NewClient(options)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: redis недоступен: %w", op, err)
	}

	slog.Info("redis_connected", slog.String("addr", options.Addr))

	return NewRedisCacheFromClient(client, prefix), nil
}

func NewRedisCacheFromClient(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (redisCache *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := redisCache.client.Get(ctx, redisCache.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("чтение ключа %s: %w", key, err)
	}
	return value, nil
}

func (redisCache *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	if err := redisCache.client.Set(ctx, redisCache.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("запись ключа %s: %w", key, err)
	}
	return nil
}

func (redisCache *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, 0, len(keys))
	for _, key := range keys {
		prefixed = append(prefixed, redisCache.key(key))
	}

	if err := redisCache.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("удаление ключей: %w", err)
	}
	return nil
}

func (redisCache *RedisCache) Ping(ctx context.Context) error {
	return redisCache.client.Ping(ctx).Err()
}

func (redisCache *RedisCache) Close() error {
	return redisCache.client.Close()
}

func (redisCache *RedisCache) key(key string) string {
	return redisCache.prefix + key
}
