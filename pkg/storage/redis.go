package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend keeps records in Redis. Expiry is not delegated to Redis:
// the persistent store manages its own envelope-level TTLs, so values are
// written without a server-side expiration. A full instance (maxmemory with
// noeviction) surfaces as ErrQuotaExceeded.
type RedisBackend struct {
	client *redis.Client
	ctx    context.Context
}

// RedisConfig holds connection settings for a RedisBackend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisBackend connects to Redis and verifies the connection.
func NewRedisBackend(cfg RedisConfig) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisBackend{client: client, ctx: context.Background()}, nil
}

func (b *RedisBackend) Read(key string) ([]byte, bool, error) {
	data, err := b.client.Get(b.ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (b *RedisBackend) Write(key string, value []byte) error {
	err := b.client.Set(b.ctx, key, value, 0).Err()
	if err != nil && strings.Contains(err.Error(), "OOM") {
		return ErrQuotaExceeded
	}
	return err
}

func (b *RedisBackend) Delete(key string) error {
	return b.client.Unlink(b.ctx, key).Err()
}

func (b *RedisBackend) Keys(prefix string) ([]string, error) {
	return b.client.Keys(b.ctx, prefix+"*").Result()
}

// Close closes the Redis connection.
func (b *RedisBackend) Close() error {
	return b.client.Close()
}
