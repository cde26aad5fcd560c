// Package cache provides a small key/value cache used for read-mostly
// catalog data. Redis backs it when configured; otherwise every lookup misses.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/counterpos/api/internal/config"
)

// Store represents a generic cache backend.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ErrCacheMiss indicates the key is absent from the cache.
var ErrCacheMiss = errors.New("cache miss")

// NewStore returns a redis store when REDIS_ADDR is set, and a noop store
// otherwise. The redis connection is verified before returning.
func NewStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Store, error) {
	if cfg.RedisAddr == "" {
		if logger != nil {
			logger.Info("cache disabled; using noop store")
		}
		return Noop(), nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if logger != nil {
		logger.Info("redis cache connected", zap.String("addr", cfg.RedisAddr))
	}
	return NewRedisStore(client, cfg.MenuCacheTTL), nil
}

// Noop returns a store that never holds anything.
func Noop() Store { return noopStore{} }

type noopStore struct{}

func (noopStore) Get(context.Context, string) ([]byte, error) {
	return nil, ErrCacheMiss
}

func (noopStore) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (noopStore) Delete(context.Context, string) error {
	return nil
}

func (noopStore) Close() error { return nil }

type redisStore struct {
	client     *goredis.Client
	defaultTTL time.Duration
}

// NewRedisStore wraps an existing client. Set calls with a non-positive ttl
// use defaultTTL.
func NewRedisStore(client *goredis.Client, defaultTTL time.Duration) Store {
	return &redisStore{client: client, defaultTTL: defaultTTL}
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrCacheMiss
	}
	res, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return errors.New("cache key is required")
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return s.client.Del(ctx, key).Err()
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
