package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/lensastro/astroapi/pkg/cache"
	"github.com/lensastro/astroapi/pkg/config"
	"github.com/lensastro/astroapi/pkg/domain"
	"github.com/redis/go-redis/v9"
)

// RedisExchangeRateCache implements ExchangeRateCache using Redis, storing
// each rate as JSON under prefix+key.
type RedisExchangeRateCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisClient opens a client from a redis:// URL and the pool settings.
func NewRedisClient(cfg *config.Redis) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	opt.PoolSize = cfg.PoolSize
	opt.DialTimeout = cfg.DialTimeout
	opt.ReadTimeout = cfg.ReadTimeout
	opt.WriteTimeout = cfg.WriteTimeout
	return redis.NewClient(opt), nil
}

// NewRedisExchangeRateCache wraps an existing client.
func NewRedisExchangeRateCache(
	client *redis.Client,
	prefix string,
	logger *slog.Logger,
) *RedisExchangeRateCache {
	return &RedisExchangeRateCache{client: client, prefix: prefix, logger: logger}
}

func (r *RedisExchangeRateCache) key(key string) string {
	return r.prefix + key
}

func (r *RedisExchangeRateCache) Get(ctx context.Context, key string) (*domain.ExchangeRate, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("Redis cache miss", "key", key)
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Redis cache get error", "key", key, "error", err)
		return nil, err
	}
	var rate domain.ExchangeRate
	if err := json.Unmarshal([]byte(val), &rate); err != nil {
		r.logger.Error("Redis cache unmarshal error", "key", key, "error", err)
		return nil, err
	}
	r.logger.Debug("Redis cache hit", "key", key, "rate", rate.Rate.String())
	return &rate, nil
}

func (r *RedisExchangeRateCache) Set(
	ctx context.Context,
	key string,
	rate *domain.ExchangeRate,
	ttl time.Duration,
) error {
	data, err := json.Marshal(rate)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(key), data, ttl).Err(); err != nil {
		r.logger.Error("Redis cache set error", "key", key, "error", err)
		return err
	}
	r.logger.Debug("Redis cache set", "key", key, "ttl", ttl)
	return nil
}

func (r *RedisExchangeRateCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		r.logger.Error("Redis cache delete error", "key", key, "error", err)
		return err
	}
	return nil
}

var _ cache.ExchangeRateCache = (*RedisExchangeRateCache)(nil)
