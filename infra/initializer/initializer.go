package initializer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lensastro/astroapi/infra"
	infra_cache "github.com/lensastro/astroapi/infra/cache"
	infra_provider "github.com/lensastro/astroapi/infra/provider"
	infra_repository "github.com/lensastro/astroapi/infra/repository"
	"github.com/lensastro/astroapi/pkg/app"
	"github.com/lensastro/astroapi/pkg/cache"
	"github.com/lensastro/astroapi/pkg/config"
	"github.com/redis/go-redis/v9"
)

const redisPingTimeout = 3 * time.Second

// CleanupFunc releases what InitializeDependencies opened.
type CleanupFunc func() error

// InitializeDependencies opens the database, migrates the schema when
// configured, picks the exchange-rate cache and builds the provider. The
// returned cleanup closes the database pool and the Redis client.
func InitializeDependencies(cfg *config.App) (
	deps *app.Deps,
	cleanup CleanupFunc,
	err error,
) {
	logger := setupLogger(cfg.Log)
	deps = &app.Deps{Logger: logger}

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, nil, err
	}
	if cfg.DB.AutoMigrate {
		if err = infra_repository.AutoMigrate(db); err != nil {
			_ = infra.CloseDB(db)
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info("Database schema migrated")
	}
	deps.Uow = infra_repository.NewUoW(db)

	rateCache, redisClient := newExchangeRateCache(cfg, logger)
	deps.ExchangeRateCache = rateCache

	if cfg.ExchangeRate != nil {
		deps.ExchangeRateProvider = infra_provider.NewExchangeRateAPIProvider(
			cfg.ExchangeRate,
			logger.With("component", "exchangerate-api"),
		)
	}

	cleanup = func() error {
		var errs []error
		if redisClient != nil {
			errs = append(errs, redisClient.Close())
		}
		errs = append(errs, infra.CloseDB(db))
		return errors.Join(errs...)
	}
	return deps, cleanup, nil
}

// newExchangeRateCache returns a Redis-backed cache when REDIS_URL is set and
// reachable, and the in-memory cache otherwise.
func newExchangeRateCache(
	cfg *config.App,
	logger *slog.Logger,
) (cache.ExchangeRateCache, *redis.Client) {
	if cfg.Redis == nil || cfg.Redis.URL == "" {
		logger.Info("Using in-memory exchange rate cache")
		return infra_cache.NewMemoryCache(), nil
	}

	client, err := infra_cache.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Warn("Invalid Redis configuration, using in-memory cache", "error", err)
		return infra_cache.NewMemoryCache(), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err = client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unreachable, using in-memory cache", "error", err)
		_ = client.Close()
		return infra_cache.NewMemoryCache(), nil
	}

	prefix := "exr:rate:"
	if cfg.ExchangeRate != nil && cfg.ExchangeRate.CachePrefix != "" {
		prefix = cfg.ExchangeRate.CachePrefix
	}
	logger.Info("Using Redis exchange rate cache", "key_prefix", cfg.Redis.KeyPrefix+prefix)
	return infra_cache.NewRedisExchangeRateCache(
		client,
		cfg.Redis.KeyPrefix+prefix,
		logger.With("component", "redis-cache"),
	), client
}
