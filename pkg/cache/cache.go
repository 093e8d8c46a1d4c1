package cache

import (
	"context"
	"time"

	"github.com/lensastro/astroapi/pkg/domain"
)

// ExchangeRateCache stores exchange rates for a limited time. Get returns
// (nil, nil) on a miss.
type ExchangeRateCache interface {
	Get(ctx context.Context, key string) (*domain.ExchangeRate, error)
	Set(ctx context.Context, key string, rate *domain.ExchangeRate, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
