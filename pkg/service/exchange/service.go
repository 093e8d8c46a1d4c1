package exchange

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lensastro/astroapi/pkg/cache"
	"github.com/lensastro/astroapi/pkg/config"
	"github.com/lensastro/astroapi/pkg/domain"
	"github.com/lensastro/astroapi/pkg/domain/subscription"
	"github.com/lensastro/astroapi/pkg/provider"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

var (
	ErrInvalidAmount       = fmt.Errorf("invalid amount: %w", domain.ErrValidation)
	ErrUnsupportedCurrency = fmt.Errorf("unsupported currency: %w", domain.ErrValidation)
	ErrInvalidExchangeRate = errors.New("invalid exchange rate")
)

const (
	// DefaultCacheTTL is used when the configuration leaves it unset.
	DefaultCacheTTL = time.Hour
	// DefaultFallbackRate is the USD to TWD rate used when no live rate is
	// available.
	DefaultFallbackRate = 30
)

// Service converts plan prices into the whole TWD amounts ECPay charges.
// Live USD to TWD rates are cached; concurrent misses share one fetch.
// Any failure falls back to a fixed rate so checkout never blocks on the
// rate source.
type Service struct {
	provider provider.ExchangeRateProvider
	cache    cache.ExchangeRateCache
	logger   *slog.Logger
	cacheTTL time.Duration
	fallback decimal.Decimal
	group    singleflight.Group
}

// New creates an exchange service. cfg may be nil.
func New(
	p provider.ExchangeRateProvider,
	c cache.ExchangeRateCache,
	cfg *config.ExchangeRate,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		provider: p,
		cache:    c,
		logger:   logger,
		cacheTTL: DefaultCacheTTL,
		fallback: decimal.NewFromInt(DefaultFallbackRate),
	}
	if cfg != nil {
		if cfg.CacheTTL > 0 {
			s.cacheTTL = cfg.CacheTTL
		}
		if cfg.FallbackRate > 0 {
			s.fallback = decimal.NewFromFloat(cfg.FallbackRate)
		}
	}
	return s
}

func rateKey(from, to string) string {
	return fmt.Sprintf("%s:%s", from, to)
}

// USDToTWDRate returns the current USD to TWD rate. It never fails.
func (s *Service) USDToTWDRate(ctx context.Context) decimal.Decimal {
	logger := s.logger.With("context", "exchange.USDToTWDRate")
	from, to := subscription.CurrencyUSD, subscription.CurrencyTWD
	key := rateKey(from, to)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			logger.Warn("Exchange rate cache read failed", "key", key, "error", err)
		}
		if cached != nil && cached.Rate.IsPositive() {
			return cached.Rate
		}
	}

	if s.provider == nil {
		return s.fallback
	}

	// The fetch is shared; one caller going away must not fail the others.
	fetchCtx := context.WithoutCancel(ctx)
	v, err, shared := s.group.Do(key, func() (any, error) {
		rate, err := s.provider.GetRate(fetchCtx, from, to)
		if err != nil {
			return nil, err
		}
		if !rate.Rate.IsPositive() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidExchangeRate, rate.Rate)
		}
		if s.cache != nil {
			if err := s.cache.Set(fetchCtx, key, rate, s.cacheTTL); err != nil {
				logger.Warn("Exchange rate cache write failed", "key", key, "error", err)
			}
		}
		return rate, nil
	})
	if err != nil {
		logger.Warn("Using fallback exchange rate",
			"provider", s.provider.Name(),
			"fallback", s.fallback.String(),
			"error", err,
		)
		return s.fallback
	}
	rate := v.(*domain.ExchangeRate)
	logger.Info("Fetched exchange rate", "rate", rate.Rate.String(), "shared", shared)
	return rate.Rate
}

// ConvertUSDToTWD converts amount at the current rate, rounded half away
// from zero to whole TWD. The rate used is returned alongside.
func (s *Service) ConvertUSDToTWD(
	ctx context.Context,
	amount decimal.Decimal,
) (int64, decimal.Decimal) {
	rate := s.USDToTWDRate(ctx)
	return amount.Mul(rate).Round(0).IntPart(), rate
}

// ToTWD converts a plan price in currency to the charged TWD amount. TWD
// prices are rounded as-is with a rate of 1.
func (s *Service) ToTWD(
	ctx context.Context,
	amount decimal.Decimal,
	currency string,
) (int64, decimal.Decimal, error) {
	if !amount.IsPositive() {
		return 0, decimal.Zero, ErrInvalidAmount
	}
	switch currency {
	case subscription.CurrencyUSD:
		total, rate := s.ConvertUSDToTWD(ctx, amount)
		return total, rate, nil
	case subscription.CurrencyTWD, "":
		return amount.Round(0).IntPart(), decimal.NewFromInt(1), nil
	default:
		return 0, decimal.Zero, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, currency)
	}
}
