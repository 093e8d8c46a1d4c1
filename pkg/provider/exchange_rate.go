package provider

import (
	"context"

	"github.com/lensastro/astroapi/pkg/domain"
)

// ExchangeRateProvider fetches live exchange rates from a remote source.
type ExchangeRateProvider interface {
	// GetRate returns the current rate for converting from into to.
	GetRate(ctx context.Context, from, to string) (*domain.ExchangeRate, error)

	// Name identifies the provider in logs and in ExchangeRate.Source.
	Name() string
}
