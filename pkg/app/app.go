// Package app assembles the services served over HTTP from their
// dependencies.
package app

import (
	"log/slog"

	"github.com/lensastro/astroapi/pkg/cache"
	"github.com/lensastro/astroapi/pkg/config"
	"github.com/lensastro/astroapi/pkg/ecpay"
	"github.com/lensastro/astroapi/pkg/provider"
	"github.com/lensastro/astroapi/pkg/repository"
	"github.com/lensastro/astroapi/pkg/service/auth"
	"github.com/lensastro/astroapi/pkg/service/exchange"
	"github.com/lensastro/astroapi/pkg/service/order"
	"github.com/lensastro/astroapi/pkg/service/payment"
	"github.com/lensastro/astroapi/pkg/service/subscription"
	"github.com/lensastro/astroapi/pkg/service/user"
)

// Deps contains the infrastructure the services are built on.
type Deps struct {
	Uow                  repository.UnitOfWork
	ExchangeRateProvider provider.ExchangeRateProvider
	ExchangeRateCache    cache.ExchangeRateCache
	Logger               *slog.Logger
}

type App struct {
	Deps                *Deps
	Config              *config.App
	Gateway             *ecpay.Client
	AuthService         *auth.Service
	UserService         *user.Service
	OrderService        *order.Service
	PaymentService      *payment.Service
	SubscriptionService *subscription.Service
	ExchangeService     *exchange.Service
}

func New(deps *Deps, cfg *config.App) *App {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ecpayCfg := cfg.ECPay
	if ecpayCfg == nil {
		ecpayCfg = &config.ECPay{Sandbox: true}
	}

	a := &App{Deps: deps, Config: cfg}
	a.Gateway = ecpay.New(ecpayCfg, logger.With("component", "ecpay"))
	a.ExchangeService = exchange.New(
		deps.ExchangeRateProvider,
		deps.ExchangeRateCache,
		cfg.ExchangeRate,
		logger,
	)
	a.AuthService = auth.New(deps.Uow, cfg.Auth, logger)
	a.UserService = user.New(deps.Uow, logger)
	a.OrderService = order.New(deps.Uow, logger)
	a.SubscriptionService = subscription.New(deps.Uow, logger)
	a.PaymentService = payment.New(
		deps.Uow,
		a.Gateway,
		a.ExchangeService,
		cfg.PublicBaseURL,
		logger,
	)
	return a
}
