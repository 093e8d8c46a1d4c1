// Package webapi wires the HTTP handlers of the API. Handlers live in
// sub-packages by resource:
// - auth: session validation
// - user: login, registration and profile
// - ecpay: checkout form builder, payment notifications and status
// - payment: plan checkout and confirmation
// - order: order retrieval
// - subscription: plans, subscriptions, cancellation and renewal
package webapi

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/lensastro/astroapi/pkg/app"
	authweb "github.com/lensastro/astroapi/webapi/auth"
	"github.com/lensastro/astroapi/webapi/common"
	ecpayweb "github.com/lensastro/astroapi/webapi/ecpay"
	orderweb "github.com/lensastro/astroapi/webapi/order"
	paymentweb "github.com/lensastro/astroapi/webapi/payment"
	subscriptionweb "github.com/lensastro/astroapi/webapi/subscription"
	userweb "github.com/lensastro/astroapi/webapi/user"
)

const (
	defaultRateLimitMax    = 100
	defaultRateLimitWindow = time.Minute
)

// SetupApp builds the Fiber application with middleware and all routes.
func SetupApp(a *app.App) *fiber.App {
	cfg := a.Config

	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})
	fiberApp.Get("/swagger/*", swagger.New(swagger.Config{
		TryItOutEnabled:      true,
		WithCredentials:      true,
		PersistAuthorization: true,
	}))

	maxRequests, window := defaultRateLimitMax, defaultRateLimitWindow
	if cfg.RateLimit != nil {
		if cfg.RateLimit.MaxRequests > 0 {
			maxRequests = cfg.RateLimit.MaxRequests
		}
		if cfg.RateLimit.Window > 0 {
			window = cfg.RateLimit.Window
		}
	}
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        maxRequests,
		Expiration: window,
		// ECPay retries notifications it sees rejected; never throttle them.
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/api/ecpay/notify"
		},
		KeyGenerator: clientIP,
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(
				c,
				"Too Many Requests",
				errors.New("rate limit exceeded"),
				fiber.StatusTooManyRequests,
			)
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Astro API is running! 🚀")
	})

	authweb.Routes(fiberApp, a.AuthService, cfg)
	userweb.Routes(fiberApp, a.UserService, a.AuthService, cfg)
	ecpayweb.Routes(fiberApp, a.Gateway, a.PaymentService, a.OrderService)
	paymentweb.Routes(fiberApp, a.PaymentService, cfg)
	orderweb.Routes(fiberApp, a.OrderService, cfg)
	subscriptionweb.Routes(fiberApp, a.SubscriptionService, a.PaymentService, cfg)
	return fiberApp
}

// clientIP keys rate limiting by the first X-Forwarded-For hop, then
// X-Real-IP, then the peer address.
func clientIP(c *fiber.Ctx) string {
	if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
		if i := strings.Index(forwardedFor, ","); i != -1 {
			return strings.TrimSpace(forwardedFor[:i])
		}
		return strings.TrimSpace(forwardedFor)
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.IP()
}
