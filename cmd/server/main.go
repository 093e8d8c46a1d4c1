package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	log "github.com/charmbracelet/log"
	_ "github.com/lensastro/astroapi/docs"
	"github.com/lensastro/astroapi/infra/initializer"
	"github.com/lensastro/astroapi/pkg/app"
	"github.com/lensastro/astroapi/pkg/config"
	"github.com/lensastro/astroapi/webapi"
)

// @title Astro API
// @version 1.0.0
// @description Subscriptions, ECPay checkout and login sessions for the astrology lens app
// @host localhost:3000
// @BasePath /
//
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description "Enter your Bearer token in the format: `Bearer {token}`"
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, cleanup, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	logger := deps.Logger
	defer func() {
		if err := cleanup(); err != nil {
			logger.Error("Failed to release resources", "error", err)
		}
	}()

	fiberApp := webapi.SetupApp(app.New(deps, cfg))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Starting server",
		"env", cfg.Env,
		"address", addr,
		"scheme", cfg.Server.Scheme,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- fiberApp.Listen(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("Shutting down", "signal", sig.String(), "timeout", cfg.Server.ShutdownTimeout)
	}
	if err := fiberApp.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
		return err
	}
	return nil
}
