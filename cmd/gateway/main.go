package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rl1809/shopcore/internal/adapter/gateway"
	"github.com/rl1809/shopcore/internal/config"
	"github.com/rl1809/shopcore/internal/core/service"
	"github.com/rl1809/shopcore/internal/platform/lifecycle"
	"github.com/rl1809/shopcore/internal/platform/logging"
	"github.com/rl1809/shopcore/internal/platform/telemetry"
)

func main() {
	cfg, err := config.LoadGateway()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.Service, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("gateway failed", zap.Error(err))
	}
}

func run(cfg *config.Gateway, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Service, cfg.OtelEndpoint)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	tokens, err := service.NewTokenService(cfg.JWTSecret, service.TokenOptions{})
	if err != nil {
		return err
	}
	router, err := gateway.NewRouter(cfg.Routes, cfg.UpstreamTimeout, logger)
	if err != nil {
		return err
	}
	auth := gateway.NewEdgeAuthenticator(tokens, gateway.NewPublicRoutes(cfg.PublicRoutes), logger)

	var limiter *gateway.RateLimiter
	if cfg.RateLimit.RPS > 0 {
		limiter = gateway.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	httpServer := lifecycle.NewHTTPServer(cfg.HTTPAddr, gateway.New(auth, limiter, router, logger))
	logger.Info("gateway configured",
		zap.Int("routes", len(cfg.Routes)),
		zap.Int("public_routes", len(cfg.PublicRoutes)),
		zap.Float64("rps", cfg.RateLimit.RPS),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return lifecycle.ServeHTTP(gctx, httpServer, logger) })
	if limiter != nil {
		g.Go(func() error { return limiter.RunSweeper(gctx, time.Minute) })
	}
	return g.Wait()
}
