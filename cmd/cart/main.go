package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rl1809/shopcore/internal/adapter/handler"
	"github.com/rl1809/shopcore/internal/adapter/lookup"
	"github.com/rl1809/shopcore/internal/adapter/storage"
	"github.com/rl1809/shopcore/internal/adapter/trust"
	"github.com/rl1809/shopcore/internal/config"
	"github.com/rl1809/shopcore/internal/core/service"
	"github.com/rl1809/shopcore/internal/platform/lifecycle"
	"github.com/rl1809/shopcore/internal/platform/logging"
	"github.com/rl1809/shopcore/internal/platform/telemetry"
	"github.com/rl1809/shopcore/internal/port"
)

func main() {
	cfg, err := config.LoadCart()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.Service, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("cart service failed", zap.Error(err))
	}
}

func run(cfg *config.Cart, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Service, cfg.OtelEndpoint)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	var carts port.CartRepository
	switch cfg.Store {
	case "memory":
		carts = storage.NewMemoryCartStore()
		logger.Warn("using in-memory cart store")
	default:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, PoolSize: 100})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		defer rdb.Close()
		carts = storage.NewRedisCartStore(rdb)
		logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
	}

	conn, err := lookup.Dial(cfg.ProductLookupAddr)
	if err != nil {
		return err
	}
	defer conn.Close()
	products := lookup.NewProductClient(conn, cfg.UpstreamTimeout)

	trusted, err := trust.ParseCIDRs(cfg.TrustedCIDR)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.HealthCheck)
	cartService := service.NewCartService(carts, products, logger)
	cartService.SetStoreTimeout(cfg.UpstreamTimeout)
	handler.NewCartHandler(cartService, logger).Routes(mux)
	httpServer := lifecycle.NewHTTPServer(cfg.HTTPAddr, trust.NewFilter(trusted, logger).Middleware(mux))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return lifecycle.ServeHTTP(gctx, httpServer, logger) })
	return g.Wait()
}
