package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rl1809/shopcore/internal/adapter/handler"
	"github.com/rl1809/shopcore/internal/adapter/messaging"
	"github.com/rl1809/shopcore/internal/adapter/storage"
	"github.com/rl1809/shopcore/internal/adapter/trust"
	"github.com/rl1809/shopcore/internal/config"
	"github.com/rl1809/shopcore/internal/core/service"
	"github.com/rl1809/shopcore/internal/platform/lifecycle"
	"github.com/rl1809/shopcore/internal/platform/logging"
	"github.com/rl1809/shopcore/internal/platform/telemetry"
)

func main() {
	cfg, err := config.LoadInventory()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.Service, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("inventory service failed", zap.Error(err))
	}
}

func run(cfg *config.Inventory, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Service, cfg.OtelEndpoint)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	db, err := storage.OpenMySQL(ctx, cfg.MySQLDSN, 5*time.Second)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := storage.Migrate(ctx, db); err != nil {
		return err
	}
	logger.Info("connected to mysql")

	inventory := service.NewInventoryService(storage.NewMySQLInventoryStore(db), logger, service.InventoryOptions{
		OptimisticLock: cfg.OptimisticLock,
		StoreTimeout:   cfg.UpstreamTimeout,
	})

	subscriber := messaging.NewKafkaSubscriber(
		messaging.NewKafkaReader(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID),
		logger,
		messaging.SubscriberOptions{HoldOnUnavailable: true},
	)
	defer subscriber.Close()

	trusted, err := trust.ParseCIDRs(cfg.TrustedCIDR)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.HealthCheck)
	handler.NewInventoryHandler(inventory, logger).Routes(mux)
	httpServer := lifecycle.NewHTTPServer(cfg.HTTPAddr, trust.NewFilter(trusted, logger).Middleware(mux))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return lifecycle.ServeHTTP(gctx, httpServer, logger) })
	g.Go(func() error { return subscriber.Run(gctx, inventory.HandleOrderPlaced) })
	return g.Wait()
}
