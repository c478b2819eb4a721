package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rl1809/shopcore/internal/adapter/handler"
	"github.com/rl1809/shopcore/internal/adapter/lookup"
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
	cfg, err := config.LoadOrder()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.Service, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("order service failed", zap.Error(err))
	}
}

func run(cfg *config.Order, logger *zap.Logger) error {
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

	conn, err := lookup.Dial(cfg.UserLookupAddr)
	if err != nil {
		return err
	}
	defer conn.Close()

	publisher := messaging.NewKafkaPublisher(messaging.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic), logger)
	defer publisher.Close()

	store := storage.NewMySQLOrderStore(db)
	orders := service.NewOrderService(store, store, lookup.NewUserClient(conn, cfg.UpstreamTimeout), publisher, logger, service.OrderOptions{
		QueueSize:      cfg.QueueSize,
		PublishTimeout: cfg.UpstreamTimeout,
		StoreTimeout:   cfg.UpstreamTimeout,
	})

	var workers sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		workers.Add(1)
		go func(id int) {
			defer workers.Done()
			orders.RunPublisher(id)
		}(i)
	}
	logger.Info("started publisher workers", zap.Int("count", cfg.Workers))

	relay := service.NewOutboxRelay(store, orders, logger, service.RelayOptions{
		Interval:     cfg.OutboxInterval,
		Grace:        cfg.OutboxGrace,
		StoreTimeout: cfg.UpstreamTimeout,
	})

	trusted, err := trust.ParseCIDRs(cfg.TrustedCIDR)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.HealthCheck)
	handler.NewOrderHandler(orders, logger).Routes(mux)
	httpServer := lifecycle.NewHTTPServer(cfg.HTTPAddr, trust.NewFilter(trusted, logger).Middleware(mux))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return lifecycle.ServeHTTP(gctx, httpServer, logger) })
	g.Go(func() error { return relay.Run(gctx) })
	err = g.Wait()

	// HTTP is drained, so no new jobs can arrive.
	orders.Close()
	workers.Wait()
	logger.Info("publisher workers stopped")
	return err
}
