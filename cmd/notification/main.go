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
	"github.com/rl1809/shopcore/internal/adapter/messaging"
	"github.com/rl1809/shopcore/internal/adapter/notify"
	"github.com/rl1809/shopcore/internal/adapter/storage"
	"github.com/rl1809/shopcore/internal/config"
	"github.com/rl1809/shopcore/internal/core/service"
	"github.com/rl1809/shopcore/internal/platform/lifecycle"
	"github.com/rl1809/shopcore/internal/platform/logging"
	"github.com/rl1809/shopcore/internal/platform/telemetry"
)

func main() {
	cfg, err := config.LoadNotification()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.Service, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("notification service failed", zap.Error(err))
	}
}

func run(cfg *config.Notification, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Service, cfg.OtelEndpoint)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return err
	}
	defer rdb.Close()
	logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))

	notifications := service.NewNotificationService(
		storage.NewRedisDedupStore(rdb, cfg.DedupTTL),
		notify.NewLogNotifier(logger),
		logger,
	)
	notifications.SetStoreTimeout(cfg.UpstreamTimeout)

	subscriber := messaging.NewKafkaSubscriber(
		messaging.NewKafkaReader(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID),
		logger,
		messaging.SubscriberOptions{},
	)
	defer subscriber.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.HealthCheck)
	httpServer := lifecycle.NewHTTPServer(cfg.HTTPAddr, mux)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return lifecycle.ServeHTTP(gctx, httpServer, logger) })
	g.Go(func() error { return subscriber.Run(gctx, notifications.Handle) })
	return g.Wait()
}
