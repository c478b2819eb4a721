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
	"github.com/rl1809/shopcore/internal/adapter/lookup"
	"github.com/rl1809/shopcore/internal/adapter/lookup/pb"
	"github.com/rl1809/shopcore/internal/adapter/password"
	"github.com/rl1809/shopcore/internal/adapter/storage"
	"github.com/rl1809/shopcore/internal/adapter/trust"
	"github.com/rl1809/shopcore/internal/config"
	"github.com/rl1809/shopcore/internal/core/service"
	"github.com/rl1809/shopcore/internal/platform/lifecycle"
	"github.com/rl1809/shopcore/internal/platform/logging"
	"github.com/rl1809/shopcore/internal/platform/telemetry"
)

func main() {
	cfg, err := config.LoadIdentity()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.Service, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("identity service failed", zap.Error(err))
	}
}

func run(cfg *config.Identity, logger *zap.Logger) error {
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

	tokens, err := service.NewTokenService(cfg.JWTSecret, service.TokenOptions{
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
	})
	if err != nil {
		return err
	}
	auth := service.NewAuthService(storage.NewMySQLAccountStore(db), password.NewBcryptHasher(0), tokens, logger)
	auth.SetAdminEmails(cfg.AdminEmails)
	auth.SetStoreTimeout(cfg.UpstreamTimeout)

	trusted, err := trust.ParseCIDRs(cfg.TrustedCIDR)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.HealthCheck)
	handler.NewAuthHandler(auth, logger).Routes(mux)
	httpServer := lifecycle.NewHTTPServer(cfg.HTTPAddr, trust.NewFilter(trusted, logger).Middleware(mux))

	grpcServer := lookup.NewServer(logger)
	pb.RegisterUserLookupServer(grpcServer, lookup.NewUserHandler(auth))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return lifecycle.ServeHTTP(gctx, httpServer, logger) })
	g.Go(func() error { return lifecycle.ServeGRPC(gctx, grpcServer, cfg.GRPCAddr, logger) })
	return g.Wait()
}
