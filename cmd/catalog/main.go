package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/rl1809/shopcore/internal/adapter/handler"
	"github.com/rl1809/shopcore/internal/adapter/lookup"
	"github.com/rl1809/shopcore/internal/adapter/lookup/pb"
	"github.com/rl1809/shopcore/internal/adapter/storage"
	"github.com/rl1809/shopcore/internal/config"
	"github.com/rl1809/shopcore/internal/core/domain"
	"github.com/rl1809/shopcore/internal/platform/lifecycle"
	"github.com/rl1809/shopcore/internal/platform/logging"
	"github.com/rl1809/shopcore/internal/platform/telemetry"
)

type seedFile struct {
	Products []struct {
		ID    string `yaml:"id"`
		Name  string `yaml:"name"`
		Price int64  `yaml:"price"`
	} `yaml:"products"`
}

func main() {
	cfg, err := config.LoadCatalog()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.Service, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("catalog service failed", zap.Error(err))
	}
}

func run(cfg *config.Catalog, logger *zap.Logger) error {
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

	products := storage.NewMySQLProductStore(db)
	if cfg.SeedFile != "" {
		n, err := seed(ctx, products, cfg.SeedFile)
		if err != nil {
			return err
		}
		logger.Info("catalog seeded", zap.Int("products", n), zap.String("file", cfg.SeedFile))
	}

	grpcServer := lookup.NewServer(logger)
	pb.RegisterProductLookupServer(grpcServer, lookup.NewProductHandler(products))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.HealthCheck)
	httpServer := lifecycle.NewHTTPServer(cfg.HTTPAddr, mux)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return lifecycle.ServeGRPC(gctx, grpcServer, cfg.GRPCAddr, logger) })
	g.Go(func() error { return lifecycle.ServeHTTP(gctx, httpServer, logger) })
	return g.Wait()
}

func seed(ctx context.Context, products *storage.MySQLProductStore, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed: %w", err)
	}
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return 0, fmt.Errorf("parse seed %s: %w", path, err)
	}
	for _, p := range file.Products {
		product := domain.Product{ProductID: p.ID, Name: p.Name, Price: p.Price}
		if err := products.UpsertProduct(ctx, product); err != nil {
			return 0, fmt.Errorf("seed product %s: %w", p.ID, err)
		}
	}
	return len(file.Products), nil
}
