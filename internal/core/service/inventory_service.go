package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/shopcore/internal/core/domain"
	"github.com/rl1809/shopcore/internal/port"
)

type InventoryOptions struct {
	// OptimisticLock makes Adjust require the version the caller last read.
	OptimisticLock bool
	StoreTimeout   time.Duration
}

type AdjustInput struct {
	ProductID string
	Stock     int
	// Version is required when optimistic locking is enabled and ignored otherwise.
	Version *int
}

type InventoryService struct {
	repo           port.InventoryRepository
	logger         *zap.Logger
	optimisticLock bool
	storeTimeout   time.Duration
}

func NewInventoryService(repo port.InventoryRepository, logger *zap.Logger, opts InventoryOptions) *InventoryService {
	return &InventoryService{
		repo:           repo,
		logger:         logger,
		optimisticLock: opts.OptimisticLock,
		storeTimeout:   opts.StoreTimeout,
	}
}

// Upsert creates the record for productID or resets its stock.
func (s *InventoryService) Upsert(ctx context.Context, productID string, stock int) (domain.Inventory, error) {
	if productID == "" {
		return domain.Inventory{}, fmt.Errorf("%w: product id is required", domain.ErrInvalidInput)
	}
	if stock < 0 {
		return domain.Inventory{}, fmt.Errorf("%w: stock cannot be negative", domain.ErrInvalidInput)
	}

	inv, err := bounded(ctx, s.storeTimeout, func(ctx context.Context) (*domain.Inventory, error) {
		return s.repo.UpsertInventory(ctx, productID, stock)
	})
	if err != nil {
		return domain.Inventory{}, fmt.Errorf("upsert inventory: %w", err)
	}
	s.logger.Info("inventory upserted", zap.String("product_id", productID), zap.Int("stock", stock))
	return *inv, nil
}

// Adjust sets an absolute stock level. A stock of zero removes the record,
// in which case deleted is true and the returned record is the last one read.
func (s *InventoryService) Adjust(ctx context.Context, in AdjustInput) (inv domain.Inventory, deleted bool, err error) {
	if in.ProductID == "" {
		return domain.Inventory{}, false, fmt.Errorf("%w: product id is required", domain.ErrInvalidInput)
	}
	if in.Stock < 0 {
		return domain.Inventory{}, false, fmt.Errorf("%w: stock cannot be negative", domain.ErrInvalidInput)
	}

	expected := -1
	if s.optimisticLock {
		if in.Version == nil {
			return domain.Inventory{}, false, fmt.Errorf("%w: version is required", domain.ErrInvalidInput)
		}
		expected = *in.Version
	}

	current, err := s.load(ctx, in.ProductID)
	if err != nil {
		return domain.Inventory{}, false, err
	}

	if in.Stock == 0 {
		err := boundedExec(ctx, s.storeTimeout, func(ctx context.Context) error {
			return s.repo.DeleteInventory(ctx, in.ProductID, expected)
		})
		if err != nil {
			return domain.Inventory{}, false, err
		}
		s.logger.Info("inventory record removed", zap.String("product_id", in.ProductID))
		return *current, true, nil
	}

	updated, err := bounded(ctx, s.storeTimeout, func(ctx context.Context) (*domain.Inventory, error) {
		return s.repo.SetStock(ctx, in.ProductID, in.Stock, expected)
	})
	if err != nil {
		return domain.Inventory{}, false, err
	}
	s.logger.Info("inventory adjusted",
		zap.String("product_id", in.ProductID),
		zap.Int("from", current.Stock),
		zap.Int("to", updated.Stock),
	)
	return *updated, false, nil
}

func (s *InventoryService) Get(ctx context.Context, productID string) (domain.Inventory, error) {
	inv, err := s.load(ctx, productID)
	if err != nil {
		return domain.Inventory{}, err
	}
	return *inv, nil
}

func (s *InventoryService) load(ctx context.Context, productID string) (*domain.Inventory, error) {
	return bounded(ctx, s.storeTimeout, func(ctx context.Context) (*domain.Inventory, error) {
		return s.repo.GetInventory(ctx, productID)
	})
}

func (s *InventoryService) ListAll(ctx context.Context) ([]domain.Inventory, error) {
	items, err := bounded(ctx, s.storeTimeout, s.repo.ListInventory)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return items, nil
}

// HandleOrderPlaced decrements stock for a placed order. Redelivered events
// are recognised by order id and skipped.
func (s *InventoryService) HandleOrderPlaced(ctx context.Context, event domain.OrderPlacedEvent) error {
	ctx, span := tracer.Start(ctx, "inventory.apply_order")
	defer span.End()

	var shortfalls []domain.StockShortfall
	applied, err := bounded(ctx, s.storeTimeout, func(ctx context.Context) (bool, error) {
		ok, sf, err := s.repo.ApplyOrder(ctx, event)
		shortfalls = sf
		return ok, err
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("apply order %s: %w", event.OrderID, err)
	}
	if !applied {
		s.logger.Info("order already applied to inventory", zap.String("order_id", event.OrderID))
		return nil
	}

	for _, sf := range shortfalls {
		s.logger.Warn("order exceeded tracked stock",
			zap.String("order_id", event.OrderID),
			zap.String("product_id", sf.ProductID),
			zap.Int("requested", sf.Requested),
			zap.Int("available", sf.Available),
		)
	}
	s.logger.Info("order applied to inventory",
		zap.String("order_id", event.OrderID),
		zap.Int("lines", len(event.Lines)),
	)
	return nil
}
