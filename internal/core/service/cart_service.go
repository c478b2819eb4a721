package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/shopcore/internal/core/domain"
	"github.com/rl1809/shopcore/internal/port"
)

type AddItemInput struct {
	ProductID string
	ColorID   string
	SizeID    string
	Quantity  int
}

type CartService struct {
	carts    port.CartRepository
	products port.ProductLookup
	logger   *zap.Logger

	storeTimeout time.Duration
}

func NewCartService(carts port.CartRepository, products port.ProductLookup, logger *zap.Logger) *CartService {
	return &CartService{
		carts:        carts,
		products:     products,
		logger:       logger,
		storeTimeout: DefaultStoreTimeout,
	}
}

// SetStoreTimeout bounds each repository call. It must be called before the
// service handles requests.
func (s *CartService) SetStoreTimeout(d time.Duration) {
	s.storeTimeout = d
}

// AddItem resolves the product remotely and merges it into the user's cart.
// Nothing is written unless the product lookup succeeds.
func (s *CartService) AddItem(ctx context.Context, userID string, in AddItemInput) error {
	if userID == "" {
		return domain.ErrUnauthorized
	}
	if in.ProductID == "" {
		return fmt.Errorf("%w: product id is required", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}

	product, err := s.products.GetProduct(ctx, in.ProductID)
	if err != nil {
		s.logger.Warn("product lookup failed",
			zap.String("product_id", in.ProductID),
			zap.Error(err),
		)
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: product %s does not exist", domain.ErrProductUnavailable, in.ProductID)
		}
		return fmt.Errorf("%w: %w", domain.ErrProductUnavailable, err)
	}

	item := domain.CartItem{
		ProductID:   product.ProductID,
		ColorID:     in.ColorID,
		SizeID:      in.SizeID,
		Quantity:    in.Quantity,
		UnitPrice:   product.Price,
		ProductName: product.Name,
	}
	err = boundedExec(ctx, s.storeTimeout, func(ctx context.Context) error {
		return s.carts.AddItem(ctx, userID, item)
	})
	if err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

// GetCart reports ok=false when the user never added anything.
func (s *CartService) GetCart(ctx context.Context, userID string) (domain.Cart, bool, error) {
	cart, err := bounded(ctx, s.storeTimeout, func(ctx context.Context) (*domain.Cart, error) {
		return s.carts.GetCart(ctx, userID)
	})
	if err != nil {
		return domain.Cart{}, false, fmt.Errorf("get cart: %w", err)
	}
	if cart == nil {
		return domain.Cart{}, false, nil
	}
	return *cart, true, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) error {
	if productID == "" {
		return fmt.Errorf("%w: product id is required", domain.ErrInvalidInput)
	}
	err := boundedExec(ctx, s.storeTimeout, func(ctx context.Context) error {
		return s.carts.RemoveProduct(ctx, userID, productID)
	})
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

func (s *CartService) RemoveAll(ctx context.Context, userID string) error {
	err := boundedExec(ctx, s.storeTimeout, func(ctx context.Context) error {
		return s.carts.DeleteCart(ctx, userID)
	})
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
