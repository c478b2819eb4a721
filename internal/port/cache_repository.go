package port

import (
	"context"

	"github.com/rl1809/shopcore/internal/core/domain"
)

type CartRepository interface {
	// AddItem atomically merges item into the user's cart, creating the cart if needed
	AddItem(ctx context.Context, userID string, item domain.CartItem) error

	// GetCart returns nil when the user has no cart
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)

	// RemoveProduct drops every variant of productID; no-op if the cart is absent
	RemoveProduct(ctx context.Context, userID, productID string) error

	DeleteCart(ctx context.Context, userID string) error
}

type DedupStore interface {
	// Claim sets key if absent, returns false if it already exists
	Claim(ctx context.Context, key string) (bool, error)

	// Release removes a claim so a redelivered message can be processed again
	Release(ctx context.Context, key string) error
}
