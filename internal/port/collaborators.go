package port

import (
	"context"

	"github.com/rl1809/shopcore/internal/core/domain"
)

// ProductLookup fails with domain.ErrNotFound for unknown products and
// domain.ErrUpstreamUnavailable when the catalog cannot be reached.
type ProductLookup interface {
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
}

// UserLookup fails with domain.ErrNotFound for unknown users and
// domain.ErrUpstreamUnavailable when the identity service cannot be reached.
type UserLookup interface {
	GetUser(ctx context.Context, userID string) (domain.UserProfile, error)
}

type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event domain.OrderPlacedEvent) error
}

// EventHandler is invoked per delivered event; a returned error asks the
// broker adapter to redeliver.
type EventHandler func(ctx context.Context, event domain.OrderPlacedEvent) error

type Notifier interface {
	NotifyOrderPlaced(ctx context.Context, event domain.OrderPlacedEvent) error
}

type PasswordHasher interface {
	Hash(password string) ([]byte, error)
	Compare(hash []byte, password string) error
}
