package port

import (
	"context"
	"time"

	"github.com/rl1809/shopcore/internal/core/domain"
)

type OrderRepository interface {
	// CreateOrder persists the order, its lines and an outbox record in one transaction
	CreateOrder(ctx context.Context, order domain.Order, outbox domain.OutboxRecord) error

	// GetOrder returns domain.ErrNotFound for unknown ids
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)

	ListOrders(ctx context.Context) ([]domain.Order, error)

	// UpdateStatus writes a status only if the stored status still equals from
	UpdateStatus(ctx context.Context, orderID string, from, to domain.OrderStatus, at time.Time) error
}

type OutboxRepository interface {
	// PendingOutbox returns unpublished records created before olderThan
	PendingOutbox(ctx context.Context, olderThan time.Time, limit int) ([]domain.OutboxRecord, error)

	MarkPublished(ctx context.Context, id string, at time.Time) error
}

type InventoryRepository interface {
	// UpsertInventory creates the record or resets its stock
	UpsertInventory(ctx context.Context, productID string, stock int) (*domain.Inventory, error)

	GetInventory(ctx context.Context, productID string) (*domain.Inventory, error)

	// SetStock overwrites stock; expectedVersion < 0 skips the version check
	SetStock(ctx context.Context, productID string, stock, expectedVersion int) (*domain.Inventory, error)

	// DeleteInventory removes the record; expectedVersion < 0 skips the version check
	DeleteInventory(ctx context.Context, productID string, expectedVersion int) error

	ListInventory(ctx context.Context) ([]domain.Inventory, error)

	// ApplyOrder decrements stock for every line once per order id.
	// applied is false when the order had already been applied.
	ApplyOrder(ctx context.Context, event domain.OrderPlacedEvent) (applied bool, shortfalls []domain.StockShortfall, err error)
}

type AccountRepository interface {
	// CreateAccount returns domain.ErrEmailTaken on duplicate email
	CreateAccount(ctx context.Context, account domain.Account) error

	GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error)

	GetAccount(ctx context.Context, id string) (*domain.Account, error)
}

type ProductRepository interface {
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
}
