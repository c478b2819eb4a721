package storage

import (
	"context"
	"sync"

	"github.com/rl1809/shopcore/internal/core/domain"
)

// MemoryCartStore is a process-local cart store for single-instance runs.
type MemoryCartStore struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart
}

func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{carts: make(map[string]*domain.Cart)}
}

func (m *MemoryCartStore) AddItem(ctx context.Context, userID string, item domain.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart, ok := m.carts[userID]
	if !ok {
		cart = &domain.Cart{UserID: userID}
		m.carts[userID] = cart
	}
	cart.Merge(item)
	return nil
}

func (m *MemoryCartStore) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart, ok := m.carts[userID]
	if !ok {
		return nil, nil
	}
	cp := domain.Cart{UserID: cart.UserID, Items: append([]domain.CartItem{}, cart.Items...)}
	return &cp, nil
}

func (m *MemoryCartStore) RemoveProduct(ctx context.Context, userID, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cart, ok := m.carts[userID]; ok {
		cart.RemoveProduct(productID)
	}
	return nil
}

func (m *MemoryCartStore) DeleteCart(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.carts, userID)
	return nil
}
