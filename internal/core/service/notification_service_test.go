package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/rl1809/shopcore/internal/core/domain"
)

// Mock DedupStore
type mockDedup struct {
	mu       sync.Mutex
	keys     map[string]bool
	claimErr error
}

func newMockDedup() *mockDedup {
	return &mockDedup{keys: make(map[string]bool)}
}

func (m *mockDedup) Claim(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.claimErr != nil {
		return false, m.claimErr
	}
	if m.keys[key] {
		return false, nil
	}
	m.keys[key] = true
	return true, nil
}

func (m *mockDedup) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
	return nil
}

// Mock Notifier
type mockNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *mockNotifier) NotifyOrderPlaced(ctx context.Context, e domain.OrderPlacedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, e.OrderID)
	return nil
}

func (m *mockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func TestNotification_DuplicateDeliverySendsOnce(t *testing.T) {
	notifier := &mockNotifier{}
	svc := NewNotificationService(newMockDedup(), notifier, zap.NewNop())
	event := domain.OrderPlacedEvent{OrderID: "order-1", UserID: "user-1", Total: 4999}

	for i := 0; i < 3; i++ {
		if err := svc.Handle(context.Background(), event); err != nil {
			t.Fatalf("delivery %d: %v", i, err)
		}
	}
	if notifier.count() != 1 {
		t.Errorf("expected 1 notification, got %d", notifier.count())
	}
}

func TestNotification_ConcurrentDuplicates(t *testing.T) {
	notifier := &mockNotifier{}
	svc := NewNotificationService(newMockDedup(), notifier, zap.NewNop())
	event := domain.OrderPlacedEvent{OrderID: "order-1"}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = svc.Handle(context.Background(), event)
		}()
	}
	wg.Wait()

	if notifier.count() != 1 {
		t.Errorf("expected 1 notification, got %d", notifier.count())
	}
}

func TestNotification_FailureReleasesClaim(t *testing.T) {
	notifier := &mockNotifier{err: errors.New("smtp timeout")}
	dedup := newMockDedup()
	svc := NewNotificationService(dedup, notifier, zap.NewNop())
	event := domain.OrderPlacedEvent{OrderID: "order-1"}

	if err := svc.Handle(context.Background(), event); err == nil {
		t.Fatal("expected error so the subscriber redelivers")
	}

	// Redelivery after the notifier recovers goes through.
	notifier.err = nil
	if err := svc.Handle(context.Background(), event); err != nil {
		t.Fatalf("redelivery: %v", err)
	}
	if notifier.count() != 1 {
		t.Errorf("expected 1 notification after redelivery, got %d", notifier.count())
	}
}

func TestNotification_DedupStoreDown(t *testing.T) {
	notifier := &mockNotifier{}
	dedup := newMockDedup()
	dedup.claimErr = errors.New("redis: connection refused")
	svc := NewNotificationService(dedup, notifier, zap.NewNop())

	err := svc.Handle(context.Background(), domain.OrderPlacedEvent{OrderID: "order-1"})
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Errorf("expected ErrUpstreamUnavailable, got %v", err)
	}
	if notifier.count() != 0 {
		t.Error("expected no notification without a claim")
	}
}
