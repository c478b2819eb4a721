package storage

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/shopcore/internal/core/domain"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestRedisCart_MergeSameVariant(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	store := NewRedisCartStore(client)
	client.Del(ctx, "cart:test-user")
	defer client.Del(ctx, "cart:test-user")

	item := domain.CartItem{ProductID: "P1", ColorID: "red", SizeID: "M", Quantity: 1, UnitPrice: 2500, ProductName: "Linen shirt"}
	if err := store.AddItem(ctx, "test-user", item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	item.Quantity = 2
	if err := store.AddItem(ctx, "test-user", item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cart, err := store.GetCart(ctx, "test-user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart == nil || len(cart.Items) != 1 {
		t.Fatalf("expected one line, got %+v", cart)
	}
	if cart.Items[0].Quantity != 3 || cart.TotalPrice() != 7500 {
		t.Errorf("expected qty 3 total 7500, got %d / %d", cart.Items[0].Quantity, cart.TotalPrice())
	}
}

func TestRedisCart_RemoveProductDropsAllVariants(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	store := NewRedisCartStore(client)
	client.Del(ctx, "cart:test-user")
	defer client.Del(ctx, "cart:test-user")

	store.AddItem(ctx, "test-user", domain.CartItem{ProductID: "P1", ColorID: "red", Quantity: 1})
	store.AddItem(ctx, "test-user", domain.CartItem{ProductID: "P1", ColorID: "blue", Quantity: 1})
	store.AddItem(ctx, "test-user", domain.CartItem{ProductID: "P10", Quantity: 1})

	if err := store.RemoveProduct(ctx, "test-user", "P1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cart, _ := store.GetCart(ctx, "test-user")
	if cart == nil || len(cart.Items) != 1 || cart.Items[0].ProductID != "P10" {
		t.Errorf("expected only P10 left, got %+v", cart)
	}
}

func TestRedisCart_SeparatorsStayDistinct(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	store := NewRedisCartStore(client)
	client.Del(ctx, "cart:test-user")
	defer client.Del(ctx, "cart:test-user")

	store.AddItem(ctx, "test-user", domain.CartItem{ProductID: "P1", ColorID: "red:M", Quantity: 1})
	store.AddItem(ctx, "test-user", domain.CartItem{ProductID: "P1", ColorID: "red", SizeID: "M:", Quantity: 1})
	store.AddItem(ctx, "test-user", domain.CartItem{ProductID: "P1|red", Quantity: 1})

	cart, _ := store.GetCart(ctx, "test-user")
	if cart == nil || len(cart.Items) != 3 {
		t.Fatalf("expected 3 lines, got %+v", cart)
	}

	if err := store.RemoveProduct(ctx, "test-user", "P1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cart, _ = store.GetCart(ctx, "test-user")
	if cart == nil || len(cart.Items) != 1 || cart.Items[0].ProductID != "P1|red" {
		t.Errorf("expected only P1|red left, got %+v", cart)
	}
}

func TestRedisCart_AbsentAndDeleted(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	store := NewRedisCartStore(client)
	client.Del(ctx, "cart:test-user")

	if cart, err := store.GetCart(ctx, "test-user"); err != nil || cart != nil {
		t.Fatalf("expected no cart, got %+v err=%v", cart, err)
	}
	if err := store.RemoveProduct(ctx, "test-user", "P1"); err != nil {
		t.Errorf("expected no-op removal, got %v", err)
	}

	store.AddItem(ctx, "test-user", domain.CartItem{ProductID: "P1", Quantity: 1})
	if err := store.DeleteCart(ctx, "test-user"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart, _ := store.GetCart(ctx, "test-user"); cart != nil {
		t.Errorf("expected cart gone, got %+v", cart)
	}
}

func TestRedisCart_ConcurrentAdds(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	store := NewRedisCartStore(client)
	client.Del(ctx, "cart:concurrent-user")
	defer client.Del(ctx, "cart:concurrent-user")

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.AddItem(ctx, "concurrent-user", domain.CartItem{ProductID: "P1", ColorID: "red", SizeID: "M", Quantity: 1})
		}()
	}
	wg.Wait()

	cart, _ := store.GetCart(ctx, "concurrent-user")
	if cart == nil || len(cart.Items) != 1 || cart.Items[0].Quantity != 100 {
		t.Errorf("expected one line with quantity 100, got %+v", cart)
	}
}

func TestRedisDedup_ClaimOnce(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	store := NewRedisDedupStore(client, time.Minute)
	client.Del(ctx, "notified:test-order")
	defer client.Del(ctx, "notified:test-order")

	var successCount int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := store.Claim(ctx, "notified:test-order"); ok {
				atomic.AddInt32(&successCount, 1)
			}
		}()
	}
	wg.Wait()

	if successCount != 1 {
		t.Errorf("expected exactly 1 claim, got %d", successCount)
	}

	if err := store.Release(ctx, "notified:test-order"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if ok, _ := store.Claim(ctx, "notified:test-order"); !ok {
		t.Error("expected claim to succeed after release")
	}
}
