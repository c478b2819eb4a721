package storage

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/shopcore/internal/core/domain"
)

const (
	cartKeyPrefix     = "cart:"
	cartItemField     = "item:"
	cartQtyField      = "qty:"
	idempotencyKeyTTL = 24 * time.Hour
)

var removeProductScript = redis.NewScript(`
local key = KEYS[1]
local itemPrefix = 'item:' .. ARGV[1]
local qtyPrefix = 'qty:' .. ARGV[1]

local removed = 0
for _, field in ipairs(redis.call('HKEYS', key)) do
	if string.sub(field, 1, #itemPrefix) == itemPrefix or string.sub(field, 1, #qtyPrefix) == qtyPrefix then
		redis.call('HDEL', key, field)
		removed = removed + 1
	end
end

return removed
`)

// itemSnapshot is the product data captured when a line is first added.
type itemSnapshot struct {
	ProductID   string `json:"productId"`
	ColorID     string `json:"colorId"`
	SizeID      string `json:"sizeId"`
	UnitPrice   int64  `json:"unitPrice"`
	ProductName string `json:"productName"`
}

// RedisCartStore keeps one hash per cart. Each line has a JSON snapshot
// field and a counter field so merges never read before writing.
type RedisCartStore struct {
	client redis.UniversalClient
}

func NewRedisCartStore(client redis.UniversalClient) *RedisCartStore {
	return &RedisCartStore{client: client}
}

func (r *RedisCartStore) AddItem(ctx context.Context, userID string, item domain.CartItem) error {
	snapshot, err := json.Marshal(itemSnapshot{
		ProductID:   item.ProductID,
		ColorID:     item.ColorID,
		SizeID:      item.SizeID,
		UnitPrice:   item.UnitPrice,
		ProductName: item.ProductName,
	})
	if err != nil {
		return storeError("encode cart item", err)
	}

	key := cartKeyPrefix + userID
	line := item.LineKey()
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSetNX(ctx, key, cartItemField+line, snapshot)
		pipe.HIncrBy(ctx, key, cartQtyField+line, int64(item.Quantity))
		return nil
	})
	if err != nil {
		return storeError("merge cart item", err)
	}
	return nil
}

func (r *RedisCartStore) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	fields, err := r.client.HGetAll(ctx, cartKeyPrefix+userID).Result()
	if err != nil {
		return nil, storeError("read cart", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	snapshots := make(map[string]itemSnapshot)
	quantities := make(map[string]int)
	for field, value := range fields {
		switch {
		case strings.HasPrefix(field, cartItemField):
			var s itemSnapshot
			if err := json.Unmarshal([]byte(value), &s); err != nil {
				return nil, storeError("decode cart item "+field, err)
			}
			snapshots[strings.TrimPrefix(field, cartItemField)] = s
		case strings.HasPrefix(field, cartQtyField):
			q, err := strconv.Atoi(value)
			if err != nil {
				return nil, storeError("decode cart quantity "+field, err)
			}
			quantities[strings.TrimPrefix(field, cartQtyField)] = q
		}
	}

	lines := make([]string, 0, len(snapshots))
	for line := range snapshots {
		lines = append(lines, line)
	}
	sort.Strings(lines)

	cart := &domain.Cart{UserID: userID, Items: []domain.CartItem{}}
	for _, line := range lines {
		s := snapshots[line]
		q := quantities[line]
		if q <= 0 {
			continue
		}
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID:   s.ProductID,
			ColorID:     s.ColorID,
			SizeID:      s.SizeID,
			Quantity:    q,
			UnitPrice:   s.UnitPrice,
			ProductName: s.ProductName,
		})
	}
	return cart, nil
}

func (r *RedisCartStore) RemoveProduct(ctx context.Context, userID, productID string) error {
	if err := removeProductScript.Run(ctx, r.client, []string{cartKeyPrefix + userID}, domain.ProductKey(productID)).Err(); err != nil {
		return storeError("remove cart product", err)
	}
	return nil
}

func (r *RedisCartStore) DeleteCart(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, cartKeyPrefix+userID).Err(); err != nil {
		return storeError("delete cart", err)
	}
	return nil
}

type RedisDedupStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisDedupStore(client redis.UniversalClient, ttl time.Duration) *RedisDedupStore {
	if ttl <= 0 {
		ttl = idempotencyKeyTTL
	}
	return &RedisDedupStore{client: client, ttl: ttl}
}

func (r *RedisDedupStore) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, 1, r.ttl).Result()
	if err != nil {
		return false, storeError("claim dedup key", err)
	}

	return ok, nil
}

func (r *RedisDedupStore) Release(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return storeError("release dedup key", err)
	}
	return nil
}
