package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"order-console/internal/domain"
	"order-console/internal/infra"
)

const keyPrefix = "orders:snapshot:"

// Cmdable is the part of the go-redis client the cache uses.
type Cmdable interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *goredis.ScanCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

var _ Cmdable = (*goredis.Client)(nil)

var _ infra.SnapshotCache = (*SnapshotCache)(nil)

// SnapshotCache is a read-through cache of raw order collections. Entries
// are short lived and dropped wholesale after any status update.
type SnapshotCache struct {
	client Cmdable
	ttl    time.Duration
}

func NewSnapshotCache(client Cmdable, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{client: client, ttl: ttl}
}

// NewClient dials Redis with the pool settings the service runs with.
func NewClient(addr string) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:         addr,
		DB:           0,
		PoolSize:     50,
		MinIdleConns: 5,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
}

// Key scopes a snapshot to the operator credential so one operator never
// reads a collection fetched with another's token.
func Key(token string, params domain.FetchParams) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%s%s:%s|%s|%s", keyPrefix, hex.EncodeToString(sum[:8]),
		params.Status, params.StartDate, params.EndDate)
}

func (c *SnapshotCache) Get(ctx context.Context, token string, params domain.FetchParams) ([]*domain.Order, bool, error) {
	raw, err := c.client.Get(ctx, Key(token, params)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("snapshot cache: get: %w", err)
	}
	var orders []*domain.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		return nil, false, fmt.Errorf("snapshot cache: decode: %w", err)
	}
	return orders, true, nil
}

func (c *SnapshotCache) Set(ctx context.Context, token string, params domain.FetchParams, orders []*domain.Order) error {
	if orders == nil {
		orders = []*domain.Order{}
	}
	data, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("snapshot cache: encode: %w", err)
	}
	if err := c.client.Set(ctx, Key(token, params), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("snapshot cache: set: %w", err)
	}
	return nil
}

// Invalidate deletes every snapshot.
func (c *SnapshotCache) Invalidate(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("snapshot cache: scan: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("snapshot cache: delete: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
