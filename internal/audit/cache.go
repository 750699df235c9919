package audit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/example/storefront/internal/redisx"
)

// Cache covers the Redis side effects of event processing.
type Cache interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
	SetOrderStatus(ctx context.Context, orderID, status string) error
	AddSales(ctx context.Context, productID string, qty int) error
}

type RedisCache struct {
	RDB     *redis.Client
	Service string
}

func (c *RedisCache) Seen(ctx context.Context, eventID string) (bool, error) {
	return redisx.Exists(ctx, c.RDB, fmt.Sprintf(redisx.KeyDedup, c.Service, eventID))
}

func (c *RedisCache) Mark(ctx context.Context, eventID string) error {
	return c.RDB.Set(ctx, fmt.Sprintf(redisx.KeyDedup, c.Service, eventID), "1", redisx.TTLDedup).Err()
}

func (c *RedisCache) SetOrderStatus(ctx context.Context, orderID, status string) error {
	body := fmt.Sprintf(`{"status":%q}`, status)
	return c.RDB.Set(ctx, fmt.Sprintf(redisx.KeyOrderStatus, orderID), body, redisx.TTLStatusCache).Err()
}

func (c *RedisCache) AddSales(ctx context.Context, productID string, qty int) error {
	return c.RDB.IncrBy(ctx, fmt.Sprintf(redisx.KeySalesCount, productID), int64(qty)).Err()
}
