package redisx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/ordering"
)

func New(addr string) *redis.Client {
	r := redis.NewClient(&redis.Options{Addr: addr})
	_ = r.WithTimeout(2 * time.Second)
	return r
}

// StatusCache keeps order statuses hot so GET /orders/{id} rarely hits the
// database. Postgres stays the source of truth.
type StatusCache struct{ R *redis.Client }

func (c StatusCache) SetStatus(ctx context.Context, orderID string, status ordering.Status) error {
	key := fmt.Sprintf(KeyOrderStatus, orderID)
	return c.R.Set(ctx, key, string(status), TTLStatusCache).Err()
}

// GetStatus returns ok=false on a cache miss.
func (c StatusCache) GetStatus(ctx context.Context, orderID string) (ordering.Status, bool, error) {
	key := fmt.Sprintf(KeyOrderStatus, orderID)
	s, err := c.R.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return ordering.Status(s), true, nil
}

// Deduper remembers processed event ids per consumer service.
type Deduper struct{ R *redis.Client }

// Seen marks the event and reports whether it had been marked before.
func (d Deduper) Seen(ctx context.Context, service, eventID string) (bool, error) {
	key := fmt.Sprintf(KeyDedup, service, eventID)
	n, err := d.R.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}
	return false, d.R.Set(ctx, key, "1", TTLDedup).Err()
}
