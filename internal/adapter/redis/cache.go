package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "posledger:order:idem:"
	defaultTTL = 24 * time.Hour
)

// ReplayCache maps order ids to internal record ids in Redis.
type ReplayCache struct {
	client goredis.Cmdable
	ttl    time.Duration
}

// NewReplayCache creates a cache over client with the default key TTL.
func NewReplayCache(client goredis.Cmdable) *ReplayCache {
	return &ReplayCache{client: client, ttl: defaultTTL}
}

func key(orderID string) string {
	return keyPrefix + orderID
}

// Lookup returns the record id remembered for orderID, if any.
func (c *ReplayCache) Lookup(ctx context.Context, orderID string) (uuid.UUID, bool, error) {
	raw, err := c.client.Get(ctx, key(orderID)).Result()
	if errors.Is(err, goredis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("replay cache get: %w", err)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("replay cache value: %w", err)
	}
	return id, true, nil
}

// Remember stores the mapping, refreshing its TTL.
func (c *ReplayCache) Remember(ctx context.Context, orderID string, id uuid.UUID) error {
	if err := c.client.Set(ctx, key(orderID), id.String(), c.ttl).Err(); err != nil {
		return fmt.Errorf("replay cache set: %w", err)
	}
	return nil
}

// Disabled is used when no Redis address is configured.
type Disabled struct{}

func (Disabled) Lookup(context.Context, string) (uuid.UUID, bool, error) {
	return uuid.Nil, false, nil
}

func (Disabled) Remember(context.Context, string, uuid.UUID) error {
	return nil
}
