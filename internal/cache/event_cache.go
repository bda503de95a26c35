package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rizwanhussain01/EventHub/internal/domain"
)

const eventKeyPrefix = "eventhub:event:"

// EventCache keeps published event details in Redis so the public detail
// page does not hit Postgres on every read. Writes to an event invalidate
// its entry; the ledger is never served from cache.
type EventCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEventCache constructs the cache. A nil client or non-positive TTL
// disables caching entirely.
func NewEventCache(client *redis.Client, ttl time.Duration) *EventCache {
	return &EventCache{client: client, ttl: ttl}
}

// Get returns the cached event, or nil on miss or any Redis failure.
func (c *EventCache) Get(ctx context.Context, id string) *domain.Event {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return nil
	}
	raw, err := c.client.Get(ctx, eventKeyPrefix+id).Bytes()
	if err != nil {
		return nil
	}
	var event domain.Event
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil
	}
	return &event
}

// Set stores the event under its ID. Failures are ignored; the cache is an
// optimization, not a source of truth.
func (c *EventCache) Set(ctx context.Context, event *domain.Event) {
	if c == nil || c.client == nil || c.ttl <= 0 || event == nil {
		return
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, eventKeyPrefix+event.ID, raw, c.ttl).Err()
}

// Invalidate drops the cached entry for an event.
func (c *EventCache) Invalidate(ctx context.Context, id string) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, eventKeyPrefix+id).Err()
}

// Ping verifies cache connectivity.
func (c *EventCache) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return errors.New("cache client not configured")
	}
	return c.client.Ping(ctx).Err()
}
