package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tasarini/trip-planner/internal/itinerary"
)

const defaultTTL = time.Hour

// Cache wraps a Redis client and provides typed get/set/delete for saved
// itineraries.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a Cache with a 1-hour TTL.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client, ttl: defaultTTL}
}

// key returns the Redis key for the given itinerary ID.
func key(id string) string {
	return "itinerary:" + id
}

// Get retrieves a saved itinerary from cache.
// Returns nil, nil on a cache miss (not an error).
func (c *Cache) Get(ctx context.Context, id string) (*itinerary.Saved, error) {
	val, err := c.client.Get(ctx, key(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get for itinerary %s: %w", id, err)
	}

	var s itinerary.Saved
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, fmt.Errorf("unmarshaling cached itinerary %s: %w", id, err)
	}

	return &s, nil
}

// Set stores a saved itinerary in cache with the configured TTL.
func (c *Cache) Set(ctx context.Context, s *itinerary.Saved) error {
	if s == nil {
		return nil
	}

	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling itinerary %s: %w", s.ID, err)
	}

	if err := c.client.Set(ctx, key(s.ID), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set for itinerary %s: %w", s.ID, err)
	}

	return nil
}

// Delete removes the cached entry for the given itinerary ID.
func (c *Cache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("cache delete for itinerary %s: %w", id, err)
	}
	return nil
}
