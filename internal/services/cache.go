package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/triporia/triporia-backend/internal/database"
)

const (
	// CacheKeyPrefix is the Redis key prefix for cached listing responses
	CacheKeyPrefix = "cache:"
	// ListingCacheTTL keeps listing pages hot without letting filters
	// serve very stale data
	ListingCacheTTL = 5 * time.Minute
)

// CacheService caches listing responses (trip/hotel/vehicle pages) in Redis.
type CacheService struct{}

// Get retrieves a cached value. A miss is not an error.
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := database.RedisClient.Get(ctx, CacheKeyPrefix+key).Result()
	if err != nil {
		return false, nil // cache miss
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores a value with the listing TTL.
func (c *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return database.RedisClient.Set(ctx, CacheKeyPrefix+key, data, ListingCacheTTL).Err()
}

// InvalidatePrefix drops every cached key under prefix (e.g. "trips:")
// after a create/update/delete on that collection.
func (c *CacheService) InvalidatePrefix(ctx context.Context, prefix string) error {
	iter := database.RedisClient.Scan(ctx, 0, CacheKeyPrefix+prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return database.RedisClient.Del(ctx, keys...).Err()
}
