package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/promptclash/backend/internal/models"
)

const (
	leaderboardCacheKey = "leaderboard:standings"
	leaderboardTTL      = 30 * time.Second
)

// LeaderboardCache is a short-TTL Redis read cache for the leaderboard
// listing. Entries are cached without per-request annotations.
type LeaderboardCache struct {
	client *redis.Client
}

func NewLeaderboardCache(client *redis.Client) *LeaderboardCache {
	return &LeaderboardCache{client: client}
}

// Get returns the cached standings, or nil on a cache miss.
func (c *LeaderboardCache) Get(ctx context.Context) ([]models.LeaderboardEntry, error) {
	data, err := c.client.Get(ctx, leaderboardCacheKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get cached leaderboard: %w", err)
	}

	var entries []models.LeaderboardEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached leaderboard: %w", err)
	}

	return entries, nil
}

// Set caches the standings for the TTL window.
func (c *LeaderboardCache) Set(ctx context.Context, entries []models.LeaderboardEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal leaderboard: %w", err)
	}

	if err := c.client.Set(ctx, leaderboardCacheKey, data, leaderboardTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache leaderboard: %w", err)
	}

	return nil
}

// Invalidate drops the cached standings after an outcome is recorded.
func (c *LeaderboardCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, leaderboardCacheKey).Err()
}
