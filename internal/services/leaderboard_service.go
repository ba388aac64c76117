package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/promptclash/backend/internal/cache"
	"github.com/promptclash/backend/internal/models"
	"github.com/promptclash/backend/internal/storage"
)

// LeaderboardService maintains per-user standings. Writes go through the
// store's atomic upsert; reads are served from a short-TTL Redis cache when
// one is configured.
type LeaderboardService struct {
	store storage.Store
	cache *cache.LeaderboardCache // nil disables caching
}

func NewLeaderboardService(store storage.Store, lbCache *cache.LeaderboardCache) *LeaderboardService {
	return &LeaderboardService{
		store: store,
		cache: lbCache,
	}
}

// RecordOutcome folds one completed battle into the user's standing and
// invalidates the cached listing.
func (s *LeaderboardService) RecordOutcome(ctx context.Context, username string, userID uuid.UUID, isWin bool, totalScore int) error {
	if err := s.store.UpsertLeaderboardEntry(ctx, username, userID, isWin, totalScore); err != nil {
		return fmt.Errorf("failed to record outcome: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			slog.Debug("Failed to invalidate leaderboard cache", "error", err)
		}
	}

	return nil
}

// List returns the standings ordered by win rate, ties broken by average
// score. The period is accepted as a tag but all-time data is returned for
// every period. When a username is given, matching entries are annotated as
// the current user without changing the order.
func (s *LeaderboardService) List(ctx context.Context, period, username string) ([]models.LeaderboardEntry, error) {
	entries := s.cachedEntries(ctx)
	if entries == nil {
		var err error
		entries, err = s.store.ListLeaderboard(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list leaderboard: %w", err)
		}

		if s.cache != nil {
			if err := s.cache.Set(ctx, entries); err != nil {
				slog.Debug("Failed to cache leaderboard", "error", err)
			}
		}
	}

	if username != "" {
		for i := range entries {
			entries[i].IsCurrentUser = entries[i].Username == username
		}
	}

	return entries, nil
}

func (s *LeaderboardService) cachedEntries(ctx context.Context) []models.LeaderboardEntry {
	if s.cache == nil {
		return nil
	}

	entries, err := s.cache.Get(ctx)
	if err != nil {
		slog.Debug("Leaderboard cache read failed", "error", err)
		return nil
	}
	return entries
}
