package services

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptclash/backend/internal/cache"
	"github.com/promptclash/backend/internal/storage"
)

func TestRecordOutcomeAccumulatesStanding(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewLeaderboardService(store, nil)
	ctx := context.Background()
	userID := uuid.New()

	outcomes := []struct {
		isWin bool
		total int
	}{
		{true, 240}, {false, 160}, {true, 220}, {true, 200}, {false, 180},
	}
	for _, o := range outcomes {
		require.NoError(t, svc.RecordOutcome(ctx, "alice", userID, o.isWin, o.total))
	}

	entries, err := svc.List(ctx, "all", "")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, 5, entry.TotalBattles)
	assert.Equal(t, 3, entry.Wins)
	assert.Equal(t, 60, entry.WinRate)
	assert.Equal(t, 200, entry.AvgScore, "(240+160+220+200+180)/5")
}

func TestListAnnotatesCurrentUser(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewLeaderboardService(store, nil)
	ctx := context.Background()

	require.NoError(t, svc.RecordOutcome(ctx, "alice", uuid.New(), true, 240))
	require.NoError(t, svc.RecordOutcome(ctx, "bob", uuid.New(), false, 150))

	entries, err := svc.List(ctx, "weekly", "bob")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byName := map[string]bool{}
	for _, e := range entries {
		byName[e.Username] = e.IsCurrentUser
	}
	assert.False(t, byName["alice"])
	assert.True(t, byName["bob"])
}

func TestListOrdersByWinRateThenAvgScore(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewLeaderboardService(store, nil)
	ctx := context.Background()

	// alice 100% avg 200, bob 100% avg 250, carol 50% avg 260.
	require.NoError(t, svc.RecordOutcome(ctx, "alice", uuid.New(), true, 200))
	require.NoError(t, svc.RecordOutcome(ctx, "bob", uuid.New(), true, 250))
	carolID := uuid.New()
	require.NoError(t, svc.RecordOutcome(ctx, "carol", carolID, true, 270))
	require.NoError(t, svc.RecordOutcome(ctx, "carol", carolID, false, 250))

	entries, err := svc.List(ctx, "all", "")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "bob", entries[0].Username)
	assert.Equal(t, "alice", entries[1].Username)
	assert.Equal(t, "carol", entries[2].Username)
}

func TestListServesFromCacheUntilInvalidated(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := storage.NewMemoryStore()
	svc := NewLeaderboardService(store, cache.NewLeaderboardCache(client))
	ctx := context.Background()

	aliceID := uuid.New()
	require.NoError(t, svc.RecordOutcome(ctx, "alice", aliceID, true, 240))

	// First list populates the cache.
	entries, err := svc.List(ctx, "all", "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].TotalBattles)

	// A write that bypasses the service leaves the cache stale.
	require.NoError(t, store.UpsertLeaderboardEntry(ctx, "alice", aliceID, true, 240))
	entries, err = svc.List(ctx, "all", "")
	require.NoError(t, err)
	assert.Equal(t, 1, entries[0].TotalBattles, "cached listing is served as-is")

	// Recording through the service invalidates and the next list is fresh.
	require.NoError(t, svc.RecordOutcome(ctx, "alice", aliceID, false, 180))
	entries, err = svc.List(ctx, "all", "")
	require.NoError(t, err)
	assert.Equal(t, 3, entries[0].TotalBattles)
}
