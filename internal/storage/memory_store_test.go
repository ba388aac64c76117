package storage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptclash/backend/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestMemoryStoreUsers(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	user := &models.User{Username: "alice"}
	require.NoError(t, store.CreateUser(ctx, user))
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	byID, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byName, err := store.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	_, err = store.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreReadsReturnCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	user := &models.User{Username: "bob"}
	require.NoError(t, store.CreateUser(ctx, user))

	first, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	first.Username = "mutated"

	second, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", second.Username)
}

func TestMemoryStoreBattlePartialUpdate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	userID := uuid.New()
	battle := &models.Battle{
		UserID:       userID,
		OpponentType: models.OpponentAI,
		Prompt:       "Invent a holiday",
	}
	require.NoError(t, store.CreateBattle(ctx, battle))

	updated, err := store.UpdateBattle(ctx, battle.ID, BattleUpdate{
		UserSolution: ptr("my solution"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.UserSolution)
	assert.Equal(t, "my solution", *updated.UserSolution)
	assert.Nil(t, updated.AISolution)
	assert.False(t, updated.Completed)

	updated, err = store.UpdateBattle(ctx, battle.ID, BattleUpdate{
		AISolution: ptr("opponent solution"),
		UserScore:  ptr(240),
		AIScore:    ptr(210),
		UserWon:    ptr(true),
		Completed:  ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "my solution", *updated.UserSolution, "untouched fields must survive later updates")
	assert.Equal(t, "opponent solution", *updated.AISolution)
	assert.Equal(t, 240, *updated.UserScore)
	assert.Equal(t, 210, *updated.AIScore)
	assert.True(t, *updated.UserWon)
	assert.True(t, updated.Completed)

	_, err = store.UpdateBattle(ctx, uuid.New(), BattleUpdate{Completed: ptr(true)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreScores(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	battleID := uuid.New()
	score := &models.Score{
		BattleID:        battleID,
		UserOriginality: 80,
		UserLogic:       85,
		UserExpression:  75,
		AIOriginality:   30,
		AILogic:         25,
		AIExpression:    15,
		JudgeFeedback:   "decisive round",
	}
	require.NoError(t, store.CreateScore(ctx, score))

	got, err := store.GetScoreByBattleID(ctx, battleID)
	require.NoError(t, err)
	assert.Equal(t, 80, got.UserOriginality)
	assert.Equal(t, 15, got.AIExpression)
	assert.Equal(t, "decisive round", got.JudgeFeedback)

	_, err = store.GetScoreByBattleID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreUpsertLeaderboardEntry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	userID := uuid.New()

	// Win with 240, loss with 180, win with 210.
	require.NoError(t, store.UpsertLeaderboardEntry(ctx, "carol", userID, true, 240))
	require.NoError(t, store.UpsertLeaderboardEntry(ctx, "carol", userID, false, 180))
	require.NoError(t, store.UpsertLeaderboardEntry(ctx, "carol", userID, true, 210))

	entries, err := store.ListLeaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, userID, entry.UserID)
	assert.Equal(t, "carol", entry.Username)
	assert.Equal(t, 3, entry.TotalBattles)
	assert.Equal(t, 2, entry.Wins)
	assert.Equal(t, 67, entry.WinRate, "2/3 rounds to 67")
	assert.Equal(t, 210, entry.AvgScore, "(240+180+210)/3")
}

func TestMemoryStoreLeaderboardOrdering(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	// dave: 1 win of 1, avg 200. erin: 1 win of 1, avg 250.
	// frank: 1 win of 2, avg 260.
	daveID, erinID, frankID := uuid.New(), uuid.New(), uuid.New()
	require.NoError(t, store.UpsertLeaderboardEntry(ctx, "dave", daveID, true, 200))
	require.NoError(t, store.UpsertLeaderboardEntry(ctx, "erin", erinID, true, 250))
	require.NoError(t, store.UpsertLeaderboardEntry(ctx, "frank", frankID, true, 270))
	require.NoError(t, store.UpsertLeaderboardEntry(ctx, "frank", frankID, false, 250))

	entries, err := store.ListLeaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "erin", entries[0].Username, "higher avg score wins the win-rate tie")
	assert.Equal(t, "dave", entries[1].Username)
	assert.Equal(t, "frank", entries[2].Username, "lower win rate sorts last despite best avg")
}
