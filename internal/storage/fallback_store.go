package storage

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/promptclash/backend/internal/models"
)

// FallbackStore decorates a durable Store with a single long-lived volatile
// store. Infrastructure failures on the durable side are absorbed: the call
// is served from the volatile store and a degraded-mode event is logged, so
// callers never see a storage outage. Reads that miss the durable store also
// consult the volatile store, which keeps records written while degraded
// retrievable for the rest of the process lifetime.
type FallbackStore struct {
	durable  Store
	volatile *MemoryStore
}

func NewFallbackStore(durable Store) *FallbackStore {
	return &FallbackStore{
		durable:  durable,
		volatile: NewMemoryStore(),
	}
}

var _ Store = (*FallbackStore)(nil)

func (f *FallbackStore) degraded(op string, err error) {
	slog.Warn("storage degraded, serving from volatile store",
		"op", op,
		"error", err,
	)
}

func (f *FallbackStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := f.durable.GetUser(ctx, id)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		f.degraded("get_user", err)
	}
	return f.volatile.GetUser(ctx, id)
}

func (f *FallbackStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := f.durable.GetUserByUsername(ctx, username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		f.degraded("get_user_by_username", err)
	}
	return f.volatile.GetUserByUsername(ctx, username)
}

func (f *FallbackStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := f.durable.CreateUser(ctx, user); err != nil {
		f.degraded("create_user", err)
		return f.volatile.CreateUser(ctx, user)
	}
	return nil
}

func (f *FallbackStore) GetBattle(ctx context.Context, id uuid.UUID) (*models.Battle, error) {
	battle, err := f.durable.GetBattle(ctx, id)
	if err == nil {
		return battle, nil
	}
	if !errors.Is(err, ErrNotFound) {
		f.degraded("get_battle", err)
	}
	return f.volatile.GetBattle(ctx, id)
}

func (f *FallbackStore) CreateBattle(ctx context.Context, battle *models.Battle) error {
	if err := f.durable.CreateBattle(ctx, battle); err != nil {
		f.degraded("create_battle", err)
		return f.volatile.CreateBattle(ctx, battle)
	}
	return nil
}

func (f *FallbackStore) UpdateBattle(ctx context.Context, id uuid.UUID, update BattleUpdate) (*models.Battle, error) {
	battle, err := f.durable.UpdateBattle(ctx, id, update)
	if err == nil {
		return battle, nil
	}
	if !errors.Is(err, ErrNotFound) {
		f.degraded("update_battle", err)
	}
	return f.volatile.UpdateBattle(ctx, id, update)
}

func (f *FallbackStore) GetScoreByBattleID(ctx context.Context, battleID uuid.UUID) (*models.Score, error) {
	score, err := f.durable.GetScoreByBattleID(ctx, battleID)
	if err == nil {
		return score, nil
	}
	if !errors.Is(err, ErrNotFound) {
		f.degraded("get_score", err)
	}
	return f.volatile.GetScoreByBattleID(ctx, battleID)
}

func (f *FallbackStore) CreateScore(ctx context.Context, score *models.Score) error {
	if err := f.durable.CreateScore(ctx, score); err != nil {
		f.degraded("create_score", err)
		return f.volatile.CreateScore(ctx, score)
	}
	return nil
}

func (f *FallbackStore) ListLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	entries, err := f.durable.ListLeaderboard(ctx)
	if err != nil {
		f.degraded("list_leaderboard", err)
		return f.volatile.ListLeaderboard(ctx)
	}
	return entries, nil
}

func (f *FallbackStore) UpsertLeaderboardEntry(ctx context.Context, username string, userID uuid.UUID, isWin bool, totalScore int) error {
	if err := f.durable.UpsertLeaderboardEntry(ctx, username, userID, isWin, totalScore); err != nil {
		f.degraded("upsert_leaderboard_entry", err)
		return f.volatile.UpsertLeaderboardEntry(ctx, username, userID, isWin, totalScore)
	}
	return nil
}
