package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/promptclash/backend/internal/models"
)

// ErrNotFound is returned when the requested record does not exist.
// Infrastructure failures are returned as distinct errors so the fallback
// decorator can tell "missing" apart from "unreachable".
var ErrNotFound = errors.New("record not found")

// BattleUpdate is a partial update applied to a battle. Nil fields are
// left untouched.
type BattleUpdate struct {
	UserSolution *string
	AISolution   *string
	UserScore    *int
	AIScore      *int
	UserWon      *bool
	Completed    *bool
}

// Store is the persistence contract for users, battles, scores and
// leaderboard standings.
type Store interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error

	GetBattle(ctx context.Context, id uuid.UUID) (*models.Battle, error)
	CreateBattle(ctx context.Context, battle *models.Battle) error
	UpdateBattle(ctx context.Context, id uuid.UUID, update BattleUpdate) (*models.Battle, error)

	GetScoreByBattleID(ctx context.Context, battleID uuid.UUID) (*models.Score, error)
	CreateScore(ctx context.Context, score *models.Score) error

	// ListLeaderboard returns all entries ordered by win rate descending,
	// ties broken by average score descending.
	ListLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error)

	// UpsertLeaderboardEntry records one completed battle for a user as a
	// single atomic read-modify-write: totals and win rate are recomputed,
	// and the average score folds in totalScore as a running mean.
	UpsertLeaderboardEntry(ctx context.Context, username string, userID uuid.UUID, isWin bool, totalScore int) error
}
