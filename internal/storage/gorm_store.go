package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/promptclash/backend/internal/database"
	"github.com/promptclash/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is the durable Store implementation backed by Postgres.
type GormStore struct {
	db *database.DB
}

func NewGormStore(db *database.DB) *GormStore {
	return &GormStore{db: db}
}

var _ Store = (*GormStore)(nil)

func (s *GormStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if database.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		if database.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if database.IsUniqueConstraintError(err) {
			// Lost a race against a concurrent create for the same
			// username; the existing row wins.
			existing, lookupErr := s.GetUserByUsername(ctx, user.Username)
			if lookupErr == nil {
				*user = *existing
				return nil
			}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *GormStore) GetBattle(ctx context.Context, id uuid.UUID) (*models.Battle, error) {
	var battle models.Battle
	if err := s.db.WithContext(ctx).First(&battle, "id = ?", id).Error; err != nil {
		if database.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get battle: %w", err)
	}
	return &battle, nil
}

func (s *GormStore) CreateBattle(ctx context.Context, battle *models.Battle) error {
	if err := s.db.WithContext(ctx).Create(battle).Error; err != nil {
		return fmt.Errorf("failed to create battle: %w", err)
	}
	return nil
}

func (s *GormStore) UpdateBattle(ctx context.Context, id uuid.UUID, update BattleUpdate) (*models.Battle, error) {
	updates := map[string]interface{}{}
	if update.UserSolution != nil {
		updates["user_solution"] = *update.UserSolution
	}
	if update.AISolution != nil {
		updates["ai_solution"] = *update.AISolution
	}
	if update.UserScore != nil {
		updates["user_score"] = *update.UserScore
	}
	if update.AIScore != nil {
		updates["ai_score"] = *update.AIScore
	}
	if update.UserWon != nil {
		updates["user_won"] = *update.UserWon
	}
	if update.Completed != nil {
		updates["completed"] = *update.Completed
	}

	if len(updates) > 0 {
		result := s.db.WithContext(ctx).Model(&models.Battle{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to update battle: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}

	return s.GetBattle(ctx, id)
}

func (s *GormStore) GetScoreByBattleID(ctx context.Context, battleID uuid.UUID) (*models.Score, error) {
	var score models.Score
	if err := s.db.WithContext(ctx).First(&score, "battle_id = ?", battleID).Error; err != nil {
		if database.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get score: %w", err)
	}
	return &score, nil
}

func (s *GormStore) CreateScore(ctx context.Context, score *models.Score) error {
	if err := s.db.WithContext(ctx).Create(score).Error; err != nil {
		return fmt.Errorf("failed to create score: %w", err)
	}
	return nil
}

func (s *GormStore) ListLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	err := s.db.WithContext(ctx).
		Order("win_rate DESC").
		Order("avg_score DESC").
		Order("username ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list leaderboard: %w", err)
	}
	return entries, nil
}

func (s *GormStore) UpsertLeaderboardEntry(ctx context.Context, username string, userID uuid.UUID, isWin bool, totalScore int) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry models.LeaderboardEntry
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&entry, "user_id = ?", userID).Error
		if err != nil && !database.IsNotFoundError(err) {
			return err
		}

		if database.IsNotFoundError(err) {
			entry = models.LeaderboardEntry{
				UserID:   userID,
				Username: username,
			}
			applyOutcome(&entry, isWin, totalScore)
			return tx.Create(&entry).Error
		}

		applyOutcome(&entry, isWin, totalScore)
		return tx.Model(&entry).Updates(map[string]interface{}{
			"total_battles": entry.TotalBattles,
			"wins":          entry.Wins,
			"win_rate":      entry.WinRate,
			"avg_score":     entry.AvgScore,
		}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to upsert leaderboard entry: %w", err)
	}
	return nil
}
