package models

import (
	"time"

	"github.com/google/uuid"
)

// LeaderboardEntry accumulates one user's standing. It is updated additively
// after every completed battle: TotalBattles always equals the number of
// completed battles recorded for the user.
type LeaderboardEntry struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID       uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	Username     string    `json:"username" gorm:"not null;size:30"`
	TotalBattles int       `json:"total_battles" gorm:"not null;default:0"`
	Wins         int       `json:"wins" gorm:"not null;default:0"`
	WinRate      int       `json:"win_rate" gorm:"not null;default:0"`
	AvgScore     int       `json:"avg_score" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Set per request when the caller identifies themselves; never persisted.
	IsCurrentUser bool `json:"is_current_user" gorm:"-"`
}
