package models

import (
	"time"

	"github.com/google/uuid"
)

// OpponentType distinguishes AI battles from human-vs-human battles.
// Human battles are tracked as a data tag only; matchmaking is out of scope.
type OpponentType string

const (
	OpponentAI    OpponentType = "ai"
	OpponentHuman OpponentType = "human"
)

// Battle is one round of the creative challenge. It moves through three
// states: open (no solution yet), submitted (user solution persisted) and
// evaluated (scores set, Completed=true). Completed never reverts.
type Battle struct {
	ID           uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Prompt       string       `json:"prompt" gorm:"not null"`
	UserID       uuid.UUID    `json:"user_id" gorm:"type:uuid;not null;index"`
	User         User         `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	OpponentType OpponentType `json:"opponent_type" gorm:"type:varchar(10);not null;default:'ai'"`
	UserSolution *string      `json:"user_solution"`
	AISolution   *string      `json:"ai_solution"`
	UserScore    *int         `json:"user_score"`
	AIScore      *int         `json:"ai_score"`
	UserWon      *bool        `json:"user_won"`
	Completed    bool         `json:"completed" gorm:"not null;default:false"`
	CreatedAt    time.Time    `json:"created_at" gorm:"autoCreateTime"`
}

type CreateBattleRequest struct {
	OpponentType string `json:"opponentType" validate:"omitempty,oneof=ai human"`
	Username     string `json:"username" validate:"omitempty,max=64"`
}

type SubmitSolutionRequest struct {
	Solution     string `json:"solution" validate:"required,min=1"`
	IsAutoSubmit bool   `json:"isAutoSubmit"`
}

// BattleResults pairs a completed battle with its score breakdown.
type BattleResults struct {
	Battle Battle `json:"battle"`
	Scores Score  `json:"scores"`
}
