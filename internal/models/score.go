package models

import (
	"time"

	"github.com/google/uuid"
)

// Score holds the per-category breakdown for a completed battle.
// Exactly one row exists per completed battle.
type Score struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BattleID uuid.UUID `json:"battle_id" gorm:"type:uuid;not null;uniqueIndex"`
	Battle   Battle    `json:"-" gorm:"foreignKey:BattleID;constraint:OnDelete:CASCADE"`

	UserOriginality int `json:"user_originality" gorm:"not null"`
	UserLogic       int `json:"user_logic" gorm:"not null"`
	UserExpression  int `json:"user_expression" gorm:"not null"`
	AIOriginality   int `json:"ai_originality" gorm:"not null"`
	AILogic         int `json:"ai_logic" gorm:"not null"`
	AIExpression    int `json:"ai_expression" gorm:"not null"`

	JudgeFeedback           string `json:"judge_feedback"`
	UserOriginalityFeedback string `json:"user_originality_feedback"`
	UserLogicFeedback       string `json:"user_logic_feedback"`
	UserExpressionFeedback  string `json:"user_expression_feedback"`
	AIOriginalityFeedback   string `json:"ai_originality_feedback"`
	AILogicFeedback         string `json:"ai_logic_feedback"`
	AIExpressionFeedback    string `json:"ai_expression_feedback"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
