package judge

import (
	"context"
	"log/slog"
	"time"

	"github.com/promptclash/backend/internal/config"
)

// FailureSentinel is the exact opponent text returned when the backing judge
// cannot produce a solution. It is a protocol contract, not incidental prose:
// the battle orchestrator matches on it to apply the forfeit evaluation.
const FailureSentinel = "The AI was unable to generate a solution at this time due to technical difficulties. According to the rules, when AI fails to generate a response, the user automatically wins this round."

const (
	WinnerUser = "user"
	WinnerAI   = "ai"
)

// SideScore is one contestant's evaluation across the three criteria.
// Total is always the sum of the three category scores.
type SideScore struct {
	Originality         int    `json:"originality"`
	Logic               int    `json:"logic"`
	Expression          int    `json:"expression"`
	OriginalityFeedback string `json:"originalityFeedback"`
	LogicFeedback       string `json:"logicFeedback"`
	ExpressionFeedback  string `json:"expressionFeedback"`
	Total               int    `json:"total"`
}

// Evaluation is the judge's verdict on one battle.
type Evaluation struct {
	UserScore     SideScore `json:"userScore"`
	AIScore       SideScore `json:"aiScore"`
	JudgeFeedback string    `json:"judgeFeedback"`
	Winner        string    `json:"winner"`
}

// Provider produces prompts, opponent solutions and evaluations. Backend
// implementations may fail; the provider handed to the orchestrator is
// always wrapped so that every call succeeds (see Failsafe and Offline).
type Provider interface {
	GeneratePrompt(ctx context.Context) (string, error)
	GenerateOpponentSolution(ctx context.Context, prompt string) (string, error)
	Evaluate(ctx context.Context, prompt, userSolution, opponentSolution string) (*Evaluation, error)
}

// ForfeitEvaluation is the fixed verdict applied when the opponent failed to
// produce a solution: the user wins 240 to 70 regardless of content.
func ForfeitEvaluation() *Evaluation {
	return &Evaluation{
		UserScore: SideScore{
			Originality:         80,
			Logic:               85,
			Expression:          75,
			OriginalityFeedback: "The user's solution shows creativity and novel thinking.",
			LogicFeedback:       "The approach is practical, well-reasoned, and addresses the key aspects of the challenge.",
			ExpressionFeedback:  "The solution is clearly articulated and engaging.",
			Total:               240,
		},
		AIScore: SideScore{
			Originality:         30,
			Logic:               25,
			Expression:          15,
			OriginalityFeedback: "The AI was unable to provide a solution due to technical difficulties.",
			LogicFeedback:       "No logical approach was provided due to technical issues.",
			ExpressionFeedback:  "No proper expression due to technical failure.",
			Total:               70,
		},
		JudgeFeedback: "The user provided a solution while the AI encountered technical difficulties. The user automatically wins this round.",
		Winner:        WinnerUser,
	}
}

// New selects a provider from configuration: offline mode or a missing API
// key yields the synthetic provider, otherwise the configured backend wrapped
// in a Failsafe so judging failures never reach the caller.
func New(cfg *config.Config) Provider {
	if cfg.OfflineMode || cfg.JudgeAPIKey == "" {
		slog.Info("Judge running in offline mode",
			"offline_mode", cfg.OfflineMode,
			"api_key_present", cfg.JudgeAPIKey != "",
		)
		return NewOffline(time.Now().UnixNano())
	}

	var backend Provider
	switch cfg.JudgeBackend {
	case "openai":
		backend = NewOpenAIClient(cfg)
	default:
		backend = NewPerplexityClient(cfg)
	}

	slog.Info("Judge using remote backend", "backend", cfg.JudgeBackend)
	return NewFailsafe(backend, NewOffline(time.Now().UnixNano()), cfg.JudgeMaxRetries, cfg.JudgeTimeout)
}
