package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/promptclash/backend/internal/judge"
	"github.com/promptclash/backend/internal/models"
	"github.com/promptclash/backend/internal/storage"
)

const (
	// RoundDuration is the fixed length of a battle round. The timer is
	// driven client-side; the server guarantees the round can always
	// finish via auto-submission.
	RoundDuration = 180 * time.Second

	// MinSubmitElapsed is the earliest point in the round at which a
	// manual submission is expected. The client enforces it; the server
	// only records early arrivals.
	MinSubmitElapsed = 120 * time.Second

	// Manual submissions below this trimmed length are rejected.
	// Auto-submissions bypass the minimum so an expired timer can always
	// close the battle.
	minManualSolutionLen = 10
)

// BattleService drives a battle through its lifecycle: open on creation,
// submitted once the user's solution is stored, evaluated (terminal) once
// the opponent solution and scores are persisted.
type BattleService struct {
	store       storage.Store
	judge       judge.Provider
	users       *UserService
	leaderboard *LeaderboardService

	mu    sync.Mutex
	locks map[uuid.UUID]*battleLock
}

type battleLock struct {
	mu   sync.Mutex
	refs int
}

func NewBattleService(store storage.Store, provider judge.Provider, users *UserService, leaderboard *LeaderboardService) *BattleService {
	return &BattleService{
		store:       store,
		judge:       provider,
		users:       users,
		leaderboard: leaderboard,
		locks:       make(map[uuid.UUID]*battleLock),
	}
}

// lockBattle serializes operations on a single battle id. Concurrent
// submissions for the same battle (client retries) are forced to run one
// after another so the second observes the completed state.
func (s *BattleService) lockBattle(id uuid.UUID) func() {
	s.mu.Lock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &battleLock{}
		s.locks[id] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		s.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}

// CreateBattle resolves the battle owner, asks the judge for a prompt and
// persists the battle in the open state.
func (s *BattleService) CreateBattle(ctx context.Context, opponentType models.OpponentType, username string) (*models.Battle, error) {
	if opponentType == "" {
		opponentType = models.OpponentAI
	}

	user, err := s.users.Resolve(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve battle owner: %w", err)
	}

	prompt, err := s.judge.GeneratePrompt(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate prompt: %w", err)
	}

	battle := &models.Battle{
		Prompt:       prompt,
		UserID:       user.ID,
		OpponentType: opponentType,
	}
	if err := s.store.CreateBattle(ctx, battle); err != nil {
		return nil, fmt.Errorf("failed to create battle: %w", err)
	}

	slog.Info("Battle created",
		"battle_id", battle.ID,
		"user_id", user.ID,
		"opponent_type", opponentType,
	)
	return battle, nil
}

// SubmitSolution runs the whole back half of the battle lifecycle: it stores
// the user's solution, obtains an opponent solution and an evaluation,
// persists the outcome and records it on the leaderboard. Once the battle is
// completed a second submit is rejected with ErrAlreadyCompleted; a retry of
// a submitted-but-unevaluated battle resumes with the stored solution.
func (s *BattleService) SubmitSolution(ctx context.Context, battleID uuid.UUID, solution string, isAutoSubmit bool) error {
	// The outcome must be persisted even if the client disconnects
	// mid-request, otherwise a battle could be stranded half-updated.
	ctx = context.WithoutCancel(ctx)

	unlock := s.lockBattle(battleID)
	defer unlock()

	battle, err := s.store.GetBattle(ctx, battleID)
	if err != nil {
		return err
	}

	if battle.Completed {
		return ErrAlreadyCompleted
	}

	if !isAutoSubmit && len(strings.TrimSpace(solution)) < minManualSolutionLen {
		return ErrSolutionTooShort
	}

	if elapsed := time.Since(battle.CreatedAt); !isAutoSubmit && elapsed < MinSubmitElapsed {
		slog.Debug("Manual submission before minimum elapsed time",
			"battle_id", battleID,
			"elapsed", elapsed,
		)
	}

	if battle.UserSolution != nil {
		// A previous submit got as far as storing the solution but
		// never completed; resume with what was stored rather than
		// overwriting it.
		solution = *battle.UserSolution
		slog.Info("Resuming interrupted submission", "battle_id", battleID)
	} else {
		if _, err := s.store.UpdateBattle(ctx, battleID, storage.BattleUpdate{
			UserSolution: &solution,
		}); err != nil {
			return fmt.Errorf("failed to store user solution: %w", err)
		}
	}

	opponentSolution, err := s.judge.GenerateOpponentSolution(ctx, battle.Prompt)
	if err != nil {
		// The provider is total in practice; treat a failure like a
		// forfeit rather than stranding the battle.
		slog.Warn("Opponent generation failed, applying forfeit", "battle_id", battleID, "error", err)
		opponentSolution = judge.FailureSentinel
	}

	var evaluation *judge.Evaluation
	if opponentSolution == judge.FailureSentinel {
		slog.Info("Opponent failed to produce a solution, user wins by forfeit", "battle_id", battleID)
		evaluation = judge.ForfeitEvaluation()
	} else {
		evaluation, err = s.judge.Evaluate(ctx, battle.Prompt, solution, opponentSolution)
		if err != nil {
			return fmt.Errorf("failed to evaluate battle: %w", err)
		}
	}

	userWon := evaluation.Winner == judge.WinnerUser
	completed := true
	if _, err := s.store.UpdateBattle(ctx, battleID, storage.BattleUpdate{
		AISolution: &opponentSolution,
		UserScore:  &evaluation.UserScore.Total,
		AIScore:    &evaluation.AIScore.Total,
		UserWon:    &userWon,
		Completed:  &completed,
	}); err != nil {
		return fmt.Errorf("failed to complete battle: %w", err)
	}

	score := &models.Score{
		BattleID:                battleID,
		UserOriginality:         evaluation.UserScore.Originality,
		UserLogic:               evaluation.UserScore.Logic,
		UserExpression:          evaluation.UserScore.Expression,
		AIOriginality:           evaluation.AIScore.Originality,
		AILogic:                 evaluation.AIScore.Logic,
		AIExpression:            evaluation.AIScore.Expression,
		JudgeFeedback:           evaluation.JudgeFeedback,
		UserOriginalityFeedback: evaluation.UserScore.OriginalityFeedback,
		UserLogicFeedback:       evaluation.UserScore.LogicFeedback,
		UserExpressionFeedback:  evaluation.UserScore.ExpressionFeedback,
		AIOriginalityFeedback:   evaluation.AIScore.OriginalityFeedback,
		AILogicFeedback:         evaluation.AIScore.LogicFeedback,
		AIExpressionFeedback:    evaluation.AIScore.ExpressionFeedback,
	}
	if err := s.store.CreateScore(ctx, score); err != nil {
		return fmt.Errorf("failed to create score: %w", err)
	}

	user, err := s.store.GetUser(ctx, battle.UserID)
	if err != nil {
		slog.Warn("Battle owner missing, skipping leaderboard update",
			"battle_id", battleID,
			"user_id", battle.UserID,
			"error", err,
		)
		return nil
	}

	if err := s.leaderboard.RecordOutcome(ctx, user.Username, user.ID, userWon, evaluation.UserScore.Total); err != nil {
		slog.Warn("Failed to update leaderboard", "battle_id", battleID, "error", err)
	}

	slog.Info("Battle completed",
		"battle_id", battleID,
		"user_won", userWon,
		"user_score", evaluation.UserScore.Total,
		"ai_score", evaluation.AIScore.Total,
	)
	return nil
}

// GetBattle fetches a battle by id.
func (s *BattleService) GetBattle(ctx context.Context, id uuid.UUID) (*models.Battle, error) {
	return s.store.GetBattle(ctx, id)
}

// GetResults returns a completed battle with its score breakdown.
func (s *BattleService) GetResults(ctx context.Context, id uuid.UUID) (*models.BattleResults, error) {
	battle, err := s.store.GetBattle(ctx, id)
	if err != nil {
		return nil, err
	}

	if !battle.Completed {
		return nil, ErrNotCompleted
	}

	score, err := s.store.GetScoreByBattleID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.BattleResults{
		Battle: *battle,
		Scores: *score,
	}, nil
}
