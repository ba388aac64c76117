package judge

import (
	"context"
	"log/slog"
	"time"
)

// Failsafe makes a remote backend total: each call is attempted a bounded
// number of times with a per-attempt timeout, and once the attempts are
// exhausted the result comes from the synthetic provider instead. A stalled
// evaluation would leave a battle stuck in the submitted state forever, so
// no failure is ever propagated to the caller.
type Failsafe struct {
	backend    Provider
	offline    *Offline
	maxRetries int
	timeout    time.Duration
}

func NewFailsafe(backend Provider, offline *Offline, maxRetries int, timeout time.Duration) *Failsafe {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Failsafe{
		backend:    backend,
		offline:    offline,
		maxRetries: maxRetries,
		timeout:    timeout,
	}
}

var _ Provider = (*Failsafe)(nil)

func (f *Failsafe) GeneratePrompt(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, f.timeout)
		prompt, err := f.backend.GeneratePrompt(attemptCtx)
		cancel()
		if err == nil {
			return prompt, nil
		}
		slog.Warn("Judge backend unavailable",
			"op", "generate_prompt",
			"attempt", attempt,
			"error", err,
		)
	}
	return f.offline.GeneratePrompt(ctx)
}

// GenerateOpponentSolution returns the failure sentinel once the backend is
// exhausted. The orchestrator recognizes the sentinel and applies the
// forfeit evaluation instead of judging.
func (f *Failsafe) GenerateOpponentSolution(ctx context.Context, prompt string) (string, error) {
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, f.timeout)
		solution, err := f.backend.GenerateOpponentSolution(attemptCtx, prompt)
		cancel()
		if err == nil {
			return solution, nil
		}
		slog.Warn("Judge backend unavailable",
			"op", "generate_opponent_solution",
			"attempt", attempt,
			"error", err,
		)
	}
	return FailureSentinel, nil
}

func (f *Failsafe) Evaluate(ctx context.Context, prompt, userSolution, opponentSolution string) (*Evaluation, error) {
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, f.timeout)
		eval, err := f.backend.Evaluate(attemptCtx, prompt, userSolution, opponentSolution)
		cancel()
		if err == nil {
			return eval, nil
		}
		slog.Warn("Judge backend unavailable",
			"op", "evaluate",
			"attempt", attempt,
			"error", err,
		)
	}
	return f.offline.Evaluate(ctx, prompt, userSolution, opponentSolution)
}
