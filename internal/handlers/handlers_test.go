package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptclash/backend/internal/judge"
	"github.com/promptclash/backend/internal/middleware"
	"github.com/promptclash/backend/internal/models"
	"github.com/promptclash/backend/internal/services"
	"github.com/promptclash/backend/internal/storage"
)

// fixedJudge is a deterministic provider for round-trip tests.
type fixedJudge struct{}

func (fixedJudge) GeneratePrompt(ctx context.Context) (string, error) {
	return "Invent a sport for zero gravity", nil
}

func (fixedJudge) GenerateOpponentSolution(ctx context.Context, prompt string) (string, error) {
	return "A plausible opponent entry.", nil
}

func (fixedJudge) Evaluate(ctx context.Context, prompt, userSolution, opponentSolution string) (*judge.Evaluation, error) {
	return &judge.Evaluation{
		UserScore: judge.SideScore{
			Originality: 85, Logic: 80, Expression: 78, Total: 243,
			OriginalityFeedback: "fresh", LogicFeedback: "sound", ExpressionFeedback: "vivid",
		},
		AIScore: judge.SideScore{
			Originality: 60, Logic: 55, Expression: 58, Total: 173,
			OriginalityFeedback: "stock", LogicFeedback: "loose", ExpressionFeedback: "flat",
		},
		JudgeFeedback: "clear win",
		Winner:        judge.WinnerUser,
	}, nil
}

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	store := storage.NewMemoryStore()
	users := services.NewUserService(store)
	leaderboard := services.NewLeaderboardService(store, nil)
	battles := services.NewBattleService(store, fixedJudge{}, users, leaderboard)

	submitLimiter := middleware.NewRateLimiter(1000, 1000)
	t.Cleanup(submitLimiter.Close)

	r := chi.NewRouter()
	r.Mount("/users", NewUserHandler(users).Routes())
	r.Mount("/battles", NewBattleHandler(battles).Routes(submitLimiter))
	r.Mount("/leaderboard", NewLeaderboardHandler(leaderboard).Routes())
	return r
}

func doJSON(t *testing.T, router chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestGetOrCreateUserEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/users", map[string]string{"username": "alice"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[models.User](t, rec)
	assert.Equal(t, "alice", created.Username)
	assert.NotContains(t, rec.Body.String(), "password", "the hash must never leave the server")

	rec = doJSON(t, router, http.MethodPost, "/users", map[string]string{"username": "alice"})
	require.Equal(t, http.StatusOK, rec.Code)
	existing := decode[models.User](t, rec)
	assert.Equal(t, created.ID, existing.ID)
}

func TestGetOrCreateUserRejectsBadInput(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/users", map[string]string{"username": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBattleLifecycleEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/battles", map[string]string{
		"opponentType": "ai",
		"username":     "alice",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	battle := decode[models.Battle](t, rec)
	assert.Equal(t, "Invent a sport for zero gravity", battle.Prompt)
	assert.False(t, battle.Completed)

	rec = doJSON(t, router, http.MethodGet, "/battles/"+battle.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Results before completion
	rec = doJSON(t, router, http.MethodGet, "/battles/"+battle.ID.String()+"/results", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/battles/"+battle.ID.String()+"/submit", map[string]any{
		"solution": "a solution comfortably over the minimum",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success": true}`, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/battles/"+battle.ID.String()+"/results", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	results := decode[models.BattleResults](t, rec)
	assert.True(t, results.Battle.Completed)
	assert.Equal(t, 243, *results.Battle.UserScore)
	assert.Equal(t, 85, results.Scores.UserOriginality)
	assert.Equal(t, "clear win", results.Scores.JudgeFeedback)
}

func TestBattleEndpointErrors(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/battles/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	missing := "00000000-0000-0000-0000-000000000001"
	rec = doJSON(t, router, http.MethodGet, "/battles/"+missing, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/battles/"+missing+"/submit", map[string]any{
		"solution": "a solution comfortably over the minimum",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/battles", map[string]string{"opponentType": "alien"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitSolutionEndpointRejections(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/battles", map[string]string{"username": "alice"})
	require.Equal(t, http.StatusCreated, rec.Code)
	battle := decode[models.Battle](t, rec)
	submitPath := "/battles/" + battle.ID.String() + "/submit"

	rec = doJSON(t, router, http.MethodPost, submitPath, map[string]any{"solution": "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "too short")

	rec = doJSON(t, router, http.MethodPost, submitPath, map[string]any{
		"solution": "a solution comfortably over the minimum",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, submitPath, map[string]any{
		"solution": "another valid solution for the retry",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already completed")
}

func TestLeaderboardEndpoint(t *testing.T) {
	router := newTestRouter(t)

	// Complete one battle each for two users.
	for _, username := range []string{"alice", "bob"} {
		rec := doJSON(t, router, http.MethodPost, "/battles", map[string]string{"username": username})
		require.Equal(t, http.StatusCreated, rec.Code)
		battle := decode[models.Battle](t, rec)

		rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/battles/%s/submit", battle.ID), map[string]any{
			"solution": "a solution comfortably over the minimum",
		})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/leaderboard/all?username=bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	entries := decode[[]models.LeaderboardEntry](t, rec)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Equal(t, 1, entry.TotalBattles)
		assert.Equal(t, 100, entry.WinRate)
		assert.Equal(t, entry.Username == "bob", entry.IsCurrentUser)
	}
}
