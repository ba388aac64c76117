package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/promptclash/backend/internal/services"
)

type LeaderboardHandler struct {
	leaderboard *services.LeaderboardService
}

func NewLeaderboardHandler(leaderboard *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboard: leaderboard,
	}
}

func (h *LeaderboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{period}", h.GetLeaderboard)

	return r
}

func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	period := chi.URLParam(r, "period")
	username := r.URL.Query().Get("username")

	entries, err := h.leaderboard.List(r.Context(), period, username)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to get leaderboard")
		return
	}

	writeJSONResponse(w, http.StatusOK, entries)
}
