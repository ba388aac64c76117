package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/promptclash/backend/internal/middleware"
	"github.com/promptclash/backend/internal/models"
	"github.com/promptclash/backend/internal/services"
	"github.com/promptclash/backend/internal/storage"
	"github.com/promptclash/backend/internal/validation"
)

type BattleHandler struct {
	battles *services.BattleService
}

func NewBattleHandler(battles *services.BattleService) *BattleHandler {
	return &BattleHandler{
		battles: battles,
	}
}

// Routes wires the battle endpoints. The submission endpoint gets its own
// stricter rate limiter because it fans out to the judge backend.
func (h *BattleHandler) Routes(submitLimiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateBattle)
	r.Get("/{id}", h.GetBattle)
	r.With(submitLimiter.RateLimit).Post("/{id}/submit", h.SubmitSolution)
	r.Get("/{id}/results", h.GetResults)

	return r
}

func (h *BattleHandler) CreateBattle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBattleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := validation.Validate(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	battle, err := h.battles.CreateBattle(r.Context(), models.OpponentType(req.OpponentType), req.Username)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to create battle")
		return
	}

	writeJSONResponse(w, http.StatusCreated, battle)
}

func (h *BattleHandler) GetBattle(w http.ResponseWriter, r *http.Request) {
	battleID, ok := parseBattleID(w, r)
	if !ok {
		return
	}

	battle, err := h.battles.GetBattle(r.Context(), battleID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeErrorResponse(w, http.StatusNotFound, "Battle not found")
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to get battle")
		return
	}

	writeJSONResponse(w, http.StatusOK, battle)
}

func (h *BattleHandler) SubmitSolution(w http.ResponseWriter, r *http.Request) {
	battleID, ok := parseBattleID(w, r)
	if !ok {
		return
	}

	var req models.SubmitSolutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := validation.Validate(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.battles.SubmitSolution(r.Context(), battleID, req.Solution, req.IsAutoSubmit)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			writeErrorResponse(w, http.StatusNotFound, "Battle not found")
		case errors.Is(err, services.ErrAlreadyCompleted):
			writeErrorResponse(w, http.StatusBadRequest, "Battle already completed")
		case errors.Is(err, services.ErrSolutionTooShort):
			writeErrorResponse(w, http.StatusBadRequest, "Solution is too short. Please provide a more substantial response.")
		default:
			writeErrorResponse(w, http.StatusInternalServerError, "Failed to submit solution")
		}
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *BattleHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	battleID, ok := parseBattleID(w, r)
	if !ok {
		return
	}

	results, err := h.battles.GetResults(r.Context(), battleID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotCompleted):
			writeErrorResponse(w, http.StatusBadRequest, "Battle not yet completed")
		case errors.Is(err, storage.ErrNotFound):
			writeErrorResponse(w, http.StatusNotFound, "Battle results not found")
		default:
			writeErrorResponse(w, http.StatusInternalServerError, "Failed to get battle results")
		}
		return
	}

	writeJSONResponse(w, http.StatusOK, results)
}

func parseBattleID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	battleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid battle ID")
		return uuid.Nil, false
	}
	return battleID, true
}
