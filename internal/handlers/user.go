package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/promptclash/backend/internal/models"
	"github.com/promptclash/backend/internal/services"
	"github.com/promptclash/backend/internal/validation"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{
		users: users,
	}
}

func (h *UserHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.GetOrCreateUser)

	return r
}

// GetOrCreateUser returns the user with the requested username, creating it
// on first sight. 200 for an existing user, 201 for a new one.
func (h *UserHandler) GetOrCreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate request
	if err := validation.Validate(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	user, created, err := h.users.GetOrCreate(r.Context(), req.Username)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to get or create user")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSONResponse(w, status, user)
}

// Helper functions
func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	writeJSONResponse(w, statusCode, map[string]string{
		"message": message,
	})
}
