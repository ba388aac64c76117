package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptclash/backend/internal/models"
)

func TestValidateCreateUserRequest(t *testing.T) {
	assert.NoError(t, Validate(&models.CreateUserRequest{Username: "alice"}))

	err := Validate(&models.CreateUserRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username is required")
}

func TestValidateCreateBattleRequest(t *testing.T) {
	assert.NoError(t, Validate(&models.CreateBattleRequest{}))
	assert.NoError(t, Validate(&models.CreateBattleRequest{OpponentType: "ai"}))
	assert.NoError(t, Validate(&models.CreateBattleRequest{OpponentType: "human", Username: "bob"}))

	err := Validate(&models.CreateBattleRequest{OpponentType: "alien"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opponentType must be one of")
}

func TestValidateSubmitSolutionRequest(t *testing.T) {
	assert.NoError(t, Validate(&models.SubmitSolutionRequest{Solution: "x"}))

	err := Validate(&models.SubmitSolutionRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "solution is required")
}
