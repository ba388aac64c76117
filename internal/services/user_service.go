package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/promptclash/backend/internal/auth"
	"github.com/promptclash/backend/internal/models"
	"github.com/promptclash/backend/internal/storage"
)

const (
	maxUsernameLen = 30

	// Players never set a real password; every account is created with
	// this default so the row shape matches a future authenticated mode.
	defaultGuestPassword = "guest"
)

type UserService struct {
	store storage.Store
}

func NewUserService(store storage.Store) *UserService {
	return &UserService{store: store}
}

// NormalizeUsername trims surrounding whitespace and caps the name at the
// maximum length.
func NormalizeUsername(username string) string {
	trimmed := strings.TrimSpace(username)
	runes := []rune(trimmed)
	if len(runes) > maxUsernameLen {
		return string(runes[:maxUsernameLen])
	}
	return trimmed
}

// GetOrCreate returns the user with the given (normalized) username,
// creating it on first sight. The second return value reports whether a new
// user was created.
func (s *UserService) GetOrCreate(ctx context.Context, username string) (*models.User, bool, error) {
	normalized := NormalizeUsername(username)
	if normalized == "" {
		return nil, false, fmt.Errorf("username must not be empty")
	}

	existing, err := s.store.GetUserByUsername(ctx, normalized)
	if err == nil {
		return existing, false, nil
	}
	if err != storage.ErrNotFound {
		return nil, false, fmt.Errorf("failed to look up user: %w", err)
	}

	user, err := s.create(ctx, normalized)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// Resolve picks the battle owner: a usable username is looked up or created,
// anything else gets a fresh guest account with a generated unique name.
func (s *UserService) Resolve(ctx context.Context, username string) (*models.User, error) {
	normalized := NormalizeUsername(username)
	if normalized == "" || normalized == "Guest" {
		return s.CreateGuest(ctx)
	}

	user, created, err := s.GetOrCreate(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if created {
		slog.Info("Created new user", "username", user.Username, "user_id", user.ID)
	} else {
		slog.Info("Using existing user", "username", user.Username, "user_id", user.ID)
	}
	return user, nil
}

// CreateGuest creates an anonymous user named after the last six digits of
// the wall clock, retrying on the unlikely collision.
func (s *UserService) CreateGuest(ctx context.Context) (*models.User, error) {
	for attempt := 0; attempt < 3; attempt++ {
		name := fmt.Sprintf("Guest_%06d", time.Now().UnixMilli()%1_000_000)
		if _, err := s.store.GetUserByUsername(ctx, name); err == nil {
			time.Sleep(time.Millisecond)
			continue
		}

		user, err := s.create(ctx, name)
		if err != nil {
			return nil, err
		}
		slog.Info("Created anonymous user", "username", user.Username, "user_id", user.ID)
		return user, nil
	}
	return nil, fmt.Errorf("failed to allocate a guest username")
}

func (s *UserService) create(ctx context.Context, username string) (*models.User, error) {
	hash, err := auth.HashPassword(defaultGuestPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash guest password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}
