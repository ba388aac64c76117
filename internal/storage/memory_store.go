package storage

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/promptclash/backend/internal/models"
)

// MemoryStore is the volatile Store implementation. It backs the server when
// no database is configured and absorbs writes while the durable store is
// degraded. Contents do not survive a restart.
type MemoryStore struct {
	mu sync.RWMutex

	users           map[uuid.UUID]*models.User
	usersByName     map[string]*models.User
	battles         map[uuid.UUID]*models.Battle
	scoresByBattle  map[uuid.UUID]*models.Score
	leaderboard     map[uuid.UUID]*models.LeaderboardEntry // keyed by user id
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:          make(map[uuid.UUID]*models.User),
		usersByName:    make(map[string]*models.User),
		battles:        make(map[uuid.UUID]*models.Battle),
		scoresByBattle: make(map[uuid.UUID]*models.Score),
		leaderboard:    make(map[uuid.UUID]*models.LeaderboardEntry),
	}
}

var _ Store = (*MemoryStore)(nil)

func (m *MemoryStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.usersByName[username]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	copied := *user
	m.users[copied.ID] = &copied
	m.usersByName[copied.Username] = &copied
	return nil
}

func (m *MemoryStore) GetBattle(ctx context.Context, id uuid.UUID) (*models.Battle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	battle, ok := m.battles[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *battle
	return &copied, nil
}

func (m *MemoryStore) CreateBattle(ctx context.Context, battle *models.Battle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if battle.ID == uuid.Nil {
		battle.ID = uuid.New()
	}
	if battle.CreatedAt.IsZero() {
		battle.CreatedAt = time.Now().UTC()
	}

	copied := *battle
	m.battles[copied.ID] = &copied
	return nil
}

func (m *MemoryStore) UpdateBattle(ctx context.Context, id uuid.UUID, update BattleUpdate) (*models.Battle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	battle, ok := m.battles[id]
	if !ok {
		return nil, ErrNotFound
	}

	if update.UserSolution != nil {
		battle.UserSolution = update.UserSolution
	}
	if update.AISolution != nil {
		battle.AISolution = update.AISolution
	}
	if update.UserScore != nil {
		battle.UserScore = update.UserScore
	}
	if update.AIScore != nil {
		battle.AIScore = update.AIScore
	}
	if update.UserWon != nil {
		battle.UserWon = update.UserWon
	}
	if update.Completed != nil {
		battle.Completed = *update.Completed
	}

	copied := *battle
	return &copied, nil
}

func (m *MemoryStore) GetScoreByBattleID(ctx context.Context, battleID uuid.UUID) (*models.Score, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	score, ok := m.scoresByBattle[battleID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *score
	return &copied, nil
}

func (m *MemoryStore) CreateScore(ctx context.Context, score *models.Score) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if score.ID == uuid.Nil {
		score.ID = uuid.New()
	}
	if score.CreatedAt.IsZero() {
		score.CreatedAt = time.Now().UTC()
	}

	copied := *score
	m.scoresByBattle[copied.BattleID] = &copied
	return nil
}

func (m *MemoryStore) ListLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]models.LeaderboardEntry, 0, len(m.leaderboard))
	for _, entry := range m.leaderboard {
		entries = append(entries, *entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].WinRate != entries[j].WinRate {
			return entries[i].WinRate > entries[j].WinRate
		}
		if entries[i].AvgScore != entries[j].AvgScore {
			return entries[i].AvgScore > entries[j].AvgScore
		}
		return entries[i].Username < entries[j].Username
	})

	return entries, nil
}

func (m *MemoryStore) UpsertLeaderboardEntry(ctx context.Context, username string, userID uuid.UUID, isWin bool, totalScore int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.leaderboard[userID]
	if !ok {
		entry = &models.LeaderboardEntry{
			ID:        uuid.New(),
			UserID:    userID,
			Username:  username,
			CreatedAt: time.Now().UTC(),
		}
		m.leaderboard[userID] = entry
	}

	applyOutcome(entry, isWin, totalScore)
	entry.UpdatedAt = time.Now().UTC()
	return nil
}

// applyOutcome folds one completed battle into an entry. Shared with the
// durable store so both compute identical standings.
func applyOutcome(entry *models.LeaderboardEntry, isWin bool, totalScore int) {
	previousTotal := entry.TotalBattles
	entry.TotalBattles++
	if isWin {
		entry.Wins++
	}
	entry.WinRate = int(math.Round(float64(entry.Wins) / float64(entry.TotalBattles) * 100))
	entry.AvgScore = int(math.Round((float64(entry.AvgScore)*float64(previousTotal) + float64(totalScore)) / float64(entry.TotalBattles)))
}
