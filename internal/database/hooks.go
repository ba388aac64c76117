package database

import (
	"log/slog"
)

// SetupIndexes creates additional indexes that GORM can't handle automatically
func (db *DB) SetupIndexes() error {
	slog.Info("Setting up additional database indexes")

	// Open battles are polled by id while a round is running
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_battles_user_completed
		ON battles(user_id, completed)
	`).Error; err != nil {
		return err
	}

	// Leaderboard listing sorts on win_rate then avg_score
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_leaderboard_entries_ranking
		ON leaderboard_entries(win_rate DESC, avg_score DESC)
	`).Error; err != nil {
		return err
	}

	slog.Info("Additional database indexes created successfully")
	return nil
}
