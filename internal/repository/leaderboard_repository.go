package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/terraquest/terraquest-backend/internal/models"
)

// LeaderboardRepository handles leaderboard rows. Ordering and ranks are
// computed in the engine; this layer only stores and lists entries.
type LeaderboardRepository struct {
	db *DB
}

// NewLeaderboardRepository creates a new leaderboard repository.
func NewLeaderboardRepository(db *DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

// Upsert inserts or updates the user's leaderboard row. Existing rows keep
// their name and avatar; only score and level move on subsequent events.
func (r *LeaderboardRepository) Upsert(entry *models.LeaderboardEntry) error {
	var existing models.LeaderboardEntry
	err := r.db.Where("user_id = ?", entry.UserID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		entry.UpdatedAt = time.Now()
		return r.db.Create(entry).Error
	}
	if err != nil {
		return err
	}

	existing.EcoScore = entry.EcoScore
	existing.Level = entry.Level
	existing.UpdatedAt = time.Now()
	return r.db.Save(&existing).Error
}

// Top retrieves leaderboard rows ordered by score descending. Ties keep
// insertion order so repeated reads are stable. A limit of 0 means all rows.
func (r *LeaderboardRepository) Top(limit int) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	q := r.db.Order("eco_score DESC, user_id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&entries).Error
	return entries, err
}
