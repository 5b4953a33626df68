package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/terraquest/terraquest-backend/internal/models"
)

// ChallengeRepository handles challenge catalog and per-user progress.
type ChallengeRepository struct {
	db *DB
}

// NewChallengeRepository creates a new challenge repository.
func NewChallengeRepository(db *DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// GetAll retrieves the challenge catalog. Progress and status on the returned
// rows are the catalog defaults, not any particular user's state.
func (r *ChallengeRepository) GetAll() ([]models.Challenge, error) {
	var challenges []models.Challenge
	err := r.db.Order("id ASC").Find(&challenges).Error
	return challenges, err
}

// GetForUser retrieves the challenge catalog with the user's progress
// overlaid. Users without recorded progress see the catalog defaults.
func (r *ChallengeRepository) GetForUser(userID string) ([]models.Challenge, error) {
	challenges, err := r.GetAll()
	if err != nil {
		return nil, err
	}

	var rows []models.ChallengeProgress
	if err := r.db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}

	byChallenge := make(map[string]models.ChallengeProgress, len(rows))
	for _, row := range rows {
		byChallenge[row.ChallengeID] = row
	}

	for i := range challenges {
		if row, ok := byChallenge[challenges[i].ID]; ok {
			challenges[i].Progress = row.Progress
			challenges[i].Status = row.Status
		}
	}
	return challenges, nil
}

// SaveProgress upserts a user's progress on one challenge. Progress is
// monotone: an existing row is never moved backwards.
func (r *ChallengeRepository) SaveProgress(userID string, challenge *models.Challenge) error {
	var row models.ChallengeProgress
	err := r.db.Where("user_id = ? AND challenge_id = ?", userID, challenge.ID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(&models.ChallengeProgress{
			UserID:      userID,
			ChallengeID: challenge.ID,
			Progress:    challenge.Progress,
			Status:      challenge.Status,
			UpdatedAt:   time.Now(),
		}).Error
	}
	if err != nil {
		return err
	}

	if challenge.Progress < row.Progress {
		return nil
	}
	row.Progress = challenge.Progress
	if row.Status != models.ChallengeStatusCompleted {
		row.Status = challenge.Status
	}
	row.UpdatedAt = time.Now()
	return r.db.Save(&row).Error
}
