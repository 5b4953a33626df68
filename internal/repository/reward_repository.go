package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/terraquest/terraquest-backend/internal/models"
)

// RewardRepository handles reward catalog and redemption operations.
type RewardRepository struct {
	db *DB
}

// NewRewardRepository creates a new reward repository.
func NewRewardRepository(db *DB) *RewardRepository {
	return &RewardRepository{db: db}
}

// GetAll retrieves the reward catalog ordered by ID.
func (r *RewardRepository) GetAll() ([]models.Reward, error) {
	var rewards []models.Reward
	err := r.db.Order("id ASC").Find(&rewards).Error
	return rewards, err
}

// GetByID retrieves a reward by ID, returning nil if not found.
func (r *RewardRepository) GetByID(id string) (*models.Reward, error) {
	var reward models.Reward
	err := r.db.Where("id = ?", id).First(&reward).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reward, nil
}

// CreateRedemption records a completed redemption.
func (r *RewardRepository) CreateRedemption(redemption *models.Redemption) error {
	return r.db.Create(redemption).Error
}

// HasRedeemed reports whether the user has already redeemed the reward.
func (r *RewardRepository) HasRedeemed(userID, rewardID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Redemption{}).
		Where("user_id = ? AND reward_id = ?", userID, rewardID).
		Count(&count).Error
	return count > 0, err
}

// GetUserRedemptions retrieves a user's redemption history, newest first.
func (r *RewardRepository) GetUserRedemptions(userID string) ([]models.Redemption, error) {
	var redemptions []models.Redemption
	err := r.db.Where("user_id = ?", userID).
		Order("redeemed_at DESC").
		Find(&redemptions).Error
	return redemptions, err
}
