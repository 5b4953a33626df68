package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/terraquest/terraquest-backend/internal/models"
)

// BadgeRepository handles badge-related database operations.
type BadgeRepository struct {
	db *DB
}

// NewBadgeRepository creates a new badge repository.
func NewBadgeRepository(db *DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

// GetAll retrieves the full badge catalog.
func (r *BadgeRepository) GetAll() ([]models.Badge, error) {
	var badges []models.Badge
	err := r.db.Order("id ASC").Find(&badges).Error
	return badges, err
}

// GetByID retrieves a badge by id. Returns (nil, nil) when absent.
func (r *BadgeRepository) GetByID(id string) (*models.Badge, error) {
	var badge models.Badge
	err := r.db.Where("id = ?", id).First(&badge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &badge, nil
}

// GetByIDs retrieves the badges matching the given ids.
func (r *BadgeRepository) GetByIDs(ids []string) ([]models.Badge, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var badges []models.Badge
	err := r.db.Where("id IN ?", ids).Order("id ASC").Find(&badges).Error
	return badges, err
}

// Unlock awards a badge to a user. Unlocks are idempotent: awarding a badge
// the user already holds is a no-op.
func (r *BadgeRepository) Unlock(userID, badgeID string) error {
	held, err := r.HasUserUnlocked(userID, badgeID)
	if err != nil {
		return err
	}
	if held {
		return nil
	}

	return r.db.Create(&models.UserBadge{
		UserID:     userID,
		BadgeID:    badgeID,
		UnlockedAt: time.Now(),
	}).Error
}

// GetUserBadges retrieves all badges unlocked by a user with badge details preloaded.
func (r *BadgeRepository) GetUserBadges(userID string) ([]models.UserBadge, error) {
	var userBadges []models.UserBadge
	err := r.db.
		Where("user_id = ?", userID).
		Preload("Badge").
		Order("unlocked_at DESC").
		Find(&userBadges).Error
	return userBadges, err
}

// GetUserBadgeIDs retrieves the set of badge ids a user holds.
func (r *BadgeRepository) GetUserBadgeIDs(userID string) (map[string]bool, error) {
	var ids []string
	err := r.db.Model(&models.UserBadge{}).
		Where("user_id = ?", userID).
		Pluck("badge_id", &ids).Error
	if err != nil {
		return nil, err
	}

	held := make(map[string]bool, len(ids))
	for _, id := range ids {
		held[id] = true
	}
	return held, nil
}

// HasUserUnlocked checks if a user holds a specific badge.
func (r *BadgeRepository) HasUserUnlocked(userID, badgeID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.UserBadge{}).
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetBadgeHoldersCount returns the number of users holding a specific badge.
func (r *BadgeRepository) GetBadgeHoldersCount(badgeID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.UserBadge{}).
		Where("badge_id = ?", badgeID).
		Count(&count).Error
	return count, err
}
