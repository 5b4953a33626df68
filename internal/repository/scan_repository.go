package repository

import "github.com/terraquest/terraquest-backend/internal/models"

// ScanRepository handles scan history database operations.
type ScanRepository struct {
	db *DB
}

// NewScanRepository creates a new scan repository.
func NewScanRepository(db *DB) *ScanRepository {
	return &ScanRepository{db: db}
}

// Create records a new scan.
func (r *ScanRepository) Create(scan *models.ScanRecord) error {
	return r.db.Create(scan).Error
}

// GetByUser retrieves a user's scan history, newest first.
func (r *ScanRepository) GetByUser(userID string, limit int) ([]models.ScanRecord, error) {
	var scans []models.ScanRecord
	q := r.db.Where("user_id = ?", userID).Order("scanned_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&scans).Error
	return scans, err
}

// CountByUser returns the number of scans a user has made.
func (r *ScanRepository) CountByUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.ScanRecord{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
