package models

import "time"

// ScanRecord is created once per successful scan and never mutated. The
// user's history is ordered newest first.
type ScanRecord struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	UserID      string    `gorm:"not null;index;size:64" json:"user_id"`
	ProductName string    `gorm:"not null;size:255" json:"product_name"`
	Score       int       `gorm:"not null" json:"score"` // sustainability score at scan time
	Barcode     string    `gorm:"size:64" json:"barcode,omitempty"`
	ScannedAt   time.Time `gorm:"not null;index" json:"scanned_at"`
}

// TableName specifies the table name for ScanRecord model.
func (ScanRecord) TableName() string {
	return "scans"
}
