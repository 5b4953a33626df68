package models

import "time"

// Well-known badge IDs unlocked by scan-driven rules.
const (
	BadgeEcoBeginner   = "badge_001" // first ever scan
	BadgeEcoGuardian   = "badge_006" // cumulative score reaches 1000
	BadgeGreenExplorer = "badge_007" // 25 total scans
)

// Badge is a permanent achievement flag. Unlock predicates live in the
// engine; a user either holds a badge id or not, and holds it forever.
type Badge struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;size:100" json:"name"`
	Icon        string    `gorm:"size:50" json:"icon"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for Badge model.
func (Badge) TableName() string {
	return "badges"
}

// UserBadge represents a badge unlocked by a user.
type UserBadge struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"not null;index:idx_user_badge,unique;size:64" json:"user_id"`
	BadgeID    string    `gorm:"not null;index:idx_user_badge,unique;size:64" json:"badge_id"`
	Badge      Badge     `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
	UnlockedAt time.Time `gorm:"not null" json:"unlocked_at"`
}

// TableName specifies the table name for UserBadge model.
func (UserBadge) TableName() string {
	return "user_badges"
}
