package models

import (
	"time"
)

// User is the mutable aggregate root. EcoScore is the cumulative point
// balance; Level is derived from it via the level table and never set
// independently.
type User struct {
	ID           string    `gorm:"primaryKey;size:64" json:"id"`
	Name         string    `gorm:"not null;size:255" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	EcoScore     int       `gorm:"not null;default:0;index" json:"eco_score"`
	Level        string    `gorm:"size:100" json:"level"`
	TotalScans   int       `gorm:"not null;default:0" json:"total_scans"`
	Avatar       string    `gorm:"size:50" json:"avatar"`
	TreesPlanted int       `gorm:"not null;default:0" json:"trees_planted"`
	PlasticSaved float64   `gorm:"not null;default:0" json:"plastic_saved"` // kg
	CO2Reduced   float64   `gorm:"not null;default:0" json:"co2_reduced"`   // kg
	JoinedAt     time.Time `json:"joined_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	Badges          []UserBadge  `gorm:"foreignKey:UserID" json:"badges,omitempty"`
	Scans           []ScanRecord `gorm:"foreignKey:UserID" json:"scans,omitempty"`
	RedeemedRewards []Redemption `gorm:"foreignKey:UserID" json:"redeemed_rewards,omitempty"`
}

// TableName specifies the table name for User model.
func (User) TableName() string {
	return "users"
}

// LeaderboardEntry is one row of the leaderboard, upserted on every scoring
// event. Rank is computed on demand and never stored.
type LeaderboardEntry struct {
	UserID    string    `gorm:"primaryKey;size:64" json:"user_id"`
	Name      string    `gorm:"not null;size:255;index" json:"name"`
	EcoScore  int       `gorm:"not null;default:0;index:idx_leaderboard_score,sort:desc" json:"eco_score"`
	Level     string    `gorm:"size:100" json:"level"`
	Avatar    string    `gorm:"size:50" json:"avatar"`
	UpdatedAt time.Time `json:"updated_at"`

	Rank int `gorm:"-" json:"rank,omitempty"`
}

// TableName specifies the table name for LeaderboardEntry model.
func (LeaderboardEntry) TableName() string {
	return "leaderboard_entries"
}
