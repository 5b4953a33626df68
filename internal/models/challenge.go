package models

import "time"

// Challenge status constants.
const (
	ChallengeStatusActive    = "active"
	ChallengeStatusCompleted = "completed"
)

// Well-known challenge IDs with scan-driven advancement rules. All other
// challenges are catalog entries only and never advance automatically.
const (
	ChallengeFirstScan = "challenge_001" // one-shot, completed by the first scan
	ChallengeScanCount = "challenge_002" // +1 per scan up to target
	ChallengeLowCarbon = "challenge_005" // +1 per low-carbon scan up to target
)

// Challenge is a progress-tracked mini-goal. Progress and Status hold the
// current state for the user being served; in persistent mode they are
// overlaid from the per-user progress table.
type Challenge struct {
	ID          string `gorm:"primaryKey;size:64" json:"id"`
	Title       string `gorm:"not null;size:255" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Reward      int    `gorm:"not null" json:"reward"` // bonus points on completion
	Icon        string `gorm:"size:50" json:"icon"`
	Target      int    `gorm:"not null" json:"target"`
	Category    string `gorm:"size:100" json:"category"`

	Progress int    `gorm:"not null;default:0" json:"progress"`
	Status   string `gorm:"size:20;default:active" json:"status"`
}

// TableName specifies the table name for Challenge model.
func (Challenge) TableName() string {
	return "challenges"
}

// Completed reports whether the challenge has reached its target.
func (c *Challenge) Completed() bool {
	return c.Status == ChallengeStatusCompleted
}

// ChallengeProgress tracks one user's progress on one challenge. Progress
// never decreases and status only moves active -> completed.
type ChallengeProgress struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"not null;index:idx_challenge_user,unique;size:64" json:"user_id"`
	ChallengeID string    `gorm:"not null;index:idx_challenge_user,unique;size:64" json:"challenge_id"`
	Progress    int       `gorm:"not null;default:0" json:"progress"`
	Status      string    `gorm:"size:20;default:active" json:"status"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for ChallengeProgress model.
func (ChallengeProgress) TableName() string {
	return "challenge_progress"
}
