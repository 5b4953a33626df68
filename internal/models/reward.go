package models

import "time"

// Reward categories.
const (
	RewardCategoryNGO   = "NGO"
	RewardCategoryBrand = "Brand"
)

// ImpactKind describes which impact counter a redemption advances. It is
// authored with the reward data rather than inferred from display text.
type ImpactKind string

// Impact kinds.
const (
	ImpactNone    ImpactKind = "none"
	ImpactTree    ImpactKind = "tree"
	ImpactPlastic ImpactKind = "plastic"
)

// Reward is an immutable catalog entry redeemable for points.
type Reward struct {
	ID          string     `gorm:"primaryKey;size:64" json:"id"`
	Name        string     `gorm:"not null;size:255" json:"name"`
	Label       string     `gorm:"not null;size:255" json:"label"` // human-readable reward, e.g. "Plant a Tree"
	Points      int        `gorm:"not null" json:"points"`
	Description string     `gorm:"type:text" json:"description"`
	Category    string     `gorm:"not null;size:20" json:"category"`
	Icon        string     `gorm:"size:50" json:"icon"`
	Impact      ImpactKind `gorm:"size:20;default:none" json:"impact"`
	Available   bool       `gorm:"not null;default:true" json:"available"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TableName specifies the table name for Reward model.
func (Reward) TableName() string {
	return "rewards"
}

// Redemption records a reward exchanged for points by a user.
type Redemption struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"not null;index;size:64" json:"user_id"`
	RewardID    string    `gorm:"not null;index;size:64" json:"reward_id"`
	PointsSpent int       `gorm:"not null" json:"points_spent"`
	RedeemedAt  time.Time `gorm:"not null" json:"redeemed_at"`
}

// TableName specifies the table name for Redemption model.
func (Redemption) TableName() string {
	return "redemptions"
}
