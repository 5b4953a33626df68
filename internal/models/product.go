// Package models defines domain models for the TerraQuest sustainability engine.
package models

import "time"

// Product is an immutable catalog entry describing a scannable product.
type Product struct {
	Barcode             string      `gorm:"primaryKey;size:64" json:"barcode"`
	Name                string      `gorm:"not null;size:255;index" json:"name"`
	CarbonFootprint     int         `gorm:"not null" json:"carbon_footprint"` // lower is better
	Recyclable          bool        `json:"recyclable"`
	EthicalScore        int         `gorm:"not null" json:"ethical_score"`        // 0-100
	SustainabilityScore int         `gorm:"not null" json:"sustainability_score"` // 0-100, canonical quality metric
	Summary             string      `gorm:"type:text" json:"summary"`
	Category            string      `gorm:"size:100" json:"category"`
	Alternatives        StringSlice `gorm:"type:text" json:"alternatives"`
	CreatedAt           time.Time   `json:"created_at"`
}

// TableName specifies the table name for Product model.
func (Product) TableName() string {
	return "products"
}

// Level is one tier of the level table. MinPoints is inclusive, MaxPoints
// exclusive; a MaxPoints of 0 marks the final, unbounded tier.
type Level struct {
	Name      string `gorm:"primaryKey;size:100" json:"name"`
	MinPoints int    `gorm:"not null" json:"min_points"`
	MaxPoints int    `gorm:"not null" json:"max_points"`
	Color     string `gorm:"size:50" json:"color"`
	Position  int    `gorm:"not null;uniqueIndex" json:"position"`
}

// TableName specifies the table name for Level model.
func (Level) TableName() string {
	return "levels"
}

// Unbounded reports whether the tier has no upper bound.
func (l Level) Unbounded() bool {
	return l.MaxPoints <= 0
}

// Contains reports whether a cumulative score falls inside the tier.
func (l Level) Contains(score int) bool {
	return score >= l.MinPoints && (l.Unbounded() || score < l.MaxPoints)
}
