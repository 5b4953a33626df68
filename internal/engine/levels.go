package engine

import (
	"fmt"
	"sort"

	"github.com/terraquest/terraquest-backend/internal/models"
)

// LevelTable is the ordered list of tiers mapping a cumulative score to a
// level name. Tiers are contiguous and non-overlapping; the last tier is
// unbounded, so every score >= 0 maps to exactly one tier.
type LevelTable struct {
	tiers []models.Level
}

// NewLevelTable validates and builds a level table from tier definitions.
func NewLevelTable(tiers []models.Level) (*LevelTable, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("level table must have at least one tier")
	}

	sorted := make([]models.Level, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinPoints < sorted[j].MinPoints
	})

	if sorted[0].MinPoints != 0 {
		return nil, fmt.Errorf("first tier %q must start at 0, starts at %d", sorted[0].Name, sorted[0].MinPoints)
	}
	for i := 0; i < len(sorted)-1; i++ {
		if sorted[i].Unbounded() {
			return nil, fmt.Errorf("tier %q is unbounded but not last", sorted[i].Name)
		}
		if sorted[i].MaxPoints != sorted[i+1].MinPoints {
			return nil, fmt.Errorf("gap between tier %q (max %d) and %q (min %d)",
				sorted[i].Name, sorted[i].MaxPoints, sorted[i+1].Name, sorted[i+1].MinPoints)
		}
	}
	if !sorted[len(sorted)-1].Unbounded() {
		return nil, fmt.Errorf("last tier %q must be unbounded", sorted[len(sorted)-1].Name)
	}

	return &LevelTable{tiers: sorted}, nil
}

// LevelFor returns the tier containing the cumulative score. Negative scores
// clamp to the first tier so a level always resolves.
func (t *LevelTable) LevelFor(cumulativeScore int) models.Level {
	for _, tier := range t.tiers {
		if tier.Contains(cumulativeScore) {
			return tier
		}
	}
	if cumulativeScore < 0 {
		return t.tiers[0]
	}
	return t.tiers[len(t.tiers)-1]
}

// Tiers returns the ordered tier list.
func (t *LevelTable) Tiers() []models.Level {
	out := make([]models.Level, len(t.tiers))
	copy(out, t.tiers)
	return out
}
