package engine

import "github.com/terraquest/terraquest-backend/internal/models"

// DefaultLowCarbonThreshold is the carbon footprint below which a scan counts
// toward the low-carbon challenge.
const DefaultLowCarbonThreshold = 30

// AdvanceChallenges applies the per-challenge advancement rules for one scan
// and returns the challenges whose state changed, with progress and status
// updated. Rules are keyed by challenge id; challenges without a rule are
// static catalog entries. Progress never decreases and a completed challenge
// never regresses.
func AdvanceChallenges(challenges []models.Challenge, product *models.Product, lowCarbonThreshold int) []models.Challenge {
	if lowCarbonThreshold <= 0 {
		lowCarbonThreshold = DefaultLowCarbonThreshold
	}

	var changed []models.Challenge
	for _, c := range challenges {
		switch c.ID {
		case models.ChallengeFirstScan:
			// One-shot regardless of which product was scanned.
			if c.Progress == 0 {
				c.Progress = 1
				c.Status = models.ChallengeStatusCompleted
				changed = append(changed, c)
			}
		case models.ChallengeScanCount:
			if next, ok := advanceCounter(&c); ok {
				changed = append(changed, next)
			}
		case models.ChallengeLowCarbon:
			if product.CarbonFootprint >= lowCarbonThreshold {
				continue
			}
			if next, ok := advanceCounter(&c); ok {
				changed = append(changed, next)
			}
		}
	}
	return changed
}

// advanceCounter increments a counter challenge by one, capped at its target.
func advanceCounter(c *models.Challenge) (models.Challenge, bool) {
	if c.Progress >= c.Target {
		return *c, false
	}
	c.Progress++
	if c.Progress >= c.Target {
		c.Status = models.ChallengeStatusCompleted
	}
	return *c, true
}
