package engine

import "github.com/terraquest/terraquest-backend/internal/models"

// Badge unlock thresholds.
const (
	guardianScoreThreshold = 1000
	explorerScansThreshold = 25
)

// ScanSnapshot is the cumulative user state after a scan has been applied,
// against which badge predicates are evaluated.
type ScanSnapshot struct {
	EcoScore   int
	TotalScans int
	Held       map[string]bool // badge ids already held
}

// EvaluateBadges returns the badge ids newly unlocked by the snapshot, in
// fixed rule order. Already-held badges are skipped, so the evaluation is
// idempotent; multiple rules may fire on the same scan.
func EvaluateBadges(snap ScanSnapshot) []string {
	var unlocked []string

	if snap.TotalScans == 1 && !snap.Held[models.BadgeEcoBeginner] {
		unlocked = append(unlocked, models.BadgeEcoBeginner)
	}
	if snap.EcoScore >= guardianScoreThreshold && !snap.Held[models.BadgeEcoGuardian] {
		unlocked = append(unlocked, models.BadgeEcoGuardian)
	}
	if snap.TotalScans >= explorerScansThreshold && !snap.Held[models.BadgeGreenExplorer] {
		unlocked = append(unlocked, models.BadgeGreenExplorer)
	}

	return unlocked
}
