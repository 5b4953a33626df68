package engine

import (
	"strings"

	"github.com/terraquest/terraquest-backend/internal/models"
)

// ResolveProduct matches a scan identifier against the catalog: exact barcode
// first, then case-insensitive substring match on product name. Returns
// ErrProductNotFound when neither matches.
func ResolveProduct(catalog []models.Product, identifier string) (*models.Product, error) {
	for i := range catalog {
		if catalog[i].Barcode == identifier {
			return &catalog[i], nil
		}
	}

	needle := strings.ToLower(identifier)
	for i := range catalog {
		if strings.Contains(strings.ToLower(catalog[i].Name), needle) {
			return &catalog[i], nil
		}
	}

	return nil, ErrProductNotFound
}

// RedemptionPolicy decides how a second redemption of the same reward id is
// treated.
type RedemptionPolicy string

// Redemption policies.
const (
	// RedemptionAllowDuplicates permits redeeming a reward id any number of
	// times, debiting points each time.
	RedemptionAllowDuplicates RedemptionPolicy = "allow"
	// RedemptionRejectDuplicates fails repeat redemptions with
	// ErrRewardAlreadyRedeemed.
	RedemptionRejectDuplicates RedemptionPolicy = "reject"
)

// Valid reports whether the policy is a known value.
func (p RedemptionPolicy) Valid() bool {
	return p == RedemptionAllowDuplicates || p == RedemptionRejectDuplicates
}

// ApplyImpact bumps the user's impact counters for a redeemed reward. Only
// NGO rewards carry impact; the kind is authored on the reward itself.
func ApplyImpact(user *models.User, reward *models.Reward) {
	if reward.Category != models.RewardCategoryNGO {
		return
	}
	switch reward.Impact {
	case models.ImpactTree:
		user.TreesPlanted++
	case models.ImpactPlastic:
		user.PlasticSaved++
	}
}
