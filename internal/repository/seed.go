package repository

import (
	"fmt"
	"time"

	"github.com/terraquest/terraquest-backend/internal/models"
	"github.com/terraquest/terraquest-backend/internal/seed"
	"github.com/terraquest/terraquest-backend/pkg/logger"
)

// SeedOptions controls which parts of the catalog get written.
type SeedOptions struct {
	// DemoUser also creates the demo account with its badges and redemption
	// history. Demo mode always sets this; persistent mode usually does not.
	DemoUser bool
}

// SeedIfEmpty populates an empty database with the embedded catalog. A
// database that already has products is left untouched, so restarts in
// persistent mode do not clobber live data.
func SeedIfEmpty(db *DB, data *seed.Data, opts SeedOptions) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check existing catalog: %w", err)
	}
	if count > 0 {
		logger.Get().Debug().Msg("Catalog already seeded, skipping")
		return nil
	}

	err := db.Transaction(func(tx *DB) error {
		products := data.ProductModels()
		if err := tx.Create(&products).Error; err != nil {
			return fmt.Errorf("products: %w", err)
		}
		levels := data.LevelModels()
		if err := tx.Create(&levels).Error; err != nil {
			return fmt.Errorf("levels: %w", err)
		}
		challenges := data.ChallengeModels()
		if err := tx.Create(&challenges).Error; err != nil {
			return fmt.Errorf("challenges: %w", err)
		}
		rewards := data.RewardModels()
		if err := tx.Create(&rewards).Error; err != nil {
			return fmt.Errorf("rewards: %w", err)
		}
		badges := data.BadgeModels()
		if err := tx.Create(&badges).Error; err != nil {
			return fmt.Errorf("badges: %w", err)
		}
		if entries := data.LeaderboardModels(); len(entries) > 0 {
			if err := tx.Create(&entries).Error; err != nil {
				return fmt.Errorf("leaderboard: %w", err)
			}
		}
		if opts.DemoUser {
			if err := seedDemoUser(tx, data); err != nil {
				return fmt.Errorf("demo user: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Get().Info().
		Int("products", len(data.Products)).
		Int("challenges", len(data.Challenges)).
		Int("rewards", len(data.Rewards)).
		Bool("demo_user", opts.DemoUser).
		Msg("Seeded catalog")
	return nil
}

func seedDemoUser(tx *DB, data *seed.Data) error {
	user, err := data.DemoUserModel()
	if err != nil {
		return err
	}
	if err := tx.Create(user).Error; err != nil {
		return err
	}

	now := time.Now()
	for _, badgeID := range data.DemoUserBadges() {
		ub := models.UserBadge{UserID: user.ID, BadgeID: badgeID, UnlockedAt: now}
		if err := tx.Create(&ub).Error; err != nil {
			return err
		}
	}

	rewards := make(map[string]models.Reward)
	for _, r := range data.RewardModels() {
		rewards[r.ID] = r
	}
	for _, rewardID := range data.DemoUserRedemptions() {
		r, ok := rewards[rewardID]
		if !ok {
			return fmt.Errorf("unknown redeemed reward %q", rewardID)
		}
		red := models.Redemption{
			UserID:      user.ID,
			RewardID:    r.ID,
			PointsSpent: r.Points,
			RedeemedAt:  now,
		}
		if err := tx.Create(&red).Error; err != nil {
			return err
		}
	}
	return nil
}
