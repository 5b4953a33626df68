// Package reward orchestrates reward redemption: balance check, point debit,
// level recompute, impact accounting and the redemption record, committed as
// one transaction.
package reward

import (
	"context"
	"time"

	"github.com/terraquest/terraquest-backend/internal/engine"
	"github.com/terraquest/terraquest-backend/internal/metrics"
	"github.com/terraquest/terraquest-backend/internal/models"
	"github.com/terraquest/terraquest-backend/internal/repository"
	"github.com/terraquest/terraquest-backend/pkg/logger"
)

// Notifier broadcasts redemption announcements.
type Notifier interface {
	AnnounceRedemption(ctx context.Context, userName, rewardLabel string)
}

// Result is the outcome of a successful redemption.
type Result struct {
	Reward      models.Reward     `json:"reward"`
	Redemption  models.Redemption `json:"redemption"`
	PointsSpent int               `json:"points_spent"`
	EcoScore    int               `json:"eco_score"`
	Level       models.Level      `json:"level"`

	userName string
}

// Service handles reward catalog reads and redemptions.
type Service struct {
	db       *repository.DB
	levels   *engine.LevelTable
	policy   engine.RedemptionPolicy
	notifier Notifier
	log      *logger.Logger
}

// NewService creates a new reward service.
func NewService(
	db *repository.DB,
	levels *engine.LevelTable,
	policy engine.RedemptionPolicy,
	notifier Notifier,
	log *logger.Logger,
) *Service {
	if !policy.Valid() {
		policy = engine.RedemptionAllowDuplicates
	}
	return &Service{
		db:       db,
		levels:   levels,
		policy:   policy,
		notifier: notifier,
		log:      log,
	}
}

// List returns the reward catalog.
func (s *Service) List(_ context.Context) ([]models.Reward, error) {
	return repository.NewRewardRepository(s.db).GetAll()
}

// Redeem exchanges the user's points for a reward. The debit, level
// recompute, impact counters, redemption record and leaderboard row commit
// atomically; a failed redemption mutates nothing.
func (s *Service) Redeem(ctx context.Context, userID, rewardID string) (*Result, error) {
	var result *Result

	err := s.db.Transaction(func(tx *repository.DB) error {
		r, err := s.redeemTx(tx, userID, rewardID)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		status := metrics.StatusError
		switch err {
		case engine.ErrRewardNotFound, engine.ErrUserNotFound:
			status = metrics.StatusNotFound
		case engine.ErrInsufficientPoints, engine.ErrRewardAlreadyRedeemed:
			status = metrics.StatusRejected
		}
		metrics.RecordRedemption(rewardID, status)
		return nil, err
	}

	metrics.RecordRedemption(rewardID, metrics.StatusOK)
	metrics.RecordPointsSpent(result.PointsSpent)

	if s.notifier != nil && result.Reward.Category == models.RewardCategoryNGO {
		s.notifier.AnnounceRedemption(ctx, result.userName, result.Reward.Label)
	}

	s.log.Info().
		Str("user_id", userID).
		Str("reward_id", rewardID).
		Int("points_spent", result.PointsSpent).
		Int("eco_score", result.EcoScore).
		Msg("Reward redeemed")

	return result, nil
}

func (s *Service) redeemTx(tx *repository.DB, userID, rewardID string) (*Result, error) {
	users := repository.NewUserRepository(tx)
	rewards := repository.NewRewardRepository(tx)
	leaderboard := repository.NewLeaderboardRepository(tx)

	user, err := users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, engine.ErrUserNotFound
	}

	reward, err := rewards.GetByID(rewardID)
	if err != nil {
		return nil, err
	}
	if reward == nil || !reward.Available {
		return nil, engine.ErrRewardNotFound
	}

	if s.policy == engine.RedemptionRejectDuplicates {
		redeemed, err := rewards.HasRedeemed(userID, rewardID)
		if err != nil {
			return nil, err
		}
		if redeemed {
			return nil, engine.ErrRewardAlreadyRedeemed
		}
	}

	if user.EcoScore < reward.Points {
		return nil, engine.ErrInsufficientPoints
	}

	user.EcoScore -= reward.Points
	newLevel := s.levels.LevelFor(user.EcoScore)
	user.Level = newLevel.Name
	engine.ApplyImpact(user, reward)
	user.UpdatedAt = time.Now()

	redemption := models.Redemption{
		UserID:      user.ID,
		RewardID:    reward.ID,
		PointsSpent: reward.Points,
		RedeemedAt:  time.Now(),
	}
	if err := rewards.CreateRedemption(&redemption); err != nil {
		return nil, err
	}

	if err := users.Update(user); err != nil {
		return nil, err
	}

	if err := leaderboard.Upsert(&models.LeaderboardEntry{
		UserID:   user.ID,
		Name:     user.Name,
		EcoScore: user.EcoScore,
		Level:    user.Level,
		Avatar:   user.Avatar,
	}); err != nil {
		return nil, err
	}

	return &Result{
		Reward:      *reward,
		Redemption:  redemption,
		PointsSpent: reward.Points,
		EcoScore:    user.EcoScore,
		Level:       newLevel,
		userName:    user.Name,
	}, nil
}
