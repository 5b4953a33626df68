// Package scan orchestrates the product scan flow: product resolution,
// scoring, level recomputation, challenge advancement, badge unlocks and
// leaderboard upsert, committed as one transaction.
package scan

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/terraquest/terraquest-backend/internal/engine"
	"github.com/terraquest/terraquest-backend/internal/metrics"
	"github.com/terraquest/terraquest-backend/internal/models"
	"github.com/terraquest/terraquest-backend/internal/repository"
	"github.com/terraquest/terraquest-backend/pkg/logger"
)

// Notifier broadcasts gamification events. Implementations must be
// fire-and-forget; the scan flow never waits on delivery failures.
type Notifier interface {
	AnnounceBadgeUnlock(ctx context.Context, userName, badgeName, badgeIcon string)
	AnnounceLevelUp(ctx context.Context, userName, level string, ecoScore int)
}

// Result is the outcome of a successful scan.
type Result struct {
	Scan         models.ScanRecord  `json:"scan"`
	Product      models.Product     `json:"product"`
	PointsEarned int                `json:"points_earned"`
	EcoScore     int                `json:"eco_score"`
	Level        models.Level       `json:"level"`
	LeveledUp    bool               `json:"leveled_up"`
	NewBadges    []models.Badge     `json:"new_badges"`
	Completed    []models.Challenge `json:"completed_challenges"`
	Feedback     string             `json:"feedback"`

	userName string
}

// Service handles scan processing.
type Service struct {
	db                 *repository.DB
	levels             *engine.LevelTable
	lowCarbonThreshold int
	notifier           Notifier
	log                *logger.Logger
}

// NewService creates a new scan service.
func NewService(
	db *repository.DB,
	levels *engine.LevelTable,
	lowCarbonThreshold int,
	notifier Notifier,
	log *logger.Logger,
) *Service {
	return &Service{
		db:                 db,
		levels:             levels,
		lowCarbonThreshold: lowCarbonThreshold,
		notifier:           notifier,
		log:                log,
	}
}

// Scan processes one scan for the user. The identifier is a barcode or a
// product name fragment. Scoring, the scan record, challenge progress, badge
// unlocks and the leaderboard row commit atomically; a repeated identifier
// miss leaves all state untouched.
func (s *Service) Scan(ctx context.Context, userID, identifier string) (*Result, error) {
	var result *Result

	err := s.db.Transaction(func(tx *repository.DB) error {
		r, err := s.scanTx(tx, userID, identifier)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		switch err {
		case engine.ErrProductNotFound:
			metrics.RecordScan(metrics.ResolutionName, metrics.StatusNotFound)
		case engine.ErrUserNotFound:
			metrics.RecordScan(metrics.ResolutionName, metrics.StatusRejected)
		default:
			metrics.RecordScan(metrics.ResolutionName, metrics.StatusError)
		}
		return nil, err
	}

	s.recordMetrics(result, identifier)
	s.announce(ctx, result)

	s.log.Info().
		Str("user_id", userID).
		Str("barcode", result.Product.Barcode).
		Int("points", result.PointsEarned).
		Int("eco_score", result.EcoScore).
		Str("level", result.Level.Name).
		Int("new_badges", len(result.NewBadges)).
		Msg("Scan processed")

	return result, nil
}

// History returns the user's scan history, newest first. A limit of 0 means
// the full history.
func (s *Service) History(_ context.Context, userID string, limit int) ([]models.ScanRecord, error) {
	users := repository.NewUserRepository(s.db)
	user, err := users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, engine.ErrUserNotFound
	}
	return repository.NewScanRepository(s.db).GetByUser(userID, limit)
}

func (s *Service) scanTx(tx *repository.DB, userID, identifier string) (*Result, error) {
	users := repository.NewUserRepository(tx)
	products := repository.NewProductRepository(tx)
	scans := repository.NewScanRepository(tx)
	challenges := repository.NewChallengeRepository(tx)
	badges := repository.NewBadgeRepository(tx)
	leaderboard := repository.NewLeaderboardRepository(tx)

	user, err := users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, engine.ErrUserNotFound
	}

	catalog, err := products.GetAll()
	if err != nil {
		return nil, err
	}
	product, err := engine.ResolveProduct(catalog, identifier)
	if err != nil {
		return nil, err
	}

	// Score and mutate the aggregate.
	points := engine.PointsForScan(product.SustainabilityScore)
	previousLevel := user.Level
	user.EcoScore += points
	user.TotalScans++
	user.CO2Reduced += co2SavedPerScan
	newLevel := s.levels.LevelFor(user.EcoScore)
	user.Level = newLevel.Name
	user.UpdatedAt = time.Now()

	record := models.ScanRecord{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		ProductName: product.Name,
		Score:       product.SustainabilityScore,
		Barcode:     product.Barcode,
		ScannedAt:   time.Now(),
	}
	if err := scans.Create(&record); err != nil {
		return nil, err
	}

	if err := users.Update(user); err != nil {
		return nil, err
	}

	// Challenge advancement. A progress write failure is logged, not fatal.
	current, err := challenges.GetForUser(user.ID)
	var completed []models.Challenge
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to load challenges for scan")
	} else {
		for _, changed := range engine.AdvanceChallenges(current, product, s.lowCarbonThreshold) {
			changed := changed
			if err := challenges.SaveProgress(user.ID, &changed); err != nil {
				s.log.Warn().Err(err).Str("challenge_id", changed.ID).Msg("Failed to save challenge progress")
				continue
			}
			if changed.Completed() {
				completed = append(completed, changed)
			}
		}
	}

	// Badge evaluation against the post-scan snapshot.
	held, err := badges.GetUserBadgeIDs(user.ID)
	if err != nil {
		return nil, err
	}
	snapshot := engine.ScanSnapshot{
		EcoScore:   user.EcoScore,
		TotalScans: user.TotalScans,
		Held:       held,
	}
	var newBadges []models.Badge
	for _, badgeID := range engine.EvaluateBadges(snapshot) {
		if err := badges.Unlock(user.ID, badgeID); err != nil {
			s.log.Warn().Err(err).Str("badge_id", badgeID).Msg("Failed to unlock badge")
			continue
		}
		badge, err := badges.GetByID(badgeID)
		if err != nil || badge == nil {
			s.log.Warn().Err(err).Str("badge_id", badgeID).Msg("Unlocked badge missing from catalog")
			continue
		}
		newBadges = append(newBadges, *badge)
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
		Scan:         record,
		Product:      *product,
		PointsEarned: points,
		EcoScore:     user.EcoScore,
		Level:        newLevel,
		LeveledUp:    previousLevel != "" && previousLevel != newLevel.Name,
		NewBadges:    newBadges,
		Completed:    completed,
		Feedback:     engine.Feedback(product),
		userName:     user.Name,
	}, nil
}

// co2SavedPerScan is the flat CO2 credit (kg) granted per scan so the
// impact counter moves with activity.
const co2SavedPerScan = 0.1

func (s *Service) recordMetrics(result *Result, identifier string) {
	resolution := metrics.ResolutionName
	if result.Product.Barcode == identifier {
		resolution = metrics.ResolutionBarcode
	}
	metrics.RecordScan(resolution, metrics.StatusOK)
	metrics.RecordPointsAwarded(result.PointsEarned)
	metrics.ObserveScanScore(result.Product.SustainabilityScore)
	for _, badge := range result.NewBadges {
		metrics.RecordBadgeUnlocked(badge.ID)
	}
	for _, challenge := range result.Completed {
		metrics.RecordChallengeCompleted(challenge.ID)
	}
	if result.LeveledUp {
		metrics.RecordLevelUp(result.Level.Name)
	}
}

func (s *Service) announce(ctx context.Context, result *Result) {
	if s.notifier == nil {
		return
	}
	for _, badge := range result.NewBadges {
		s.notifier.AnnounceBadgeUnlock(ctx, result.userName, badge.Name, badge.Icon)
	}
	if result.LeveledUp {
		s.notifier.AnnounceLevelUp(ctx, result.userName, result.Level.Name, result.EcoScore)
	}
}
