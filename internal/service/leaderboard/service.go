// Package leaderboard serves ranked leaderboard views with a short-TTL cache
// in front of the leaderboard table.
package leaderboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/terraquest/terraquest-backend/internal/cache"
	"github.com/terraquest/terraquest-backend/internal/engine"
	"github.com/terraquest/terraquest-backend/internal/metrics"
	"github.com/terraquest/terraquest-backend/internal/models"
	"github.com/terraquest/terraquest-backend/internal/repository"
	"github.com/terraquest/terraquest-backend/pkg/logger"
)

// Repository interface for leaderboard reads.
type Repository interface {
	Top(limit int) ([]models.LeaderboardEntry, error)
}

// Service handles leaderboard reads. Writes happen inside the scan and
// reward transactions; scoring events invalidate the cached board.
type Service struct {
	repo     Repository
	cache    cache.Cache
	cacheTTL time.Duration
	log      *logger.Logger
}

// NewService creates a new leaderboard service with concrete repository types.
func NewService(repo *repository.LeaderboardRepository, c cache.Cache, cacheTTL time.Duration, log *logger.Logger) *Service {
	return NewServiceWithInterfaces(repo, c, cacheTTL, log)
}

// NewServiceWithInterfaces creates a new leaderboard service with interface
// dependencies (useful for testing).
func NewServiceWithInterfaces(repo Repository, c cache.Cache, cacheTTL time.Duration, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    c,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// Top returns the leaderboard ordered by score descending with ranks filled
// in; tied scores share a rank. A limit of 0 returns the full board, served
// from cache when fresh.
func (s *Service) Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit == 0 && s.cache != nil {
		if cached, ok := s.cachedBoard(ctx); ok {
			return cached, nil
		}
	}

	entries, err := s.repo.Top(limit)
	if err != nil {
		return nil, err
	}
	engine.RankEntries(entries)

	if limit == 0 && s.cache != nil {
		s.storeBoard(ctx, entries)
	}

	metrics.SetLeaderboardSize(int64(len(entries)))
	return entries, nil
}

// Rank returns the user's current rank, computed against the same board Top
// serves. A user without a leaderboard row ranks after everyone on the board.
func (s *Service) Rank(ctx context.Context, userID string) (int, error) {
	entries, err := s.Top(ctx, 0)
	if err != nil {
		return 0, err
	}
	return engine.RankOf(entries, userID), nil
}

// Invalidate drops the cached board. Called after scoring events.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cache.KeyLeaderboard); err != nil {
		s.log.Warn().Err(err).Msg("Failed to invalidate leaderboard cache")
	}
}

func (s *Service) cachedBoard(ctx context.Context) ([]models.LeaderboardEntry, bool) {
	raw, found, err := s.cache.Get(ctx, cache.KeyLeaderboard)
	if err != nil {
		s.log.Warn().Err(err).Msg("Leaderboard cache read failed")
		return nil, false
	}
	if !found {
		return nil, false
	}

	var entries []models.LeaderboardEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.log.Warn().Err(err).Msg("Corrupt leaderboard cache entry")
		return nil, false
	}
	return entries, true
}

func (s *Service) storeBoard(ctx context.Context, entries []models.LeaderboardEntry) {
	payload, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cache.KeyLeaderboard, string(payload), s.cacheTTL); err != nil {
		s.log.Warn().Err(err).Msg("Leaderboard cache write failed")
	}
}
