// Package api provides the REST surface of the TerraQuest engine: scanning,
// catalog reads, leaderboard, auth and reward redemption.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/terraquest/terraquest-backend/internal/engine"
	"github.com/terraquest/terraquest-backend/internal/models"
	"github.com/terraquest/terraquest-backend/internal/service/reward"
	"github.com/terraquest/terraquest-backend/internal/service/scan"
	"github.com/terraquest/terraquest-backend/internal/service/user"
	"github.com/terraquest/terraquest-backend/pkg/logger"
)

// ScanService interface for scan operations.
type ScanService interface {
	Scan(ctx context.Context, userID, identifier string) (*scan.Result, error)
	History(ctx context.Context, userID string, limit int) ([]models.ScanRecord, error)
}

// RewardService interface for reward operations.
type RewardService interface {
	List(ctx context.Context) ([]models.Reward, error)
	Redeem(ctx context.Context, userID, rewardID string) (*reward.Result, error)
}

// LeaderboardService interface for leaderboard reads.
type LeaderboardService interface {
	Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
	Rank(ctx context.Context, userID string) (int, error)
	Invalidate(ctx context.Context)
}

// UserService interface for account operations.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*user.AuthResult, error)
	Login(ctx context.Context, email, password string) (*user.AuthResult, error)
	GetProfile(ctx context.Context, userID string) (*user.Profile, error)
}

// ProductCatalog interface for product reads.
type ProductCatalog interface {
	GetAll() ([]models.Product, error)
	GetByBarcode(barcode string) (*models.Product, error)
}

// ChallengeCatalog interface for challenge reads.
type ChallengeCatalog interface {
	GetForUser(userID string) ([]models.Challenge, error)
}

// BadgeCatalog interface for badge reads.
type BadgeCatalog interface {
	GetAll() ([]models.Badge, error)
}

// HealthChecker reports backing store health.
type HealthChecker interface {
	Health() error
}

// Handler handles REST API requests.
type Handler struct {
	scans       ScanService
	rewards     RewardService
	leaderboard LeaderboardService
	users       UserService
	products    ProductCatalog
	challenges  ChallengeCatalog
	badges      BadgeCatalog
	health      HealthChecker
	log         *logger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(
	scans ScanService,
	rewards RewardService,
	leaderboard LeaderboardService,
	users UserService,
	products ProductCatalog,
	challenges ChallengeCatalog,
	badges BadgeCatalog,
	health HealthChecker,
	log *logger.Logger,
) *Handler {
	return &Handler{
		scans:       scans,
		rewards:     rewards,
		leaderboard: leaderboard,
		users:       users,
		products:    products,
		challenges:  challenges,
		badges:      badges,
		health:      health,
		log:         log,
	}
}

// Register creates an account.
// POST /api/v1/auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrMissingFields):
			h.errorResponse(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, user.ErrEmailTaken):
			h.errorResponse(c, http.StatusConflict, err.Error())
		default:
			h.log.Error().Err(err).Msg("Failed to register account")
			h.errorResponse(c, http.StatusInternalServerError, "failed to register")
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Login verifies credentials and returns a token.
// POST /api/v1/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			h.errorResponse(c, http.StatusUnauthorized, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("Failed to log in")
		h.errorResponse(c, http.StatusInternalServerError, "failed to log in")
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListProducts returns the product catalog.
// GET /api/v1/products.
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.products.GetAll()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list products")
		h.errorResponse(c, http.StatusInternalServerError, "failed to retrieve products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":       products,
		"total_products": len(products),
	})
}

// GetProduct returns one product by barcode.
// GET /api/v1/products/:barcode.
func (h *Handler) GetProduct(c *gin.Context) {
	barcode := c.Param("barcode")
	product, err := h.products.GetByBarcode(barcode)
	if err != nil {
		h.log.Error().Err(err).Str("barcode", barcode).Msg("Failed to get product")
		h.errorResponse(c, http.StatusInternalServerError, "failed to retrieve product")
		return
	}
	if product == nil {
		h.errorResponse(c, http.StatusNotFound, "product not found")
		return
	}

	c.JSON(http.StatusOK, product)
}

// CreateScan processes a scan for the authenticated user.
// POST /api/v1/scans with body {"identifier": "..."}.
func (h *Handler) CreateScan(c *gin.Context) {
	userID := authenticatedUser(c)

	var req struct {
		Identifier string `json:"identifier"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Identifier == "" {
		h.errorResponse(c, http.StatusBadRequest, "identifier is required")
		return
	}

	result, err := h.scans.Scan(c.Request.Context(), userID, req.Identifier)
	if err != nil {
		h.scanError(c, err)
		return
	}

	h.leaderboard.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, result)
}

// GetScanHistory returns a user's scan history, newest first.
// GET /api/v1/scans/user/:id?limit=50.
func (h *Handler) GetScanHistory(c *gin.Context) {
	userID := c.Param("id")
	limit, err := h.parseLimit(c, 0)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.scans.History(c.Request.Context(), userID, limit)
	if err != nil {
		if errors.Is(err, engine.ErrUserNotFound) {
			h.errorResponse(c, http.StatusNotFound, "user not found")
			return
		}
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to get scan history")
		h.errorResponse(c, http.StatusInternalServerError, "failed to retrieve scan history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"scans":   records,
		"total":   len(records),
	})
}

// GetLeaderboard returns the ranked leaderboard.
// GET /api/v1/users/leaderboard?limit=10.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	limit, err := h.parseLimit(c, 0)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.leaderboard.Top(c.Request.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get leaderboard")
		h.errorResponse(c, http.StatusInternalServerError, "failed to retrieve leaderboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard":   entries,
		"total_entries": len(entries),
	})
}

// GetUser returns a user profile with badges.
// GET /api/v1/users/:id.
func (h *Handler) GetUser(c *gin.Context) {
	userID := c.Param("id")
	profile, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, engine.ErrUserNotFound) {
			h.errorResponse(c, http.StatusNotFound, "user not found")
			return
		}
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to get user")
		h.errorResponse(c, http.StatusInternalServerError, "failed to retrieve user")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetUserRank returns the user's leaderboard rank.
// GET /api/v1/users/:id/rank.
func (h *Handler) GetUserRank(c *gin.Context) {
	userID := c.Param("id")
	rank, err := h.leaderboard.Rank(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to get rank")
		h.errorResponse(c, http.StatusInternalServerError, "failed to retrieve rank")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"rank":    rank,
	})
}

// GetChallenges returns the challenge catalog with the authenticated user's
// progress overlaid.
// GET /api/v1/challenges.
func (h *Handler) GetChallenges(c *gin.Context) {
	userID := authenticatedUser(c)

	challenges, err := h.challenges.GetForUser(userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to get challenges")
		h.errorResponse(c, http.StatusInternalServerError, "failed to retrieve challenges")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"challenges": challenges,
		"total":      len(challenges),
	})
}

// ListRewards returns the reward catalog.
// GET /api/v1/rewards.
func (h *Handler) ListRewards(c *gin.Context) {
	rewards, err := h.rewards.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list rewards")
		h.errorResponse(c, http.StatusInternalServerError, "failed to retrieve rewards")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rewards": rewards,
		"total":   len(rewards),
	})
}

// ListBadges returns the badge catalog.
// GET /api/v1/badges.
func (h *Handler) ListBadges(c *gin.Context) {
	badges, err := h.badges.GetAll()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list badges")
		h.errorResponse(c, http.StatusInternalServerError, "failed to retrieve badges")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"badges": badges,
		"total":  len(badges),
	})
}

// RedeemReward redeems a reward for the authenticated user.
// POST /api/v1/rewards/:id/redeem.
func (h *Handler) RedeemReward(c *gin.Context) {
	userID := authenticatedUser(c)
	rewardID := c.Param("id")

	result, err := h.rewards.Redeem(c.Request.Context(), userID, rewardID)
	if err != nil {
		h.redeemError(c, err)
		return
	}

	h.leaderboard.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, result)
}

// Healthz reports service health.
// GET /healthz.
func (h *Handler) Healthz(c *gin.Context) {
	if h.health != nil {
		if err := h.health.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Helper functions

// scanError maps scan flow errors to HTTP responses.
func (h *Handler) scanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrProductNotFound):
		h.errorResponse(c, http.StatusNotFound, "product not found")
	case errors.Is(err, engine.ErrUserNotFound):
		h.errorResponse(c, http.StatusNotFound, "user not found")
	default:
		h.log.Error().Err(err).Msg("Scan failed")
		h.errorResponse(c, http.StatusInternalServerError, "failed to process scan")
	}
}

// redeemError maps redemption flow errors to HTTP responses.
func (h *Handler) redeemError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrRewardNotFound):
		h.errorResponse(c, http.StatusNotFound, "reward not found")
	case errors.Is(err, engine.ErrUserNotFound):
		h.errorResponse(c, http.StatusNotFound, "user not found")
	case errors.Is(err, engine.ErrInsufficientPoints):
		h.errorResponse(c, http.StatusPaymentRequired, "insufficient points")
	case errors.Is(err, engine.ErrRewardAlreadyRedeemed):
		h.errorResponse(c, http.StatusConflict, "reward already redeemed")
	default:
		h.log.Error().Err(err).Msg("Redemption failed")
		h.errorResponse(c, http.StatusInternalServerError, "failed to redeem reward")
	}
}

// parseLimit extracts and validates the limit query parameter.
func (h *Handler) parseLimit(c *gin.Context, defaultLimit int) (int, error) {
	limitStr := c.Query("limit")
	if limitStr == "" {
		return defaultLimit, nil
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		return 0, errors.New("limit must be a positive integer")
	}
	if limit > 1000 {
		return 0, errors.New("limit cannot exceed 1000")
	}
	return limit, nil
}

// errorResponse sends a standardized error response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}
