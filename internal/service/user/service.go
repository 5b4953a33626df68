// Package user provides account registration, login and profile reads.
package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/terraquest/terraquest-backend/internal/auth"
	"github.com/terraquest/terraquest-backend/internal/engine"
	"github.com/terraquest/terraquest-backend/internal/models"
	"github.com/terraquest/terraquest-backend/internal/repository"
	"github.com/terraquest/terraquest-backend/pkg/logger"
)

// Service errors.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingFields      = errors.New("name, email and password are required")
)

// Repository interface for user operations.
type Repository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}

// BadgeRepository interface for badge reads on the profile.
type BadgeRepository interface {
	GetUserBadges(userID string) ([]models.UserBadge, error)
}

// AuthResult is a signed token plus the account it belongs to.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Profile is a user aggregate with its unlocked badges attached.
type Profile struct {
	User   *models.User       `json:"user"`
	Badges []models.UserBadge `json:"badges"`
}

// Service handles account registration, login and profile reads.
type Service struct {
	users  Repository
	badges BadgeRepository
	issuer *auth.TokenIssuer
	levels *engine.LevelTable
	log    *logger.Logger
}

// NewService creates a new user service with concrete repository types.
func NewService(
	users *repository.UserRepository,
	badges *repository.BadgeRepository,
	issuer *auth.TokenIssuer,
	levels *engine.LevelTable,
	log *logger.Logger,
) *Service {
	return NewServiceWithInterfaces(users, badges, issuer, levels, log)
}

// NewServiceWithInterfaces creates a new user service with interface
// dependencies (useful for testing).
func NewServiceWithInterfaces(
	users Repository,
	badges BadgeRepository,
	issuer *auth.TokenIssuer,
	levels *engine.LevelTable,
	log *logger.Logger,
) *Service {
	return &Service{
		users:  users,
		badges: badges,
		issuer: issuer,
		levels: levels,
		log:    log,
	}
}

// Register creates a fresh account with zero score, the first level tier and
// empty collections, and signs a token for it.
func (s *Service) Register(_ context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}

	existing, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:           "user_" + uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		EcoScore:     0,
		Level:        s.levels.LevelFor(0).Name,
		Avatar:       "🌱",
		JoinedAt:     now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(user.ID, user.Name)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("Registered new account")
	return &AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials and signs a token.
func (s *Service) Login(_ context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user.ID, user.Name)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// GetProfile returns the user aggregate with unlocked badges.
func (s *Service) GetProfile(_ context.Context, userID string) (*Profile, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, engine.ErrUserNotFound
	}

	badges, err := s.badges.GetUserBadges(userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Badges: badges}, nil
}
