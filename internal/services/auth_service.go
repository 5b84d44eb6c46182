package services

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/designlab-hq/designlab/internal/auth"
	"github.com/designlab-hq/designlab/internal/config"
	"github.com/designlab-hq/designlab/internal/domain/plan"
	"github.com/designlab-hq/designlab/internal/domain/user"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
	"github.com/designlab-hq/designlab/internal/pkg/logger"
)

// RegisterRequest is the signup input.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=40"`
	Password string `json:"password" validate:"required,min=8"`
	Language string `json:"language,omitempty"`
}

// LoginRequest is the login input.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult bundles the authenticated user and its tokens.
type AuthResult struct {
	User   *user.User     `json:"user"`
	Tokens auth.TokenPair `json:"tokens"`
}

// AuthService handles registration, login and token refresh.
type AuthService struct {
	users  user.Repository
	cfg    config.AuthConfig
	logger *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users user.Repository, cfg config.AuthConfig, log *logger.Logger) *AuthService {
	return &AuthService{
		users:  users,
		cfg:    cfg,
		logger: log,
	}
}

// Register creates an account on the free plan and returns a token pair.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, errors.Conflict("An account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BCryptCost)
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}

	language := req.Language
	if language == "" {
		language = "pt-BR"
	}

	u := &user.User{
		Email:              email,
		Username:           strings.TrimSpace(req.Username),
		PasswordHash:       string(hash),
		Role:               user.RoleUser,
		PlanID:             plan.Free,
		SubscriptionStatus: user.SubscriptionNone,
		Language:           language,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": u.ID,
	}).Info("User registered")

	return s.issueTokens(u)
}

// Login authenticates email/password and returns a token pair.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Same response for unknown email and bad password.
		return nil, errors.Unauthorized("Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.Unauthorized("Invalid email or password")
	}

	return s.issueTokens(u)
}

// Refresh validates a refresh token and mints a fresh pair. The user row is
// re-read so role or plan changes take effect on rotation.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := auth.ParseClaims(refreshToken, s.cfg.JWTSecret)
	if err != nil {
		return nil, errors.Unauthorized("Invalid or expired refresh token")
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.Unauthorized("Invalid or expired refresh token")
	}

	return s.issueTokens(u)
}

func (s *AuthService) issueTokens(u *user.User) (*AuthResult, error) {
	tokens, err := auth.MintTokens(u.ID, u.Email, u.Role, s.cfg.JWTSecret,
		s.cfg.AccessTokenExpiry, s.cfg.RefreshTokenExpiry)
	if err != nil {
		return nil, errors.Internal("Failed to issue tokens", err)
	}
	return &AuthResult{User: u, Tokens: tokens}, nil
}
