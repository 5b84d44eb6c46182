package services

import (
	"context"
	"time"

	"github.com/designlab-hq/designlab/internal/domain/user"
	"github.com/designlab-hq/designlab/internal/pkg/logger"
)

// UserService implements user.Service.
type UserService struct {
	repo   user.Repository
	logger *logger.Logger

	now func() time.Time
}

// NewUserService creates a new user service
func NewUserService(repo user.Repository, log *logger.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: log,
		now:    time.Now,
	}
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByEmail retrieves a user by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// Update updates a user.
func (s *UserService) Update(ctx context.Context, u *user.User) error {
	return s.repo.Update(ctx, u)
}

// List retrieves users with pagination.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]*user.User, int64, error) {
	return s.repo.List(ctx, limit, offset)
}

// GetCustomLimits returns a user's override fields.
func (s *UserService) GetCustomLimits(ctx context.Context, userID int64) (*user.CustomLimits, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &user.CustomLimits{
		MaxProjects:              u.CustomMaxProjects,
		MaxDoubleDiamondProjects: u.CustomMaxDoubleDiamondProjects,
		MaxDoubleDiamondExports:  u.CustomMaxDoubleDiamondExports,
		AIChatLimit:              u.CustomAIChatLimit,
		TrialEndsAt:              u.CustomLimitsTrialEndsAt,
	}, nil
}

// SetCustomLimits writes a user's override fields. A trialDays > 0 converts
// to a concrete end date of now + trialDays and takes precedence over any
// TrialEndsAt in the request; trialDays == 0 leaves the request's value
// (nil = permanent override).
func (s *UserService) SetCustomLimits(ctx context.Context, userID int64, limits user.CustomLimits, trialDays int) error {
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return err
	}

	if trialDays > 0 {
		end := s.now().AddDate(0, 0, trialDays)
		limits.TrialEndsAt = &end
	}

	if err := s.repo.UpdateCustomLimits(ctx, userID, limits); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":    userID,
		"trial_days": trialDays,
	}).Info("Custom limits updated")

	return nil
}
