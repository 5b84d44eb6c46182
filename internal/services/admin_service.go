package services

import (
	"context"
	"time"

	"github.com/designlab-hq/designlab/internal/domain/doublediamond"
	"github.com/designlab-hq/designlab/internal/domain/plan"
	"github.com/designlab-hq/designlab/internal/domain/project"
	"github.com/designlab-hq/designlab/internal/domain/user"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
	"github.com/designlab-hq/designlab/internal/pkg/logger"
)

// Dashboard aggregates platform-wide counters for the admin console.
type Dashboard struct {
	UsersByPlan            map[string]int64 `json:"users_by_plan"`
	ProjectsByStatus       map[string]int64 `json:"projects_by_status"`
	ProjectsByPhase        map[int]int64    `json:"projects_by_phase"`
	DoubleDiamondsByPhase  map[string]int64 `json:"double_diamonds_by_phase"`
	ExportsLast30Days      int64            `json:"exports_last_30_days"`
}

// GrantAddonRequest is the admin input for granting an addon.
type GrantAddonRequest struct {
	AddonKey string `json:"addon_key" validate:"required"`
	// Days > 0 bounds the grant; 0 grants open-ended.
	Days int `json:"days" validate:"min=0,max=3650"`
}

// AdminService implements the admin aggregation and tooling surface.
type AdminService struct {
	users    user.Repository
	plans    plan.Repository
	projects project.Repository
	dd       doublediamond.Repository
	logger   *logger.Logger

	now func() time.Time
}

// NewAdminService creates a new admin service
func NewAdminService(
	users user.Repository,
	plans plan.Repository,
	projects project.Repository,
	dd doublediamond.Repository,
	log *logger.Logger,
) *AdminService {
	return &AdminService{
		users:    users,
		plans:    plans,
		projects: projects,
		dd:       dd,
		logger:   log,
		now:      time.Now,
	}
}

// GetDashboard aggregates the platform counters. Each source is read
// independently; a failing source fails the whole dashboard, which is
// acceptable for an internal console.
func (s *AdminService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	usersByPlan, err := s.users.CountByPlan(ctx)
	if err != nil {
		return nil, err
	}
	projectsByStatus, err := s.projects.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	projectsByPhase, err := s.projects.CountByPhase(ctx)
	if err != nil {
		return nil, err
	}
	ddByPhase, err := s.dd.CountByPhase(ctx)
	if err != nil {
		return nil, err
	}
	exports, err := s.dd.CountExportsSince(ctx, s.now().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		UsersByPlan:           usersByPlan,
		ProjectsByStatus:      projectsByStatus,
		ProjectsByPhase:       projectsByPhase,
		DoubleDiamondsByPhase: ddByPhase,
		ExportsLast30Days:     exports,
	}, nil
}

// ListUsers pages through all accounts.
func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]*user.User, int64, error) {
	return s.users.List(ctx, limit, offset)
}

// GrantAddon grants an addon to a user without a purchase.
func (s *AdminService) GrantAddon(ctx context.Context, userID int64, req GrantAddonRequest) (*plan.Addon, error) {
	if !validAddonKey(req.AddonKey) {
		return nil, errors.BadRequest("Unknown addon key")
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	start := s.now()
	addon := &plan.Addon{
		UserID:      userID,
		AddonKey:    req.AddonKey,
		Status:      plan.AddonStatusActive,
		Source:      plan.AddonSourceAdmin,
		PeriodStart: &start,
	}
	if req.Days > 0 {
		end := start.AddDate(0, 0, req.Days)
		addon.PeriodEnd = &end
	}
	if err := s.plans.CreateAddon(ctx, addon); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":   userID,
		"addon_key": req.AddonKey,
		"days":      req.Days,
	}).Info("Addon granted by admin")

	return addon, nil
}

// RevokeAddon cancels an addon row.
func (s *AdminService) RevokeAddon(ctx context.Context, addonID int64) error {
	return s.plans.UpdateAddonStatus(ctx, addonID, plan.AddonStatusCanceled)
}

// ListUserAddons returns every addon row for a user, active or not.
func (s *AdminService) ListUserAddons(ctx context.Context, userID int64) ([]*plan.Addon, error) {
	return s.plans.ListAddons(ctx, userID)
}

func validAddonKey(key string) bool {
	switch key {
	case plan.AddonDoubleDiamondPro, plan.AddonExportPro, plan.AddonAITurbo,
		plan.AddonCollabAdvanced, plan.AddonLibraryPremium:
		return true
	}
	return false
}
