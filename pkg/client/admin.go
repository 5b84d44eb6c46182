package client

import (
	"context"
	"fmt"
	"time"
)

// AdminService handles admin-only API calls. Every method requires a
// token for an admin account.
type AdminService struct {
	client *Client
}

// Dashboard aggregates platform-wide counters
type Dashboard struct {
	UsersByPlan           map[string]int64 `json:"users_by_plan"`
	ProjectsByStatus      map[string]int64 `json:"projects_by_status"`
	ProjectsByPhase       map[int]int64    `json:"projects_by_phase"`
	DoubleDiamondsByPhase map[string]int64 `json:"double_diamonds_by_phase"`
	ExportsLast30Days     int64            `json:"exports_last_30_days"`
}

// CustomLimits are per-user plan-limit overrides. Nil fields fall back
// to the user's plan.
type CustomLimits struct {
	MaxProjects              *int       `json:"max_projects"`
	MaxDoubleDiamondProjects *int       `json:"max_double_diamond_projects"`
	MaxDoubleDiamondExports  *int       `json:"max_double_diamond_exports"`
	AIChatLimit              *int       `json:"ai_chat_limit"`
	TrialEndsAt              *time.Time `json:"trial_ends_at"`
}

// SetCustomLimitsRequest is the admin payload for per-user overrides.
// Writes are full replacements: absent fields clear the override.
type SetCustomLimitsRequest struct {
	MaxProjects              *int `json:"max_projects,omitempty"`
	MaxDoubleDiamondProjects *int `json:"max_double_diamond_projects,omitempty"`
	MaxDoubleDiamondExports  *int `json:"max_double_diamond_exports,omitempty"`
	AIChatLimit              *int `json:"ai_chat_limit,omitempty"`
	TrialDays                int  `json:"trial_days,omitempty"`
}

// Addon is an active or expired addon grant
type Addon struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	AddonKey      string     `json:"addon_key"`
	Status        string     `json:"status"`
	Source        string     `json:"source"`
	BillingPeriod string     `json:"billing_period,omitempty"`
	PeriodStart   *time.Time `json:"period_start,omitempty"`
	PeriodEnd     *time.Time `json:"period_end,omitempty"`
}

// GrantAddonRequest is the admin payload for granting an addon. Days > 0
// bounds the grant; 0 grants open-ended.
type GrantAddonRequest struct {
	AddonKey string `json:"addon_key"`
	Days     int    `json:"days,omitempty"`
}

// Dashboard retrieves platform-wide aggregates
func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	if err := s.client.doRequest(ctx, "GET", "/api/v1/admin/dashboard", nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListUsers retrieves a page of users
func (s *AdminService) ListUsers(ctx context.Context, opts *ListOptions) (*Paginated[User], error) {
	path := "/api/v1/admin/users" + listQuery(opts)
	var page Paginated[User]
	if err := s.client.doRequest(ctx, "GET", path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetCustomLimits retrieves a user's limit overrides
func (s *AdminService) GetCustomLimits(ctx context.Context, userID int64) (*CustomLimits, error) {
	var limits CustomLimits
	if err := s.client.doRequest(ctx, "GET", fmt.Sprintf("/api/v1/admin/users/%d/limits", userID), nil, &limits); err != nil {
		return nil, err
	}
	return &limits, nil
}

// SetCustomLimits replaces a user's limit overrides
func (s *AdminService) SetCustomLimits(ctx context.Context, userID int64, req SetCustomLimitsRequest) error {
	return s.client.doRequest(ctx, "PUT", fmt.Sprintf("/api/v1/admin/users/%d/limits", userID), req, nil)
}

// ListAddons retrieves a user's addon grants
func (s *AdminService) ListAddons(ctx context.Context, userID int64) ([]Addon, error) {
	var addons []Addon
	if err := s.client.doRequest(ctx, "GET", fmt.Sprintf("/api/v1/admin/users/%d/addons", userID), nil, &addons); err != nil {
		return nil, err
	}
	return addons, nil
}

// GrantAddon grants an addon to a user
func (s *AdminService) GrantAddon(ctx context.Context, userID int64, req GrantAddonRequest) (*Addon, error) {
	var addon Addon
	if err := s.client.doRequest(ctx, "POST", fmt.Sprintf("/api/v1/admin/users/%d/addons", userID), req, &addon); err != nil {
		return nil, err
	}
	return &addon, nil
}

// RevokeAddon cancels an addon grant
func (s *AdminService) RevokeAddon(ctx context.Context, userID, addonID int64) error {
	return s.client.doRequest(ctx, "DELETE", fmt.Sprintf("/api/v1/admin/users/%d/addons/%d", userID, addonID), nil, nil)
}
