package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/designlab-hq/designlab/internal/api/dto"
	"github.com/designlab-hq/designlab/internal/domain/user"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
	"github.com/designlab-hq/designlab/internal/pkg/logger"
	"github.com/designlab-hq/designlab/internal/pkg/utils"
	"github.com/designlab-hq/designlab/internal/pkg/validator"
	"github.com/designlab-hq/designlab/internal/services"
)

// AdminHandler handles the admin aggregation and tooling surface. All
// routes require the admin role.
type AdminHandler struct {
	service   *services.AdminService
	users     *services.UserService
	logger    *logger.Logger
	validator *validator.Validator
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(service *services.AdminService, users *services.UserService, log *logger.Logger, val *validator.Validator) *AdminHandler {
	return &AdminHandler{
		service:   service,
		users:     users,
		logger:    log,
		validator: val,
	}
}

// Dashboard returns platform-wide aggregates
// @Summary Admin dashboard
// @Tags Admin
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.GetDashboard(r.Context())
	if err != nil {
		writeServiceError(w, err, "Failed to build dashboard")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dashboard)
}

// ListUsers lists platform users
// @Summary List users
// @Tags Admin
// @Produce json
// @Success 200 {object} utils.PaginatedResponse
// @Security BearerAuth
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	p := utils.ParsePagination(r)

	users, total, err := h.service.ListUsers(r.Context(), p.PageSize, p.Offset)
	if err != nil {
		writeServiceError(w, err, "Failed to list users")
		return
	}

	utils.WriteSuccess(w, http.StatusOK,
		utils.NewPaginatedResponse(users, p.Page, p.PageSize, total))
}

// GetCustomLimits returns a user's per-user limit overrides
// @Summary Get custom limits
// @Tags Admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /admin/users/{id}/limits [get]
func (h *AdminHandler) GetCustomLimits(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	limits, err := h.users.GetCustomLimits(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "Failed to get custom limits")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, limits)
}

// SetCustomLimits replaces a user's per-user limit overrides. Absent
// fields clear their override; a trial window bounds the whole set.
// @Summary Set custom limits
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body dto.CustomLimitsRequest true "Override set"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /admin/users/{id}/limits [put]
func (h *AdminHandler) SetCustomLimits(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.CustomLimitsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	err := h.users.SetCustomLimits(r.Context(), userID, user.CustomLimits{
		MaxProjects:              req.MaxProjects,
		MaxDoubleDiamondProjects: req.MaxDoubleDiamondProjects,
		MaxDoubleDiamondExports:  req.MaxDoubleDiamondExports,
		AIChatLimit:              req.AIChatLimit,
	}, req.TrialDays)
	if err != nil {
		writeServiceError(w, err, "Failed to set custom limits")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Custom limits updated", nil)
}

// GrantAddon grants an addon to a user without a purchase
// @Summary Grant addon
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body dto.GrantAddonRequest true "Addon grant"
// @Success 201 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /admin/users/{id}/addons [post]
func (h *AdminHandler) GrantAddon(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.GrantAddonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	addon, err := h.service.GrantAddon(r.Context(), userID, services.GrantAddonRequest{
		AddonKey: req.AddonKey,
		Days:     req.Days,
	})
	if err != nil {
		writeServiceError(w, err, "Failed to grant addon")
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, addon)
}

// ListUserAddons lists a user's addons
// @Summary List user addons
// @Tags Admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /admin/users/{id}/addons [get]
func (h *AdminHandler) ListUserAddons(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	addons, err := h.service.ListUserAddons(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "Failed to list addons")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, addons)
}

// RevokeAddon cancels an addon grant
// @Summary Revoke addon
// @Tags Admin
// @Produce json
// @Param id path int true "User ID"
// @Param addonID path int true "Addon ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /admin/users/{id}/addons/{addonID} [delete]
func (h *AdminHandler) RevokeAddon(w http.ResponseWriter, r *http.Request) {
	if _, ok := pathID(w, r, "id"); !ok {
		return
	}
	addonID, ok := pathID(w, r, "addonID")
	if !ok {
		return
	}

	if err := h.service.RevokeAddon(r.Context(), addonID); err != nil {
		writeServiceError(w, err, "Failed to revoke addon")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Addon revoked", nil)
}
