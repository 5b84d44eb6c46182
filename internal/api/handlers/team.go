package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/designlab-hq/designlab/internal/api/dto"
	"github.com/designlab-hq/designlab/internal/api/middleware"
	"github.com/designlab-hq/designlab/internal/domain/team"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
	"github.com/designlab-hq/designlab/internal/pkg/logger"
	"github.com/designlab-hq/designlab/internal/pkg/utils"
	"github.com/designlab-hq/designlab/internal/pkg/validator"
	"github.com/designlab-hq/designlab/internal/services"
)

// TeamHandler handles project collaboration routes
type TeamHandler struct {
	service   *services.TeamService
	logger    *logger.Logger
	validator *validator.Validator
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(service *services.TeamService, log *logger.Logger, val *validator.Validator) *TeamHandler {
	return &TeamHandler{
		service:   service,
		logger:    log,
		validator: val,
	}
}

// Invite invites a user to collaborate on a project. Requires the owner's
// plan to include collaboration (enforced by the subscription middleware
// and re-checked in the service).
// @Summary Invite team member
// @Tags Teams
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param request body dto.InviteRequest true "Invite data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse "Collaboration not in plan or team full"
// @Security BearerAuth
// @Router /projects/{id}/team/invites [post]
func (h *TeamHandler) Invite(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	role, _ := middleware.GetUserRole(r)

	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	invite, err := h.service.Invite(r.Context(), projectID, userID, role, team.InviteRequest{
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		writeServiceError(w, err, "Failed to create invite")
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, invite)
}

// ListInvites lists a project's invites
// @Summary List invites
// @Tags Teams
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/team/invites [get]
func (h *TeamHandler) ListInvites(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	role, _ := middleware.GetUserRole(r)

	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	invites, err := h.service.ListInvites(r.Context(), projectID, userID, role)
	if err != nil {
		writeServiceError(w, err, "Failed to list invites")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, invites)
}

// ListMembers lists a project's team members
// @Summary List team members
// @Tags Teams
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/team/members [get]
func (h *TeamHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	role, _ := middleware.GetUserRole(r)

	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	members, err := h.service.ListMembers(r.Context(), projectID, userID, role)
	if err != nil {
		writeServiceError(w, err, "Failed to list team members")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, members)
}

// UpdateMemberRole changes a member's role
// @Summary Update member role
// @Tags Teams
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param userID path int true "Member user ID"
// @Param request body dto.UpdateMemberRoleRequest true "New role"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/team/members/{userID} [put]
func (h *TeamHandler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	role, _ := middleware.GetUserRole(r)

	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	memberUserID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	var req dto.UpdateMemberRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	if err := h.service.UpdateMemberRole(r.Context(), projectID, userID, role, memberUserID, req.Role); err != nil {
		writeServiceError(w, err, "Failed to update member role")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Member role updated", nil)
}

// RemoveMember removes a member from the project team
// @Summary Remove team member
// @Tags Teams
// @Produce json
// @Param id path int true "Project ID"
// @Param userID path int true "Member user ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/team/members/{userID} [delete]
func (h *TeamHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	role, _ := middleware.GetUserRole(r)

	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	memberUserID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	if err := h.service.RemoveMember(r.Context(), projectID, userID, role, memberUserID); err != nil {
		writeServiceError(w, err, "Failed to remove team member")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Member removed", nil)
}

// AcceptInvite accepts an invite by token, joining the caller to the team
// @Summary Accept invite
// @Tags Teams
// @Produce json
// @Param token path string true "Invite token"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse "Invite addressed to a different email"
// @Failure 410 {object} utils.ErrorResponse "Invite expired"
// @Security BearerAuth
// @Router /invites/{token}/accept [post]
func (h *TeamHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	email, _ := middleware.GetUserEmail(r)

	token := chi.URLParam(r, "token")
	if token == "" {
		utils.WriteError(w, errors.BadRequest("Invite token is required"))
		return
	}

	member, err := h.service.AcceptInvite(r.Context(), token, userID, email)
	if err != nil {
		writeServiceError(w, err, "Failed to accept invite")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, member)
}

// DeclineInvite declines an invite by token
// @Summary Decline invite
// @Tags Teams
// @Produce json
// @Param token path string true "Invite token"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /invites/{token}/decline [post]
func (h *TeamHandler) DeclineInvite(w http.ResponseWriter, r *http.Request) {
	email, _ := middleware.GetUserEmail(r)

	token := chi.URLParam(r, "token")
	if token == "" {
		utils.WriteError(w, errors.BadRequest("Invite token is required"))
		return
	}

	if err := h.service.DeclineInvite(r.Context(), token, email); err != nil {
		writeServiceError(w, err, "Failed to decline invite")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Invite declined", nil)
}
