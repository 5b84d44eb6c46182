package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/designlab-hq/designlab/internal/api/dto"
	"github.com/designlab-hq/designlab/internal/api/middleware"
	"github.com/designlab-hq/designlab/internal/domain/project"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
	"github.com/designlab-hq/designlab/internal/pkg/logger"
	"github.com/designlab-hq/designlab/internal/pkg/utils"
	"github.com/designlab-hq/designlab/internal/pkg/validator"
)

// ProjectHandler handles the five-phase project CRUD surface
type ProjectHandler struct {
	service   project.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(service project.Service, log *logger.Logger, val *validator.Validator) *ProjectHandler {
	return &ProjectHandler{
		service:   service,
		logger:    log,
		validator: val,
	}
}

// Create creates a project
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Param request body dto.CreateProjectRequest true "Project data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse "Plan limit reached"
// @Failure 409 {object} utils.ErrorResponse "Duplicate submission"
// @Security BearerAuth
// @Router /projects [post]
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	var req dto.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	p := &project.Project{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Sector:      req.Sector,
		SuccessCase: req.SuccessCase,
	}

	created, err := h.service.Create(r.Context(), p)
	if err != nil {
		writeServiceError(w, err, "Failed to create project")
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, created)
}

// List returns the caller's projects
// @Summary List projects
// @Tags Projects
// @Produce json
// @Success 200 {object} utils.PaginatedResponse
// @Security BearerAuth
// @Router /projects [get]
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	p := utils.ParsePagination(r)

	projects, total, err := h.service.List(r.Context(), userID, p.PageSize, p.Offset)
	if err != nil {
		writeServiceError(w, err, "Failed to list projects")
		return
	}

	utils.WriteSuccess(w, http.StatusOK,
		utils.NewPaginatedResponse(projects, p.Page, p.PageSize, total))
}

// Get returns one project
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse "Not found"
// @Security BearerAuth
// @Router /projects/{id} [get]
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	role, _ := middleware.GetUserRole(r)

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	p, err := h.service.Get(r.Context(), id, userID, role)
	if err != nil {
		writeServiceError(w, err, "Failed to get project")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, p)
}

// Update mutates a project
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param request body dto.UpdateProjectRequest true "Fields to update"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id} [put]
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	role, _ := middleware.GetUserRole(r)

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	current, err := h.service.Get(r.Context(), id, userID, role)
	if err != nil {
		writeServiceError(w, err, "Failed to get project")
		return
	}

	if req.Name != nil {
		current.Name = *req.Name
	}
	if req.Description != nil {
		current.Description = req.Description
	}
	if req.Sector != nil {
		current.Sector = req.Sector
	}
	if req.SuccessCase != nil {
		current.SuccessCase = req.SuccessCase
	}
	if req.Status != nil {
		current.Status = *req.Status
	}
	if req.CurrentPhase != nil {
		current.CurrentPhase = *req.CurrentPhase
	}
	if req.CompletionRate != nil {
		current.CompletionRate = *req.CompletionRate
	}

	if err := h.service.Update(r.Context(), current, userID, role); err != nil {
		writeServiceError(w, err, "Failed to update project")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, current)
}

// Delete removes a project
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id} [delete]
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	role, _ := middleware.GetUserRole(r)

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id, userID, role); err != nil {
		writeServiceError(w, err, "Failed to delete project")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Project deleted", nil)
}
