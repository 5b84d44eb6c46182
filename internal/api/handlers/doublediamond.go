package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/designlab-hq/designlab/internal/api/dto"
	"github.com/designlab-hq/designlab/internal/api/middleware"
	"github.com/designlab-hq/designlab/internal/domain/doublediamond"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
	"github.com/designlab-hq/designlab/internal/pkg/logger"
	"github.com/designlab-hq/designlab/internal/pkg/utils"
	"github.com/designlab-hq/designlab/internal/pkg/validator"
	"github.com/designlab-hq/designlab/internal/services"
)

// DoubleDiamondHandler handles the AI-guided Double Diamond engine routes
type DoubleDiamondHandler struct {
	service   doublediamond.Service
	exports   *services.ExportService
	logger    *logger.Logger
	validator *validator.Validator
}

// NewDoubleDiamondHandler creates a new Double Diamond handler
func NewDoubleDiamondHandler(service doublediamond.Service, exports *services.ExportService, log *logger.Logger, val *validator.Validator) *DoubleDiamondHandler {
	return &DoubleDiamondHandler{
		service:   service,
		exports:   exports,
		logger:    log,
		validator: val,
	}
}

// Create creates a Double Diamond project
// @Summary Create Double Diamond project
// @Tags Double Diamond
// @Accept json
// @Produce json
// @Param request body dto.CreateDoubleDiamondRequest true "Project data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse "Plan limit reached"
// @Security BearerAuth
// @Router /double-diamond [post]
func (h *DoubleDiamondHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	var req dto.CreateDoubleDiamondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	p := &doublediamond.Project{
		UserID:           userID,
		Name:             req.Name,
		Description:      req.Description,
		Sector:           req.Sector,
		SuccessCase:      req.SuccessCase,
		TargetAudience:   req.TargetAudience,
		ProblemStatement: req.ProblemStatement,
		Language:         req.Language,
	}

	created, err := h.service.Create(r.Context(), p)
	if err != nil {
		writeServiceError(w, err, "Failed to create Double Diamond project")
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, created)
}

// List returns the caller's Double Diamond projects
// @Summary List Double Diamond projects
// @Tags Double Diamond
// @Produce json
// @Success 200 {object} utils.PaginatedResponse
// @Security BearerAuth
// @Router /double-diamond [get]
func (h *DoubleDiamondHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	p := utils.ParsePagination(r)

	projects, total, err := h.service.List(r.Context(), userID, p.PageSize, p.Offset)
	if err != nil {
		writeServiceError(w, err, "Failed to list Double Diamond projects")
		return
	}

	utils.WriteSuccess(w, http.StatusOK,
		utils.NewPaginatedResponse(projects, p.Page, p.PageSize, total))
}

// Get returns one Double Diamond project with all phase payloads
// @Summary Get Double Diamond project
// @Tags Double Diamond
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse "Not found"
// @Security BearerAuth
// @Router /double-diamond/{id} [get]
func (h *DoubleDiamondHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	p, err := h.service.Get(r.Context(), id, userID)
	if err != nil {
		writeServiceError(w, err, "Failed to get Double Diamond project")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, p)
}

// Delete removes a Double Diamond project
// @Summary Delete Double Diamond project
// @Tags Double Diamond
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /double-diamond/{id} [delete]
func (h *DoubleDiamondHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id, userID); err != nil {
		writeServiceError(w, err, "Failed to delete Double Diamond project")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Double Diamond project deleted", nil)
}

// GenerateDiscover runs discover-phase generation
// @Summary Generate discover phase
// @Tags Double Diamond
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param request body dto.DiscoverGenerateRequest false "Optional overrides"
// @Success 200 {object} utils.SuccessResponse
// @Failure 502 {object} utils.ErrorResponse "Generation failed"
// @Security BearerAuth
// @Router /double-diamond/{id}/generate/discover [post]
func (h *DoubleDiamondHandler) GenerateDiscover(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	// Body is optional; an empty body means no overrides.
	var req dto.DiscoverGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	p, err := h.service.GenerateDiscover(r.Context(), id, userID, doublediamond.DiscoverRequest{
		Sector:           req.Sector,
		SuccessCase:      req.SuccessCase,
		TargetAudience:   req.TargetAudience,
		ProblemStatement: req.ProblemStatement,
		Language:         req.Language,
	})
	if err != nil {
		writeServiceError(w, err, "Failed to generate discover phase")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, p)
}

// GenerateDefine runs define-phase generation
// @Summary Generate define phase
// @Tags Double Diamond
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse "Discover phase incomplete"
// @Security BearerAuth
// @Router /double-diamond/{id}/generate/define [post]
func (h *DoubleDiamondHandler) GenerateDefine(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, h.service.GenerateDefine, "define")
}

// GenerateDevelop runs develop-phase generation
// @Summary Generate develop phase
// @Tags Double Diamond
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse "Define phase incomplete"
// @Security BearerAuth
// @Router /double-diamond/{id}/generate/develop [post]
func (h *DoubleDiamondHandler) GenerateDevelop(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, h.service.GenerateDevelop, "develop")
}

// GenerateDeliver runs deliver-phase generation
// @Summary Generate deliver phase
// @Tags Double Diamond
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse "Develop phase incomplete"
// @Security BearerAuth
// @Router /double-diamond/{id}/generate/deliver [post]
func (h *DoubleDiamondHandler) GenerateDeliver(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, h.service.GenerateDeliver, "deliver")
}

// GenerateDFV runs the DFV scoring pass
// @Summary Generate DFV analysis
// @Tags Double Diamond
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse "Deliver phase incomplete"
// @Security BearerAuth
// @Router /double-diamond/{id}/generate/dfv [post]
func (h *DoubleDiamondHandler) GenerateDFV(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, h.service.GenerateDFV, "dfv")
}

type generateFn func(ctx context.Context, id, userID int64) (*doublediamond.Project, error)

func (h *DoubleDiamondHandler) generate(w http.ResponseWriter, r *http.Request, fn generateFn, phase string) {
	userID, _ := middleware.GetUserID(r)

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	p, err := fn(r.Context(), id, userID)
	if err != nil {
		writeServiceError(w, err, "Failed to generate "+phase+" phase")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, p)
}

// Export converts a Double Diamond project into a five-phase project
// @Summary Export Double Diamond project
// @Tags Double Diamond
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param request body dto.ExportRequest false "Optional target project name"
// @Success 201 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse "Monthly export limit reached"
// @Security BearerAuth
// @Router /double-diamond/{id}/export [post]
func (h *DoubleDiamondHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	result, err := h.exports.Export(r.Context(), id, req.ProjectName, userID)
	if err != nil {
		writeServiceError(w, err, "Failed to export Double Diamond project")
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, result)
}
