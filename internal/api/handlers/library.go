package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/designlab-hq/designlab/internal/api/dto"
	"github.com/designlab-hq/designlab/internal/api/middleware"
	"github.com/designlab-hq/designlab/internal/domain/library"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
	"github.com/designlab-hq/designlab/internal/pkg/logger"
	"github.com/designlab-hq/designlab/internal/pkg/utils"
	"github.com/designlab-hq/designlab/internal/pkg/validator"
	"github.com/designlab-hq/designlab/internal/services"
)

// LibraryHandler handles the content library routes
type LibraryHandler struct {
	service   *services.LibraryService
	logger    *logger.Logger
	validator *validator.Validator
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(service *services.LibraryService, log *logger.Logger, val *validator.Validator) *LibraryHandler {
	return &LibraryHandler{
		service:   service,
		logger:    log,
		validator: val,
	}
}

// List returns library items visible to the caller's plan. Premium items
// are filtered out for plans without premium library access.
// @Summary List library items
// @Tags Library
// @Produce json
// @Param kind query string false "Filter by kind (article, video, testimonial)"
// @Success 200 {object} utils.PaginatedResponse
// @Security BearerAuth
// @Router /library [get]
func (h *LibraryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	p := utils.ParsePagination(r)
	kind := r.URL.Query().Get("kind")

	items, total, err := h.service.List(r.Context(), userID, kind, p.PageSize, p.Offset)
	if err != nil {
		writeServiceError(w, err, "Failed to list library items")
		return
	}

	utils.WriteSuccess(w, http.StatusOK,
		utils.NewPaginatedResponse(items, p.Page, p.PageSize, total))
}

// Get returns one library item
// @Summary Get library item
// @Tags Library
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse "Premium item not in plan"
// @Security BearerAuth
// @Router /library/{id} [get]
func (h *LibraryHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	item, err := h.service.Get(r.Context(), id, userID)
	if err != nil {
		writeServiceError(w, err, "Failed to get library item")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, item)
}

// Create creates a library item and queues translation generation.
// Admin only.
// @Summary Create library item
// @Tags Library
// @Accept json
// @Produce json
// @Param request body dto.LibraryItemRequest true "Item data"
// @Success 201 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /admin/library [post]
func (h *LibraryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.LibraryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	created, err := h.service.Create(r.Context(), itemFromRequest(req))
	if err != nil {
		writeServiceError(w, err, "Failed to create library item")
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, created)
}

// Update updates a library item. Admin only.
// @Summary Update library item
// @Tags Library
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param request body dto.LibraryItemRequest true "Item data"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /admin/library/{id} [put]
func (h *LibraryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.LibraryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	item := itemFromRequest(req)
	item.ID = id
	if err := h.service.Update(r.Context(), item); err != nil {
		writeServiceError(w, err, "Failed to update library item")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, item)
}

// Delete removes a library item. Admin only.
// @Summary Delete library item
// @Tags Library
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /admin/library/{id} [delete]
func (h *LibraryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "Failed to delete library item")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Library item deleted", nil)
}

func itemFromRequest(req dto.LibraryItemRequest) *library.Item {
	return &library.Item{
		Kind:     req.Kind,
		Title:    req.Title,
		Body:     req.Body,
		Summary:  req.Summary,
		URL:      req.URL,
		Author:   req.Author,
		Category: req.Category,
		Language: req.Language,
		Premium:  req.Premium,
	}
}
