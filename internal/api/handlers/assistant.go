package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/designlab-hq/designlab/internal/api/dto"
	"github.com/designlab-hq/designlab/internal/api/middleware"
	"github.com/designlab-hq/designlab/internal/domain/assistant"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
	"github.com/designlab-hq/designlab/internal/pkg/logger"
	"github.com/designlab-hq/designlab/internal/pkg/utils"
	"github.com/designlab-hq/designlab/internal/pkg/validator"
)

// AssistantHandler handles AI assistant routes
type AssistantHandler struct {
	service   assistant.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(service assistant.Service, log *logger.Logger, val *validator.Validator) *AssistantHandler {
	return &AssistantHandler{
		service:   service,
		logger:    log,
		validator: val,
	}
}

// Chat runs one assistant conversation turn under the caller's chat quota
// @Summary Assistant chat
// @Tags Assistant
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Conversation so far"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse "Chat quota exhausted"
// @Failure 502 {object} utils.ErrorResponse "Assistant unavailable"
// @Security BearerAuth
// @Router /assistant/chat [post]
func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	var req dto.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	messages := make([]assistant.Message, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = assistant.Message{Role: m.Role, Content: m.Content}
	}

	resp, err := h.service.Chat(r.Context(), userID, assistant.ChatRequest{
		Messages: messages,
		Language: req.Language,
	})
	if err != nil {
		writeServiceError(w, err, "Failed to run assistant chat")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, resp)
}

// GenerateMVP generates the full MVP asset bundle for a project
// @Summary Generate MVP assets
// @Tags Assistant
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 502 {object} utils.ErrorResponse "Generation failed"
// @Security BearerAuth
// @Router /projects/{id}/generate-mvp [post]
func (h *AssistantHandler) GenerateMVP(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	assets, err := h.service.GenerateMVP(r.Context(), projectID, userID)
	if err != nil {
		writeServiceError(w, err, "Failed to generate MVP assets")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, assets)
}
