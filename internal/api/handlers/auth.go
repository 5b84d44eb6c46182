package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/designlab-hq/designlab/internal/api/dto"
	"github.com/designlab-hq/designlab/internal/api/middleware"
	"github.com/designlab-hq/designlab/internal/domain/user"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
	"github.com/designlab-hq/designlab/internal/pkg/logger"
	"github.com/designlab-hq/designlab/internal/pkg/utils"
	"github.com/designlab-hq/designlab/internal/pkg/validator"
	"github.com/designlab-hq/designlab/internal/services"
)

// AuthHandler handles registration, login, refresh and the current-user view
type AuthHandler struct {
	service   *services.AuthService
	users     user.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service *services.AuthService, users user.Service, log *logger.Logger, val *validator.Validator) *AuthHandler {
	return &AuthHandler{
		service:   service,
		users:     users,
		logger:    log,
		validator: val,
	}
}

func userDTO(u *user.User) dto.UserDTO {
	return dto.UserDTO{
		ID:                 u.ID,
		Email:              u.Email,
		Username:           u.Username,
		FullName:           u.FullName,
		Role:               u.Role,
		PlanID:             u.PlanID,
		SubscriptionStatus: u.SubscriptionStatus,
		Language:           u.Language,
		AIChatUsed:         u.AIChatUsed,
	}
}

func authPayload(result *services.AuthResult) map[string]interface{} {
	return map[string]interface{}{
		"user":   userDTO(result.User),
		"tokens": result.Tokens,
	}
}

// Register creates a new account
// @Summary Register
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 409 {object} utils.ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	result, err := h.service.Register(r.Context(), services.RegisterRequest{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Language: req.Language,
	})
	if err != nil {
		writeServiceError(w, err, "Failed to register")
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, authPayload(result))
}

// Login authenticates a user
// @Summary Login
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	result, err := h.service.Login(r.Context(), services.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, err, "Failed to login")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, authPayload(result))
}

// RefreshToken rotates a token pair
// @Summary Refresh tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshRequest true "Refresh token"
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse "Invalid refresh token"
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if req.RefreshToken == "" {
		utils.WriteError(w, errors.BadRequest("Refresh token is required"))
		return
	}

	result, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, err, "Failed to refresh tokens")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, authPayload(result))
}

// Me returns the authenticated user
// @Summary Current user
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	u, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "Failed to load user")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, userDTO(u))
}
