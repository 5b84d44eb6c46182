package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/designlab-hq/designlab/internal/api/dto"
	"github.com/designlab-hq/designlab/internal/api/middleware"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
	"github.com/designlab-hq/designlab/internal/pkg/logger"
	"github.com/designlab-hq/designlab/internal/pkg/utils"
	"github.com/designlab-hq/designlab/internal/pkg/validator"
	"github.com/designlab-hq/designlab/internal/services"
)

// Webhook event types the billing surface reacts to.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// WebhookEvent is a verified, parsed billing provider event. Exactly one of
// the payload fields is set depending on Type.
type WebhookEvent struct {
	Type           string
	Checkout       *services.CheckoutCompleted
	SubscriptionID string
	ProviderStatus string
}

// WebhookParser verifies a provider webhook signature and parses the
// payload. Events the billing surface does not react to return (nil, nil).
type WebhookParser interface {
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

// BillingHandler handles plan listing, checkout and the provider webhook
type BillingHandler struct {
	service   *services.BillingService
	parser    WebhookParser
	logger    *logger.Logger
	validator *validator.Validator
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(service *services.BillingService, parser WebhookParser, log *logger.Logger, val *validator.Validator) *BillingHandler {
	return &BillingHandler{
		service:   service,
		parser:    parser,
		logger:    log,
		validator: val,
	}
}

// ListPlans returns the purchasable tiers
// @Summary List plans
// @Tags Billing
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /plans [get]
func (h *BillingHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.service.ListPlans(r.Context())
	if err != nil {
		writeServiceError(w, err, "Failed to list plans")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, plans)
}

// CreateCheckout opens a hosted checkout session
// @Summary Create checkout session
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body dto.CheckoutRequest true "Checkout data"
// @Success 200 {object} utils.SuccessResponse
// @Failure 502 {object} utils.ErrorResponse "Payment provider unavailable"
// @Security BearerAuth
// @Router /billing/checkout [post]
func (h *BillingHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	var req dto.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	url, err := h.service.CreateCheckout(r.Context(), userID, services.CheckoutRequest{
		Kind:          req.Kind,
		PlanID:        req.PlanID,
		AddonKey:      req.AddonKey,
		BillingPeriod: req.BillingPeriod,
		SuccessURL:    req.SuccessURL,
		CancelURL:     req.CancelURL,
	})
	if err != nil {
		writeServiceError(w, err, "Failed to create checkout session")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, map[string]string{"checkout_url": url})
}

// Webhook receives provider events. The signature is verified before any
// payload is trusted; unrecognized events are acknowledged and dropped.
// @Summary Billing webhook
// @Tags Billing
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse "Bad signature or payload"
// @Router /billing/webhook [post]
func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		utils.WriteError(w, errors.BadRequest("Failed to read webhook payload"))
		return
	}

	evt, err := h.parser.ParseWebhook(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		h.logger.ErrorWithErr(err, "Webhook verification failed")
		utils.WriteError(w, errors.BadRequest("Invalid webhook payload"))
		return
	}
	if evt == nil {
		utils.WriteSuccessWithMessage(w, http.StatusOK, "Event ignored", nil)
		return
	}

	switch evt.Type {
	case EventCheckoutCompleted:
		err = h.service.HandleCheckoutCompleted(r.Context(), *evt.Checkout)
	case EventSubscriptionUpdated:
		err = h.service.HandleSubscriptionUpdated(r.Context(), evt.SubscriptionID, evt.ProviderStatus)
	case EventSubscriptionDeleted:
		err = h.service.HandleSubscriptionDeleted(r.Context(), evt.SubscriptionID)
	default:
		utils.WriteSuccessWithMessage(w, http.StatusOK, "Event ignored", nil)
		return
	}

	if err != nil {
		writeServiceError(w, err, "Failed to process webhook event")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Event processed", nil)
}
