package services

import (
	"context"
	"time"

	"github.com/designlab-hq/designlab/internal/domain/plan"
	"github.com/designlab-hq/designlab/internal/domain/user"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
	"github.com/designlab-hq/designlab/internal/pkg/logger"
)

// Purchase kinds carried in checkout metadata.
const (
	PurchasePlan  = "plan"
	PurchaseAddon = "addon"
)

// CheckoutRequest is the input for starting a checkout session.
type CheckoutRequest struct {
	Kind          string `json:"kind" validate:"required,oneof=plan addon"`
	PlanID        string `json:"plan_id,omitempty"`
	AddonKey      string `json:"addon_key,omitempty"`
	BillingPeriod string `json:"billing_period" validate:"required,oneof=monthly yearly"`
	SuccessURL    string `json:"success_url" validate:"required,url"`
	CancelURL     string `json:"cancel_url" validate:"required,url"`
}

// CheckoutParams is what the payment gateway needs to open a session.
type CheckoutParams struct {
	UserID        int64
	Email         string
	CustomerID    string // empty for first purchase
	Kind          string
	PlanID        string
	AddonKey      string
	BillingPeriod string
	AmountCents   int64
	SuccessURL    string
	CancelURL     string
}

// CheckoutCompleted is the parsed checkout.session.completed payload.
type CheckoutCompleted struct {
	UserID         int64
	Kind           string
	PlanID         string
	AddonKey       string
	BillingPeriod  string
	CustomerID     string
	SubscriptionID string
}

// PaymentGateway is the external billing collaborator.
type PaymentGateway interface {
	// CreateCheckoutSession opens a hosted checkout and returns its URL.
	CreateCheckoutSession(ctx context.Context, p CheckoutParams) (string, error)
}

// BillingService owns plan purchases, addon purchases and the webhook-driven
// subscription lifecycle. Webhook handlers are idempotent where Stripe
// retries demand it.
type BillingService struct {
	users   user.Repository
	plans   plan.Repository
	gateway PaymentGateway
	logger  *logger.Logger

	now func() time.Time
}

// NewBillingService creates a new billing service
func NewBillingService(users user.Repository, plans plan.Repository, gateway PaymentGateway, log *logger.Logger) *BillingService {
	return &BillingService{
		users:   users,
		plans:   plans,
		gateway: gateway,
		logger:  log,
		now:     time.Now,
	}
}

// ListPlans returns the purchasable tiers.
func (s *BillingService) ListPlans(ctx context.Context) ([]*plan.Plan, error) {
	return s.plans.ListPlans(ctx)
}

// CreateCheckout opens a checkout session for a plan or addon purchase.
func (s *BillingService) CreateCheckout(ctx context.Context, userID int64, req CheckoutRequest) (string, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	params := CheckoutParams{
		UserID:        userID,
		Email:         u.Email,
		Kind:          req.Kind,
		BillingPeriod: req.BillingPeriod,
		SuccessURL:    req.SuccessURL,
		CancelURL:     req.CancelURL,
	}
	if u.StripeCustomerID != nil {
		params.CustomerID = *u.StripeCustomerID
	}

	switch req.Kind {
	case PurchasePlan:
		p, err := s.plans.GetPlan(ctx, req.PlanID)
		if err != nil {
			return "", err
		}
		if p.ID == plan.Free {
			return "", errors.BadRequest("The free plan cannot be purchased")
		}
		params.PlanID = p.ID
		params.AmountCents = p.PriceMonthly
		if req.BillingPeriod == "yearly" {
			params.AmountCents = p.PriceYearly
		}
	case PurchaseAddon:
		if req.AddonKey == "" {
			return "", errors.BadRequest("addon_key is required for addon purchases")
		}
		params.AddonKey = req.AddonKey
	default:
		return "", errors.BadRequest("Unknown purchase kind")
	}

	url, err := s.gateway.CreateCheckoutSession(ctx, params)
	if err != nil {
		s.logger.ErrorWithErr(err, "Checkout session creation failed")
		return "", errors.ExternalService("Payment provider", err)
	}
	return url, nil
}

// HandleCheckoutCompleted applies a finished checkout: plan purchases switch
// the user's plan and open a subscription row; addon purchases open an addon
// row.
func (s *BillingService) HandleCheckoutCompleted(ctx context.Context, evt CheckoutCompleted) error {
	u, err := s.users.GetByID(ctx, evt.UserID)
	if err != nil {
		return err
	}

	switch evt.Kind {
	case PurchasePlan:
		if _, err := s.plans.GetPlan(ctx, evt.PlanID); err != nil {
			return err
		}
		u.PlanID = evt.PlanID
		u.SubscriptionStatus = user.SubscriptionActive
		u.StripeCustomerID = &evt.CustomerID
		u.StripeSubscriptionID = &evt.SubscriptionID
		if err := s.users.Update(ctx, u); err != nil {
			return err
		}
		start := s.now()
		if err := s.plans.CreateSubscription(ctx, &plan.Subscription{
			UserID:               evt.UserID,
			PlanID:               evt.PlanID,
			Status:               plan.SubscriptionActive,
			BillingPeriod:        evt.BillingPeriod,
			PeriodStart:          &start,
			StripeSubscriptionID: &evt.SubscriptionID,
		}); err != nil {
			return err
		}
		s.logger.WithFields(map[string]interface{}{
			"user_id": evt.UserID,
			"plan_id": evt.PlanID,
		}).Info("Plan purchase applied")

	case PurchaseAddon:
		if evt.CustomerID != "" && u.StripeCustomerID == nil {
			u.StripeCustomerID = &evt.CustomerID
			if err := s.users.Update(ctx, u); err != nil {
				return err
			}
		}
		start := s.now()
		if err := s.plans.CreateAddon(ctx, &plan.Addon{
			UserID:               evt.UserID,
			AddonKey:             evt.AddonKey,
			Status:               plan.AddonStatusActive,
			Source:               plan.AddonSourceStripe,
			BillingPeriod:        evt.BillingPeriod,
			PeriodStart:          &start,
			StripeSubscriptionID: &evt.SubscriptionID,
		}); err != nil {
			return err
		}
		s.logger.WithFields(map[string]interface{}{
			"user_id":   evt.UserID,
			"addon_key": evt.AddonKey,
		}).Info("Addon purchase applied")

	default:
		s.logger.WithFields(map[string]interface{}{
			"kind": evt.Kind,
		}).Warn("Checkout completed with unknown kind, ignoring")
	}

	return nil
}

// HandleSubscriptionUpdated maps the provider's subscription status onto the
// owning user and subscription row.
func (s *BillingService) HandleSubscriptionUpdated(ctx context.Context, stripeSubscriptionID, providerStatus string) error {
	status := mapProviderStatus(providerStatus)

	if sub, err := s.plans.GetSubscriptionByStripeID(ctx, stripeSubscriptionID); err == nil {
		if err := s.plans.UpdateSubscriptionStatus(ctx, sub.ID, status); err != nil {
			return err
		}
		u, err := s.users.GetByID(ctx, sub.UserID)
		if err != nil {
			return err
		}
		u.SubscriptionStatus = status
		if err := s.users.Update(ctx, u); err != nil {
			return err
		}
		s.logger.WithFields(map[string]interface{}{
			"user_id": sub.UserID,
			"status":  status,
		}).Info("Subscription status updated")
		return nil
	}

	// Not a plan subscription; cascade the status to any addon rows bound
	// to this provider subscription.
	return s.plans.CancelAddonsByStripeSubscription(ctx, stripeSubscriptionID, status)
}

// HandleSubscriptionDeleted ends a subscription: plan subscriptions drop the
// user to the free tier, addon subscriptions cancel their addon rows.
func (s *BillingService) HandleSubscriptionDeleted(ctx context.Context, stripeSubscriptionID string) error {
	if sub, err := s.plans.GetSubscriptionByStripeID(ctx, stripeSubscriptionID); err == nil {
		if err := s.plans.UpdateSubscriptionStatus(ctx, sub.ID, plan.SubscriptionCanceled); err != nil {
			return err
		}
		u, err := s.users.GetByID(ctx, sub.UserID)
		if err != nil {
			return err
		}
		u.PlanID = plan.Free
		u.SubscriptionStatus = user.SubscriptionCanceled
		u.StripeSubscriptionID = nil
		if err := s.users.Update(ctx, u); err != nil {
			return err
		}
		s.logger.WithFields(map[string]interface{}{
			"user_id": sub.UserID,
		}).Info("Subscription ended, user moved to free plan")
		return nil
	}

	return s.plans.CancelAddonsByStripeSubscription(ctx, stripeSubscriptionID, plan.AddonStatusCanceled)
}

// mapProviderStatus folds Stripe's subscription statuses onto the internal
// three-state model.
func mapProviderStatus(providerStatus string) string {
	switch providerStatus {
	case "active", "trialing":
		return plan.SubscriptionActive
	case "canceled", "unpaid", "incomplete_expired":
		return plan.SubscriptionCanceled
	default:
		// past_due, incomplete, paused
		return plan.SubscriptionExpired
	}
}
