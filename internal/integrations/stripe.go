package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/designlab-hq/designlab/internal/api/handlers"
	"github.com/designlab-hq/designlab/internal/pkg/logger"
	"github.com/designlab-hq/designlab/internal/services"
)

// Addon prices in cents per month. Addons are flat-priced; plans carry
// their prices on the plan rows.
var addonPrices = map[string]int64{
	"extra_projects":   1900,
	"extra_ai_chat":    990,
	"premium_library":  1490,
	"priority_support": 2900,
}

// StripeGateway implements the payment gateway and the webhook parser on
// Stripe Checkout. Purchase context rides in session metadata so the
// webhook can apply it without any session state on our side.
type StripeGateway struct {
	webhookSecret string
	logger        *logger.Logger
}

// NewStripeGateway creates a new Stripe gateway. The API key is global in
// stripe-go.
func NewStripeGateway(apiKey, webhookSecret string, log *logger.Logger) *StripeGateway {
	stripe.Key = apiKey
	return &StripeGateway{
		webhookSecret: webhookSecret,
		logger:        log,
	}
}

// CreateCheckoutSession opens a hosted checkout and returns its URL.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, p services.CheckoutParams) (string, error) {
	amount := p.AmountCents
	if p.Kind == services.PurchaseAddon {
		price, ok := addonPrices[p.AddonKey]
		if !ok {
			return "", fmt.Errorf("unknown addon %q", p.AddonKey)
		}
		amount = price
	}

	interval := "month"
	if p.BillingPeriod == "yearly" {
		interval = "year"
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyBRL)),
					UnitAmount: stripe.Int64(amount),
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval: stripe.String(interval),
					},
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(checkoutProductName(p)),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
		Metadata: map[string]string{
			"user_id":        strconv.FormatInt(p.UserID, 10),
			"kind":           p.Kind,
			"plan_id":        p.PlanID,
			"addon_key":      p.AddonKey,
			"billing_period": p.BillingPeriod,
		},
	}
	if p.CustomerID != "" {
		params.Customer = stripe.String(p.CustomerID)
	} else {
		params.CustomerEmail = stripe.String(p.Email)
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

func checkoutProductName(p services.CheckoutParams) string {
	if p.Kind == services.PurchaseAddon {
		return "DesignLab addon: " + p.AddonKey
	}
	return "DesignLab plan: " + p.PlanID
}

// ParseWebhook verifies the event signature and maps the events the
// billing surface reacts to. Anything else returns (nil, nil).
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*handlers.WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, err
	}

	switch string(event.Type) {
	case handlers.EventCheckoutCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("malformed checkout session payload: %w", err)
		}

		userID, err := strconv.ParseInt(sess.Metadata["user_id"], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("checkout session missing user_id metadata")
		}

		checkout := &services.CheckoutCompleted{
			UserID:        userID,
			Kind:          sess.Metadata["kind"],
			PlanID:        sess.Metadata["plan_id"],
			AddonKey:      sess.Metadata["addon_key"],
			BillingPeriod: sess.Metadata["billing_period"],
		}
		if sess.Customer != nil {
			checkout.CustomerID = sess.Customer.ID
		}
		if sess.Subscription != nil {
			checkout.SubscriptionID = sess.Subscription.ID
		}

		return &handlers.WebhookEvent{
			Type:     handlers.EventCheckoutCompleted,
			Checkout: checkout,
		}, nil

	case handlers.EventSubscriptionUpdated, handlers.EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("malformed subscription payload: %w", err)
		}
		return &handlers.WebhookEvent{
			Type:           string(event.Type),
			SubscriptionID: sub.ID,
			ProviderStatus: string(sub.Status),
		}, nil
	}

	g.logger.WithFields(map[string]interface{}{
		"event_type": string(event.Type),
	}).Debug("Ignoring webhook event")
	return nil, nil
}
