package client

import "context"

// BillingService handles plan and checkout API calls
type BillingService struct {
	client *Client
}

// CheckoutRequest is the checkout session creation payload. Kind is
// "plan" or "addon"; exactly one of PlanID/AddonKey must be set.
type CheckoutRequest struct {
	Kind          string `json:"kind"`
	PlanID        string `json:"plan_id,omitempty"`
	AddonKey      string `json:"addon_key,omitempty"`
	BillingPeriod string `json:"billing_period"`
	SuccessURL    string `json:"success_url"`
	CancelURL     string `json:"cancel_url"`
}

// ListPlans retrieves the plan catalog. No authentication required.
func (s *BillingService) ListPlans(ctx context.Context) ([]Plan, error) {
	var plans []Plan
	if err := s.client.doRequest(ctx, "GET", "/api/v1/plans", nil, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// CreateCheckout creates a hosted checkout session and returns its URL
func (s *BillingService) CreateCheckout(ctx context.Context, req CheckoutRequest) (string, error) {
	var result struct {
		CheckoutURL string `json:"checkout_url"`
	}
	if err := s.client.doRequest(ctx, "POST", "/api/v1/billing/checkout", req, &result); err != nil {
		return "", err
	}
	return result.CheckoutURL, nil
}
