package dto

// CheckoutRequest is the checkout session creation payload
type CheckoutRequest struct {
	Kind          string `json:"kind" validate:"required,oneof=plan addon"`
	PlanID        string `json:"plan_id,omitempty"`
	AddonKey      string `json:"addon_key,omitempty"`
	BillingPeriod string `json:"billing_period" validate:"required,oneof=monthly yearly"`
	SuccessURL    string `json:"success_url" validate:"required,url"`
	CancelURL     string `json:"cancel_url" validate:"required,url"`
}
