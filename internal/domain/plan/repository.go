package plan

import "context"

// Repository defines the interface for plan, addon and subscription data access
type Repository interface {
	// GetPlan retrieves a plan by ID
	GetPlan(ctx context.Context, id string) (*Plan, error)

	// ListPlans retrieves all plans
	ListPlans(ctx context.Context) ([]*Plan, error)

	// ListAddons retrieves all addon rows for a user, active or not
	ListAddons(ctx context.Context, userID int64) ([]*Addon, error)

	// CreateAddon creates an addon row
	CreateAddon(ctx context.Context, addon *Addon) error

	// UpdateAddonStatus updates one addon row's status
	UpdateAddonStatus(ctx context.Context, id int64, status string) error

	// CancelAddonsByStripeSubscription cascades a Stripe subscription status
	// to every addon row referencing that subscription id
	CancelAddonsByStripeSubscription(ctx context.Context, stripeSubscriptionID, status string) error

	// CreateSubscription creates a subscription row
	CreateSubscription(ctx context.Context, sub *Subscription) error

	// GetSubscriptionByStripeID retrieves a subscription by its Stripe id
	GetSubscriptionByStripeID(ctx context.Context, stripeSubscriptionID string) (*Subscription, error)

	// UpdateSubscriptionStatus updates a subscription row's status
	UpdateSubscriptionStatus(ctx context.Context, id int64, status string) error
}
