package user

import (
	"context"
	"time"
)

// Repository defines the interface for user data access
type Repository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByStripeCustomer retrieves a user by Stripe customer ID
	GetByStripeCustomer(ctx context.Context, customerID string) (*User, error)

	// Update updates a user
	Update(ctx context.Context, user *User) error

	// UpdateCustomLimits replaces the per-user override fields
	UpdateCustomLimits(ctx context.Context, id int64, limits CustomLimits) error

	// ClearExpiredCustomLimits nulls out overrides whose trial window closed
	// before now. Returns the number of affected users.
	ClearExpiredCustomLimits(ctx context.Context, now time.Time) (int64, error)

	// IncrementAIChatUsed atomically bumps the chat usage counter
	IncrementAIChatUsed(ctx context.Context, id int64) error

	// Delete deletes a user
	Delete(ctx context.Context, id int64) error

	// List retrieves users with pagination
	List(ctx context.Context, limit, offset int) ([]*User, int64, error)

	// CountByPlan returns user counts grouped by plan
	CountByPlan(ctx context.Context) (map[string]int64, error)
}
