package user

import "context"

// Service defines the interface for user business logic
type Service interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update updates a user
	Update(ctx context.Context, user *User) error

	// List retrieves users with pagination (admin)
	List(ctx context.Context, limit, offset int) ([]*User, int64, error)

	// GetCustomLimits returns the override fields for a user (admin)
	GetCustomLimits(ctx context.Context, userID int64) (*CustomLimits, error)

	// SetCustomLimits writes override fields; trialDays > 0 converts to a
	// concrete end date of now + trialDays (admin)
	SetCustomLimits(ctx context.Context, userID int64, limits CustomLimits, trialDays int) error
}
