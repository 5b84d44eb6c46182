package library

import "context"

// Service defines library business logic. Listing is gated by the caller's
// plan: premium items only appear for plans (or addons) carrying the premium
// library capability, and free tiers see at most their article allowance.
type Service interface {
	// Create stores an item and best-effort fills translations for the
	// other supported languages.
	Create(ctx context.Context, item *Item) (*Item, error)

	// Get returns one item; premium items require premium access.
	Get(ctx context.Context, id, callerID int64) (*Item, error)

	// List returns items visible to the caller.
	List(ctx context.Context, callerID int64, kind string, limit, offset int) ([]*Item, int64, error)

	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id int64) error
}
