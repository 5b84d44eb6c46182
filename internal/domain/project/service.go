package project

import "context"

// Service defines project business logic.
type Service interface {
	// Create creates a project for the owner; rejects duplicate submissions
	// inside the dedup window.
	Create(ctx context.Context, p *Project) (*Project, error)

	// Get returns a project the caller may read (owner, member or admin).
	Get(ctx context.Context, id, callerID int64, callerRole string) (*Project, error)

	// List returns the caller's projects.
	List(ctx context.Context, ownerID int64, limit, offset int) ([]*Project, int64, error)

	// Update mutates a project under the caller's effective ownership.
	Update(ctx context.Context, p *Project, callerID int64, callerRole string) error

	// Delete removes a project. Admin callers first resolve the true owner
	// and delete under that owner's identity; there is one code path.
	Delete(ctx context.Context, id, callerID int64, callerRole string) error

	// ResolveEffectiveOwner returns the owner id the caller may mutate the
	// project as: the caller itself when it owns the project, or the true
	// owner when the caller is an admin.
	ResolveEffectiveOwner(ctx context.Context, projectID, callerID int64, callerRole string) (int64, error)

	// CountForOwner counts a user's projects, for ceiling checks.
	CountForOwner(ctx context.Context, ownerID int64) (int, error)
}
