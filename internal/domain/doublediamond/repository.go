package doublediamond

import (
	"context"
	"time"
)

// Repository defines data access for Double Diamond projects and export
// audit rows.
type Repository interface {
	Create(ctx context.Context, p *Project) error

	// GetForUser retrieves a project only when owned by userID
	GetForUser(ctx context.Context, id, userID int64) (*Project, error)

	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*Project, int64, error)

	// CountByUser counts a user's DD projects, for ceiling checks
	CountByUser(ctx context.Context, userID int64) (int, error)

	// Update persists the full row, phase payloads included
	Update(ctx context.Context, p *Project) error

	Delete(ctx context.Context, id, userID int64) (bool, error)

	// CountByPhase groups DD project counts for the admin dashboard
	CountByPhase(ctx context.Context) (map[string]int64, error)

	// CreateExport appends one export audit row
	CreateExport(ctx context.Context, e *Export) error

	// CountExportsInMonth counts a user's export rows whose timestamp falls
	// in the given calendar month
	CountExportsInMonth(ctx context.Context, userID int64, ref time.Time) (int, error)

	// CountExportsSince counts export rows after a cutoff, all users
	CountExportsSince(ctx context.Context, since time.Time) (int64, error)
}
