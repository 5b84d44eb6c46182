package doublediamond

import "context"

// DiscoverRequest carries optional overrides for the discover generation;
// values the request omits are resolved from the stored project.
type DiscoverRequest struct {
	Sector           string `json:"sector,omitempty"`
	SuccessCase      string `json:"success_case,omitempty"`
	TargetAudience   string `json:"target_audience,omitempty"`
	ProblemStatement string `json:"problem_statement,omitempty"`
	Language         string `json:"language,omitempty"`
}

// Service defines the Double Diamond engine's business logic.
type Service interface {
	Create(ctx context.Context, p *Project) (*Project, error)
	Get(ctx context.Context, id, userID int64) (*Project, error)
	List(ctx context.Context, userID int64, limit, offset int) ([]*Project, int64, error)
	Delete(ctx context.Context, id, userID int64) error
	CountForUser(ctx context.Context, userID int64) (int, error)

	// Phase generation. Each call validates the prior phase's outputs,
	// invokes the Generator, persists outputs and advances status /
	// completion / phase bookkeeping. Re-running a phase regenerates and
	// overwrites its outputs without moving the pointers backward.
	GenerateDiscover(ctx context.Context, id, userID int64, req DiscoverRequest) (*Project, error)
	GenerateDefine(ctx context.Context, id, userID int64) (*Project, error)
	GenerateDevelop(ctx context.Context, id, userID int64) (*Project, error)
	GenerateDeliver(ctx context.Context, id, userID int64) (*Project, error)
	GenerateDFV(ctx context.Context, id, userID int64) (*Project, error)
}
