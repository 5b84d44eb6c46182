package services

import (
	"context"

	"github.com/designlab-hq/designlab/internal/dedupe"
	"github.com/designlab-hq/designlab/internal/domain/project"
	"github.com/designlab-hq/designlab/internal/domain/team"
	"github.com/designlab-hq/designlab/internal/domain/user"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
	"github.com/designlab-hq/designlab/internal/pkg/logger"
)

// ProjectService implements project.Service.
type ProjectService struct {
	repo   project.Repository
	teams  team.Repository
	guard  *dedupe.Guard
	logger *logger.Logger
}

// NewProjectService creates a new project service
func NewProjectService(repo project.Repository, teams team.Repository, guard *dedupe.Guard, log *logger.Logger) project.Service {
	return &ProjectService{
		repo:   repo,
		teams:  teams,
		guard:  guard,
		logger: log,
	}
}

// Create creates a project. A second create for the same (user, name) inside
// the dedup window is rejected before touching the database.
func (s *ProjectService) Create(ctx context.Context, p *project.Project) (*project.Project, error) {
	if s.guard.Check(p.UserID, p.Name) {
		s.logger.WithFields(map[string]interface{}{
			"user_id": p.UserID,
			"name":    p.Name,
		}).Warn("Duplicate project creation blocked")
		return nil, errors.DuplicateSubmission(
			"A project with this name was just created. Please wait a moment before retrying.")
	}

	if p.Status == "" {
		p.Status = project.StatusInProgress
	}
	if p.CurrentPhase == 0 {
		p.CurrentPhase = project.FirstPhase
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create project")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"project_id": p.ID,
		"user_id":    p.UserID,
	}).Info("Project created")

	return p, nil
}

// Get returns a project readable by the caller: the owner, an admin, or a
// team member.
func (s *ProjectService) Get(ctx context.Context, id, callerID int64, callerRole string) (*project.Project, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID == callerID || callerRole == user.RoleAdmin {
		return p, nil
	}
	if _, err := s.teams.GetMember(ctx, id, callerID); err == nil {
		return p, nil
	}
	return nil, errors.NotFound("Project")
}

// List returns the owner's projects.
func (s *ProjectService) List(ctx context.Context, ownerID int64, limit, offset int) ([]*project.Project, int64, error) {
	return s.repo.ListByOwner(ctx, ownerID, limit, offset)
}

// Update mutates a project under the caller's effective ownership.
func (s *ProjectService) Update(ctx context.Context, p *project.Project, callerID int64, callerRole string) error {
	ownerID, err := s.ResolveEffectiveOwner(ctx, p.ID, callerID, callerRole)
	if err != nil {
		return err
	}
	p.UserID = ownerID
	return s.repo.Update(ctx, p)
}

// Delete removes a project. Admins resolve the true owner first, then delete
// under that owner's identity, so the repository only ever needs the
// owner-scoped path.
func (s *ProjectService) Delete(ctx context.Context, id, callerID int64, callerRole string) error {
	ownerID, err := s.ResolveEffectiveOwner(ctx, id, callerID, callerRole)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.NotFound("Project")
	}
	s.logger.WithFields(map[string]interface{}{
		"project_id": id,
		"caller_id":  callerID,
	}).Info("Project deleted")
	return nil
}

// ResolveEffectiveOwner returns the owner identity the caller may act as on
// the project.
func (s *ProjectService) ResolveEffectiveOwner(ctx context.Context, projectID, callerID int64, callerRole string) (int64, error) {
	p, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return 0, err
	}
	if p.UserID == callerID {
		return callerID, nil
	}
	if callerRole == user.RoleAdmin {
		return p.UserID, nil
	}
	return 0, errors.NotFound("Project")
}

// CountForOwner counts a user's projects.
func (s *ProjectService) CountForOwner(ctx context.Context, ownerID int64) (int, error) {
	return s.repo.CountByOwner(ctx, ownerID)
}
