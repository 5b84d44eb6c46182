package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/designlab-hq/designlab/internal/domain/plan"
	"github.com/designlab-hq/designlab/internal/domain/project"
	"github.com/designlab-hq/designlab/internal/domain/team"
	"github.com/designlab-hq/designlab/internal/domain/user"
	"github.com/designlab-hq/designlab/internal/limits"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
	"github.com/designlab-hq/designlab/internal/pkg/logger"
)

// inviteTTL is how long a pending invite stays redeemable.
const inviteTTL = 7 * 24 * time.Hour

// TeamService implements team.Service. Collaboration is gated on the project
// owner's effective plan, and the team-size ceiling counts the owner plus the
// explicit member rows.
type TeamService struct {
	repo     team.Repository
	projects project.Service
	users    user.Repository
	plans    plan.Repository
	logger   *logger.Logger

	// now is swappable for tests
	now func() time.Time
}

// NewTeamService creates a new team service
func NewTeamService(repo team.Repository, projects project.Service, users user.Repository, plans plan.Repository, log *logger.Logger) *TeamService {
	return &TeamService{
		repo:     repo,
		projects: projects,
		users:    users,
		plans:    plans,
		logger:   log,
		now:      time.Now,
	}
}

func (s *TeamService) ownerSnapshot(ctx context.Context, ownerID int64) (limits.Snapshot, error) {
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return limits.Snapshot{}, err
	}
	p, err := s.plans.GetPlan(ctx, owner.PlanID)
	if err != nil {
		return limits.Snapshot{}, err
	}
	addons, err := s.plans.ListAddons(ctx, ownerID)
	if err != nil {
		return limits.Snapshot{}, err
	}
	return limits.Resolve(owner, p, addons, s.now()), nil
}

// Invite creates a pending invite. The team-size check counts the implicit
// owner seat plus existing member rows against the plan ceiling; the ceiling
// itself reserves the owner's seat, so a ceiling of N admits N-1 invited
// members.
func (s *TeamService) Invite(ctx context.Context, projectID, callerID int64, callerRole string, req team.InviteRequest) (*team.Invite, error) {
	ownerID, err := s.projects.ResolveEffectiveOwner(ctx, projectID, callerID, callerRole)
	if err != nil {
		return nil, err
	}

	snap, err := s.ownerSnapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !snap.Collaboration {
		return nil, errors.FeatureLocked(
			"Team collaboration is not available on your plan. Upgrade to invite members.")
	}
	if snap.MaxUsersPerTeam != nil {
		memberCount, err := s.repo.CountMembers(ctx, projectID)
		if err != nil {
			return nil, err
		}
		if 1+memberCount >= *snap.MaxUsersPerTeam {
			return nil, errors.LimitExceeded(
				fmt.Sprintf("Your team has reached its limit of %d users. Upgrade your plan to invite more.",
					*snap.MaxUsersPerTeam),
				*snap.MaxUsersPerTeam)
		}
	}

	invite := &team.Invite{
		ProjectID: projectID,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Role:      req.Role,
		Token:     uuid.NewString(),
		Status:    team.InvitePending,
		InvitedBy: callerID,
		ExpiresAt: s.now().Add(inviteTTL),
	}
	if err := s.repo.CreateInvite(ctx, invite); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"project_id": projectID,
		"email":      invite.Email,
		"role":       invite.Role,
	}).Info("Team invite created")

	return invite, nil
}

// AcceptInvite redeems a pending token for the accepting user. The invite
// email must match the accepting account.
func (s *TeamService) AcceptInvite(ctx context.Context, token string, userID int64, userEmail string) (*team.Member, error) {
	invite, err := s.pendingInvite(ctx, token, userEmail)
	if err != nil {
		return nil, err
	}

	member := &team.Member{
		ProjectID: invite.ProjectID,
		UserID:    userID,
		Role:      invite.Role,
	}
	if err := s.repo.CreateMember(ctx, member); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateInviteStatus(ctx, invite.ID, team.InviteAccepted); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"project_id": invite.ProjectID,
		"user_id":    userID,
	}).Info("Team invite accepted")

	return member, nil
}

// DeclineInvite marks a pending invite declined.
func (s *TeamService) DeclineInvite(ctx context.Context, token string, userEmail string) error {
	invite, err := s.pendingInvite(ctx, token, userEmail)
	if err != nil {
		return err
	}
	return s.repo.UpdateInviteStatus(ctx, invite.ID, team.InviteDeclined)
}

func (s *TeamService) pendingInvite(ctx context.Context, token, userEmail string) (*team.Invite, error) {
	invite, err := s.repo.GetInviteByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if invite.Status != team.InvitePending {
		return nil, errors.Conflict("This invite has already been answered")
	}
	if s.now().After(invite.ExpiresAt) {
		return nil, errors.Conflict("This invite has expired")
	}
	if !strings.EqualFold(invite.Email, userEmail) {
		return nil, errors.Forbidden("This invite was issued to a different email address")
	}
	return invite, nil
}

// ListMembers lists a project's team members.
func (s *TeamService) ListMembers(ctx context.Context, projectID, callerID int64, callerRole string) ([]*team.Member, error) {
	if _, err := s.projects.Get(ctx, projectID, callerID, callerRole); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, projectID)
}

// ListInvites lists a project's invites, owner or admin only.
func (s *TeamService) ListInvites(ctx context.Context, projectID, callerID int64, callerRole string) ([]*team.Invite, error) {
	if _, err := s.projects.ResolveEffectiveOwner(ctx, projectID, callerID, callerRole); err != nil {
		return nil, err
	}
	return s.repo.ListInvites(ctx, projectID)
}

// UpdateMemberRole changes an existing member's role.
func (s *TeamService) UpdateMemberRole(ctx context.Context, projectID, callerID int64, callerRole string, memberUserID int64, role string) error {
	if _, err := s.projects.ResolveEffectiveOwner(ctx, projectID, callerID, callerRole); err != nil {
		return err
	}
	if role != team.RoleViewer && role != team.RoleEditor {
		return errors.BadRequest("Role must be viewer or editor")
	}
	return s.repo.UpdateMemberRole(ctx, projectID, memberUserID, role)
}

// RemoveMember removes a member from the project team.
func (s *TeamService) RemoveMember(ctx context.Context, projectID, callerID int64, callerRole string, memberUserID int64) error {
	if _, err := s.projects.ResolveEffectiveOwner(ctx, projectID, callerID, callerRole); err != nil {
		return err
	}
	removed, err := s.repo.RemoveMember(ctx, projectID, memberUserID)
	if err != nil {
		return err
	}
	if !removed {
		return errors.NotFound("Member")
	}
	return nil
}
