package team

import "context"

// InviteRequest is the input for inviting a user to a project.
type InviteRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=viewer editor"`
}

// Service defines team collaboration business logic. All operations are
// scoped to a project the caller owns (or administers); collaboration must
// be available on the owner's effective plan.
type Service interface {
	// Invite creates a pending invite for an email address. Rejected when
	// the team is already at the plan's user ceiling.
	Invite(ctx context.Context, projectID, callerID int64, callerRole string, req InviteRequest) (*Invite, error)

	// AcceptInvite redeems a pending invite token for the accepting user.
	AcceptInvite(ctx context.Context, token string, userID int64, userEmail string) (*Member, error)

	// DeclineInvite marks a pending invite declined.
	DeclineInvite(ctx context.Context, token string, userEmail string) error

	ListMembers(ctx context.Context, projectID, callerID int64, callerRole string) ([]*Member, error)
	ListInvites(ctx context.Context, projectID, callerID int64, callerRole string) ([]*Invite, error)

	UpdateMemberRole(ctx context.Context, projectID, callerID int64, callerRole string, memberUserID int64, role string) error
	RemoveMember(ctx context.Context, projectID, callerID int64, callerRole string, memberUserID int64) error
}
