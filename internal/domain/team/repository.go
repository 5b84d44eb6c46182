package team

import (
	"context"
	"time"
)

// Repository defines data access for project members and invites.
type Repository interface {
	CreateMember(ctx context.Context, m *Member) error
	GetMember(ctx context.Context, projectID, userID int64) (*Member, error)
	ListMembers(ctx context.Context, projectID int64) ([]*Member, error)

	// CountMembers counts explicit member rows (the owner is not a row)
	CountMembers(ctx context.Context, projectID int64) (int, error)

	UpdateMemberRole(ctx context.Context, projectID, userID int64, role string) error
	RemoveMember(ctx context.Context, projectID, userID int64) (bool, error)

	CreateInvite(ctx context.Context, i *Invite) error
	GetInviteByToken(ctx context.Context, token string) (*Invite, error)
	ListInvites(ctx context.Context, projectID int64) ([]*Invite, error)
	UpdateInviteStatus(ctx context.Context, id int64, status string) error

	// ExpirePendingInvites marks pending invites past their expiry; returns
	// the number of rows affected
	ExpirePendingInvites(ctx context.Context, now time.Time) (int64, error)
}
