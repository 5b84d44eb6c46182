package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/designlab-hq/designlab/internal/domain/team"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
)

// TeamRepository implements team.Repository
type TeamRepository struct {
	db *sql.DB
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *sql.DB) team.Repository {
	return &TeamRepository{db: db}
}

// CreateMember creates a member row
func (r *TeamRepository) CreateMember(ctx context.Context, m *team.Member) error {
	m.CreatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO team_members (project_id, user_id, role, created_at)
		VALUES (?, ?, ?, ?)`,
		m.ProjectID, m.UserID, m.Role, m.CreatedAt.Unix(),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create member", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get member ID", err)
	}

	m.ID = id
	return nil
}

// GetMember retrieves one member row
func (r *TeamRepository) GetMember(ctx context.Context, projectID, userID int64) (*team.Member, error) {
	var m team.Member
	var createdAt int64

	err := r.db.QueryRowContext(ctx, `
		SELECT id, project_id, user_id, role, created_at
		FROM team_members WHERE project_id = ? AND user_id = ?`,
		projectID, userID).Scan(&m.ID, &m.ProjectID, &m.UserID, &m.Role, &createdAt)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Member")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get member", err)
	}

	m.CreatedAt = time.Unix(createdAt, 0)
	return &m, nil
}

// ListMembers lists a project's members
func (r *TeamRepository) ListMembers(ctx context.Context, projectID int64) ([]*team.Member, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project_id, user_id, role, created_at
		FROM team_members WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list members", err)
	}
	defer rows.Close()

	var members []*team.Member
	for rows.Next() {
		var m team.Member
		var createdAt int64
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.UserID, &m.Role, &createdAt); err != nil {
			return nil, errors.DatabaseError("Failed to scan member", err)
		}
		m.CreatedAt = time.Unix(createdAt, 0)
		members = append(members, &m)
	}
	return members, rows.Err()
}

// CountMembers counts explicit member rows
func (r *TeamRepository) CountMembers(ctx context.Context, projectID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM team_members WHERE project_id = ?`, projectID).Scan(&count)
	if err != nil {
		return 0, errors.DatabaseError("Failed to count members", err)
	}
	return count, nil
}

// UpdateMemberRole updates one member's role
func (r *TeamRepository) UpdateMemberRole(ctx context.Context, projectID, userID int64, role string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE team_members SET role = ? WHERE project_id = ? AND user_id = ?`,
		role, projectID, userID)
	if err != nil {
		return errors.DatabaseError("Failed to update member role", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Member")
	}
	return nil
}

// RemoveMember removes one member row
func (r *TeamRepository) RemoveMember(ctx context.Context, projectID, userID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM team_members WHERE project_id = ? AND user_id = ?`,
		projectID, userID)
	if err != nil {
		return false, errors.DatabaseError("Failed to remove member", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, errors.DatabaseError("Failed to get affected rows", err)
	}
	return rows > 0, nil
}

// CreateInvite creates an invite row
func (r *TeamRepository) CreateInvite(ctx context.Context, i *team.Invite) error {
	i.CreatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO team_invites (project_id, email, role, token, status, invited_by, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		i.ProjectID, i.Email, i.Role, i.Token, i.Status, i.InvitedBy,
		i.ExpiresAt.Unix(), i.CreatedAt.Unix(),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create invite", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get invite ID", err)
	}

	i.ID = id
	return nil
}

// GetInviteByToken retrieves an invite by its token
func (r *TeamRepository) GetInviteByToken(ctx context.Context, token string) (*team.Invite, error) {
	i, err := scanInvite(r.db.QueryRowContext(ctx, `
		SELECT id, project_id, email, role, token, status, invited_by, expires_at, created_at
		FROM team_invites WHERE token = ?`, token))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Invite")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get invite", err)
	}
	return i, nil
}

// ListInvites lists a project's invites
func (r *TeamRepository) ListInvites(ctx context.Context, projectID int64) ([]*team.Invite, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project_id, email, role, token, status, invited_by, expires_at, created_at
		FROM team_invites WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list invites", err)
	}
	defer rows.Close()

	var invites []*team.Invite
	for rows.Next() {
		i, err := scanInvite(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan invite", err)
		}
		invites = append(invites, i)
	}
	return invites, rows.Err()
}

// UpdateInviteStatus updates one invite's status
func (r *TeamRepository) UpdateInviteStatus(ctx context.Context, id int64, status string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE team_invites SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return errors.DatabaseError("Failed to update invite status", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Invite")
	}
	return nil
}

// ExpirePendingInvites marks pending invites past their expiry
func (r *TeamRepository) ExpirePendingInvites(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE team_invites SET status = ?
		WHERE status = ? AND expires_at < ?`,
		team.InviteExpired, team.InvitePending, now.Unix())
	if err != nil {
		return 0, errors.DatabaseError("Failed to expire invites", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.DatabaseError("Failed to get affected rows", err)
	}
	return rows, nil
}

func scanInvite(row rowScanner) (*team.Invite, error) {
	var i team.Invite
	var expiresAt, createdAt int64

	err := row.Scan(&i.ID, &i.ProjectID, &i.Email, &i.Role, &i.Token,
		&i.Status, &i.InvitedBy, &expiresAt, &createdAt)
	if err != nil {
		return nil, err
	}

	i.ExpiresAt = time.Unix(expiresAt, 0)
	i.CreatedAt = time.Unix(createdAt, 0)
	return &i, nil
}
