package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/designlab-hq/designlab/internal/domain/project"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
)

const projectColumns = `
	id, user_id, name, description, sector, success_case, status,
	current_phase, completion_rate, created_at, updated_at
`

// ProjectRepository implements project.Repository
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) project.Repository {
	return &ProjectRepository{db: db}
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `
		INSERT INTO projects (
			user_id, name, description, sector, success_case, status,
			current_phase, completion_rate, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		p.UserID, p.Name, p.Description, p.Sector, p.SuccessCase, p.Status,
		p.CurrentPhase, p.CompletionRate, now.Unix(), now.Unix(),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create project", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get project ID", err)
	}

	p.ID = id
	return nil
}

// GetByID retrieves a project regardless of owner
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`

	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Project")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get project", err)
	}
	return p, nil
}

// GetForOwner retrieves a project only when owned by ownerID
func (r *ProjectRepository) GetForOwner(ctx context.Context, id, ownerID int64) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ? AND user_id = ?`

	p, err := scanProject(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Project")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get project", err)
	}
	return p, nil
}

// ListByOwner retrieves a user's projects with pagination
func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*project.Project, int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE user_id = ?`, ownerID).Scan(&total)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to count projects", err)
	}

	query := `SELECT ` + projectColumns + ` FROM projects WHERE user_id = ? ORDER BY id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list projects", err)
	}
	defer rows.Close()

	var projects []*project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan project", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.DatabaseError("Failed to iterate projects", err)
	}

	return projects, total, nil
}

// CountByOwner counts a user's projects
func (r *ProjectRepository) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE user_id = ?`, ownerID).Scan(&count)
	if err != nil {
		return 0, errors.DatabaseError("Failed to count projects", err)
	}
	return count, nil
}

// Update updates a project
func (r *ProjectRepository) Update(ctx context.Context, p *project.Project) error {
	p.UpdatedAt = time.Now()

	query := `
		UPDATE projects
		SET name = ?, description = ?, sector = ?, success_case = ?,
			status = ?, current_phase = ?, completion_rate = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		p.Name, p.Description, p.Sector, p.SuccessCase,
		p.Status, p.CurrentPhase, p.CompletionRate, p.UpdatedAt.Unix(),
		p.ID, p.UserID,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update project", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Project")
	}

	return nil
}

// Delete removes a project owned by ownerID
func (r *ProjectRepository) Delete(ctx context.Context, id, ownerID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM projects WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return false, errors.DatabaseError("Failed to delete project", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, errors.DatabaseError("Failed to get affected rows", err)
	}
	return rows > 0, nil
}

// CountByStatus groups project counts for the admin dashboard
func (r *ProjectRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM projects GROUP BY status`)
	if err != nil {
		return nil, errors.DatabaseError("Failed to count projects by status", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, errors.DatabaseError("Failed to scan status count", err)
		}
		out[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate status counts", err)
	}
	return out, nil
}

// CountByPhase groups project counts by current phase
func (r *ProjectRepository) CountByPhase(ctx context.Context) (map[int]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT current_phase, COUNT(*) FROM projects GROUP BY current_phase`)
	if err != nil {
		return nil, errors.DatabaseError("Failed to count projects by phase", err)
	}
	defer rows.Close()

	out := make(map[int]int64)
	for rows.Next() {
		var phase int
		var count int64
		if err := rows.Scan(&phase, &count); err != nil {
			return nil, errors.DatabaseError("Failed to scan phase count", err)
		}
		out[phase] = count
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate phase counts", err)
	}
	return out, nil
}

func scanProject(row rowScanner) (*project.Project, error) {
	var p project.Project
	var description, sector, successCase sql.NullString
	var createdAt, updatedAt int64

	err := row.Scan(
		&p.ID, &p.UserID, &p.Name, &description, &sector, &successCase,
		&p.Status, &p.CurrentPhase, &p.CompletionRate, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		p.Description = &description.String
	}
	if sector.Valid {
		p.Sector = &sector.String
	}
	if successCase.Valid {
		p.SuccessCase = &successCase.String
	}
	p.CreatedAt = time.Unix(createdAt, 0)
	p.UpdatedAt = time.Unix(updatedAt, 0)

	return &p, nil
}
