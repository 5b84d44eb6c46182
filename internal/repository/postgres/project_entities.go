package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/designlab-hq/designlab/internal/domain/project"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
)

// EntityRepository implements project.EntityRepository. String-slice fields
// are stored as JSON text columns.
type EntityRepository struct {
	db *sql.DB
}

// NewEntityRepository creates a new entity repository
func NewEntityRepository(db *sql.DB) project.EntityRepository {
	return &EntityRepository{db: db}
}

func encodeStrings(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func decodeStrings(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}

func (r *EntityRepository) exec(ctx context.Context, failMsg, query string, args ...interface{}) (sql.Result, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError(failMsg, err)
	}
	return result, nil
}

func requireRows(result sql.Result, resource string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound(resource)
	}
	return nil
}

func deletedRows(result sql.Result) (bool, error) {
	rows, err := result.RowsAffected()
	if err != nil {
		return false, errors.DatabaseError("Failed to get affected rows", err)
	}
	return rows > 0, nil
}

// --- Empathy maps ---

// CreateEmpathyMap creates an empathy map row
func (r *EntityRepository) CreateEmpathyMap(ctx context.Context, m *project.EmpathyMap) error {
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	result, err := r.exec(ctx, "Failed to create empathy map", `
		INSERT INTO empathy_maps (project_id, says, thinks, does, feels, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ProjectID, encodeStrings(m.Says), encodeStrings(m.Thinks),
		encodeStrings(m.Does), encodeStrings(m.Feels), now.Unix(), now.Unix(),
	)
	if err != nil {
		return err
	}
	m.ID, err = result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get empathy map ID", err)
	}
	return nil
}

// ListEmpathyMaps lists a project's empathy maps
func (r *EntityRepository) ListEmpathyMaps(ctx context.Context, projectID int64) ([]*project.EmpathyMap, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project_id, says, thinks, does, feels, created_at, updated_at
		FROM empathy_maps WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list empathy maps", err)
	}
	defer rows.Close()

	var out []*project.EmpathyMap
	for rows.Next() {
		var m project.EmpathyMap
		var says, thinks, does, feels string
		var createdAt, updatedAt int64
		if err := rows.Scan(&m.ID, &m.ProjectID, &says, &thinks, &does, &feels, &createdAt, &updatedAt); err != nil {
			return nil, errors.DatabaseError("Failed to scan empathy map", err)
		}
		m.Says = decodeStrings(says)
		m.Thinks = decodeStrings(thinks)
		m.Does = decodeStrings(does)
		m.Feels = decodeStrings(feels)
		m.CreatedAt = time.Unix(createdAt, 0)
		m.UpdatedAt = time.Unix(updatedAt, 0)
		out = append(out, &m)
	}
	return out, rows.Err()
}

// UpdateEmpathyMap updates an empathy map row
func (r *EntityRepository) UpdateEmpathyMap(ctx context.Context, m *project.EmpathyMap) error {
	m.UpdatedAt = time.Now()
	result, err := r.exec(ctx, "Failed to update empathy map", `
		UPDATE empathy_maps SET says = ?, thinks = ?, does = ?, feels = ?, updated_at = ?
		WHERE id = ? AND project_id = ?`,
		encodeStrings(m.Says), encodeStrings(m.Thinks), encodeStrings(m.Does),
		encodeStrings(m.Feels), m.UpdatedAt.Unix(), m.ID, m.ProjectID,
	)
	if err != nil {
		return err
	}
	return requireRows(result, "Empathy map")
}

// DeleteEmpathyMap removes an empathy map row
func (r *EntityRepository) DeleteEmpathyMap(ctx context.Context, id, projectID int64) (bool, error) {
	result, err := r.exec(ctx, "Failed to delete empathy map",
		`DELETE FROM empathy_maps WHERE id = ? AND project_id = ?`, id, projectID)
	if err != nil {
		return false, err
	}
	return deletedRows(result)
}

// --- Personas ---

// CreatePersona creates a persona row
func (r *EntityRepository) CreatePersona(ctx context.Context, p *project.Persona) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	result, err := r.exec(ctx, "Failed to create persona", `
		INSERT INTO personas (project_id, name, age, occupation, bio, goals, frustrations, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ProjectID, p.Name, p.Age, p.Occupation, p.Bio,
		encodeStrings(p.Goals), encodeStrings(p.Frustrations), now.Unix(), now.Unix(),
	)
	if err != nil {
		return err
	}
	p.ID, err = result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get persona ID", err)
	}
	return nil
}

// ListPersonas lists a project's personas
func (r *EntityRepository) ListPersonas(ctx context.Context, projectID int64) ([]*project.Persona, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project_id, name, age, occupation, bio, goals, frustrations, created_at, updated_at
		FROM personas WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list personas", err)
	}
	defer rows.Close()

	var out []*project.Persona
	for rows.Next() {
		var p project.Persona
		var age sql.NullInt64
		var occupation, bio sql.NullString
		var goals, frustrations string
		var createdAt, updatedAt int64
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.Name, &age, &occupation, &bio,
			&goals, &frustrations, &createdAt, &updatedAt); err != nil {
			return nil, errors.DatabaseError("Failed to scan persona", err)
		}
		p.Age = nullableInt(age)
		if occupation.Valid {
			p.Occupation = &occupation.String
		}
		if bio.Valid {
			p.Bio = &bio.String
		}
		p.Goals = decodeStrings(goals)
		p.Frustrations = decodeStrings(frustrations)
		p.CreatedAt = time.Unix(createdAt, 0)
		p.UpdatedAt = time.Unix(updatedAt, 0)
		out = append(out, &p)
	}
	return out, rows.Err()
}

// CountPersonas counts a project's personas
func (r *EntityRepository) CountPersonas(ctx context.Context, projectID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM personas WHERE project_id = ?`, projectID).Scan(&count)
	if err != nil {
		return 0, errors.DatabaseError("Failed to count personas", err)
	}
	return count, nil
}

// UpdatePersona updates a persona row
func (r *EntityRepository) UpdatePersona(ctx context.Context, p *project.Persona) error {
	p.UpdatedAt = time.Now()
	result, err := r.exec(ctx, "Failed to update persona", `
		UPDATE personas SET name = ?, age = ?, occupation = ?, bio = ?, goals = ?, frustrations = ?, updated_at = ?
		WHERE id = ? AND project_id = ?`,
		p.Name, p.Age, p.Occupation, p.Bio,
		encodeStrings(p.Goals), encodeStrings(p.Frustrations),
		p.UpdatedAt.Unix(), p.ID, p.ProjectID,
	)
	if err != nil {
		return err
	}
	return requireRows(result, "Persona")
}

// DeletePersona removes a persona row
func (r *EntityRepository) DeletePersona(ctx context.Context, id, projectID int64) (bool, error) {
	result, err := r.exec(ctx, "Failed to delete persona",
		`DELETE FROM personas WHERE id = ? AND project_id = ?`, id, projectID)
	if err != nil {
		return false, err
	}
	return deletedRows(result)
}

// --- Interviews ---

// CreateInterview creates an interview row
func (r *EntityRepository) CreateInterview(ctx context.Context, i *project.Interview) error {
	now := time.Now()
	i.CreatedAt = now
	i.UpdatedAt = now

	result, err := r.exec(ctx, "Failed to create interview", `
		INSERT INTO interviews (project_id, interviewee, date, notes, insights, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		i.ProjectID, i.Interviewee, unixOrNil(i.Date), i.Notes,
		encodeStrings(i.Insights), now.Unix(), now.Unix(),
	)
	if err != nil {
		return err
	}
	i.ID, err = result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get interview ID", err)
	}
	return nil
}

// ListInterviews lists a project's interviews
func (r *EntityRepository) ListInterviews(ctx context.Context, projectID int64) ([]*project.Interview, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project_id, interviewee, date, notes, insights, created_at, updated_at
		FROM interviews WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list interviews", err)
	}
	defer rows.Close()

	var out []*project.Interview
	for rows.Next() {
		var i project.Interview
		var date sql.NullInt64
		var notes sql.NullString
		var insights string
		var createdAt, updatedAt int64
		if err := rows.Scan(&i.ID, &i.ProjectID, &i.Interviewee, &date, &notes,
			&insights, &createdAt, &updatedAt); err != nil {
			return nil, errors.DatabaseError("Failed to scan interview", err)
		}
		i.Date = timeOrNil(date)
		if notes.Valid {
			i.Notes = &notes.String
		}
		i.Insights = decodeStrings(insights)
		i.CreatedAt = time.Unix(createdAt, 0)
		i.UpdatedAt = time.Unix(updatedAt, 0)
		out = append(out, &i)
	}
	return out, rows.Err()
}

// UpdateInterview updates an interview row
func (r *EntityRepository) UpdateInterview(ctx context.Context, i *project.Interview) error {
	i.UpdatedAt = time.Now()
	result, err := r.exec(ctx, "Failed to update interview", `
		UPDATE interviews SET interviewee = ?, date = ?, notes = ?, insights = ?, updated_at = ?
		WHERE id = ? AND project_id = ?`,
		i.Interviewee, unixOrNil(i.Date), i.Notes,
		encodeStrings(i.Insights), i.UpdatedAt.Unix(), i.ID, i.ProjectID,
	)
	if err != nil {
		return err
	}
	return requireRows(result, "Interview")
}

// DeleteInterview removes an interview row
func (r *EntityRepository) DeleteInterview(ctx context.Context, id, projectID int64) (bool, error) {
	result, err := r.exec(ctx, "Failed to delete interview",
		`DELETE FROM interviews WHERE id = ? AND project_id = ?`, id, projectID)
	if err != nil {
		return false, err
	}
	return deletedRows(result)
}

// --- Observations ---

// CreateObservation creates an observation row
func (r *EntityRepository) CreateObservation(ctx context.Context, o *project.Observation) error {
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now

	result, err := r.exec(ctx, "Failed to create observation", `
		INSERT INTO observations (project_id, location, context, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		o.ProjectID, o.Location, o.Context, o.Notes, now.Unix(), now.Unix(),
	)
	if err != nil {
		return err
	}
	o.ID, err = result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get observation ID", err)
	}
	return nil
}

// ListObservations lists a project's observations
func (r *EntityRepository) ListObservations(ctx context.Context, projectID int64) ([]*project.Observation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project_id, location, context, notes, created_at, updated_at
		FROM observations WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list observations", err)
	}
	defer rows.Close()

	var out []*project.Observation
	for rows.Next() {
		var o project.Observation
		var location, obsContext sql.NullString
		var createdAt, updatedAt int64
		if err := rows.Scan(&o.ID, &o.ProjectID, &location, &obsContext, &o.Notes,
			&createdAt, &updatedAt); err != nil {
			return nil, errors.DatabaseError("Failed to scan observation", err)
		}
		if location.Valid {
			o.Location = &location.String
		}
		if obsContext.Valid {
			o.Context = &obsContext.String
		}
		o.CreatedAt = time.Unix(createdAt, 0)
		o.UpdatedAt = time.Unix(updatedAt, 0)
		out = append(out, &o)
	}
	return out, rows.Err()
}

// UpdateObservation updates an observation row
func (r *EntityRepository) UpdateObservation(ctx context.Context, o *project.Observation) error {
	o.UpdatedAt = time.Now()
	result, err := r.exec(ctx, "Failed to update observation", `
		UPDATE observations SET location = ?, context = ?, notes = ?, updated_at = ?
		WHERE id = ? AND project_id = ?`,
		o.Location, o.Context, o.Notes, o.UpdatedAt.Unix(), o.ID, o.ProjectID,
	)
	if err != nil {
		return err
	}
	return requireRows(result, "Observation")
}

// DeleteObservation removes an observation row
func (r *EntityRepository) DeleteObservation(ctx context.Context, id, projectID int64) (bool, error) {
	result, err := r.exec(ctx, "Failed to delete observation",
		`DELETE FROM observations WHERE id = ? AND project_id = ?`, id, projectID)
	if err != nil {
		return false, err
	}
	return deletedRows(result)
}

// --- POV statements ---

// CreatePovStatement creates a POV statement row
func (r *EntityRepository) CreatePovStatement(ctx context.Context, s *project.PovStatement) error {
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now

	result, err := r.exec(ctx, "Failed to create POV statement", `
		INSERT INTO pov_statements (project_id, user_label, need, insight, full_statement, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ProjectID, s.User, s.Need, s.Insight, s.FullStatement, now.Unix(), now.Unix(),
	)
	if err != nil {
		return err
	}
	s.ID, err = result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get POV statement ID", err)
	}
	return nil
}

// ListPovStatements lists a project's POV statements
func (r *EntityRepository) ListPovStatements(ctx context.Context, projectID int64) ([]*project.PovStatement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project_id, user_label, need, insight, full_statement, created_at, updated_at
		FROM pov_statements WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list POV statements", err)
	}
	defer rows.Close()

	var out []*project.PovStatement
	for rows.Next() {
		var s project.PovStatement
		var createdAt, updatedAt int64
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.User, &s.Need, &s.Insight,
			&s.FullStatement, &createdAt, &updatedAt); err != nil {
			return nil, errors.DatabaseError("Failed to scan POV statement", err)
		}
		s.CreatedAt = time.Unix(createdAt, 0)
		s.UpdatedAt = time.Unix(updatedAt, 0)
		out = append(out, &s)
	}
	return out, rows.Err()
}

// UpdatePovStatement updates a POV statement row
func (r *EntityRepository) UpdatePovStatement(ctx context.Context, s *project.PovStatement) error {
	s.UpdatedAt = time.Now()
	result, err := r.exec(ctx, "Failed to update POV statement", `
		UPDATE pov_statements SET user_label = ?, need = ?, insight = ?, full_statement = ?, updated_at = ?
		WHERE id = ? AND project_id = ?`,
		s.User, s.Need, s.Insight, s.FullStatement, s.UpdatedAt.Unix(), s.ID, s.ProjectID,
	)
	if err != nil {
		return err
	}
	return requireRows(result, "POV statement")
}

// DeletePovStatement removes a POV statement row
func (r *EntityRepository) DeletePovStatement(ctx context.Context, id, projectID int64) (bool, error) {
	result, err := r.exec(ctx, "Failed to delete POV statement",
		`DELETE FROM pov_statements WHERE id = ? AND project_id = ?`, id, projectID)
	if err != nil {
		return false, err
	}
	return deletedRows(result)
}

// --- HMW questions ---

// CreateHmwQuestion creates an HMW question row
func (r *EntityRepository) CreateHmwQuestion(ctx context.Context, q *project.HmwQuestion) error {
	now := time.Now()
	q.CreatedAt = now
	q.UpdatedAt = now

	result, err := r.exec(ctx, "Failed to create HMW question", `
		INSERT INTO hmw_questions (project_id, question, scope, priority, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		q.ProjectID, q.Question, q.Scope, q.Priority, now.Unix(), now.Unix(),
	)
	if err != nil {
		return err
	}
	q.ID, err = result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get HMW question ID", err)
	}
	return nil
}

// ListHmwQuestions lists a project's HMW questions
func (r *EntityRepository) ListHmwQuestions(ctx context.Context, projectID int64) ([]*project.HmwQuestion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project_id, question, scope, priority, created_at, updated_at
		FROM hmw_questions WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list HMW questions", err)
	}
	defer rows.Close()

	var out []*project.HmwQuestion
	for rows.Next() {
		var q project.HmwQuestion
		var createdAt, updatedAt int64
		if err := rows.Scan(&q.ID, &q.ProjectID, &q.Question, &q.Scope, &q.Priority,
			&createdAt, &updatedAt); err != nil {
			return nil, errors.DatabaseError("Failed to scan HMW question", err)
		}
		q.CreatedAt = time.Unix(createdAt, 0)
		q.UpdatedAt = time.Unix(updatedAt, 0)
		out = append(out, &q)
	}
	return out, rows.Err()
}

// UpdateHmwQuestion updates an HMW question row
func (r *EntityRepository) UpdateHmwQuestion(ctx context.Context, q *project.HmwQuestion) error {
	q.UpdatedAt = time.Now()
	result, err := r.exec(ctx, "Failed to update HMW question", `
		UPDATE hmw_questions SET question = ?, scope = ?, priority = ?, updated_at = ?
		WHERE id = ? AND project_id = ?`,
		q.Question, q.Scope, q.Priority, q.UpdatedAt.Unix(), q.ID, q.ProjectID,
	)
	if err != nil {
		return err
	}
	return requireRows(result, "HMW question")
}

// DeleteHmwQuestion removes an HMW question row
func (r *EntityRepository) DeleteHmwQuestion(ctx context.Context, id, projectID int64) (bool, error) {
	result, err := r.exec(ctx, "Failed to delete HMW question",
		`DELETE FROM hmw_questions WHERE id = ? AND project_id = ?`, id, projectID)
	if err != nil {
		return false, err
	}
	return deletedRows(result)
}

// --- Ideas ---

// CreateIdea creates an idea row
func (r *EntityRepository) CreateIdea(ctx context.Context, i *project.Idea) error {
	now := time.Now()
	i.CreatedAt = now
	i.UpdatedAt = now

	result, err := r.exec(ctx, "Failed to create idea", `
		INSERT INTO ideas (project_id, title, description, category, votes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		i.ProjectID, i.Title, i.Description, i.Category, i.Votes, now.Unix(), now.Unix(),
	)
	if err != nil {
		return err
	}
	i.ID, err = result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get idea ID", err)
	}
	return nil
}

// ListIdeas lists a project's ideas, highest voted first
func (r *EntityRepository) ListIdeas(ctx context.Context, projectID int64) ([]*project.Idea, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project_id, title, description, category, votes, created_at, updated_at
		FROM ideas WHERE project_id = ? ORDER BY votes DESC, id`, projectID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list ideas", err)
	}
	defer rows.Close()

	var out []*project.Idea
	for rows.Next() {
		var i project.Idea
		var description, category sql.NullString
		var createdAt, updatedAt int64
		if err := rows.Scan(&i.ID, &i.ProjectID, &i.Title, &description, &category,
			&i.Votes, &createdAt, &updatedAt); err != nil {
			return nil, errors.DatabaseError("Failed to scan idea", err)
		}
		if description.Valid {
			i.Description = &description.String
		}
		if category.Valid {
			i.Category = &category.String
		}
		i.CreatedAt = time.Unix(createdAt, 0)
		i.UpdatedAt = time.Unix(updatedAt, 0)
		out = append(out, &i)
	}
	return out, rows.Err()
}

// UpdateIdea updates an idea row
func (r *EntityRepository) UpdateIdea(ctx context.Context, i *project.Idea) error {
	i.UpdatedAt = time.Now()
	result, err := r.exec(ctx, "Failed to update idea", `
		UPDATE ideas SET title = ?, description = ?, category = ?, votes = ?, updated_at = ?
		WHERE id = ? AND project_id = ?`,
		i.Title, i.Description, i.Category, i.Votes, i.UpdatedAt.Unix(), i.ID, i.ProjectID,
	)
	if err != nil {
		return err
	}
	return requireRows(result, "Idea")
}

// DeleteIdea removes an idea row
func (r *EntityRepository) DeleteIdea(ctx context.Context, id, projectID int64) (bool, error) {
	result, err := r.exec(ctx, "Failed to delete idea",
		`DELETE FROM ideas WHERE id = ? AND project_id = ?`, id, projectID)
	if err != nil {
		return false, err
	}
	return deletedRows(result)
}

// --- Prototypes ---

// CreatePrototype creates a prototype row
func (r *EntityRepository) CreatePrototype(ctx context.Context, p *project.Prototype) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	result, err := r.exec(ctx, "Failed to create prototype", `
		INSERT INTO prototypes (project_id, name, type, description, materials_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ProjectID, p.Name, p.Type, p.Description, p.MaterialsURL, now.Unix(), now.Unix(),
	)
	if err != nil {
		return err
	}
	p.ID, err = result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get prototype ID", err)
	}
	return nil
}

// ListPrototypes lists a project's prototypes
func (r *EntityRepository) ListPrototypes(ctx context.Context, projectID int64) ([]*project.Prototype, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project_id, name, type, description, materials_url, created_at, updated_at
		FROM prototypes WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list prototypes", err)
	}
	defer rows.Close()

	var out []*project.Prototype
	for rows.Next() {
		var p project.Prototype
		var ptype, description, materialsURL sql.NullString
		var createdAt, updatedAt int64
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.Name, &ptype, &description,
			&materialsURL, &createdAt, &updatedAt); err != nil {
			return nil, errors.DatabaseError("Failed to scan prototype", err)
		}
		if ptype.Valid {
			p.Type = &ptype.String
		}
		if description.Valid {
			p.Description = &description.String
		}
		if materialsURL.Valid {
			p.MaterialsURL = &materialsURL.String
		}
		p.CreatedAt = time.Unix(createdAt, 0)
		p.UpdatedAt = time.Unix(updatedAt, 0)
		out = append(out, &p)
	}
	return out, rows.Err()
}

// UpdatePrototype updates a prototype row
func (r *EntityRepository) UpdatePrototype(ctx context.Context, p *project.Prototype) error {
	p.UpdatedAt = time.Now()
	result, err := r.exec(ctx, "Failed to update prototype", `
		UPDATE prototypes SET name = ?, type = ?, description = ?, materials_url = ?, updated_at = ?
		WHERE id = ? AND project_id = ?`,
		p.Name, p.Type, p.Description, p.MaterialsURL, p.UpdatedAt.Unix(), p.ID, p.ProjectID,
	)
	if err != nil {
		return err
	}
	return requireRows(result, "Prototype")
}

// DeletePrototype removes a prototype row
func (r *EntityRepository) DeletePrototype(ctx context.Context, id, projectID int64) (bool, error) {
	result, err := r.exec(ctx, "Failed to delete prototype",
		`DELETE FROM prototypes WHERE id = ? AND project_id = ?`, id, projectID)
	if err != nil {
		return false, err
	}
	return deletedRows(result)
}

// --- Test plans ---

// CreateTestPlan creates a test plan row
func (r *EntityRepository) CreateTestPlan(ctx context.Context, t *project.TestPlan) error {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	result, err := r.exec(ctx, "Failed to create test plan", `
		INSERT INTO test_plans (project_id, objective, methodology, participants, duration_minutes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ProjectID, t.Objective, t.Methodology, t.Participants, t.DurationMinutes, now.Unix(), now.Unix(),
	)
	if err != nil {
		return err
	}
	t.ID, err = result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get test plan ID", err)
	}
	return nil
}

// ListTestPlans lists a project's test plans
func (r *EntityRepository) ListTestPlans(ctx context.Context, projectID int64) ([]*project.TestPlan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project_id, objective, methodology, participants, duration_minutes, created_at, updated_at
		FROM test_plans WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list test plans", err)
	}
	defer rows.Close()

	var out []*project.TestPlan
	for rows.Next() {
		var t project.TestPlan
		var methodology sql.NullString
		var createdAt, updatedAt int64
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Objective, &methodology,
			&t.Participants, &t.DurationMinutes, &createdAt, &updatedAt); err != nil {
			return nil, errors.DatabaseError("Failed to scan test plan", err)
		}
		if methodology.Valid {
			t.Methodology = &methodology.String
		}
		t.CreatedAt = time.Unix(createdAt, 0)
		t.UpdatedAt = time.Unix(updatedAt, 0)
		out = append(out, &t)
	}
	return out, rows.Err()
}

// UpdateTestPlan updates a test plan row
func (r *EntityRepository) UpdateTestPlan(ctx context.Context, t *project.TestPlan) error {
	t.UpdatedAt = time.Now()
	result, err := r.exec(ctx, "Failed to update test plan", `
		UPDATE test_plans SET objective = ?, methodology = ?, participants = ?, duration_minutes = ?, updated_at = ?
		WHERE id = ? AND project_id = ?`,
		t.Objective, t.Methodology, t.Participants, t.DurationMinutes,
		t.UpdatedAt.Unix(), t.ID, t.ProjectID,
	)
	if err != nil {
		return err
	}
	return requireRows(result, "Test plan")
}

// DeleteTestPlan removes a test plan row
func (r *EntityRepository) DeleteTestPlan(ctx context.Context, id, projectID int64) (bool, error) {
	result, err := r.exec(ctx, "Failed to delete test plan",
		`DELETE FROM test_plans WHERE id = ? AND project_id = ?`, id, projectID)
	if err != nil {
		return false, err
	}
	return deletedRows(result)
}

// --- Test results ---

// CreateTestResult creates a test result row
func (r *EntityRepository) CreateTestResult(ctx context.Context, t *project.TestResult) error {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	result, err := r.exec(ctx, "Failed to create test result", `
		INSERT INTO test_results (test_plan_id, project_id, participant, feedback, success, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.TestPlanID, t.ProjectID, t.Participant, t.Feedback, t.Success, now.Unix(), now.Unix(),
	)
	if err != nil {
		return err
	}
	t.ID, err = result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get test result ID", err)
	}
	return nil
}

// ListTestResults lists results for one test plan
func (r *EntityRepository) ListTestResults(ctx context.Context, testPlanID int64) ([]*project.TestResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, test_plan_id, project_id, participant, feedback, success, created_at, updated_at
		FROM test_results WHERE test_plan_id = ? ORDER BY id`, testPlanID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list test results", err)
	}
	defer rows.Close()

	var out []*project.TestResult
	for rows.Next() {
		var t project.TestResult
		var feedback sql.NullString
		var createdAt, updatedAt int64
		if err := rows.Scan(&t.ID, &t.TestPlanID, &t.ProjectID, &t.Participant,
			&feedback, &t.Success, &createdAt, &updatedAt); err != nil {
			return nil, errors.DatabaseError("Failed to scan test result", err)
		}
		if feedback.Valid {
			t.Feedback = &feedback.String
		}
		t.CreatedAt = time.Unix(createdAt, 0)
		t.UpdatedAt = time.Unix(updatedAt, 0)
		out = append(out, &t)
	}
	return out, rows.Err()
}

// DeleteTestResult removes a test result row
func (r *EntityRepository) DeleteTestResult(ctx context.Context, id, projectID int64) (bool, error) {
	result, err := r.exec(ctx, "Failed to delete test result",
		`DELETE FROM test_results WHERE id = ? AND project_id = ?`, id, projectID)
	if err != nil {
		return false, err
	}
	return deletedRows(result)
}

// --- DVF assessments ---

// CreateDvfAssessment creates a DVF assessment row
func (r *EntityRepository) CreateDvfAssessment(ctx context.Context, a *project.DvfAssessment) error {
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	result, err := r.exec(ctx, "Failed to create DVF assessment", `
		INSERT INTO dvf_assessments (project_id, item_name, desirability, feasibility, viability,
			overall_score, recommendation, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ProjectID, a.ItemName, a.Desirability, a.Feasibility, a.Viability,
		a.OverallScore, a.Recommendation, a.Notes, now.Unix(), now.Unix(),
	)
	if err != nil {
		return err
	}
	a.ID, err = result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get DVF assessment ID", err)
	}
	return nil
}

// ListDvfAssessments lists a project's DVF assessments
func (r *EntityRepository) ListDvfAssessments(ctx context.Context, projectID int64) ([]*project.DvfAssessment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project_id, item_name, desirability, feasibility, viability,
			overall_score, recommendation, notes, created_at, updated_at
		FROM dvf_assessments WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list DVF assessments", err)
	}
	defer rows.Close()

	var out []*project.DvfAssessment
	for rows.Next() {
		var a project.DvfAssessment
		var notes sql.NullString
		var createdAt, updatedAt int64
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.ItemName, &a.Desirability,
			&a.Feasibility, &a.Viability, &a.OverallScore, &a.Recommendation,
			&notes, &createdAt, &updatedAt); err != nil {
			return nil, errors.DatabaseError("Failed to scan DVF assessment", err)
		}
		if notes.Valid {
			a.Notes = &notes.String
		}
		a.CreatedAt = time.Unix(createdAt, 0)
		a.UpdatedAt = time.Unix(updatedAt, 0)
		out = append(out, &a)
	}
	return out, rows.Err()
}

// UpdateDvfAssessment updates a DVF assessment row
func (r *EntityRepository) UpdateDvfAssessment(ctx context.Context, a *project.DvfAssessment) error {
	a.UpdatedAt = time.Now()
	result, err := r.exec(ctx, "Failed to update DVF assessment", `
		UPDATE dvf_assessments SET item_name = ?, desirability = ?, feasibility = ?, viability = ?,
			overall_score = ?, recommendation = ?, notes = ?, updated_at = ?
		WHERE id = ? AND project_id = ?`,
		a.ItemName, a.Desirability, a.Feasibility, a.Viability,
		a.OverallScore, a.Recommendation, a.Notes, a.UpdatedAt.Unix(), a.ID, a.ProjectID,
	)
	if err != nil {
		return err
	}
	return requireRows(result, "DVF assessment")
}

// DeleteDvfAssessment removes a DVF assessment row
func (r *EntityRepository) DeleteDvfAssessment(ctx context.Context, id, projectID int64) (bool, error) {
	result, err := r.exec(ctx, "Failed to delete DVF assessment",
		`DELETE FROM dvf_assessments WHERE id = ? AND project_id = ?`, id, projectID)
	if err != nil {
		return false, err
	}
	return deletedRows(result)
}

// --- AI assets ---

// CreateAIAsset creates an AI asset row
func (r *EntityRepository) CreateAIAsset(ctx context.Context, a *project.AIAsset) error {
	a.CreatedAt = time.Now()

	result, err := r.exec(ctx, "Failed to create AI asset", `
		INSERT INTO ai_assets (project_id, kind, content, created_at)
		VALUES (?, ?, ?, ?)`,
		a.ProjectID, a.Kind, a.Content, a.CreatedAt.Unix(),
	)
	if err != nil {
		return err
	}
	a.ID, err = result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get AI asset ID", err)
	}
	return nil
}

// ListAIAssets lists a project's AI assets
func (r *EntityRepository) ListAIAssets(ctx context.Context, projectID int64) ([]*project.AIAsset, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project_id, kind, content, created_at
		FROM ai_assets WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list AI assets", err)
	}
	defer rows.Close()

	var out []*project.AIAsset
	for rows.Next() {
		var a project.AIAsset
		var createdAt int64
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.Kind, &a.Content, &createdAt); err != nil {
			return nil, errors.DatabaseError("Failed to scan AI asset", err)
		}
		a.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, &a)
	}
	return out, rows.Err()
}
