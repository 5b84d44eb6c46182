package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/designlab-hq/designlab/internal/domain/doublediamond"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
)

// DoubleDiamondRepository implements doublediamond.Repository. Generated
// phase content is stored as one JSON text column per phase.
type DoubleDiamondRepository struct {
	db *sql.DB
}

// NewDoubleDiamondRepository creates a new Double Diamond repository
func NewDoubleDiamondRepository(db *sql.DB) doublediamond.Repository {
	return &DoubleDiamondRepository{db: db}
}

type discoverPayload struct {
	PainPoints []string                  `json:"pain_points,omitempty"`
	Insights   []string                  `json:"insights,omitempty"`
	UserNeeds  []string                  `json:"user_needs,omitempty"`
	EmpathyMap *doublediamond.EmpathyMap `json:"empathy_map,omitempty"`
}

type definePayload struct {
	PovStatements []doublediamond.PovStatement `json:"pov_statements,omitempty"`
	HmwQuestions  []string                     `json:"hmw_questions,omitempty"`
	SelectedPov   *doublediamond.PovStatement  `json:"selected_pov,omitempty"`
	SelectedHmw   *string                      `json:"selected_hmw,omitempty"`
}

type developPayload struct {
	Ideas                []doublediamond.Idea `json:"ideas,omitempty"`
	CrossPollinatedIdeas []doublediamond.Idea `json:"cross_pollinated_ideas,omitempty"`
	SelectedIdeas        []doublediamond.Idea `json:"selected_ideas,omitempty"`
}

type deliverPayload struct {
	MvpConcept       *doublediamond.MvpConcept    `json:"mvp_concept,omitempty"`
	LogoSuggestions  []string                     `json:"logo_suggestions,omitempty"`
	LandingPage      *doublediamond.LandingPage   `json:"landing_page,omitempty"`
	SocialMediaLines []string                     `json:"social_media_lines,omitempty"`
	TestPlan         *doublediamond.TestPlanDraft `json:"test_plan,omitempty"`
}

type dfvPayload struct {
	DesirabilityScore *float64                   `json:"desirability_score,omitempty"`
	FeasibilityScore  *float64                   `json:"feasibility_score,omitempty"`
	ViabilityScore    *float64                   `json:"viability_score,omitempty"`
	Analysis          *doublediamond.DfvAnalysis `json:"analysis,omitempty"`
	Feedback          *string                    `json:"feedback,omitempty"`
}

func packPayloads(p *doublediamond.Project) (discover, define, develop, deliver, dfv string, err error) {
	enc := func(v interface{}) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	}

	if discover, err = enc(discoverPayload{
		PainPoints: p.DiscoverPainPoints,
		Insights:   p.DiscoverInsights,
		UserNeeds:  p.DiscoverUserNeeds,
		EmpathyMap: p.DiscoverEmpathyMap,
	}); err != nil {
		return
	}
	if define, err = enc(definePayload{
		PovStatements: p.DefinePovStatements,
		HmwQuestions:  p.DefineHmwQuestions,
		SelectedPov:   p.DefineSelectedPov,
		SelectedHmw:   p.DefineSelectedHmw,
	}); err != nil {
		return
	}
	if develop, err = enc(developPayload{
		Ideas:                p.DevelopIdeas,
		CrossPollinatedIdeas: p.DevelopCrossPollinatedIdeas,
		SelectedIdeas:        p.DevelopSelectedIdeas,
	}); err != nil {
		return
	}
	if deliver, err = enc(deliverPayload{
		MvpConcept:       p.DeliverMvpConcept,
		LogoSuggestions:  p.DeliverLogoSuggestions,
		LandingPage:      p.DeliverLandingPage,
		SocialMediaLines: p.DeliverSocialMediaLines,
		TestPlan:         p.DeliverTestPlan,
	}); err != nil {
		return
	}
	dfv, err = enc(dfvPayload{
		DesirabilityScore: p.DfvDesirabilityScore,
		FeasibilityScore:  p.DfvFeasibilityScore,
		ViabilityScore:    p.DfvViabilityScore,
		Analysis:          p.DfvAnalysis,
		Feedback:          p.DfvFeedback,
	})
	return
}

func unpackPayloads(p *doublediamond.Project, discover, define, develop, deliver, dfv string) error {
	var d1 discoverPayload
	if discover != "" {
		if err := json.Unmarshal([]byte(discover), &d1); err != nil {
			return err
		}
	}
	p.DiscoverPainPoints = d1.PainPoints
	p.DiscoverInsights = d1.Insights
	p.DiscoverUserNeeds = d1.UserNeeds
	p.DiscoverEmpathyMap = d1.EmpathyMap

	var d2 definePayload
	if define != "" {
		if err := json.Unmarshal([]byte(define), &d2); err != nil {
			return err
		}
	}
	p.DefinePovStatements = d2.PovStatements
	p.DefineHmwQuestions = d2.HmwQuestions
	p.DefineSelectedPov = d2.SelectedPov
	p.DefineSelectedHmw = d2.SelectedHmw

	var d3 developPayload
	if develop != "" {
		if err := json.Unmarshal([]byte(develop), &d3); err != nil {
			return err
		}
	}
	p.DevelopIdeas = d3.Ideas
	p.DevelopCrossPollinatedIdeas = d3.CrossPollinatedIdeas
	p.DevelopSelectedIdeas = d3.SelectedIdeas

	var d4 deliverPayload
	if deliver != "" {
		if err := json.Unmarshal([]byte(deliver), &d4); err != nil {
			return err
		}
	}
	p.DeliverMvpConcept = d4.MvpConcept
	p.DeliverLogoSuggestions = d4.LogoSuggestions
	p.DeliverLandingPage = d4.LandingPage
	p.DeliverSocialMediaLines = d4.SocialMediaLines
	p.DeliverTestPlan = d4.TestPlan

	var d5 dfvPayload
	if dfv != "" {
		if err := json.Unmarshal([]byte(dfv), &d5); err != nil {
			return err
		}
	}
	p.DfvDesirabilityScore = d5.DesirabilityScore
	p.DfvFeasibilityScore = d5.FeasibilityScore
	p.DfvViabilityScore = d5.ViabilityScore
	p.DfvAnalysis = d5.Analysis
	p.DfvFeedback = d5.Feedback

	return nil
}

const ddColumns = `
	id, user_id, name, description, sector, success_case, target_audience,
	problem_statement, language, current_phase, discover_status, define_status,
	develop_status, deliver_status, completion_percentage, generation_count,
	is_completed, discover_payload, define_payload, develop_payload,
	deliver_payload, dfv_payload, created_at, updated_at
`

// Create creates a new Double Diamond project
func (r *DoubleDiamondRepository) Create(ctx context.Context, p *doublediamond.Project) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	discover, define, develop, deliver, dfv, err := packPayloads(p)
	if err != nil {
		return errors.DatabaseError("Failed to encode phase payloads", err)
	}

	query := `
		INSERT INTO dd_projects (
			user_id, name, description, sector, success_case, target_audience,
			problem_statement, language, current_phase, discover_status,
			define_status, develop_status, deliver_status, completion_percentage,
			generation_count, is_completed, discover_payload, define_payload,
			develop_payload, deliver_payload, dfv_payload, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		p.UserID, p.Name, p.Description, p.Sector, p.SuccessCase, p.TargetAudience,
		p.ProblemStatement, p.Language, p.CurrentPhase, p.DiscoverStatus,
		p.DefineStatus, p.DevelopStatus, p.DeliverStatus, p.CompletionPercentage,
		p.GenerationCount, p.IsCompleted, discover, define, develop, deliver, dfv,
		now.Unix(), now.Unix(),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create double diamond project", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get project ID", err)
	}

	p.ID = id
	return nil
}

// GetForUser retrieves a project only when owned by userID
func (r *DoubleDiamondRepository) GetForUser(ctx context.Context, id, userID int64) (*doublediamond.Project, error) {
	query := `SELECT ` + ddColumns + ` FROM dd_projects WHERE id = ? AND user_id = ?`

	p, err := scanDDProject(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Double diamond project")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get double diamond project", err)
	}
	return p, nil
}

// ListByUser retrieves a user's projects with pagination
func (r *DoubleDiamondRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*doublediamond.Project, int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM dd_projects WHERE user_id = ?`, userID).Scan(&total)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to count double diamond projects", err)
	}

	query := `SELECT ` + ddColumns + ` FROM dd_projects WHERE user_id = ? ORDER BY id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list double diamond projects", err)
	}
	defer rows.Close()

	var projects []*doublediamond.Project
	for rows.Next() {
		p, err := scanDDProject(rows)
		if err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan double diamond project", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.DatabaseError("Failed to iterate double diamond projects", err)
	}

	return projects, total, nil
}

// CountByUser counts a user's projects
func (r *DoubleDiamondRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM dd_projects WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, errors.DatabaseError("Failed to count double diamond projects", err)
	}
	return count, nil
}

// Update persists the full row, phase payloads included
func (r *DoubleDiamondRepository) Update(ctx context.Context, p *doublediamond.Project) error {
	p.UpdatedAt = time.Now()

	discover, define, develop, deliver, dfv, err := packPayloads(p)
	if err != nil {
		return errors.DatabaseError("Failed to encode phase payloads", err)
	}

	query := `
		UPDATE dd_projects
		SET name = ?, description = ?, sector = ?, success_case = ?,
			target_audience = ?, problem_statement = ?, language = ?,
			current_phase = ?, discover_status = ?, define_status = ?,
			develop_status = ?, deliver_status = ?, completion_percentage = ?,
			generation_count = ?, is_completed = ?, discover_payload = ?,
			define_payload = ?, develop_payload = ?, deliver_payload = ?,
			dfv_payload = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		p.Name, p.Description, p.Sector, p.SuccessCase,
		p.TargetAudience, p.ProblemStatement, p.Language,
		p.CurrentPhase, p.DiscoverStatus, p.DefineStatus,
		p.DevelopStatus, p.DeliverStatus, p.CompletionPercentage,
		p.GenerationCount, p.IsCompleted, discover, define, develop, deliver, dfv,
		p.UpdatedAt.Unix(), p.ID, p.UserID,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update double diamond project", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Double diamond project")
	}

	return nil
}

// Delete removes a project owned by userID
func (r *DoubleDiamondRepository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM dd_projects WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, errors.DatabaseError("Failed to delete double diamond project", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, errors.DatabaseError("Failed to get affected rows", err)
	}
	return rows > 0, nil
}

// CountByPhase groups project counts for the admin dashboard
func (r *DoubleDiamondRepository) CountByPhase(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT current_phase, COUNT(*) FROM dd_projects GROUP BY current_phase`)
	if err != nil {
		return nil, errors.DatabaseError("Failed to count projects by phase", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var phase string
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

// CreateExport appends one export audit row
func (r *DoubleDiamondRepository) CreateExport(ctx context.Context, e *doublediamond.Export) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO dd_exports (user_id, dd_project_id, exported_project_id, status, export_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		e.UserID, e.DoubleDiamondProjectID, e.ExportedProjectID,
		e.Status, e.ExportType, e.CreatedAt.Unix(),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create export record", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get export ID", err)
	}

	e.ID = id
	return nil
}

// CountExportsInMonth counts a user's export rows in ref's calendar month
func (r *DoubleDiamondRepository) CountExportsInMonth(ctx context.Context, userID int64, ref time.Time) (int, error) {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	end := start.AddDate(0, 1, 0)

	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM dd_exports
		WHERE user_id = ? AND created_at >= ? AND created_at < ?`,
		userID, start.Unix(), end.Unix()).Scan(&count)
	if err != nil {
		return 0, errors.DatabaseError("Failed to count exports", err)
	}
	return count, nil
}

// CountExportsSince counts export rows after a cutoff, all users
func (r *DoubleDiamondRepository) CountExportsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM dd_exports WHERE created_at >= ?`,
		since.Unix()).Scan(&count)
	if err != nil {
		return 0, errors.DatabaseError("Failed to count exports", err)
	}
	return count, nil
}

func scanDDProject(row rowScanner) (*doublediamond.Project, error) {
	var p doublediamond.Project
	var description, successCase, targetAudience, problemStatement sql.NullString
	var discover, define, develop, deliver, dfv string
	var createdAt, updatedAt int64

	err := row.Scan(
		&p.ID, &p.UserID, &p.Name, &description, &p.Sector, &successCase,
		&targetAudience, &problemStatement, &p.Language, &p.CurrentPhase,
		&p.DiscoverStatus, &p.DefineStatus, &p.DevelopStatus, &p.DeliverStatus,
		&p.CompletionPercentage, &p.GenerationCount, &p.IsCompleted,
		&discover, &define, &develop, &deliver, &dfv, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		p.Description = &description.String
	}
	if successCase.Valid {
		p.SuccessCase = &successCase.String
	}
	if targetAudience.Valid {
		p.TargetAudience = &targetAudience.String
	}
	if problemStatement.Valid {
		p.ProblemStatement = &problemStatement.String
	}
	if err := unpackPayloads(&p, discover, define, develop, deliver, dfv); err != nil {
		return nil, err
	}
	p.CreatedAt = time.Unix(createdAt, 0)
	p.UpdatedAt = time.Unix(updatedAt, 0)

	return &p, nil
}
