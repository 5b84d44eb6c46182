package project

import "context"

// Repository defines data access for projects.
type Repository interface {
	Create(ctx context.Context, p *Project) error

	// GetByID retrieves a project regardless of owner (admin path)
	GetByID(ctx context.Context, id int64) (*Project, error)

	// GetForOwner retrieves a project only when owned by ownerID
	GetForOwner(ctx context.Context, id, ownerID int64) (*Project, error)

	ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*Project, int64, error)

	// CountByOwner counts a user's projects, for ceiling checks
	CountByOwner(ctx context.Context, ownerID int64) (int, error)

	Update(ctx context.Context, p *Project) error

	// Delete removes a project owned by ownerID; false when no row matched
	Delete(ctx context.Context, id, ownerID int64) (bool, error)

	// CountByStatus groups project counts for the admin dashboard
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// CountByPhase groups project counts by current phase
	CountByPhase(ctx context.Context) (map[int]int64, error)
}

// EntityRepository defines data access for the per-phase sub-entities. The
// surface is mechanical; every entity follows create/list/update/delete with
// rows scoped to their project.
type EntityRepository interface {
	CreateEmpathyMap(ctx context.Context, m *EmpathyMap) error
	ListEmpathyMaps(ctx context.Context, projectID int64) ([]*EmpathyMap, error)
	UpdateEmpathyMap(ctx context.Context, m *EmpathyMap) error
	DeleteEmpathyMap(ctx context.Context, id, projectID int64) (bool, error)

	CreatePersona(ctx context.Context, p *Persona) error
	ListPersonas(ctx context.Context, projectID int64) ([]*Persona, error)
	CountPersonas(ctx context.Context, projectID int64) (int, error)
	UpdatePersona(ctx context.Context, p *Persona) error
	DeletePersona(ctx context.Context, id, projectID int64) (bool, error)

	CreateInterview(ctx context.Context, i *Interview) error
	ListInterviews(ctx context.Context, projectID int64) ([]*Interview, error)
	UpdateInterview(ctx context.Context, i *Interview) error
	DeleteInterview(ctx context.Context, id, projectID int64) (bool, error)

	CreateObservation(ctx context.Context, o *Observation) error
	ListObservations(ctx context.Context, projectID int64) ([]*Observation, error)
	UpdateObservation(ctx context.Context, o *Observation) error
	DeleteObservation(ctx context.Context, id, projectID int64) (bool, error)

	CreatePovStatement(ctx context.Context, s *PovStatement) error
	ListPovStatements(ctx context.Context, projectID int64) ([]*PovStatement, error)
	UpdatePovStatement(ctx context.Context, s *PovStatement) error
	DeletePovStatement(ctx context.Context, id, projectID int64) (bool, error)

	CreateHmwQuestion(ctx context.Context, q *HmwQuestion) error
	ListHmwQuestions(ctx context.Context, projectID int64) ([]*HmwQuestion, error)
	UpdateHmwQuestion(ctx context.Context, q *HmwQuestion) error
	DeleteHmwQuestion(ctx context.Context, id, projectID int64) (bool, error)

	CreateIdea(ctx context.Context, i *Idea) error
	ListIdeas(ctx context.Context, projectID int64) ([]*Idea, error)
	UpdateIdea(ctx context.Context, i *Idea) error
	DeleteIdea(ctx context.Context, id, projectID int64) (bool, error)

	CreatePrototype(ctx context.Context, p *Prototype) error
	ListPrototypes(ctx context.Context, projectID int64) ([]*Prototype, error)
	UpdatePrototype(ctx context.Context, p *Prototype) error
	DeletePrototype(ctx context.Context, id, projectID int64) (bool, error)

	CreateTestPlan(ctx context.Context, t *TestPlan) error
	ListTestPlans(ctx context.Context, projectID int64) ([]*TestPlan, error)
	UpdateTestPlan(ctx context.Context, t *TestPlan) error
	DeleteTestPlan(ctx context.Context, id, projectID int64) (bool, error)

	CreateTestResult(ctx context.Context, r *TestResult) error
	ListTestResults(ctx context.Context, testPlanID int64) ([]*TestResult, error)
	DeleteTestResult(ctx context.Context, id, projectID int64) (bool, error)

	CreateDvfAssessment(ctx context.Context, a *DvfAssessment) error
	ListDvfAssessments(ctx context.Context, projectID int64) ([]*DvfAssessment, error)
	UpdateDvfAssessment(ctx context.Context, a *DvfAssessment) error
	DeleteDvfAssessment(ctx context.Context, id, projectID int64) (bool, error)

	CreateAIAsset(ctx context.Context, a *AIAsset) error
	ListAIAssets(ctx context.Context, projectID int64) ([]*AIAsset, error)
}
