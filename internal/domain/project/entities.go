package project

import "time"

// Phase sub-entities owned by a project. These are the mechanical CRUD
// surface; each row belongs to exactly one project.

// EmpathyMap captures what users say/think/do/feel (phase 1).
type EmpathyMap struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Says      []string  `json:"says"`
	Thinks    []string  `json:"thinks"`
	Does      []string  `json:"does"`
	Feels     []string  `json:"feels"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Persona is a user archetype (phase 1, plan-limited per project).
type Persona struct {
	ID          int64     `json:"id"`
	ProjectID   int64     `json:"project_id"`
	Name        string    `json:"name"`
	Age         *int      `json:"age,omitempty"`
	Occupation  *string   `json:"occupation,omitempty"`
	Bio         *string   `json:"bio,omitempty"`
	Goals       []string  `json:"goals"`
	Frustrations []string `json:"frustrations"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Interview is a recorded user interview (phase 1).
type Interview struct {
	ID          int64      `json:"id"`
	ProjectID   int64      `json:"project_id"`
	Interviewee string     `json:"interviewee"`
	Date        *time.Time `json:"date,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	Insights    []string   `json:"insights"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Observation is a field observation (phase 1).
type Observation struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Location  *string   `json:"location,omitempty"`
	Context   *string   `json:"context,omitempty"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PovStatement is a point-of-view statement (phase 2).
type PovStatement struct {
	ID            int64     `json:"id"`
	ProjectID     int64     `json:"project_id"`
	User          string    `json:"user"`
	Need          string    `json:"need"`
	Insight       string    `json:"insight"`
	FullStatement string    `json:"full_statement"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HmwQuestion is a "how might we" question (phase 2).
type HmwQuestion struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Question  string    `json:"question"`
	Scope     string    `json:"scope"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Idea is a brainstormed solution candidate (phase 3).
type Idea struct {
	ID          int64     `json:"id"`
	ProjectID   int64     `json:"project_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Votes       int       `json:"votes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Prototype describes a built prototype (phase 4).
type Prototype struct {
	ID          int64     `json:"id"`
	ProjectID   int64     `json:"project_id"`
	Name        string    `json:"name"`
	Type        *string   `json:"type,omitempty"`
	Description *string   `json:"description,omitempty"`
	MaterialsURL *string  `json:"materials_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TestPlan describes how a prototype is validated (phase 5).
type TestPlan struct {
	ID              int64     `json:"id"`
	ProjectID       int64     `json:"project_id"`
	Objective       string    `json:"objective"`
	Methodology     *string   `json:"methodology,omitempty"`
	Participants    int       `json:"participants"`
	DurationMinutes int       `json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TestResult is one participant's outcome for a test plan.
type TestResult struct {
	ID         int64     `json:"id"`
	TestPlanID int64     `json:"test_plan_id"`
	ProjectID  int64     `json:"project_id"`
	Participant string   `json:"participant"`
	Feedback   *string   `json:"feedback,omitempty"`
	Success    bool      `json:"success"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DvfAssessment scores a solution on desirability/feasibility/viability,
// each on a 0-5 scale. Recommendation derives from the overall score.
type DvfAssessment struct {
	ID             int64     `json:"id"`
	ProjectID      int64     `json:"project_id"`
	ItemName       string    `json:"item_name"`
	Desirability   float64   `json:"desirability"`
	Feasibility    float64   `json:"feasibility"`
	Viability      float64   `json:"viability"`
	OverallScore   float64   `json:"overall_score"`
	Recommendation string    `json:"recommendation"`
	Notes          *string   `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DVF recommendations
const (
	RecommendProceed = "proceed"
	RecommendModify  = "modify"
	RecommendStop    = "stop"
)

// AIAsset is a generated artifact attached to a project by the full-MVP
// generator (logo copy, landing page draft, etc).
type AIAsset struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Kind      string    `json:"kind"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
