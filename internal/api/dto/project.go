package dto

// CreateProjectRequest is the project creation payload
type CreateProjectRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description *string `json:"description,omitempty"`
	Sector      *string `json:"sector,omitempty"`
	SuccessCase *string `json:"success_case,omitempty"`
}

// UpdateProjectRequest is the project update payload
type UpdateProjectRequest struct {
	Name           *string `json:"name,omitempty"`
	Description    *string `json:"description,omitempty"`
	Sector         *string `json:"sector,omitempty"`
	SuccessCase    *string `json:"success_case,omitempty"`
	Status         *string `json:"status,omitempty" validate:"omitempty,oneof=in_progress completed"`
	CurrentPhase   *int    `json:"current_phase,omitempty" validate:"omitempty,min=1,max=5"`
	CompletionRate *int    `json:"completion_rate,omitempty" validate:"omitempty,min=0,max=100"`
}

// EmpathyMapRequest is the empathy map payload
type EmpathyMapRequest struct {
	Says   []string `json:"says"`
	Thinks []string `json:"thinks"`
	Does   []string `json:"does"`
	Feels  []string `json:"feels"`
}

// PersonaRequest is the persona payload
type PersonaRequest struct {
	Name         string   `json:"name" validate:"required,max=255"`
	Age          *int     `json:"age,omitempty" validate:"omitempty,min=0,max=150"`
	Occupation   *string  `json:"occupation,omitempty"`
	Bio          *string  `json:"bio,omitempty"`
	Goals        []string `json:"goals"`
	Frustrations []string `json:"frustrations"`
}

// InterviewRequest is the interview payload
type InterviewRequest struct {
	Interviewee string   `json:"interviewee" validate:"required,max=255"`
	Date        *string  `json:"date,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
	Insights    []string `json:"insights"`
}

// ObservationRequest is the observation payload
type ObservationRequest struct {
	Location *string `json:"location,omitempty"`
	Context  *string `json:"context,omitempty"`
	Notes    string  `json:"notes" validate:"required"`
}

// PovStatementRequest is the POV statement payload
type PovStatementRequest struct {
	User          string `json:"user" validate:"required"`
	Need          string `json:"need" validate:"required"`
	Insight       string `json:"insight" validate:"required"`
	FullStatement string `json:"full_statement,omitempty"`
}

// HmwQuestionRequest is the HMW question payload
type HmwQuestionRequest struct {
	Question string `json:"question" validate:"required"`
	Scope    string `json:"scope,omitempty"`
	Priority string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
}

// IdeaRequest is the idea payload
type IdeaRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Votes       *int    `json:"votes,omitempty" validate:"omitempty,min=0"`
}

// PrototypeRequest is the prototype payload
type PrototypeRequest struct {
	Name         string  `json:"name" validate:"required,max=255"`
	Type         *string `json:"type,omitempty"`
	Description  *string `json:"description,omitempty"`
	MaterialsURL *string `json:"materials_url,omitempty" validate:"omitempty,url"`
}

// TestPlanRequest is the test plan payload
type TestPlanRequest struct {
	Objective       string  `json:"objective" validate:"required"`
	Methodology     *string `json:"methodology,omitempty"`
	Participants    int     `json:"participants" validate:"min=0"`
	DurationMinutes int     `json:"duration_minutes" validate:"min=0"`
}

// TestResultRequest is the test result payload
type TestResultRequest struct {
	TestPlanID  int64   `json:"test_plan_id" validate:"required"`
	Participant string  `json:"participant" validate:"required"`
	Feedback    *string `json:"feedback,omitempty"`
	Success     bool    `json:"success"`
}

// DvfAssessmentRequest is the DVF assessment payload
type DvfAssessmentRequest struct {
	ItemName     string  `json:"item_name" validate:"required,max=255"`
	Desirability float64 `json:"desirability" validate:"min=0,max=5"`
	Feasibility  float64 `json:"feasibility" validate:"min=0,max=5"`
	Viability    float64 `json:"viability" validate:"min=0,max=5"`
	Notes        *string `json:"notes,omitempty"`
}
