package doublediamond

import (
	"encoding/json"
	"time"
)

// Phases, in order. DFV is a pseudo-phase: a repeatable analysis action
// available after deliver completes, never the current phase pointer's end
// state on its own.
const (
	PhaseDiscover = "discover"
	PhaseDefine   = "define"
	PhaseDevelop  = "develop"
	PhaseDeliver  = "deliver"
	PhaseDFV      = "dfv"
)

// Per-phase statuses
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Completion percentages at phase boundaries
const (
	CompletionDiscover = 25
	CompletionDefine   = 50
	CompletionDevelop  = 75
	CompletionDeliver  = 100
)

// EmpathyMap mirrors the four-quadrant empathy map.
type EmpathyMap struct {
	Says   []string `json:"says"`
	Thinks []string `json:"thinks"`
	Does   []string `json:"does"`
	Feels  []string `json:"feels"`
}

// PovStatement is a generated point-of-view statement.
type PovStatement struct {
	User          string `json:"user"`
	Need          string `json:"need"`
	Insight       string `json:"insight"`
	FullStatement string `json:"full_statement,omitempty"`
}

// Idea is a generated solution candidate.
type Idea struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

// MvpConcept is the deliver-phase MVP description.
type MvpConcept struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	CoreFeatures     []string `json:"core_features"`
	ValueProposition string   `json:"value_proposition,omitempty"`
}

// LandingPage is the generated landing page draft.
type LandingPage struct {
	Headline     string   `json:"headline"`
	Subheadline  string   `json:"subheadline,omitempty"`
	Sections     []string `json:"sections,omitempty"`
	CallToAction string   `json:"call_to_action,omitempty"`
}

// FlexInt tolerates non-numeric JSON where a count is expected; anything
// that isn't a number decodes to 0 so downstream defaults can apply.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		*f = 0
		return nil
	}
	*f = FlexInt(n)
	return nil
}

// TestPlanDraft is the deliver-phase test plan sketch.
type TestPlanDraft struct {
	Objectives      []string `json:"objectives"`
	Methods         []string `json:"methods"`
	Metrics         []string `json:"metrics,omitempty"`
	Participants    FlexInt  `json:"participants"`
	DurationMinutes FlexInt  `json:"duration_minutes"`
}

// DfvAnalysis is the DFV pseudo-phase's qualitative output.
type DfvAnalysis struct {
	Desirability      string   `json:"desirability"`
	Feasibility       string   `json:"feasibility"`
	Viability         string   `json:"viability"`
	Recommendations   []string `json:"recommendations"`
	NextSteps         []string `json:"next_steps"`
	OverallAssessment string   `json:"overall_assessment"`
}

// Project is a Double Diamond project. Phase payload fields hold generated
// JSON content; each phase's generation requires the prior phase's required
// fields to be present.
type Project struct {
	ID               int64   `json:"id"`
	UserID           int64   `json:"user_id"`
	Name             string  `json:"name"`
	Description      *string `json:"description,omitempty"`
	Sector           string  `json:"sector"`
	SuccessCase      *string `json:"success_case,omitempty"`
	TargetAudience   *string `json:"target_audience,omitempty"`
	ProblemStatement *string `json:"problem_statement,omitempty"`
	Language         string  `json:"language"`

	CurrentPhase         string `json:"current_phase"`
	DiscoverStatus       string `json:"discover_status"`
	DefineStatus         string `json:"define_status"`
	DevelopStatus        string `json:"develop_status"`
	DeliverStatus        string `json:"deliver_status"`
	CompletionPercentage int    `json:"completion_percentage"`
	GenerationCount      int    `json:"generation_count"`
	IsCompleted          bool   `json:"is_completed"`

	DiscoverPainPoints []string    `json:"discover_pain_points,omitempty"`
	DiscoverInsights   []string    `json:"discover_insights,omitempty"`
	DiscoverUserNeeds  []string    `json:"discover_user_needs,omitempty"`
	DiscoverEmpathyMap *EmpathyMap `json:"discover_empathy_map,omitempty"`

	DefinePovStatements []PovStatement `json:"define_pov_statements,omitempty"`
	DefineHmwQuestions  []string       `json:"define_hmw_questions,omitempty"`
	DefineSelectedPov   *PovStatement  `json:"define_selected_pov,omitempty"`
	DefineSelectedHmw   *string        `json:"define_selected_hmw,omitempty"`

	DevelopIdeas                []Idea `json:"develop_ideas,omitempty"`
	DevelopCrossPollinatedIdeas []Idea `json:"develop_cross_pollinated_ideas,omitempty"`
	DevelopSelectedIdeas        []Idea `json:"develop_selected_ideas,omitempty"`

	DeliverMvpConcept       *MvpConcept    `json:"deliver_mvp_concept,omitempty"`
	DeliverLogoSuggestions  []string       `json:"deliver_logo_suggestions,omitempty"`
	DeliverLandingPage      *LandingPage   `json:"deliver_landing_page,omitempty"`
	DeliverSocialMediaLines []string       `json:"deliver_social_media_lines,omitempty"`
	DeliverTestPlan         *TestPlanDraft `json:"deliver_test_plan,omitempty"`

	DfvDesirabilityScore *float64     `json:"dfv_desirability_score,omitempty"` // 0-100
	DfvFeasibilityScore  *float64     `json:"dfv_feasibility_score,omitempty"`
	DfvViabilityScore    *float64     `json:"dfv_viability_score,omitempty"`
	DfvAnalysis          *DfvAnalysis `json:"dfv_analysis,omitempty"`
	DfvFeedback          *string      `json:"dfv_feedback,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Export statuses and types
const (
	ExportStatusCompleted = "completed"
	ExportTypeFull        = "full"
)

// Export is the append-only audit row written once per successful export.
// Export-ceiling checks count these rows per calendar month.
type Export struct {
	ID                     int64     `json:"id"`
	UserID                 int64     `json:"user_id"`
	DoubleDiamondProjectID int64     `json:"double_diamond_project_id"`
	ExportedProjectID      *int64    `json:"exported_project_id,omitempty"`
	Status                 string    `json:"status"`
	ExportType             string    `json:"export_type"`
	CreatedAt              time.Time `json:"created_at"`
}
