package doublediamond

import "context"

// Generator is the external AI content-generation collaborator, one call per
// phase plus DFV. Implementations may fail; the engine never retries.

type DiscoverInput struct {
	Sector           string
	SuccessCase      string
	TargetAudience   string
	ProblemStatement string
	Language         string
}

type DiscoverOutput struct {
	PainPoints []string
	Insights   []string
	UserNeeds  []string
	EmpathyMap EmpathyMap
}

type DefineInput struct {
	PainPoints []string
	UserNeeds  []string
	Insights   []string
	Language   string
}

type DefineOutput struct {
	PovStatements []PovStatement
	HmwQuestions  []string
}

type DevelopInput struct {
	SelectedPov PovStatement
	SelectedHmw string
	Sector      string
	Language    string
}

type DevelopOutput struct {
	Ideas                []Idea
	CrossPollinatedIdeas []Idea
}

type DeliverInput struct {
	SelectedIdeas []Idea
	SelectedPov   *PovStatement
	Sector        string
	Language      string
}

type DeliverOutput struct {
	MvpConcept       MvpConcept
	LogoSuggestions  []string
	LandingPage      LandingPage
	SocialMediaLines []string
	TestPlan         TestPlanDraft
}

type DFVInput struct {
	SelectedPov   *PovStatement
	MvpConcept    MvpConcept
	Sector        string
	SelectedIdeas []Idea
	Language      string
}

type DFVOutput struct {
	DesirabilityScore float64 // 0-100
	FeasibilityScore  float64
	ViabilityScore    float64
	Analysis          DfvAnalysis
}

type Generator interface {
	Discover(ctx context.Context, in DiscoverInput) (*DiscoverOutput, error)
	Define(ctx context.Context, in DefineInput) (*DefineOutput, error)
	Develop(ctx context.Context, in DevelopInput) (*DevelopOutput, error)
	Deliver(ctx context.Context, in DeliverInput) (*DeliverOutput, error)
	DFV(ctx context.Context, in DFVInput) (*DFVOutput, error)
}
