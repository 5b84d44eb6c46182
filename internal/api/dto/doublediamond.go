package dto

// CreateDoubleDiamondRequest is the Double Diamond project creation payload
type CreateDoubleDiamondRequest struct {
	Name             string  `json:"name" validate:"required,min=1,max=255"`
	Description      *string `json:"description,omitempty"`
	Sector           string  `json:"sector" validate:"required,max=100"`
	SuccessCase      *string `json:"success_case,omitempty"`
	TargetAudience   *string `json:"target_audience,omitempty"`
	ProblemStatement *string `json:"problem_statement,omitempty"`
	Language         string  `json:"language,omitempty"`
}

// DiscoverGenerateRequest carries optional overrides for discover generation
type DiscoverGenerateRequest struct {
	Sector           string `json:"sector,omitempty"`
	SuccessCase      string `json:"success_case,omitempty"`
	TargetAudience   string `json:"target_audience,omitempty"`
	ProblemStatement string `json:"problem_statement,omitempty"`
	Language         string `json:"language,omitempty"`
}

// ExportRequest is the Double Diamond export payload
type ExportRequest struct {
	ProjectName string `json:"project_name,omitempty" validate:"omitempty,max=255"`
}
