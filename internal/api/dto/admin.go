package dto

// CustomLimitsRequest is the admin payload for per-user overrides. Absent
// fields clear the corresponding override: writes are full replacements.
type CustomLimitsRequest struct {
	MaxProjects              *int `json:"max_projects,omitempty" validate:"omitempty,min=0"`
	MaxDoubleDiamondProjects *int `json:"max_double_diamond_projects,omitempty" validate:"omitempty,min=0"`
	MaxDoubleDiamondExports  *int `json:"max_double_diamond_exports,omitempty" validate:"omitempty,min=0"`
	AIChatLimit              *int `json:"ai_chat_limit,omitempty" validate:"omitempty,min=0"`
	TrialDays                int  `json:"trial_days,omitempty" validate:"min=0,max=3650"`
}

// GrantAddonRequest is the admin payload for granting an addon
type GrantAddonRequest struct {
	AddonKey string `json:"addon_key" validate:"required"`
	Days     int    `json:"days,omitempty" validate:"min=0,max=3650"`
}
