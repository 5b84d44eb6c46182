package client

import "time"

// ListOptions are the common pagination options
type ListOptions struct {
	Page     int
	PageSize int
}

// Paginated wraps a page of results
type Paginated[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// User represents a platform user
type User struct {
	ID                 int64   `json:"id"`
	Email              string  `json:"email"`
	Username           string  `json:"username"`
	FullName           *string `json:"full_name,omitempty"`
	Role               string  `json:"role"`
	PlanID             string  `json:"plan_id"`
	SubscriptionStatus string  `json:"subscription_status"`
	Language           string  `json:"language"`
	AIChatUsed         int     `json:"ai_chat_used"`
}

// TokenPair is the access/refresh token pair issued by the auth endpoints
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResult is the login/register response payload
type AuthResult struct {
	User   User      `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

// Project is a five-phase design thinking project
type Project struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	Sector         *string   `json:"sector,omitempty"`
	SuccessCase    *string   `json:"success_case,omitempty"`
	Status         string    `json:"status"`
	CurrentPhase   int       `json:"current_phase"`
	CompletionRate int       `json:"completion_rate"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DoubleDiamondProject is an AI-guided Double Diamond project. Phase
// payloads are kept raw; most CLI consumers only need the progress fields.
type DoubleDiamondProject struct {
	ID                   int64     `json:"id"`
	UserID               int64     `json:"user_id"`
	Name                 string    `json:"name"`
	Sector               string    `json:"sector"`
	Language             string    `json:"language"`
	CurrentPhase         string    `json:"current_phase"`
	CompletionPercentage int       `json:"completion_percentage"`
	IsCompleted          bool      `json:"is_completed"`
	GenerationCount      int       `json:"generation_count"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// ExportResult is the outcome of a Double Diamond export
type ExportResult struct {
	ProjectID int64 `json:"project_id"`
	Steps     []struct {
		Name  string `json:"name"`
		OK    bool   `json:"ok"`
		Error string `json:"error,omitempty"`
	} `json:"steps"`
}

// LibraryItem is a content library entry
type LibraryItem struct {
	ID       int64   `json:"id"`
	Kind     string  `json:"kind"`
	Title    string  `json:"title"`
	Summary  string  `json:"summary,omitempty"`
	Body     string  `json:"body,omitempty"`
	URL      *string `json:"url,omitempty"`
	Author   *string `json:"author,omitempty"`
	Category *string `json:"category,omitempty"`
	Language string  `json:"language"`
	Premium  bool    `json:"premium"`
}

// Plan is a purchasable tier
type Plan struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	PriceMonthly          int64  `json:"price_monthly"`
	PriceYearly           int64  `json:"price_yearly"`
	MaxProjects           *int   `json:"max_projects"`
	MaxPersonasPerProject *int   `json:"max_personas_per_project"`
	HasCollaboration      bool   `json:"has_collaboration"`
}
