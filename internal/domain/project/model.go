package project

import "time"

// Project is the five-phase design thinking project (Empathize, Define,
// Ideate, Prototype, Test).
type Project struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	Sector         *string   `json:"sector,omitempty"`
	SuccessCase    *string   `json:"success_case,omitempty"`
	Status         string    `json:"status"`
	CurrentPhase   int       `json:"current_phase"` // 1..5
	CompletionRate int       `json:"completion_rate"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Project statuses
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Phase bounds
const (
	FirstPhase = 1
	LastPhase  = 5
)
