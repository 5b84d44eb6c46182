package dto

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name,omitempty"`
	Language string `json:"language,omitempty"`
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest is the token refresh payload
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// UserDTO is the public view of a user
type UserDTO struct {
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
