package user

import "time"

// User represents an account. The Custom* fields are per-user limit
// overrides; a non-nil override beats the plan value while the trial window
// (if any) is open. A nil CustomLimitsTrialEndsAt makes overrides permanent.
type User struct {
	ID                   int64      `json:"id"`
	Email                string     `json:"email"`
	Username             string     `json:"username,omitempty"`
	FullName             *string    `json:"full_name,omitempty"`
	PasswordHash         string     `json:"-"`
	Role                 string     `json:"role"`
	PlanID               string     `json:"plan_id"`
	SubscriptionStatus   string     `json:"subscription_status"`
	Language             string     `json:"language"`
	StripeCustomerID     *string    `json:"-"`
	StripeSubscriptionID *string    `json:"-"`

	CustomMaxProjects              *int       `json:"custom_max_projects,omitempty"`
	CustomMaxDoubleDiamondProjects *int       `json:"custom_max_double_diamond_projects,omitempty"`
	CustomMaxDoubleDiamondExports  *int       `json:"custom_max_double_diamond_exports,omitempty"`
	CustomAIChatLimit              *int       `json:"custom_ai_chat_limit,omitempty"`
	CustomLimitsTrialEndsAt        *time.Time `json:"custom_limits_trial_ends_at,omitempty"`

	AIChatUsed int `json:"ai_chat_used"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Subscription statuses
const (
	SubscriptionActive   = "active"
	SubscriptionCanceled = "canceled"
	SubscriptionExpired  = "expired"
	SubscriptionNone     = "none"
)

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CustomLimits bundles the override fields for admin tooling.
type CustomLimits struct {
	MaxProjects              *int       `json:"max_projects"`
	MaxDoubleDiamondProjects *int       `json:"max_double_diamond_projects"`
	MaxDoubleDiamondExports  *int       `json:"max_double_diamond_exports"`
	AIChatLimit              *int       `json:"ai_chat_limit"`
	TrialEndsAt              *time.Time `json:"trial_ends_at"`
}
