package plan

import "time"

// Plan is a subscription tier. Nil limit fields mean unlimited; callers must
// never read nil as zero.
type Plan struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	Description           string `json:"description,omitempty"`
	MaxProjects           *int   `json:"max_projects"`
	MaxPersonasPerProject *int   `json:"max_personas_per_project"`
	MaxUsersPerTeam       *int   `json:"max_users_per_team"`
	IncludedUsers         int    `json:"included_users"`
	AIChatLimit           *int   `json:"ai_chat_limit"`
	MaxDoubleDiamondProjects *int `json:"max_double_diamond_projects"`
	MaxDoubleDiamondExports  *int `json:"max_double_diamond_exports"`
	LibraryArticlesCount     *int `json:"library_articles_count"`

	HasCollaboration      bool `json:"has_collaboration"`
	HasSSO                bool `json:"has_sso"`
	HasCustomIntegrations bool `json:"has_custom_integrations"`

	// Prices in minor currency units
	PriceMonthly int64 `json:"price_monthly"`
	PriceYearly  int64 `json:"price_yearly"`
}

// Plan IDs
const (
	Free       = "free"
	Pro        = "pro"
	Enterprise = "enterprise"
)

// Addon keys. Addons gate feature availability; they never change numeric
// ceilings (extra export capacity is a custom override, not addon-derived).
const (
	AddonDoubleDiamondPro = "double_diamond_pro"
	AddonExportPro        = "export_pro"
	AddonAITurbo          = "ai_turbo"
	AddonCollabAdvanced   = "collab_advanced"
	AddonLibraryPremium   = "library_premium"
)

// Addon statuses and sources
const (
	AddonStatusActive   = "active"
	AddonStatusCanceled = "canceled"

	AddonSourceStripe = "stripe"
	AddonSourceAdmin  = "admin"
)

// Addon is a purchasable/grantable feature toggle layered on a plan.
// Multiple historical rows may exist per (user, key); only active ones count.
type Addon struct {
	ID                   int64      `json:"id"`
	UserID               int64      `json:"user_id"`
	AddonKey             string     `json:"addon_key"`
	Status               string     `json:"status"`
	Source               string     `json:"source"`
	BillingPeriod        string     `json:"billing_period,omitempty"`
	PeriodStart          *time.Time `json:"period_start,omitempty"`
	PeriodEnd            *time.Time `json:"period_end,omitempty"`
	StripeSubscriptionID *string    `json:"-"`
	CreatedAt            time.Time  `json:"created_at"`
}

// ActiveAt reports whether the addon counts for limit/feature computation at
// the given instant: status active and period open-ended or still running.
func (a *Addon) ActiveAt(now time.Time) bool {
	if a.Status != AddonStatusActive {
		return false
	}
	return a.PeriodEnd == nil || a.PeriodEnd.After(now)
}

// Subscription statuses mirror the user-level ones.
const (
	SubscriptionActive   = "active"
	SubscriptionCanceled = "canceled"
	SubscriptionExpired  = "expired"
)

// Subscription is a user's paid plan enrollment.
type Subscription struct {
	ID                   int64      `json:"id"`
	UserID               int64      `json:"user_id"`
	PlanID               string     `json:"plan_id"`
	Status               string     `json:"status"`
	BillingPeriod        string     `json:"billing_period,omitempty"`
	PeriodStart          *time.Time `json:"period_start,omitempty"`
	PeriodEnd            *time.Time `json:"period_end,omitempty"`
	StripeSubscriptionID *string    `json:"-"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}
