package models

import "time"

// ---- Profile ----

type Profile struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FullName  *string `json:"fullName,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username"`
	FullName *string `json:"fullName"`
}

type UploadAvatarResponse struct {
	URL string `json:"url"`
}

// ---- Account Settings ----

type AccountSettings struct {
	Language string `json:"language"`
	Timezone string `json:"timezone"`
	Theme    string `json:"theme"`
}

type UpdateAccountSettingsRequest struct {
	Language *string `json:"language"`
	Timezone *string `json:"timezone"`
	Theme    *string `json:"theme"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ---- Workspace preferences ----

type WorkspacePreferences struct {
	DefaultSector     string `json:"defaultSector"`
	AIContentLanguage string `json:"aiContentLanguage"`
	AutoAdvancePhases bool   `json:"autoAdvancePhases"`
}

type UpdateWorkspacePreferencesRequest struct {
	DefaultSector     *string `json:"defaultSector"`
	AIContentLanguage *string `json:"aiContentLanguage"`
	AutoAdvancePhases *bool   `json:"autoAdvancePhases"`
}

// ---- Notifications ----

type NotificationSettings struct {
	EmailEnabled       bool `json:"emailEnabled"`
	InviteAlerts       bool `json:"inviteAlerts"`
	GenerationComplete bool `json:"generationComplete"`
	WeeklyDigest       bool `json:"weeklyDigest"`
}

type UpdateNotificationSettingsRequest struct {
	EmailEnabled       *bool `json:"emailEnabled"`
	InviteAlerts       *bool `json:"inviteAlerts"`
	GenerationComplete *bool `json:"generationComplete"`
	WeeklyDigest       *bool `json:"weeklyDigest"`
}

// ---- Billing ----

type BillingSummary struct {
	Plan          string     `json:"plan"`
	Status        string     `json:"status"`
	BillingPeriod string     `json:"billingPeriod,omitempty"`
	RenewsAt      *time.Time `json:"renewsAt,omitempty"`
	Addons        []string   `json:"addons,omitempty"`
}

// ---- Team & Access ----

type TeamMember struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

type InviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type UpdateMemberRequest struct {
	Role   *string `json:"role"`
	Status *string `json:"status"`
}
