package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	m "github.com/designlab-hq/designlab/settings/models"
	u "github.com/designlab-hq/designlab/settings/utils"
)

// Profile
func GetProfile(c *gin.Context) {
	profile := m.Profile{ID: 1, Username: "demo", Email: "demo@example.com"}
	u.JSON(c, http.StatusOK, profile)
}

func UpdateProfile(c *gin.Context) {
	var req m.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		u.Error(c, http.StatusBadRequest, "invalid body")
		return
	}
	u.JSON(c, http.StatusOK, gin.H{"status": "updated"})
}

func UploadAvatar(c *gin.Context) {
	u.JSON(c, http.StatusCreated, m.UploadAvatarResponse{URL: "https://example.com/avatar.png"})
}

// Account
func GetAccountSettings(c *gin.Context) {
	u.JSON(c, http.StatusOK, m.AccountSettings{Language: "pt-BR", Timezone: "America/Sao_Paulo", Theme: "system"})
}

func UpdateAccountSettings(c *gin.Context) {
	var req m.UpdateAccountSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		u.Error(c, http.StatusBadRequest, "invalid body")
		return
	}
	u.JSON(c, http.StatusOK, gin.H{"status": "updated"})
}

func ChangePassword(c *gin.Context) {
	var req m.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.NewPassword == "" {
		u.Error(c, http.StatusBadRequest, "invalid body")
		return
	}
	u.JSON(c, http.StatusOK, gin.H{"status": "changed"})
}

// Workspace preferences
func GetWorkspacePreferences(c *gin.Context) {
	u.JSON(c, http.StatusOK, m.WorkspacePreferences{
		DefaultSector:     "technology",
		AIContentLanguage: "pt-BR",
		AutoAdvancePhases: true,
	})
}

func UpdateWorkspacePreferences(c *gin.Context) {
	var req m.UpdateWorkspacePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		u.Error(c, http.StatusBadRequest, "invalid body")
		return
	}
	u.JSON(c, http.StatusOK, gin.H{"status": "updated"})
}

// Notifications
func GetNotificationSettings(c *gin.Context) {
	u.JSON(c, http.StatusOK, m.NotificationSettings{
		EmailEnabled:       true,
		InviteAlerts:       true,
		GenerationComplete: true,
		WeeklyDigest:       false,
	})
}

func UpdateNotificationSettings(c *gin.Context) {
	var req m.UpdateNotificationSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		u.Error(c, http.StatusBadRequest, "invalid body")
		return
	}
	u.JSON(c, http.StatusOK, gin.H{"status": "updated"})
}

// Billing
func GetBillingSummary(c *gin.Context) {
	renews := time.Now().AddDate(0, 1, 0)
	u.JSON(c, http.StatusOK, m.BillingSummary{
		Plan:          "pro",
		Status:        "active",
		BillingPeriod: "monthly",
		RenewsAt:      &renews,
		Addons:        []string{"premium_library"},
	})
}

// Team & Access
func ListTeamMembers(c *gin.Context) {
	u.JSON(c, http.StatusOK, []m.TeamMember{{ID: "u1", Email: "demo@example.com", Role: "owner", Status: "active"}})
}

func InviteTeamMember(c *gin.Context) {
	var req m.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Role == "" {
		u.Error(c, http.StatusBadRequest, "invalid invite")
		return
	}
	u.JSON(c, http.StatusCreated, gin.H{"status": "invited", "email": req.Email})
}

func UpdateTeamMember(c *gin.Context) {
	var req m.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		u.Error(c, http.StatusBadRequest, "invalid body")
		return
	}
	u.JSON(c, http.StatusOK, gin.H{"status": "updated"})
}

func DeleteTeamMember(c *gin.Context) {
	u.JSON(c, http.StatusNoContent, nil)
}
