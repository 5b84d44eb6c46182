package routes

import (
	"github.com/gin-gonic/gin"

	c "github.com/designlab-hq/designlab/settings/controllers"
)

func RegisterSettingsRoutes(r *gin.Engine) {
	// Profile
	r.GET("/profile", c.GetProfile)
	r.PUT("/profile", c.UpdateProfile)
	r.POST("/profile/avatar", c.UploadAvatar)

	// Account
	r.GET("/account/settings", c.GetAccountSettings)
	r.PUT("/account/settings", c.UpdateAccountSettings)
	r.POST("/account/password", c.ChangePassword)

	// Workspace preferences
	r.GET("/workspace/preferences", c.GetWorkspacePreferences)
	r.PUT("/workspace/preferences", c.UpdateWorkspacePreferences)

	// Notifications
	r.GET("/notifications/settings", c.GetNotificationSettings)
	r.PUT("/notifications/settings", c.UpdateNotificationSettings)

	// Billing portal
	r.GET("/billing/summary", c.GetBillingSummary)

	// Team & Access
	r.GET("/team/members", c.ListTeamMembers)
	r.POST("/team/invite", c.InviteTeamMember)
	r.PUT("/team/member/:id", c.UpdateTeamMember)
	r.DELETE("/team/member/:id", c.DeleteTeamMember)
}
