package utils

import (
	"github.com/gin-gonic/gin"
)

// JSON writes v inside the same success envelope the main API uses, so
// frontend response handling stays uniform across both services.
func JSON(c *gin.Context, status int, v any) {
	if v == nil {
		c.Status(status)
		return
	}
	c.JSON(status, gin.H{"success": true, "data": v})
}

func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": gin.H{"message": message}})
}
