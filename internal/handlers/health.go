package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports liveness plus the running build version.
func HealthCheck(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "ok",
			"service":   "gamefit",
			"version":   version,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
