// Package handler provides the operational endpoints: health check and the
// maintenance-mode toggle.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"user_backend/internal/api"
	"user_backend/internal/platform/middleware"
)

var startedAt = time.Now()

// Health handles the /api/health liveness endpoint.
// It responds to every method and prevents caching.
func Health(env string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")

		switch c.Request.Method {
		case http.MethodHead:
			c.Status(http.StatusOK)
		case http.MethodOptions:
			c.Status(http.StatusNoContent)
		default:
			c.JSON(http.StatusOK, api.OK("server is running", gin.H{
				"environment":    env,
				"uptime_seconds": int64(time.Since(startedAt).Seconds()),
				"timestamp":      time.Now().UTC().Format(time.RFC3339),
			}))
		}
	}
}

// ToggleMaintenance flips the process-wide maintenance flag. The router
// places this behind admin authorization.
func ToggleMaintenance(flag *middleware.MaintenanceFlag) gin.HandlerFunc {
	return func(c *gin.Context) {
		enabled := flag.Toggle()

		actorID := uint(0)
		if user, ok := middleware.CurrentUser(c); ok {
			actorID = user.ID
		}
		slog.Info("maintenance mode toggled", "enabled", enabled, "actor_id", actorID)

		msg := "maintenance mode disabled"
		if enabled {
			msg = "maintenance mode enabled"
		}
		c.JSON(http.StatusOK, api.OK(msg, gin.H{"maintenance_mode": enabled}))
	}
}
