package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"user_backend/internal/api"
	"user_backend/internal/shared/ratelimiter"
)

// RateLimit rejects requests with 429 once the client IP exhausts the
// limiter's window. Applied to the login route only.
func RateLimit(limiter *ratelimiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			slog.Warn("rate limit exceeded", "remote_addr", c.ClientIP(), "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				api.Error("too many attempts, please try again later"))
			return
		}
		c.Next()
	}
}
