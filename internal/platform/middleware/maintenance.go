package middleware

import (
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"user_backend/internal/api"
)

// MaintenanceFlag is the process-wide maintenance switch. It is read on every
// request and written only by the operator toggle endpoint.
type MaintenanceFlag struct {
	on atomic.Bool
}

// NewMaintenanceFlag returns a flag in the off state.
func NewMaintenanceFlag() *MaintenanceFlag {
	return &MaintenanceFlag{}
}

// Toggle flips the flag and returns the new state.
func (f *MaintenanceFlag) Toggle() bool {
	for {
		old := f.on.Load()
		if f.on.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Enabled reports the current state.
func (f *MaintenanceFlag) Enabled() bool {
	return f.on.Load()
}

// Maintenance rejects every request with 503 while the flag is set. The
// toggle endpoint itself is exempt so operators can always switch it back.
func Maintenance(flag *MaintenanceFlag) gin.HandlerFunc {
	return func(c *gin.Context) {
		if flag.Enabled() && !strings.HasPrefix(c.Request.URL.Path, "/api/maintenance") {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				api.Error("system under maintenance, please try again later"))
			return
		}
		c.Next()
	}
}
