// Package router assembles the gin engine: global middleware, the public
// auth routes and the protected account-management routes.
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	systemhandler "user_backend/internal/feature/system/handler"
	"user_backend/internal/feature/users/domain/entity"
	userhandler "user_backend/internal/feature/users/transport/handler"
	"user_backend/internal/platform/middleware"
	"user_backend/internal/shared/ratelimiter"
)

// Deps bundles everything the route table needs.
type Deps struct {
	Users        *userhandler.UserHandler
	Verifier     middleware.TokenVerifier
	UserLoader   middleware.UserLoader
	Maintenance  *middleware.MaintenanceFlag
	LoginLimiter *ratelimiter.Limiter
	Env          string
	CORSOrigins  []string
}

// New builds the gin engine with the full route table.
func New(d Deps) *gin.Engine {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(d.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = d.CORSOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowCredentials = !corsCfg.AllowAllOrigins
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Access-Token")
	r.Use(cors.New(corsCfg))

	// 503 everything while the maintenance flag is set, except the toggle
	// endpoint itself.
	r.Use(middleware.Maintenance(d.Maintenance))

	authRequired := middleware.AuthRequired(d.Verifier, d.UserLoader)

	r.GET("/api/health", systemhandler.Health(d.Env))
	r.HEAD("/api/health", systemhandler.Health(d.Env))

	r.POST("/api/maintenance/toggle",
		authRequired,
		middleware.RequireRoles(entity.RoleAdmin),
		systemhandler.ToggleMaintenance(d.Maintenance))

	r.GET("/api/stats",
		authRequired,
		middleware.RequireRoles(entity.RoleAdmin),
		d.Users.Stats)

	users := r.Group("/api/users")
	{
		users.POST("/register", d.Users.Register)
		users.POST("/login", middleware.RateLimit(d.LoginLimiter), d.Users.Login)

		auth := users.Group("")
		auth.Use(authRequired)
		{
			auth.GET("/profile", d.Users.Profile)
			auth.PUT("/profile", d.Users.UpdateProfile)
			auth.PUT("/change-password", d.Users.ChangePassword)

			auth.GET("",
				middleware.RequireRoles(entity.RoleAdmin, entity.RoleModerator),
				d.Users.List)

			auth.GET("/:id", middleware.RequireSelfOrAdmin(), d.Users.GetByID)
			auth.PUT("/:id", middleware.RequireSelfOrAdmin(), d.Users.UpdateByID)

			admin := auth.Group("")
			admin.Use(middleware.RequireRoles(entity.RoleAdmin))
			{
				admin.PUT("/:id/deactivate", d.Users.Deactivate)
				admin.PUT("/:id/activate", d.Users.Activate)
				admin.DELETE("/:id", d.Users.Delete)
			}
		}
	}

	return r
}
