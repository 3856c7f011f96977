// Package middleware provides the gin middleware chain: authentication,
// role and ownership authorization, the maintenance gate and login throttling.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"user_backend/internal/api"
	"user_backend/internal/feature/users/domain/entity"
	"user_backend/internal/platform/token"
)

// Context keys under which the resolved account is attached for handlers.
const (
	ContextUser   = "currentUser"
	ContextUserID = "currentUserID"
)

// TokenVerifier abstracts token verification for the auth gate.
type TokenVerifier interface {
	Verify(token string) (uint, error)
}

// UserLoader abstracts the single account lookup the auth gate performs.
type UserLoader interface {
	FindActiveByID(ctx context.Context, id uint) (*entity.User, error)
}

// AuthRequired authenticates the request: extract token, verify it, load the
// active account it names, and attach account and id to the gin context.
// Every failure aborts with 401. A missing or inactive subject uses the same
// message as a bad token so account existence cannot be probed here.
func AuthRequired(verifier TokenVerifier, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := token.FromRequest(c.Request)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.Error("no token provided"))
			return
		}

		userID, err := verifier.Verify(tokenStr)
		if err != nil {
			if errors.Is(err, token.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, api.Error("token expired"))
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.Error("invalid token"))
			return
		}

		user, err := users.FindActiveByID(c.Request.Context(), userID)
		if err != nil {
			slog.Warn("auth subject lookup failed", "user_id", userID, "error", err, "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.Error("invalid token"))
			return
		}

		c.Set(ContextUser, user)
		c.Set(ContextUserID, user.ID)
		c.Next()
	}
}

// CurrentUser returns the account AuthRequired attached to the context.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*entity.User)
	return user, ok
}

// RequireRoles passes only when the authenticated account holds one of the
// given roles. It must run after AuthRequired.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.Error("no token provided"))
			return
		}
		if _, ok := allowed[user.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, api.Error("insufficient permissions"))
			return
		}
		c.Next()
	}
}

// RequireSelfOrAdmin passes when the authenticated account is an admin or
// owns the resource named by the :id path parameter. It must run after
// AuthRequired.
func RequireSelfOrAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.Error("no token provided"))
			return
		}
		targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, api.Error("user id must be a number"))
			return
		}
		if user.IsAdmin() || user.ID == uint(targetID) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, api.Error("you may only access your own account"))
	}
}
