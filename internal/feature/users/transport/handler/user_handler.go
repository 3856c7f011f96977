// Package handler provides the HTTP handlers for the users feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"user_backend/internal/api"
	"user_backend/internal/feature/users/domain"
	"user_backend/internal/feature/users/domain/entity"
	"user_backend/internal/feature/users/transport/http/dto"
	"user_backend/internal/feature/users/usecase"
	"user_backend/internal/platform/middleware"
	"user_backend/internal/platform/validation"
)

// UserUsecase defines the account operations the handlers depend on.
// The interface lives with its consumer (this package), not the usecase.
type UserUsecase interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*entity.User, string, error)
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
	Get(ctx context.Context, id uint) (*entity.User, error)
	Update(ctx context.Context, targetID uint, in usecase.UpdateInput, actor *entity.User) (*entity.User, error)
	ChangePassword(ctx context.Context, id uint, current, next string) error
	Deactivate(ctx context.Context, targetID, actorID uint) error
	Activate(ctx context.Context, targetID uint) error
	Delete(ctx context.Context, targetID, actorID uint) error
	List(ctx context.Context, filter usecase.ListFilter) ([]entity.User, int64, error)
	Stats(ctx context.Context) (usecase.Stats, error)
}

// UserHandler handles HTTP requests for account operations.
type UserHandler struct {
	users UserUsecase

	// devErrors exposes internal error details in responses. Off in production.
	devErrors bool
}

// NewUserHandler creates a UserHandler around the given usecase.
func NewUserHandler(users UserUsecase, devErrors bool) *UserHandler {
	return &UserHandler{users: users, devErrors: devErrors}
}

// Register handles POST /register.
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Invalid("validation failed", validation.Errors(err)))
		return
	}

	user, tok, err := h.users.Register(c.Request.Context(), usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		slog.Warn("registration failed", "username", req.Username, "error", err, "remote_addr", c.ClientIP())
		h.writeError(c, err)
		return
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username, "remote_addr", c.ClientIP())
	resp := api.OK("registration successful", dto.AuthData{User: user, Token: tok})
	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /login. Lookup misses and wrong passwords produce the
// same response so credentials cannot be enumerated.
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Invalid("validation failed", validation.Errors(err)))
		return
	}

	user, tok, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("login failed", "email", req.Email, "remote_addr", c.ClientIP())
		h.writeError(c, err)
		return
	}

	slog.Info("user logged in", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.OK("login successful", dto.AuthData{User: user, Token: tok}))
}

// Profile handles GET /profile for the authenticated account.
func (h *UserHandler) Profile(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.Error("no token provided"))
		return
	}
	c.JSON(http.StatusOK, api.OK("", actor))
}

// UpdateProfile handles PUT /profile. The acting account edits itself; the
// role field is ignored for non-admins by the usecase.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.Error("no token provided"))
		return
	}

	var req dto.UpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Invalid("validation failed", validation.Errors(err)))
		return
	}

	user, err := h.users.Update(c.Request.Context(), actor.ID, updateInput(req), actor)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.OK("profile updated", user))
}

// ChangePassword handles PUT /change-password.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.Error("no token provided"))
		return
	}

	var req dto.ChangePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Invalid("validation failed", validation.Errors(err)))
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), actor.ID, req.CurrentPassword, req.NewPassword); err != nil {
		slog.Warn("password change failed", "user_id", actor.ID, "error", err, "remote_addr", c.ClientIP())
		h.writeError(c, err)
		return
	}

	slog.Info("password changed", "user_id", actor.ID)
	c.JSON(http.StatusOK, api.OK("password changed", nil))
}

// List handles GET / with filtering and pagination. Admin or moderator only;
// the router enforces that.
func (h *UserHandler) List(c *gin.Context) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, api.Invalid("validation failed", validation.Errors(err)))
		return
	}

	users, total, err := h.users.List(c.Request.Context(), usecase.ListFilter{
		Role:   q.Role,
		Search: q.Search,
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.Paginated(users, total, q.Page, q.Limit))
}

// GetByID handles GET /:id. Ownership is enforced by RequireSelfOrAdmin.
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.OK("", user))
}

// UpdateByID handles PUT /:id for self or admin edits.
func (h *UserHandler) UpdateByID(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.Error("no token provided"))
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Invalid("validation failed", validation.Errors(err)))
		return
	}

	user, err := h.users.Update(c.Request.Context(), id, updateInput(req), actor)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.OK("user updated", user))
}

// Deactivate handles PUT /:id/deactivate. Admin only.
func (h *UserHandler) Deactivate(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.Error("no token provided"))
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.users.Deactivate(c.Request.Context(), id, actor.ID); err != nil {
		h.writeError(c, err)
		return
	}
	slog.Info("user deactivated", "user_id", id, "actor_id", actor.ID)
	c.JSON(http.StatusOK, api.OK("user deactivated", nil))
}

// Activate handles PUT /:id/activate. Admin only.
func (h *UserHandler) Activate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.users.Activate(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	slog.Info("user activated", "user_id", id)
	c.JSON(http.StatusOK, api.OK("user activated", nil))
}

// Delete handles DELETE /:id. Admin only; admin rows are delete-proof.
func (h *UserHandler) Delete(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.Error("no token provided"))
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), id, actor.ID); err != nil {
		h.writeError(c, err)
		return
	}
	slog.Info("user deleted", "user_id", id, "actor_id", actor.ID)
	c.JSON(http.StatusOK, api.OK("user deleted", nil))
}

// Stats handles GET /api/stats. Admin only.
func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.users.Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.OK("", stats))
}

// pathID parses the :id path parameter, answering 400 itself on failure.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.Error("user id must be a number"))
		return 0, false
	}
	return uint(id), true
}

func updateInput(req dto.UpdateReq) usecase.UpdateInput {
	return usecase.UpdateInput{
		FullName: req.FullName,
		Phone:    req.Phone,
		Role:     req.Role,
	}
}

// writeError maps domain errors to the envelope. Anything unrecognized is an
// internal error whose detail is exposed only in development.
func (h *UserHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrDuplicateUsername):
		c.JSON(http.StatusConflict, api.Invalid("registration failed",
			[]api.FieldError{{Field: "username", Message: "username already in use"}}))
	case errors.Is(err, domain.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, api.Invalid("registration failed",
			[]api.FieldError{{Field: "email", Message: "email already in use"}}))
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, api.Error("invalid email or password"))
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, api.Error("user not found"))
	case errors.Is(err, domain.ErrWrongPassword),
		errors.Is(err, domain.ErrSelfTarget),
		errors.Is(err, domain.ErrAdminUndeletable),
		errors.Is(err, domain.ErrNoFieldsToUpdate):
		c.JSON(http.StatusBadRequest, api.Error(err.Error()))
	default:
		slog.Error("internal error", "error", err, "path", c.Request.URL.Path)
		msg := "internal server error"
		if h.devErrors {
			msg = err.Error()
		}
		c.JSON(http.StatusInternalServerError, api.Error(msg))
	}
}
