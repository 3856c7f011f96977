package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user_backend/internal/feature/users/domain"
	"user_backend/internal/feature/users/domain/entity"
	"user_backend/internal/platform/token"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockVerifier simulates token verification.
type mockVerifier struct {
	VerifyFunc func(token string) (uint, error)
}

func (m *mockVerifier) Verify(tok string) (uint, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(tok)
	}
	return 0, token.ErrTokenInvalid
}

// mockLoader simulates the account lookup.
type mockLoader struct {
	FindFunc func(ctx context.Context, id uint) (*entity.User, error)
}

func (m *mockLoader) FindActiveByID(ctx context.Context, id uint) (*entity.User, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

func runAuth(t *testing.T, verifier TokenVerifier, loader UserLoader, authHeader string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		c.Request.Header.Set("Authorization", authHeader)
	}
	AuthRequired(verifier, loader)(c)
	return w, c
}

func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["message"].(string)
	return msg
}

func TestAuthRequired_NoCredential(t *testing.T) {
	w, c := runAuth(t, &mockVerifier{}, &mockLoader{}, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
	assert.Equal(t, "no token provided", messageOf(t, w))
}

func TestAuthRequired_ExpiredToken(t *testing.T) {
	verifier := &mockVerifier{
		VerifyFunc: func(string) (uint, error) { return 0, token.ErrTokenExpired },
	}

	w, _ := runAuth(t, verifier, &mockLoader{}, "Bearer expired")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token expired", messageOf(t, w))
}

func TestAuthRequired_InvalidToken(t *testing.T) {
	w, _ := runAuth(t, &mockVerifier{}, &mockLoader{}, "Bearer garbage")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid token", messageOf(t, w))
}

// A token whose subject no longer exists (or is deactivated) must produce a
// response byte-identical to the invalid-token one, so account existence
// cannot be probed through the auth gate.
func TestAuthRequired_MissingSubjectMatchesInvalidToken(t *testing.T) {
	goodSig := &mockVerifier{
		VerifyFunc: func(string) (uint, error) { return 42, nil },
	}

	missing, _ := runAuth(t, goodSig, &mockLoader{}, "Bearer valid-but-gone")
	invalid, _ := runAuth(t, &mockVerifier{}, &mockLoader{}, "Bearer garbage")

	assert.Equal(t, http.StatusUnauthorized, missing.Code)
	assert.Equal(t, invalid.Code, missing.Code)
	assert.Equal(t, invalid.Body.String(), missing.Body.String())
}

func TestAuthRequired_Success(t *testing.T) {
	account := &entity.User{ID: 42, Username: "alice", Role: entity.RoleUser, IsActive: true}
	verifier := &mockVerifier{
		VerifyFunc: func(string) (uint, error) { return 42, nil },
	}
	loader := &mockLoader{
		FindFunc: func(ctx context.Context, id uint) (*entity.User, error) {
			assert.Equal(t, uint(42), id)
			return account, nil
		},
	}

	w, c := runAuth(t, verifier, loader, "Bearer good")

	assert.False(t, c.IsAborted(), "response: %s", w.Body.String())
	got, ok := CurrentUser(c)
	require.True(t, ok, "account not attached to context")
	assert.Equal(t, account, got)
	id, _ := c.Get(ContextUserID)
	assert.Equal(t, uint(42), id)
}

func runWithUser(t *testing.T, user *entity.User, params gin.Params, mw gin.HandlerFunc) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = params
	if user != nil {
		c.Set(ContextUser, user)
		c.Set(ContextUserID, user.ID)
	}
	mw(c)
	return w, c
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		allowed  []string
		wantCode int
	}{
		{"admin passes admin gate", entity.RoleAdmin, []string{entity.RoleAdmin}, http.StatusOK},
		{"moderator fails admin gate", entity.RoleModerator, []string{entity.RoleAdmin}, http.StatusForbidden},
		{"user fails admin gate", entity.RoleUser, []string{entity.RoleAdmin}, http.StatusForbidden},
		{"moderator passes staff gate", entity.RoleModerator, []string{entity.RoleAdmin, entity.RoleModerator}, http.StatusOK},
		{"user fails staff gate", entity.RoleUser, []string{entity.RoleAdmin, entity.RoleModerator}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &entity.User{ID: 1, Role: tt.role}
			w, c := runWithUser(t, user, nil, RequireRoles(tt.allowed...))

			if tt.wantCode == http.StatusOK {
				assert.False(t, c.IsAborted())
			} else {
				assert.Equal(t, tt.wantCode, w.Code)
				assert.True(t, c.IsAborted())
			}
		})
	}

	t.Run("unauthenticated request is rejected", func(t *testing.T) {
		w, _ := runWithUser(t, nil, nil, RequireRoles(entity.RoleAdmin))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireSelfOrAdmin(t *testing.T) {
	idParam := gin.Params{{Key: "id", Value: "42"}}

	tests := []struct {
		name     string
		user     *entity.User
		params   gin.Params
		wantCode int
	}{
		{"owner passes", &entity.User{ID: 42, Role: entity.RoleUser}, idParam, http.StatusOK},
		{"admin passes for any id", &entity.User{ID: 1, Role: entity.RoleAdmin}, idParam, http.StatusOK},
		{"other user is forbidden", &entity.User{ID: 7, Role: entity.RoleUser}, idParam, http.StatusForbidden},
		{"moderator gets no shortcut", &entity.User{ID: 7, Role: entity.RoleModerator}, idParam, http.StatusForbidden},
		{"non-numeric id", &entity.User{ID: 42, Role: entity.RoleUser}, gin.Params{{Key: "id", Value: "abc"}}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, c := runWithUser(t, tt.user, tt.params, RequireSelfOrAdmin())

			if tt.wantCode == http.StatusOK {
				assert.False(t, c.IsAborted())
			} else {
				assert.Equal(t, tt.wantCode, w.Code)
			}
		})
	}
}
