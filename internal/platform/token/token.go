// Package token issues and verifies the signed bearer tokens used for
// authentication, and extracts them from incoming requests.
package token

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failure kinds. Callers must be able to tell an expired
// credential from a broken one because client refresh logic differs.
var (
	// ErrTokenExpired means the signature checked out but the expiry elapsed.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid covers every other verification failure: bad signature,
	// malformed token, wrong signing algorithm.
	ErrTokenInvalid = errors.New("token invalid")
)

// HeaderAccessToken is the fallback header checked when no Bearer header is set.
const HeaderAccessToken = "X-Access-Token"

// Service signs and verifies HS256 tokens carrying a user id as subject.
type Service struct {
	secret     []byte
	expiration time.Duration
}

// NewService creates a token Service with the provided secret and lifetime.
func NewService(secret string, expiration time.Duration) *Service {
	return &Service{
		secret:     []byte(secret),
		expiration: expiration,
	}
}

// Issue creates a signed token for the given user id.
func (s *Service) Issue(userID uint) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(s.expiration).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the token's user id.
// It returns ErrTokenExpired or ErrTokenInvalid, never the parser's raw error.
func (s *Service) Verify(tokenStr string) (uint, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// Only HMAC is accepted; anything else is a forgery attempt.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrTokenInvalid
	}
	if !token.Valid {
		return 0, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrTokenInvalid
	}
	sub, ok := claims["sub"].(float64) // JWT numbers decode as float64
	if !ok || sub <= 0 {
		return 0, ErrTokenInvalid
	}
	return uint(sub), nil
}

// FromRequest extracts a bearer token from the request, trying in order:
// Authorization header, X-Access-Token header, token query param, token cookie.
// It returns the empty string when no credential is present.
func FromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if t := r.Header.Get(HeaderAccessToken); t != "" {
		return t
	}
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	if c, err := r.Cookie("token"); err == nil && c.Value != "" {
		return c.Value
	}
	return ""
}
