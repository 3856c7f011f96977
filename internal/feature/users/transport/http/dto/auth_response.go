package dto

import "user_backend/internal/feature/users/domain/entity"

// AuthData is the payload returned by register and login: the account
// (hash excluded via the entity's json tags) and its bearer token.
type AuthData struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}
