// Package entity defines the domain entities for the users feature.
package entity

import "time"

// Roles an account can hold. Role is both identity metadata and the sole
// authorization source; there is no separate permissions table.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
)

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleModerator || role == RoleUser
}

// User represents a registered account.
// Password holds the bcrypt hash only and never serializes to JSON.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey" json:"id"`

	// Username is unique, 3-50 chars, alphanumeric plus underscore.
	Username string `gorm:"uniqueIndex;size:50;not null" json:"username"`

	// Email is the unique, case-normalized address used for login.
	Email string `gorm:"uniqueIndex;size:100;not null" json:"email"`

	// Password is the hashed password. Plaintext is never stored.
	Password string `gorm:"size:255;not null" json:"-"`

	FullName string `gorm:"size:100" json:"full_name,omitempty"`
	Phone    string `gorm:"size:20" json:"phone,omitempty"`

	// Role defaults to user and is mutable only through admin paths.
	Role string `gorm:"size:20;not null;default:user;index" json:"role"`

	// IsActive false means the account is soft-disabled: it is excluded
	// from every lookup used for authentication.
	IsActive bool `gorm:"not null;default:true" json:"is_active"`

	// LastLogin is stamped on each successful login.
	LastLogin *time.Time `json:"last_login,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the account holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsStaff reports whether the account holds the admin or moderator role.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleModerator
}
