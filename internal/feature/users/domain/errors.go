// Package domain defines domain-level errors for the users feature.
package domain

import "errors"

// Domain errors for account operations. Upper layers map these to HTTP
// statuses; anything not listed here surfaces as an internal error.
var (
	// ErrUserNotFound indicates no account matched the given criteria.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned on login when the email or the
	// password is wrong. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrDuplicateUsername indicates the username is already taken.
	ErrDuplicateUsername = errors.New("username already in use")

	// ErrDuplicateEmail indicates the email is already registered.
	ErrDuplicateEmail = errors.New("email already in use")

	// ErrWrongPassword indicates the current-password re-verification failed
	// during a password change.
	ErrWrongPassword = errors.New("current password is incorrect")

	// ErrSelfTarget indicates an account tried to deactivate or delete
	// itself. Forbidden so at least one admin session always survives.
	ErrSelfTarget = errors.New("cannot target your own account")

	// ErrAdminUndeletable indicates a delete was attempted on an admin
	// account. Admin rows are delete-proof regardless of caller.
	ErrAdminUndeletable = errors.New("admin accounts cannot be deleted")

	// ErrNoFieldsToUpdate indicates an update request carried no updatable
	// fields.
	ErrNoFieldsToUpdate = errors.New("no valid fields to update")
)
