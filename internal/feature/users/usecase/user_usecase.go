// Package usecase implements the business logic for the users feature.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"user_backend/internal/feature/users/domain"
	"user_backend/internal/feature/users/domain/entity"
)

// dummyHash is compared against when a login email matches no account, so a
// bcrypt comparison always runs and lookup misses are not observable by timing.
const dummyHash = "$2a$12$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// ListFilter narrows and pages the account listing.
type ListFilter struct {
	Role   string
	Search string
	Page   int
	Limit  int
}

// Stats summarizes the account table for operators.
type Stats struct {
	TotalUsers  int64 `json:"total_users"`
	ActiveUsers int64 `json:"active_users"`
	AdminUsers  int64 `json:"admin_users"`
	TodayLogins int64 `json:"today_logins"`
}

// UserRepository abstracts the persistence layer for accounts.
// The interface lives with its consumer (this package), not the adapter.
type UserRepository interface {
	// Create persists a new account. Duplicate username/email surfaces as
	// domain.ErrDuplicateUsername / domain.ErrDuplicateEmail.
	Create(ctx context.Context, user *entity.User) error

	// FindActiveByEmail returns the active account with the given email,
	// or domain.ErrUserNotFound. Used for authentication paths only.
	FindActiveByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindActiveByID returns the active account with the given id,
	// or domain.ErrUserNotFound.
	FindActiveByID(ctx context.Context, id uint) (*entity.User, error)

	// FindByID returns the account with the given id regardless of
	// activation state, or domain.ErrUserNotFound.
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// UpdateFields applies the given column updates to the account.
	UpdateFields(ctx context.Context, id uint, fields map[string]any) error

	// UpdatePassword replaces the stored hash.
	UpdatePassword(ctx context.Context, id uint, hash string) error

	// StampLastLogin sets last_login to now.
	StampLastLogin(ctx context.Context, id uint) error

	// SetActive toggles the is_active flag.
	SetActive(ctx context.Context, id uint, active bool) error

	// Delete hard-deletes the account unless its role is admin. It reports
	// whether a row was actually removed.
	Delete(ctx context.Context, id uint) (bool, error)

	// List returns one page of accounts matching the filter plus the total
	// match count.
	List(ctx context.Context, filter ListFilter) ([]entity.User, int64, error)

	// Stats aggregates account counts for the operator endpoint.
	Stats(ctx context.Context) (Stats, error)

	// WithTx runs fn inside a transaction, rolling back on any error.
	WithTx(ctx context.Context, fn func(repo UserRepository) error) error
}

// PasswordHasher abstracts the adaptive hash used for credentials.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenIssuer abstracts bearer-token issuance.
type TokenIssuer interface {
	Issue(userID uint) (string, error)
}

// RegisterInput carries the validated registration payload.
// Note there is no role field: registration always produces a plain user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Phone    string
}

// UpdateInput carries the updatable profile fields. Nil pointers mean
// "leave unchanged". Role is honored only when the actor is an admin.
type UpdateInput struct {
	FullName *string
	Phone    *string
	Role     *string
}

// UserUsecase composes repository, hasher and token issuer into the
// account business operations.
type UserUsecase struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
}

// NewUserUsecase creates a UserUsecase with its dependencies injected.
func NewUserUsecase(users UserRepository, hasher PasswordHasher, tokens TokenIssuer) *UserUsecase {
	return &UserUsecase{users: users, hasher: hasher, tokens: tokens}
}

// Register creates a new account and issues its first token.
// The uniqueness pre-checks and the insert run in one transaction; the
// adapter's duplicate-key translation remains as the backstop for races.
func (u *UserUsecase) Register(ctx context.Context, in RegisterInput) (*entity.User, string, error) {
	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, "", err
	}

	user := &entity.User{
		Username: in.Username,
		Email:    normalizeEmail(in.Email),
		Password: hash,
		FullName: in.FullName,
		Phone:    in.Phone,
		Role:     entity.RoleUser,
		IsActive: true,
	}

	err = u.users.WithTx(ctx, func(repo UserRepository) error {
		if _, err := repo.FindActiveByEmail(ctx, user.Email); err == nil {
			return domain.ErrDuplicateEmail
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return repo.Create(ctx, user)
	})
	if err != nil {
		return nil, "", err
	}

	token, err := u.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return user, token, nil
}

// Login authenticates by email and password and returns the account with a
// fresh token. Lookup misses and password mismatches return the same
// domain.ErrInvalidCredentials; a hash comparison runs in both cases so the
// two are not distinguishable by timing either.
func (u *UserUsecase) Login(ctx context.Context, email, plaintext string) (*entity.User, string, error) {
	user, err := u.users.FindActiveByEmail(ctx, normalizeEmail(email))

	hash := dummyHash
	if err == nil {
		hash = user.Password
	}
	ok := u.hasher.Verify(plaintext, hash)

	if err != nil || !ok {
		return nil, "", domain.ErrInvalidCredentials
	}

	if err := u.users.StampLastLogin(ctx, user.ID); err != nil {
		return nil, "", fmt.Errorf("failed to stamp last login: %w", err)
	}

	token, err := u.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return user, token, nil
}

// Get returns the account with the given id, active or not.
func (u *UserUsecase) Get(ctx context.Context, id uint) (*entity.User, error) {
	return u.users.FindByID(ctx, id)
}

// Update applies profile changes to the target account. The role field is
// silently ignored unless the acting account is an admin; everyone else can
// only touch their own descriptive fields.
func (u *UserUsecase) Update(ctx context.Context, targetID uint, in UpdateInput, actor *entity.User) (*entity.User, error) {
	fields := map[string]any{}
	if in.FullName != nil {
		fields["full_name"] = *in.FullName
	}
	if in.Phone != nil {
		fields["phone"] = *in.Phone
	}
	if in.Role != nil && actor.IsAdmin() {
		fields["role"] = *in.Role
	}
	if len(fields) == 0 {
		return nil, domain.ErrNoFieldsToUpdate
	}

	if _, err := u.users.FindByID(ctx, targetID); err != nil {
		return nil, err
	}
	if err := u.users.UpdateFields(ctx, targetID, fields); err != nil {
		return nil, err
	}
	return u.users.FindByID(ctx, targetID)
}

// ChangePassword re-verifies the current password before storing a new hash.
func (u *UserUsecase) ChangePassword(ctx context.Context, id uint, current, next string) error {
	user, err := u.users.FindActiveByID(ctx, id)
	if err != nil {
		return err
	}
	if !u.hasher.Verify(current, user.Password) {
		return domain.ErrWrongPassword
	}
	hash, err := u.hasher.Hash(next)
	if err != nil {
		return err
	}
	return u.users.UpdatePassword(ctx, id, hash)
}

// Deactivate disables the target account. Self-targeting is rejected so an
// admin can never lock out the last remaining admin session.
func (u *UserUsecase) Deactivate(ctx context.Context, targetID, actorID uint) error {
	if targetID == actorID {
		return domain.ErrSelfTarget
	}
	if _, err := u.users.FindByID(ctx, targetID); err != nil {
		return err
	}
	return u.users.SetActive(ctx, targetID, false)
}

// Activate re-enables the target account.
func (u *UserUsecase) Activate(ctx context.Context, targetID uint) error {
	if _, err := u.users.FindByID(ctx, targetID); err != nil {
		return err
	}
	return u.users.SetActive(ctx, targetID, true)
}

// Delete hard-deletes the target account. Self-targeting is rejected, and the
// store itself refuses to remove admin rows regardless of who asks.
func (u *UserUsecase) Delete(ctx context.Context, targetID, actorID uint) error {
	if targetID == actorID {
		return domain.ErrSelfTarget
	}
	target, err := u.users.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target.IsAdmin() {
		return domain.ErrAdminUndeletable
	}
	deleted, err := u.users.Delete(ctx, targetID)
	if err != nil {
		return err
	}
	if !deleted {
		// Raced with a role change or another delete; either way the row
		// was not removable.
		return domain.ErrUserNotFound
	}
	return nil
}

// List returns one page of accounts and the total match count.
func (u *UserUsecase) List(ctx context.Context, filter ListFilter) ([]entity.User, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	return u.users.List(ctx, filter)
}

// Stats aggregates account counts for the operator endpoint.
func (u *UserUsecase) Stats(ctx context.Context) (Stats, error) {
	return u.users.Stats(ctx)
}

// SeedDefaultAdmin ensures a bootstrap admin account exists. It is a no-op
// when the email is already registered.
func (u *UserUsecase) SeedDefaultAdmin(ctx context.Context, email, plaintext string) error {
	_, err := u.users.FindActiveByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	hash, err := u.hasher.Hash(plaintext)
	if err != nil {
		return err
	}
	return u.users.Create(ctx, &entity.User{
		Username: "admin",
		Email:    normalizeEmail(email),
		Password: hash,
		FullName: "System Administrator",
		Role:     entity.RoleAdmin,
		IsActive: true,
	})
}

// normalizeEmail lowercases and trims an address so lookups and the unique
// index agree on case.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
