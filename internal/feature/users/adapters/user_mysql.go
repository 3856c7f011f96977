// Package adapters provides the repository implementations for the users feature.
package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"user_backend/internal/feature/users/domain"
	"user_backend/internal/feature/users/domain/entity"
	"user_backend/internal/feature/users/usecase"
)

// userMySQL is the MySQL implementation of usecase.UserRepository, built on GORM.
type userMySQL struct {
	db *gorm.DB
}

// Compile-time check that userMySQL implements the repository interface.
var _ usecase.UserRepository = (*userMySQL)(nil)

// NewUserMySQL creates a userMySQL backed by the given gorm.DB connection.
func NewUserMySQL(db *gorm.DB) *userMySQL {
	return &userMySQL{db: db}
}

// Create inserts the account. A duplicate username or email is translated to
// the matching field-specific domain error.
func (r *userMySQL) Create(ctx context.Context, u *entity.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return translateDuplicate(err)
	}
	return nil
}

// FindActiveByEmail fetches an active account by email. Inactive accounts are
// invisible here so disabled credentials can never authenticate.
func (r *userMySQL) FindActiveByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	err := r.db.WithContext(ctx).
		Where("email = ? AND is_active = ?", email, true).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindActiveByID fetches an active account by id.
func (r *userMySQL) FindActiveByID(ctx context.Context, id uint) (*entity.User, error) {
	var u entity.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByID fetches an account by id regardless of activation state.
func (r *userMySQL) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UpdateFields applies the given column values to the account row.
func (r *userMySQL) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	err := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", id).
		Updates(fields).Error
	return translateDuplicate(err)
}

// UpdatePassword replaces the stored hash.
func (r *userMySQL) UpdatePassword(ctx context.Context, id uint, hash string) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", id).
		Update("password", hash).Error
}

// StampLastLogin sets last_login to the current time.
func (r *userMySQL) StampLastLogin(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", id).
		Update("last_login", time.Now()).Error
}

// SetActive toggles the is_active flag.
func (r *userMySQL) SetActive(ctx context.Context, id uint, active bool) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

// Delete hard-deletes the account. The role guard sits in the statement
// itself, so admin rows survive no matter which code path calls this.
func (r *userMySQL) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND role <> ?", id, entity.RoleAdmin).
		Delete(&entity.User{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// List returns one page of accounts matching the filter, newest first, plus
// the total match count for pagination metadata.
func (r *userMySQL) List(ctx context.Context, filter usecase.ListFilter) ([]entity.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.User{})

	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		q = q.Where("username LIKE ? OR email LIKE ? OR full_name LIKE ?", term, term, term)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []entity.User
	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("created_at DESC").
		Limit(filter.Limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Stats aggregates account counts for the operator endpoint.
func (r *userMySQL) Stats(ctx context.Context) (usecase.Stats, error) {
	var s usecase.Stats
	model := func() *gorm.DB { return r.db.WithContext(ctx).Model(&entity.User{}) }

	if err := model().Count(&s.TotalUsers).Error; err != nil {
		return s, err
	}
	if err := model().Where("is_active = ?", true).Count(&s.ActiveUsers).Error; err != nil {
		return s, err
	}
	if err := model().Where("role = ?", entity.RoleAdmin).Count(&s.AdminUsers).Error; err != nil {
		return s, err
	}
	// Truncate(24h) would cut on UTC days; the login day rolls over at local
	// midnight.
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := model().Where("last_login >= ?", midnight).Count(&s.TodayLogins).Error; err != nil {
		return s, err
	}
	return s, nil
}

// WithTx runs fn against a transactional copy of the repository. GORM commits
// on nil return and rolls back on error or panic, releasing the connection in
// every case.
func (r *userMySQL) WithTx(ctx context.Context, fn func(repo usecase.UserRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&userMySQL{db: tx})
	})
}

// translateDuplicate maps MySQL error 1062 (duplicate unique key) to the
// field-specific domain error, using the key name to pick the field.
func translateDuplicate(err error) error {
	if err == nil {
		return nil
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		if strings.Contains(mysqlErr.Message, "username") {
			return domain.ErrDuplicateUsername
		}
		return domain.ErrDuplicateEmail
	}
	// SQLite (used by the tests) reports constraint violations textually.
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		if strings.Contains(msg, "username") {
			return domain.ErrDuplicateUsername
		}
		return domain.ErrDuplicateEmail
	}
	return err
}
