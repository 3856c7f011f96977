// Package validation wires the custom input rules into gin's validator
// engine and translates failures into the envelope's field-error list.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"user_backend/internal/api"
	"user_backend/internal/feature/users/domain/entity"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	phoneRe    = regexp.MustCompile(`^[\+]?[(]?[0-9]{3}[)]?[-\s\.]?[0-9]{3}[-\s\.]?[0-9]{4,6}$`)
)

// Register installs the custom rules on gin's binding validator and makes
// field errors report json tag names. Call once at startup.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding validator engine unavailable")
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	rules := map[string]validator.Func{
		"username_format": func(fl validator.FieldLevel) bool {
			return usernameRe.MatchString(fl.Field().String())
		},
		"phone_format": func(fl validator.FieldLevel) bool {
			return phoneRe.MatchString(fl.Field().String())
		},
		"password_complexity": passwordComplexity,
		"user_role": func(fl validator.FieldLevel) bool {
			return entity.ValidRole(fl.Field().String())
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %q rule: %w", tag, err)
		}
	}
	return nil
}

// passwordComplexity requires at least one upper, lower, digit and special
// character. Length is enforced separately by the min tag.
func passwordComplexity(fl validator.FieldLevel) bool {
	var upper, lower, digit, special bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	return upper && lower && digit && special
}

// Errors translates a binding error into the field-error list, keeping every
// failing rule rather than just the first. Non-validator errors (malformed
// JSON, type mismatches) collapse to a single request-level entry.
func Errors(err error) []api.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []api.FieldError{{Field: "request", Message: "invalid request body"}}
	}

	out := make([]api.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, api.FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

// message renders a human-readable reason for one failing rule.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "username_format":
		return "may only contain letters, digits and underscores"
	case "password_complexity":
		return "must contain an uppercase letter, a lowercase letter, a digit and a special character"
	case "phone_format":
		return "must be a valid phone number"
	case "user_role":
		return "must be one of admin, moderator, user"
	case "eqfield":
		return "passwords do not match"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
