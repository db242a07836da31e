// Package validator adapts go-playground/validator to echo's Validator
// interface and registers the request-level rules the API needs.
package validator

import (
	"unicode"

	domainerrors "bazaar/internal/domain/errors"

	"github.com/go-playground/validator/v10"
)

// RequestValidator implements echo.Validator.
type RequestValidator struct {
	validate *validator.Validate
}

// New builds the validator with all custom rules registered.
func New() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Password policy: at least 8 characters, one letter and one digit.
	// Registration can only fail on mistyped tags, which is a programmer
	// error, so the error return is ignored the way echo examples do.
	_ = v.RegisterValidation("password_policy", validPassword)

	return &RequestValidator{validate: v}
}

// Validate checks a bound request struct and converts the first failure into
// a field-level AppError naming the offending parameter.
func (rv *RequestValidator) Validate(i any) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}

	if fieldErrors, ok := err.(validator.ValidationErrors); ok && len(fieldErrors) > 0 {
		first := fieldErrors[0]
		if first.Tag() == "required" {
			return domainerrors.ErrMissingRequiredFields.WithDetails(first.Field())
		}

		return domainerrors.ErrValidationFailed.WithDetails(first.Field())
	}

	return domainerrors.ErrValidationFailed.WithDetails(err.Error())
}

func validPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 {
		return false
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	return hasLetter && hasDigit
}
