package validators

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/golden-glimpses/models"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxLoginLength    = 64
	MaxNameLength     = 100
)

const (
	FieldLogin    = "login"
	FieldPassword = "password"
	FieldName     = "name"
)

// UserValidator validates registration and login input.
type UserValidator struct{}

func NewUserValidator() Validator {
	return &UserValidator{}
}

// Validate accepts models.RegisterInput and models.Credentials (values or
// pointers). Login input only checks presence, so that a short legacy
// password still gets a "wrong password" answer rather than a validation
// error.
func (v *UserValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.RegisterInput:
		return v.validateRegister(value, fields...)
	case *models.RegisterInput:
		return v.validateRegister(*value, fields...)
	case models.Credentials:
		return v.validateCredentials(value)
	case *models.Credentials:
		return v.validateCredentials(*value)
	default:
		return ErrUnsupportedType
	}
}

func (v *UserValidator) validateRegister(in models.RegisterInput, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldLogin, FieldPassword, FieldName}
	}

	for _, f := range fields {
		switch f {
		case FieldLogin:
			login := strings.TrimSpace(in.Login)
			if login == "" {
				return ErrEmptyLogin
			}
			if utf8.RuneCountInString(login) > MaxLoginLength {
				return ErrLoginTooLong
			}
		case FieldPassword:
			n := utf8.RuneCountInString(in.Password)
			if n < MinPasswordLength {
				return ErrPasswordTooShort
			}
			if n > MaxPasswordLength {
				return ErrPasswordTooLong
			}
		case FieldName:
			if utf8.RuneCountInString(strings.TrimSpace(in.Name)) > MaxNameLength {
				return ErrNameTooLong
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *UserValidator) validateCredentials(in models.Credentials) error {
	if strings.TrimSpace(in.Login) == "" {
		return ErrEmptyLogin
	}
	if in.Password == "" {
		return ErrPasswordTooShort
	}
	return nil
}
