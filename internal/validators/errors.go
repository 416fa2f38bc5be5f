package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyOwnerID             = errors.New("owner is required")
	ErrEmptyTitle               = errors.New("title is required")
	ErrTitleTooLong             = errors.New("title must be at most 100 characters")
	ErrDescriptionTooLong       = errors.New("description must be at most 500 characters")
	ErrMissingUnsealingDate     = errors.New("unsealing date is required")
	ErrUnsealingDateNotInFuture = errors.New("unsealing date must be in the future")
	ErrEmptyMediaURL            = errors.New("media url is required")
	ErrInvalidMediaType         = errors.New("invalid media type")

	ErrEmptyLogin       = errors.New("login is required")
	ErrLoginTooLong     = errors.New("login must be at most 64 characters")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong  = errors.New("password must be at most 128 characters")
	ErrNameTooLong      = errors.New("name must be at most 100 characters")
)
