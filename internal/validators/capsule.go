package validators

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MKhiriev/golden-glimpses/models"
)

// Limits enforced on capsule input.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// Field name constants used to restrict validation to a subset of fields.
const (
	FieldOwnerID       = "owner_id"
	FieldTitle         = "title"
	FieldDescription   = "description"
	FieldUnsealingDate = "unsealing_date"

	// FieldUnsealingDateInFuture additionally requires the unsealing date to
	// be after the validator clock.
	FieldUnsealingDateInFuture = "unsealing_date_in_future"

	FieldMediaURL  = "media_url"
	FieldMediaType = "media_type"
)

// CapsuleValidator validates capsule create commands and media items.
type CapsuleValidator struct {
	now func() time.Time

	// allowPastUnsealingDate turns off the future-date rule for imports.
	allowPastUnsealingDate bool
}

// NewCapsuleValidator constructs a CapsuleValidator. A nil now uses
// time.Now.
func NewCapsuleValidator(now func() time.Time, allowPastUnsealingDate bool) Validator {
	if now == nil {
		now = time.Now
	}
	return &CapsuleValidator{
		now:                    now,
		allowPastUnsealingDate: allowPastUnsealingDate,
	}
}

// Validate dispatches on the dynamic type of obj.
//
// Supported types:
//   - models.CreateCapsuleInput / *models.CreateCapsuleInput
//   - models.MediaItem / *models.MediaItem
//
// Returns ErrUnsupportedType for anything else.
func (v *CapsuleValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.CreateCapsuleInput:
		return v.validateCreateInput(ctx, value, fields...)
	case *models.CreateCapsuleInput:
		return v.validateCreateInput(ctx, *value, fields...)

	case models.MediaItem:
		return v.validateMediaItem(ctx, value, fields...)
	case *models.MediaItem:
		return v.validateMediaItem(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// validateCreateInput checks a create command. Title is validated after
// trimming. The future-date rule is skipped when the validator was built
// with allowPastUnsealingDate.
func (v *CapsuleValidator) validateCreateInput(_ context.Context, in models.CreateCapsuleInput, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldOwnerID, FieldTitle, FieldDescription, FieldUnsealingDate, FieldUnsealingDateInFuture}
	}

	for _, f := range fields {
		switch f {
		case FieldOwnerID:
			if strings.TrimSpace(in.OwnerID) == "" {
				return ErrEmptyOwnerID
			}
		case FieldTitle:
			title := strings.TrimSpace(in.Title)
			if title == "" {
				return ErrEmptyTitle
			}
			if utf8.RuneCountInString(title) > MaxTitleLength {
				return ErrTitleTooLong
			}
		case FieldDescription:
			if utf8.RuneCountInString(strings.TrimSpace(in.Description)) > MaxDescriptionLength {
				return ErrDescriptionTooLong
			}
		case FieldUnsealingDate:
			if in.UnsealingDate.IsZero() {
				return ErrMissingUnsealingDate
			}
		case FieldUnsealingDateInFuture:
			if v.allowPastUnsealingDate {
				continue
			}
			if in.UnsealingDate.IsZero() {
				return ErrMissingUnsealingDate
			}
			if !in.UnsealingDate.After(v.now()) {
				return ErrUnsealingDateNotInFuture
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *CapsuleValidator) validateMediaItem(_ context.Context, item models.MediaItem, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldMediaURL, FieldMediaType}
	}

	for _, f := range fields {
		switch f {
		case FieldMediaURL:
			if strings.TrimSpace(item.URL) == "" {
				return ErrEmptyMediaURL
			}
		case FieldMediaType:
			if !item.Type.IsValid() {
				return ErrInvalidMediaType
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
