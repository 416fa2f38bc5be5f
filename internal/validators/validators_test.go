// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/golden-glimpses/models"
	"github.com/stretchr/testify/assert"
)

var fixedNow = time.Date(2026, time.May, 10, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func validCreateInput() models.CreateCapsuleInput {
	return models.CreateCapsuleInput{
		OwnerID:       "owner-1",
		Title:         "Trip",
		Description:   "Summer trip photos",
		UnsealingDate: fixedNow.Add(24 * time.Hour),
	}
}

// ---------------------------------------------------------------------------
// CapsuleValidator
// ---------------------------------------------------------------------------

func TestCapsuleValidator_CreateInput(t *testing.T) {
	v := NewCapsuleValidator(clock, false)

	tests := []struct {
		name    string
		mutate  func(in *models.CreateCapsuleInput)
		wantErr error
	}{
		{"valid", func(in *models.CreateCapsuleInput) {}, nil},
		{"missing owner", func(in *models.CreateCapsuleInput) { in.OwnerID = " " }, ErrEmptyOwnerID},
		{"empty title", func(in *models.CreateCapsuleInput) { in.Title = "" }, ErrEmptyTitle},
		{"blank title", func(in *models.CreateCapsuleInput) { in.Title = "   \t" }, ErrEmptyTitle},
		{"title at limit", func(in *models.CreateCapsuleInput) { in.Title = strings.Repeat("a", MaxTitleLength) }, nil},
		{"title over limit", func(in *models.CreateCapsuleInput) { in.Title = strings.Repeat("a", MaxTitleLength+1) }, ErrTitleTooLong},
		{"title limit counts runes", func(in *models.CreateCapsuleInput) { in.Title = strings.Repeat("ж", MaxTitleLength) }, nil},
		{"padded title trimmed", func(in *models.CreateCapsuleInput) { in.Title = "  " + strings.Repeat("a", MaxTitleLength) + "  " }, nil},
		{"description over limit", func(in *models.CreateCapsuleInput) { in.Description = strings.Repeat("d", MaxDescriptionLength+1) }, ErrDescriptionTooLong},
		{"empty description", func(in *models.CreateCapsuleInput) { in.Description = "" }, nil},
		{"missing date", func(in *models.CreateCapsuleInput) { in.UnsealingDate = time.Time{} }, ErrMissingUnsealingDate},
		{"date now", func(in *models.CreateCapsuleInput) { in.UnsealingDate = fixedNow }, ErrUnsealingDateNotInFuture},
		{"date in past", func(in *models.CreateCapsuleInput) { in.UnsealingDate = fixedNow.Add(-time.Hour) }, ErrUnsealingDateNotInFuture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validCreateInput()
			tt.mutate(&in)

			err := v.Validate(context.Background(), in)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCapsuleValidator_AllowPastUnsealingDate(t *testing.T) {
	v := NewCapsuleValidator(clock, true)

	in := validCreateInput()
	in.UnsealingDate = fixedNow.Add(-48 * time.Hour)
	assert.NoError(t, v.Validate(context.Background(), &in))

	in.UnsealingDate = time.Time{}
	assert.ErrorIs(t, v.Validate(context.Background(), in), ErrMissingUnsealingDate)
}

func TestCapsuleValidator_FieldScoping(t *testing.T) {
	v := NewCapsuleValidator(clock, false)

	in := validCreateInput()
	in.UnsealingDate = fixedNow.Add(-time.Hour)

	assert.NoError(t, v.Validate(context.Background(), in, FieldTitle, FieldDescription))
	assert.ErrorIs(t, v.Validate(context.Background(), in, "bogus"), ErrUnknownField)
}

func TestCapsuleValidator_MediaItem(t *testing.T) {
	v := NewCapsuleValidator(nil, false)

	assert.NoError(t, v.Validate(context.Background(), models.MediaItem{URL: "https://x/a.jpg", Type: models.MediaImage}))
	assert.ErrorIs(t, v.Validate(context.Background(), models.MediaItem{Type: models.MediaImage}), ErrEmptyMediaURL)
	assert.ErrorIs(t, v.Validate(context.Background(), &models.MediaItem{URL: "https://x", Type: "gif"}), ErrInvalidMediaType)
	assert.NoError(t, v.Validate(context.Background(), models.MediaItem{URL: "https://x"}, FieldMediaURL))
}

func TestCapsuleValidator_UnsupportedType(t *testing.T) {
	v := NewCapsuleValidator(clock, false)
	assert.ErrorIs(t, v.Validate(context.Background(), 42), ErrUnsupportedType)
}

// ---------------------------------------------------------------------------
// UserValidator
// ---------------------------------------------------------------------------

func TestUserValidator_Register(t *testing.T) {
	v := NewUserValidator()

	tests := []struct {
		name    string
		in      models.RegisterInput
		wantErr error
	}{
		{"valid", models.RegisterInput{Login: "alice", Password: "correct horse", Name: "Alice"}, nil},
		{"empty login", models.RegisterInput{Login: " ", Password: "password1"}, ErrEmptyLogin},
		{"long login", models.RegisterInput{Login: strings.Repeat("l", MaxLoginLength+1), Password: "password1"}, ErrLoginTooLong},
		{"short password", models.RegisterInput{Login: "alice", Password: "1234567"}, ErrPasswordTooShort},
		{"long password", models.RegisterInput{Login: "alice", Password: strings.Repeat("p", MaxPasswordLength+1)}, ErrPasswordTooLong},
		{"long name", models.RegisterInput{Login: "alice", Password: "password1", Name: strings.Repeat("n", MaxNameLength+1)}, ErrNameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(context.Background(), tt.in)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUserValidator_Credentials(t *testing.T) {
	v := NewUserValidator()

	assert.NoError(t, v.Validate(context.Background(), models.Credentials{Login: "alice", Password: "x"}))
	assert.ErrorIs(t, v.Validate(context.Background(), &models.Credentials{Password: "x"}), ErrEmptyLogin)
	assert.ErrorIs(t, v.Validate(context.Background(), models.Credentials{Login: "alice"}), ErrPasswordTooShort)
	assert.ErrorIs(t, v.Validate(context.Background(), "alice"), ErrUnsupportedType)
}
