package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/golden-glimpses/internal/media"
	"github.com/MKhiriev/golden-glimpses/internal/validators"
	"github.com/MKhiriev/golden-glimpses/models"
)

type CapsuleValidationService struct {
	inner     CapsuleService
	validator validators.Validator
}

func NewCapsuleValidationService(validator validators.Validator) CapsuleServiceWrapper {
	return &CapsuleValidationService{
		validator: validator,
	}
}

func (v *CapsuleValidationService) Create(ctx context.Context, in models.CreateCapsuleInput) (models.Capsule, error) {
	if err := v.validator.Validate(ctx, in); err != nil {
		return models.Capsule{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return v.inner.Create(ctx, in)
}

func (v *CapsuleValidationService) Get(ctx context.Context, capsuleID, requesterID string) (models.CapsuleView, error) {
	return v.inner.Get(ctx, capsuleID, requesterID)
}

// AddMedia normalises every item, drops repeated URLs and rejects the call
// when nothing valid is left.
func (v *CapsuleValidationService) AddMedia(ctx context.Context, capsuleID, requesterID string, items ...models.MediaItem) (models.Capsule, error) {
	valid := make([]models.MediaItem, 0, len(items))
	seen := make(map[string]struct{}, len(items))

	for _, item := range items {
		normalized, ok := media.NormalizeItem(item)
		if !ok {
			continue
		}
		if err := v.validator.Validate(ctx, normalized); err != nil {
			return models.Capsule{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
		}
		if _, dup := seen[normalized.URL]; dup {
			continue
		}
		seen[normalized.URL] = struct{}{}
		valid = append(valid, normalized)
	}

	if len(valid) == 0 {
		return models.Capsule{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, validators.ErrEmptyMediaURL)
	}

	return v.inner.AddMedia(ctx, capsuleID, requesterID, valid...)
}

func (v *CapsuleValidationService) AttachUpload(ctx context.Context, capsuleID, requesterID string, upload models.Upload) (models.Capsule, error) {
	return v.inner.AttachUpload(ctx, capsuleID, requesterID, upload)
}

func (v *CapsuleValidationService) Seal(ctx context.Context, capsuleID, requesterID string) (models.Capsule, error) {
	return v.inner.Seal(ctx, capsuleID, requesterID)
}

func (v *CapsuleValidationService) Delete(ctx context.Context, capsuleID, requesterID string) error {
	return v.inner.Delete(ctx, capsuleID, requesterID)
}

func (v *CapsuleValidationService) ListByOwner(ctx context.Context, ownerID string) ([]models.CapsuleView, error) {
	return v.inner.ListByOwner(ctx, ownerID)
}

func (v *CapsuleValidationService) ListPublic(ctx context.Context, query models.ExploreQuery) (models.CapsulePage, error) {
	return v.inner.ListPublic(ctx, query)
}

func (v *CapsuleValidationService) Wrap(wrapped CapsuleService) CapsuleService {
	v.inner = wrapped
	return v
}
