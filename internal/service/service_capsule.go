// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"github.com/MKhiriev/golden-glimpses/internal/media"
	"github.com/MKhiriev/golden-glimpses/internal/store"
	"github.com/MKhiriev/golden-glimpses/internal/visibility"
	"github.com/MKhiriev/golden-glimpses/models"
)

const (
	// DefaultPageSize and MaxPageSize bound public listings.
	DefaultPageSize = 12
	MaxPageSize     = 50

	// maxWriteAttempts bounds re-reads after optimistic-locking conflicts.
	maxWriteAttempts = 5
)

// capsuleService is the core CapsuleService. Input validation is done by
// the wrapping capsuleValidationService.
type capsuleService struct {
	capsules store.CapsuleRepository
	media    MediaService
	ids      IDGenerator
	now      func() time.Time

	logger *logger.Logger
}

// NewCapsuleService constructs the core capsule service. mediaService is
// only needed by AttachUpload and may be nil.
func NewCapsuleService(capsules store.CapsuleRepository, mediaService MediaService, ids IDGenerator, now func() time.Time, logger *logger.Logger) CapsuleService {
	if now == nil {
		now = time.Now
	}
	return &capsuleService{
		capsules: capsules,
		media:    mediaService,
		ids:      ids,
		now:      now,
		logger:   logger,
	}
}

// Create writes the capsule record first and embeds the normalised media
// in a follow-up write. If the follow-up fails the record is removed again
// so the caller can retry the whole create.
func (s *capsuleService) Create(ctx context.Context, in models.CreateCapsuleInput) (models.Capsule, error) {
	log := logger.FromContext(ctx)
	now := s.now().UTC()

	capsule := models.Capsule{
		ID:            s.ids.Generate(),
		OwnerID:       in.OwnerID,
		Title:         strings.TrimSpace(in.Title),
		Description:   strings.TrimSpace(in.Description),
		UnsealingDate: in.UnsealingDate.UTC(),
		IsPublic:      in.IsPublic,
		Status:        models.StatusUnsealed,
		Media:         make([]models.MediaItem, 0),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.capsules.CreateCapsule(ctx, capsule)
	if err != nil {
		log.Err(err).Str("func", "*capsuleService.Create").Str("owner_id", in.OwnerID).Msg("error creating capsule")
		return models.Capsule{}, fmt.Errorf("error creating capsule: %w", err)
	}

	items := media.Normalize(ctx, in.Media)
	if len(items) == 0 {
		log.Debug().Str("func", "*capsuleService.Create").Str("capsule_id", created.ID).Msg("capsule created")
		return created, nil
	}

	created.Media = items
	created.UpdatedAt = s.now().UTC()
	updated, err := s.capsules.UpdateCapsule(ctx, created)
	if err != nil {
		log.Err(err).Str("func", "*capsuleService.Create").Str("capsule_id", created.ID).Msg("error embedding media, removing capsule")
		if delErr := s.capsules.DeleteCapsule(ctx, created.ID); delErr != nil {
			log.Err(delErr).Str("func", "*capsuleService.Create").Str("capsule_id", created.ID).Msg("error removing half-created capsule")
		}
		return models.Capsule{}, fmt.Errorf("error embedding capsule media: %w", err)
	}

	log.Debug().Str("func", "*capsuleService.Create").Str("capsule_id", updated.ID).Int("media", len(updated.Media)).Msg("capsule created")
	return updated, nil
}

func (s *capsuleService) Get(ctx context.Context, capsuleID, requesterID string) (models.CapsuleView, error) {
	capsule, err := s.capsules.GetCapsule(ctx, capsuleID)
	if err != nil {
		return models.CapsuleView{}, fmt.Errorf("error getting capsule: %w", err)
	}

	if !capsule.IsPublic && !capsule.IsOwnedBy(requesterID) {
		logger.FromContext(ctx).Debug().
			Str("func", "*capsuleService.Get").
			Str("capsule_id", capsuleID).
			Msg("private capsule requested by another user")
		return models.CapsuleView{}, store.ErrCapsuleNotFound
	}

	return s.view(capsule), nil
}

func (s *capsuleService) AddMedia(ctx context.Context, capsuleID, requesterID string, items ...models.MediaItem) (models.Capsule, error) {
	return s.mutate(ctx, capsuleID, requesterID, func(capsule *models.Capsule) (bool, error) {
		if capsule.Status != models.StatusUnsealed {
			return false, ErrCapsuleIsSealed
		}

		changed := false
		for _, item := range items {
			if capsule.HasMediaURL(item.URL) {
				continue
			}
			capsule.Media = append(capsule.Media, item)
			changed = true
		}
		return changed, nil
	})
}

// AttachUpload checks ownership and status before spending an upload, then
// appends the stored object. The object is removed again when the append
// fails.
func (s *capsuleService) AttachUpload(ctx context.Context, capsuleID, requesterID string, upload models.Upload) (models.Capsule, error) {
	log := logger.FromContext(ctx)

	if s.media == nil {
		return models.Capsule{}, ErrMediaUploadFailed
	}

	capsule, err := s.ownedCapsule(ctx, capsuleID, requesterID)
	if err != nil {
		return models.Capsule{}, err
	}
	if capsule.Status != models.StatusUnsealed {
		return models.Capsule{}, ErrCapsuleIsSealed
	}

	uploaded, err := s.media.Upload(ctx, requesterID, upload)
	if err != nil {
		return models.Capsule{}, err
	}

	updated, err := s.AddMedia(ctx, capsuleID, requesterID, uploaded.MediaItem)
	if err != nil {
		log.Err(err).Str("func", "*capsuleService.AttachUpload").Str("capsule_id", capsuleID).Msg("error appending upload, removing object")
		if rmErr := s.media.Remove(ctx, uploaded.PublicID); rmErr != nil {
			log.Err(rmErr).Str("func", "*capsuleService.AttachUpload").Str("public_id", uploaded.PublicID).Msg("error removing orphaned object")
		}
		return models.Capsule{}, err
	}

	return updated, nil
}

// Seal is idempotent.
func (s *capsuleService) Seal(ctx context.Context, capsuleID, requesterID string) (models.Capsule, error) {
	return s.mutate(ctx, capsuleID, requesterID, func(capsule *models.Capsule) (bool, error) {
		if capsule.Status == models.StatusSealed {
			return false, nil
		}
		capsule.Status = models.StatusSealed
		return true, nil
	})
}

// Delete removes the record only. Objects on the media host stay behind.
func (s *capsuleService) Delete(ctx context.Context, capsuleID, requesterID string) error {
	log := logger.FromContext(ctx)

	capsule, err := s.ownedCapsule(ctx, capsuleID, requesterID)
	if err != nil {
		return err
	}

	if err = s.capsules.DeleteCapsule(ctx, capsuleID); err != nil {
		log.Err(err).Str("func", "*capsuleService.Delete").Str("capsule_id", capsuleID).Msg("error deleting capsule")
		return fmt.Errorf("error deleting capsule: %w", err)
	}

	if len(capsule.Media) > 0 {
		urls := make([]string, len(capsule.Media))
		for i, item := range capsule.Media {
			urls[i] = item.URL
		}
		log.Warn().
			Str("func", "*capsuleService.Delete").
			Str("capsule_id", capsuleID).
			Strs("media_urls", urls).
			Msg("capsule deleted, media objects left on the media host")
	}

	return nil
}

func (s *capsuleService) ListByOwner(ctx context.Context, ownerID string) ([]models.CapsuleView, error) {
	capsules, err := s.capsules.ListByOwner(ctx, ownerID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*capsuleService.ListByOwner").Str("owner_id", ownerID).Msg("error listing capsules")
		return nil, fmt.Errorf("error listing capsules: %w", err)
	}

	return s.views(capsules), nil
}

// ListPublic clamps the query: page below 1 becomes 1, a non-positive
// limit becomes DefaultPageSize and limits above MaxPageSize are capped.
// Pages past the addressable range are served as the last addressable one,
// which is empty for any real data set.
func (s *capsuleService) ListPublic(ctx context.Context, query models.ExploreQuery) (models.CapsulePage, error) {
	page, limit := clampPage(query.Page, query.Limit)

	capsules, total, err := s.capsules.ListPublic(ctx, models.CapsuleFilter{
		Search: strings.TrimSpace(query.Search),
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*capsuleService.ListPublic").Msg("error listing public capsules")
		return models.CapsulePage{}, fmt.Errorf("error listing public capsules: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return models.CapsulePage{
		Capsules: s.views(capsules),
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasMore:    page < totalPages,
		},
	}, nil
}

// mutate applies change to the requester's capsule and writes it back,
// re-reading on version conflicts. A change reporting false is not written.
func (s *capsuleService) mutate(ctx context.Context, capsuleID, requesterID string, change func(*models.Capsule) (bool, error)) (models.Capsule, error) {
	log := logger.FromContext(ctx)

	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		capsule, err := s.ownedCapsule(ctx, capsuleID, requesterID)
		if err != nil {
			return models.Capsule{}, err
		}

		changed, err := change(&capsule)
		if err != nil {
			return models.Capsule{}, err
		}
		if !changed {
			return capsule, nil
		}

		capsule.UpdatedAt = s.now().UTC()
		updated, err := s.capsules.UpdateCapsule(ctx, capsule)
		if errors.Is(err, store.ErrVersionConflict) {
			log.Debug().
				Str("func", "*capsuleService.mutate").
				Str("capsule_id", capsuleID).
				Int("attempt", attempt).
				Msg("capsule changed concurrently, retrying")
			continue
		}
		if err != nil {
			log.Err(err).Str("func", "*capsuleService.mutate").Str("capsule_id", capsuleID).Msg("error updating capsule")
			return models.Capsule{}, fmt.Errorf("error updating capsule: %w", err)
		}

		return updated, nil
	}

	log.Error().Str("func", "*capsuleService.mutate").Str("capsule_id", capsuleID).Msg("giving up after repeated version conflicts")
	return models.Capsule{}, fmt.Errorf("%w: %w", ErrTooManyConflicts, store.ErrVersionConflict)
}

func (s *capsuleService) ownedCapsule(ctx context.Context, capsuleID, requesterID string) (models.Capsule, error) {
	capsule, err := s.capsules.GetCapsule(ctx, capsuleID)
	if err != nil {
		return models.Capsule{}, fmt.Errorf("error getting capsule: %w", err)
	}
	if !capsule.IsOwnedBy(requesterID) {
		logger.FromContext(ctx).Warn().
			Str("func", "*capsuleService.ownedCapsule").
			Str("capsule_id", capsuleID).
			Str("requester_id", requesterID).
			Msg("capsule mutation by non-owner")
		return models.Capsule{}, ErrNotCapsuleOwner
	}
	return capsule, nil
}

func (s *capsuleService) view(capsule models.Capsule) models.CapsuleView {
	return models.CapsuleView{
		Capsule:    capsule,
		Evaluation: visibility.Evaluate(capsule, s.now()),
	}
}

func (s *capsuleService) views(capsules []models.Capsule) []models.CapsuleView {
	views := make([]models.CapsuleView, len(capsules))
	for i, capsule := range capsules {
		views[i] = s.view(capsule)
	}
	return views
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case limit <= 0:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	// keeps (page-1)*limit from overflowing into a negative offset
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}
	return page, limit
}
