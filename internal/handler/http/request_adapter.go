// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/golden-glimpses/internal/media"
	"github.com/MKhiriev/golden-glimpses/models"
)

const dateOnlyLayout = "2006-01-02"

// toCreateCapsuleInput folds the accepted field aliases of a create body
// into the canonical command. Canonical names win over aliases; media from
// every alias is concatenated and left raw for the media aggregator.
func toCreateCapsuleInput(req models.CreateCapsuleRequest, ownerID string) (models.CreateCapsuleInput, error) {
	unsealingDate, err := parseUnsealingDate(firstNonBlank(req.UnsealingDate, req.UnlockDate))
	if err != nil {
		return models.CreateCapsuleInput{}, err
	}

	raw := make([]any, 0, len(req.Media)+len(req.Memories)+len(req.MediaURLs))
	raw = append(raw, req.Media...)
	raw = append(raw, req.Memories...)
	for _, url := range req.MediaURLs {
		raw = append(raw, url)
	}

	return models.CreateCapsuleInput{
		OwnerID:       ownerID,
		Title:         firstNonBlank(req.Title, req.Name),
		Description:   req.Description,
		UnsealingDate: unsealingDate,
		IsPublic:      req.IsPublic,
		Media:         raw,
	}, nil
}

// parseUnsealingDate accepts RFC 3339 timestamps and plain dates, which
// are read as UTC midnight. An empty value yields the zero time and is left
// to validation.
func parseUnsealingDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(dateOnlyLayout, value); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
}

// mediaItemsFromRequest normalises the body of an append call. A single
// canonical item goes first, followed by the batch.
func mediaItemsFromRequest(ctx context.Context, req models.AddMediaRequest) []models.MediaItem {
	raw := make([]any, 0, len(req.Media)+1)
	if strings.TrimSpace(req.URL) != "" {
		raw = append(raw, models.MediaItem{
			URL:      req.URL,
			Type:     models.MediaType(req.Type),
			Filename: req.Filename,
		})
	}
	raw = append(raw, req.Media...)

	return media.Normalize(ctx, raw)
}

// exploreQueryFromRequest reads page, limit and search. Missing numbers
// stay zero and are clamped by the capsule service.
func exploreQueryFromRequest(r *http.Request) (models.ExploreQuery, error) {
	q := r.URL.Query()

	page, err := optionalInt(q.Get("page"))
	if err != nil {
		return models.ExploreQuery{}, fmt.Errorf("%w: page: %w", ErrInvalidQuery, err)
	}
	limit, err := optionalInt(q.Get("limit"))
	if err != nil {
		return models.ExploreQuery{}, fmt.Errorf("%w: limit: %w", ErrInvalidQuery, err)
	}

	return models.ExploreQuery{
		Page:   page,
		Limit:  limit,
		Search: strings.TrimSpace(q.Get("search")),
	}, nil
}

func optionalInt(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
