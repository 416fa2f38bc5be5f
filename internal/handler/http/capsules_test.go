// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/golden-glimpses/internal/media"
	"github.com/MKhiriev/golden-glimpses/internal/service"
	"github.com/MKhiriev/golden-glimpses/internal/store"
	"github.com/MKhiriev/golden-glimpses/internal/validators"
	"github.com/MKhiriev/golden-glimpses/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testToken = "access-token"

func doRequest(t *testing.T, router chi.Router, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeCapsule(t *testing.T, rec *httptest.ResponseRecorder) models.CapsuleResponse {
	t.Helper()
	var resp models.CapsuleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func publicCapsule(id string, items ...models.MediaItem) models.Capsule {
	return models.Capsule{
		ID:            id,
		OwnerID:       "user-1",
		Title:         "Summer 2026",
		UnsealingDate: handlerNow.Add(30 * 24 * time.Hour),
		IsPublic:      true,
		Status:        models.StatusUnsealed,
		Media:         items,
		CreatedAt:     handlerNow,
		UpdatedAt:     handlerNow,
	}
}

// ─────────────────────────────────────────────
// createCapsule
// ─────────────────────────────────────────────

func TestCreateCapsule_FoldsAliases(t *testing.T) {
	h, m := newMockedHandler(t)
	m.expectToken(testToken, "user-1")

	body := `{
		"name": "Graduation",
		"description": "class of 2026",
		"unlockDate": "2030-06-01",
		"isPublic": true,
		"memories": [{"type": "photo", "content": {"fileUrl": "https://cdn/a.jpg", "fileName": "a.jpg"}}],
		"mediaUrls": ["https://cdn/b.mp4"]
	}`

	m.capsules.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, in models.CreateCapsuleInput) (models.Capsule, error) {
			assert.Equal(t, "user-1", in.OwnerID)
			assert.Equal(t, "Graduation", in.Title)
			assert.Equal(t, time.Date(2030, time.June, 1, 0, 0, 0, 0, time.UTC), in.UnsealingDate)
			assert.True(t, in.IsPublic)
			require.Len(t, in.Media, 2)
			assert.Equal(t, "https://cdn/b.mp4", in.Media[1])

			items := media.Normalize(context.Background(), in.Media)
			return publicCapsule("c-1", items...), nil
		},
	)

	rec := doRequest(t, h.Init(), http.MethodPost, "/api/capsules", body, testToken)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decodeCapsule(t, rec)
	assert.Equal(t, "c-1", resp.ID)
	assert.Equal(t, resp.UnsealingDate, resp.UnlockDate)
	require.Len(t, resp.Media, 2)
	assert.Equal(t, resp.Media, resp.Memories)
	assert.Equal(t, models.MediaImage, resp.Media[0].Type)
	assert.Equal(t, models.MediaVideo, resp.Media[1].Type)
	assert.Equal(t, "https://cdn/a.jpg", resp.CoverURL)
	assert.Equal(t, 2, resp.MediaCount)
	assert.True(t, resp.IsContentVisible)
	assert.Nil(t, resp.TimeRemaining)
}

func TestCreateCapsule_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid JSON", `{"title":`},
		{"invalid date", `{"title":"x","unsealingDate":"next tuesday"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newMockedHandler(t)
			m.expectToken(testToken, "user-1")

			rec := doRequest(t, h.Init(), http.MethodPost, "/api/capsules", tt.body, testToken)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateCapsule_ValidationMessage(t *testing.T) {
	h, m := newMockedHandler(t)
	m.expectToken(testToken, "user-1")
	m.capsules.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(models.Capsule{}, fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, validators.ErrEmptyTitle))

	rec := doRequest(t, h.Init(), http.MethodPost, "/api/capsules", `{"unsealingDate":"2030-01-01T00:00:00Z"}`, testToken)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), validators.ErrEmptyTitle.Error())
}

// ─────────────────────────────────────────────
// getCapsule
// ─────────────────────────────────────────────

func TestGetCapsule_AnonymousSeesLockedView(t *testing.T) {
	h, m := newMockedHandler(t)

	remaining := 48 * time.Hour
	capsule := publicCapsule("c-1", models.MediaItem{URL: "https://cdn/a.jpg", Type: models.MediaImage})
	capsule.IsPublic = false

	m.capsules.EXPECT().Get(gomock.Any(), "c-1", "").Return(models.CapsuleView{
		Capsule:    capsule,
		Evaluation: models.Evaluation{TimeRemaining: &remaining},
	}, nil)

	rec := doRequest(t, h.Init(), http.MethodGet, "/api/capsules/c-1", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeCapsule(t, rec)
	assert.False(t, resp.IsContentVisible)
	assert.Empty(t, resp.Media)
	assert.NotNil(t, resp.Memories, "hidden media is an empty list, not null")
	assert.Equal(t, media.PlaceholderCoverURL, resp.CoverURL)
	assert.Equal(t, 1, resp.MediaCount)
	require.NotNil(t, resp.TimeRemaining)
	assert.Equal(t, int64(remaining.Seconds()), *resp.TimeRemaining)
	assert.Equal(t, "2 days remaining", resp.TimeRemainingLabel)
}

func TestGetCapsule_PassesRequester(t *testing.T) {
	h, m := newMockedHandler(t)
	m.expectToken(testToken, "user-1")
	m.capsules.EXPECT().Get(gomock.Any(), "c-1", "user-1").
		Return(models.CapsuleView{Capsule: publicCapsule("c-1"), Evaluation: models.Evaluation{IsContentVisible: true}}, nil)

	rec := doRequest(t, h.Init(), http.MethodGet, "/api/capsules/c-1", "", testToken)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Unlocked", decodeCapsule(t, rec).TimeRemainingLabel)
}

func TestGetCapsule_InvalidTokenIsRejected(t *testing.T) {
	h, m := newMockedHandler(t)
	m.auth.EXPECT().ParseToken(gomock.Any(), "forged").Return(models.Token{}, service.ErrTokenIsExpiredOrInvalid)

	rec := doRequest(t, h.Init(), http.MethodGet, "/api/capsules/c-1", "", "forged")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetCapsule_NotFound(t *testing.T) {
	h, m := newMockedHandler(t)
	m.capsules.EXPECT().Get(gomock.Any(), "missing", "").
		Return(models.CapsuleView{}, fmt.Errorf("error getting capsule: %w", store.ErrCapsuleNotFound))

	rec := doRequest(t, h.Init(), http.MethodGet, "/api/capsules/missing", "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errCapsuleAccess, strings.TrimSpace(rec.Body.String()))
}

// ─────────────────────────────────────────────
// listCapsules / exploreCapsules
// ─────────────────────────────────────────────

func TestListCapsules(t *testing.T) {
	h, m := newMockedHandler(t)
	m.expectToken(testToken, "user-1")
	m.capsules.EXPECT().ListByOwner(gomock.Any(), "user-1").Return([]models.CapsuleView{
		{Capsule: publicCapsule("c-2"), Evaluation: models.Evaluation{IsContentVisible: true}},
		{Capsule: publicCapsule("c-1"), Evaluation: models.Evaluation{IsContentVisible: true}},
	}, nil)

	rec := doRequest(t, h.Init(), http.MethodGet, "/api/capsules", "", testToken)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.CapsuleListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "c-2", resp.Capsules[0].ID)
}

func TestExploreCapsules_PassesQuery(t *testing.T) {
	h, m := newMockedHandler(t)
	m.capsules.EXPECT().ListPublic(gomock.Any(), models.ExploreQuery{Page: 2, Limit: 5, Search: "summer"}).
		Return(models.CapsulePage{
			Capsules:   []models.CapsuleView{{Capsule: publicCapsule("c-1"), Evaluation: models.Evaluation{IsContentVisible: true}}},
			Pagination: models.Pagination{Page: 2, Limit: 5, Total: 6, TotalPages: 2},
		}, nil)

	rec := doRequest(t, h.Init(), http.MethodGet, "/api/capsules/explore?page=2&limit=5&search=+summer+", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.ExploreResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Capsules, 1)
	assert.Equal(t, int64(6), resp.Pagination.Total)
	assert.False(t, resp.Pagination.HasMore)
}

func TestExploreCapsules_InvalidQuery(t *testing.T) {
	h, _ := newMockedHandler(t)

	rec := doRequest(t, h.Init(), http.MethodGet, "/api/capsules/explore?page=two", "", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ─────────────────────────────────────────────
// addMedia / sealCapsule / deleteCapsule
// ─────────────────────────────────────────────

func TestAddMedia_NormalisesSingleAndBatch(t *testing.T) {
	h, m := newMockedHandler(t)
	m.expectToken(testToken, "user-1")

	body := `{
		"url": " https://cdn/one.png ",
		"media": ["https://cdn/two.mp3", {"secure_url": "https://cdn/one.png"}, 42]
	}`

	m.capsules.EXPECT().AddMedia(gomock.Any(), "c-1", "user-1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _, _ string, items ...models.MediaItem) (models.Capsule, error) {
			require.Len(t, items, 2)
			assert.Equal(t, models.MediaItem{URL: "https://cdn/one.png", Type: models.MediaImage}, items[0])
			assert.Equal(t, "https://cdn/two.mp3", items[1].URL)
			assert.Equal(t, models.MediaAudio, items[1].Type)
			return publicCapsule("c-1", items...), nil
		},
	)

	rec := doRequest(t, h.Init(), http.MethodPost, "/api/capsules/c-1/media", body, testToken)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, decodeCapsule(t, rec).MediaCount)
}

func TestAddMedia_SealedIsConflict(t *testing.T) {
	h, m := newMockedHandler(t)
	m.expectToken(testToken, "user-1")
	m.capsules.EXPECT().AddMedia(gomock.Any(), "c-1", "user-1", gomock.Any()).Return(models.Capsule{}, service.ErrCapsuleIsSealed)

	rec := doRequest(t, h.Init(), http.MethodPost, "/api/capsules/c-1/media", `{"url":"https://cdn/x.jpg"}`, testToken)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSealCapsule(t *testing.T) {
	h, m := newMockedHandler(t)
	m.expectToken(testToken, "user-1")

	sealed := publicCapsule("c-1")
	sealed.Status = models.StatusSealed
	m.capsules.EXPECT().Seal(gomock.Any(), "c-1", "user-1").Return(sealed, nil)

	rec := doRequest(t, h.Init(), http.MethodPut, "/api/capsules/c-1/seal", "", testToken)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusSealed, decodeCapsule(t, rec).Status)
}

func TestDeleteCapsule(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"deleted", nil, http.StatusOK, `"deleted"`},
		{"not owner", service.ErrNotCapsuleOwner, http.StatusNotFound, errCapsuleAccess},
		{"not found", store.ErrCapsuleNotFound, http.StatusNotFound, errCapsuleAccess},
		{"storage failure", errors.New("disk on fire"), http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newMockedHandler(t)
			m.expectToken(testToken, "user-2")
			m.capsules.EXPECT().Delete(gomock.Any(), "c-1", "user-2").Return(tt.err)

			rec := doRequest(t, h.Init(), http.MethodDelete, "/api/capsules/c-1", "", testToken)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.NotContains(t, rec.Body.String(), "disk on fire")
		})
	}
}
