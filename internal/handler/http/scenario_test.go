// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/golden-glimpses/internal/adapter"
	"github.com/MKhiriev/golden-glimpses/internal/config"
	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"github.com/MKhiriev/golden-glimpses/internal/service"
	"github.com/MKhiriev/golden-glimpses/internal/store"
	"github.com/MKhiriev/golden-glimpses/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStackRouter wires the real services over the memory store and a local
// media host in a temporary directory.
func newStackRouter(t *testing.T) chi.Router {
	t.Helper()
	log := logger.Nop()

	files := config.Files{
		Driver:        config.FilesDriverLocal,
		Dir:           t.TempDir(),
		MaxUploadSize: 1 << 20,
	}
	cfg := config.StructuredConfig{
		App: config.App{
			TokenSignKey:         "scenario-key",
			TokenIssuer:          "golden-glimpses",
			AccessTokenDuration:  time.Minute,
			RefreshTokenDuration: time.Hour,
			Version:              "scenario",
		},
		Storage: config.Storage{Driver: config.DriverMemory, Files: files},
	}

	host, err := adapter.NewLocalMediaHost(files, log)
	require.NoError(t, err)

	services, err := service.NewServices(store.NewMemoryStorages(log), host, cfg, models.NewAppBuildInfo("", "", ""), log)
	require.NoError(t, err)

	return NewHandler(services, config.Server{}, files, log).Init()
}

func registerUser(t *testing.T, router chi.Router, login string) string {
	t.Helper()

	rec := doRequest(t, router, http.MethodPost, "/api/auth/register",
		fmt.Sprintf(`{"login":%q,"password":"correct horse battery"}`, login), "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Tokens.AccessToken
}

func TestScenario_CapsuleLifecycle(t *testing.T) {
	router := newStackRouter(t)
	alice := registerUser(t, router, "alice")
	bob := registerUser(t, router, "bob")

	future := time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339)

	// private capsule with a future date and mixed media shapes
	rec := doRequest(t, router, http.MethodPost, "/api/capsules", fmt.Sprintf(`{
		"title": "Letters to 2029",
		"unsealingDate": %q,
		"media": ["https://cdn/a.jpg", {"url": "https://cdn/a.jpg"}, {"cloudinaryUrl": "https://cdn/b.mp4"}]
	}`, future), alice)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeCapsule(t, rec)
	assert.Equal(t, 2, created.MediaCount)
	assert.False(t, created.IsContentVisible)
	id := created.ID

	// strangers and anonymous callers cannot tell it exists
	for _, token := range []string{"", bob} {
		rec = doRequest(t, router, http.MethodGet, "/api/capsules/"+id, "", token)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), errCapsuleAccess)
	}

	// the owner sees the locked view
	rec = doRequest(t, router, http.MethodGet, "/api/capsules/"+id, "", alice)
	require.Equal(t, http.StatusOK, rec.Code)
	locked := decodeCapsule(t, rec)
	assert.Empty(t, locked.Media)
	require.NotNil(t, locked.TimeRemaining)
	assert.Equal(t, "2 days remaining", locked.TimeRemainingLabel)

	// uploads land on local disk and are served back
	req := multipartRequest(t, "/api/capsules/"+id+"/media/upload", uploadFormField, "note.txt", "text/plain", []byte("dear future me"))
	req.Header.Set("Authorization", "Bearer "+alice)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 3, decodeCapsule(t, rec).MediaCount)

	// seal, then appends are refused
	rec = doRequest(t, router, http.MethodPut, "/api/capsules/"+id+"/seal", "", alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusSealed, decodeCapsule(t, rec).Status)

	rec = doRequest(t, router, http.MethodPost, "/api/capsules/"+id+"/media", `{"url":"https://cdn/c.png"}`, alice)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// owner listing
	rec = doRequest(t, router, http.MethodGet, "/api/capsules", "", alice)
	require.Equal(t, http.StatusOK, rec.Code)
	var list models.CapsuleListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)

	// only the owner may delete, and a stranger cannot tell the capsule exists
	rec = doRequest(t, router, http.MethodDelete, "/api/capsules/"+id, "", bob)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), errCapsuleAccess)
	missing := doRequest(t, router, http.MethodDelete, "/api/capsules/no-such-capsule", "", bob)
	assert.Equal(t, missing.Code, rec.Code)
	assert.Equal(t, missing.Body.String(), rec.Body.String())

	rec = doRequest(t, router, http.MethodDelete, "/api/capsules/"+id, "", alice)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/capsules/"+id, "", alice)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScenario_UploadIsServedFromDisk(t *testing.T) {
	router := newStackRouter(t)
	alice := registerUser(t, router, "alice")

	req := multipartRequest(t, "/api/media/upload", uploadFormField, "hello.txt", "text/plain", []byte("hello there"))
	req.Header.Set("Authorization", "Bearer "+alice)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var uploaded models.UploadedMedia
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))
	assert.Equal(t, models.MediaNote, uploaded.Type)

	rec = doRequest(t, router, http.MethodGet, uploaded.URL, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello there", rec.Body.String())
}

func TestScenario_PublicCapsuleIsExplorable(t *testing.T) {
	router := newStackRouter(t)
	alice := registerUser(t, router, "alice")

	farFuture := time.Now().AddDate(1, 0, 0).UTC().Format("2006-01-02")
	rec := doRequest(t, router, http.MethodPost, "/api/capsules", fmt.Sprintf(`{
		"name": "Open letter",
		"unlockDate": %q,
		"isPublic": true,
		"mediaUrls": ["https://cdn/cover.jpg"]
	}`, farFuture), alice)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(t, router, http.MethodGet, "/api/capsules/explore?search=open", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ExploreResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Capsules, 1)
	assert.True(t, resp.Capsules[0].IsContentVisible, "public capsules are visible before their date")
	assert.Equal(t, "https://cdn/cover.jpg", resp.Capsules[0].CoverURL)
	assert.Equal(t, int64(1), resp.Pagination.Total)

	rec = doRequest(t, router, http.MethodGet, "/api/capsules/explore?search=nothing-matches", "", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Capsules)
}
