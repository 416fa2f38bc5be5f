// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package media

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/MKhiriev/golden-glimpses/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeRaw mimics what the HTTP layer hands to Normalize.
func decodeRaw(t *testing.T, body string) []any {
	t.Helper()
	var raw []any
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return raw
}

// ── Normalize ──

func TestNormalize_CanonicalItems(t *testing.T) {
	raw := decodeRaw(t, `[
		{"url":"https://cdn.example.com/a.jpg","type":"image","filename":"a.jpg"},
		{"url":"https://cdn.example.com/b.mp4","type":"video"}
	]`)

	got := Normalize(context.Background(), raw)

	assert.Equal(t, []models.MediaItem{
		{URL: "https://cdn.example.com/a.jpg", Type: models.MediaImage, Filename: "a.jpg"},
		{URL: "https://cdn.example.com/b.mp4", Type: models.MediaVideo},
	}, got)
}

func TestNormalize_UploadResultShape(t *testing.T) {
	raw := decodeRaw(t, `[
		{"cloudinaryUrl":"https://res.example.com/x/photo.png","name":"photo.png","size":1024,"type":"image/png"},
		{"secure_url":"https://res.example.com/x/clip","original_filename":"clip","resource_type":"video"},
		{"url":"https://res.example.com/x/voice.m4a","name":"voice.m4a","mimeType":"audio/mp4"}
	]`)

	got := Normalize(context.Background(), raw)

	require.Len(t, got, 3)
	assert.Equal(t, models.MediaItem{URL: "https://res.example.com/x/photo.png", Type: models.MediaImage, Filename: "photo.png"}, got[0])
	assert.Equal(t, models.MediaItem{URL: "https://res.example.com/x/clip", Type: models.MediaVideo, Filename: "clip"}, got[1])
	assert.Equal(t, models.MediaItem{URL: "https://res.example.com/x/voice.m4a", Type: models.MediaAudio, Filename: "voice.m4a"}, got[2])
}

func TestNormalize_LegacyMemoryShape(t *testing.T) {
	raw := decodeRaw(t, `[
		{"type":"image","content":{"fileUrl":"https://old.example.com/1.jpg","fileName":"1.jpg"}},
		{"type":"text","content":{"text":"no file here"}}
	]`)

	got := Normalize(context.Background(), raw)

	assert.Equal(t, []models.MediaItem{
		{URL: "https://old.example.com/1.jpg", Type: models.MediaImage, Filename: "1.jpg"},
	}, got)
}

func TestNormalize_BareURLStrings(t *testing.T) {
	raw := []any{"https://x.example.com/a.gif", "https://x.example.com/song.mp3?sig=1", "https://x.example.com/readme"}

	got := Normalize(context.Background(), raw)

	require.Len(t, got, 3)
	assert.Equal(t, models.MediaImage, got[0].Type)
	assert.Equal(t, "a.gif", got[0].Filename)
	assert.Equal(t, models.MediaAudio, got[1].Type)
	assert.Equal(t, "song.mp3", got[1].Filename)
	assert.Equal(t, models.MediaNote, got[2].Type)
	assert.Empty(t, got[2].Filename)
}

func TestNormalize_UnknownMIMEFallsBackToNote(t *testing.T) {
	raw := decodeRaw(t, `[{"url":"https://x.example.com/doc.pdf","type":"application/pdf"}]`)

	got := Normalize(context.Background(), raw)

	require.Len(t, got, 1)
	assert.Equal(t, models.MediaNote, got[0].Type)
}

func TestNormalize_SkipsUnrecognisedEntries(t *testing.T) {
	raw := []any{
		42,
		nil,
		map[string]any{"name": "no url"},
		"   ",
		map[string]any{"url": "https://ok.example.com/a.jpg"},
	}

	got := Normalize(context.Background(), raw)

	assert.Equal(t, []models.MediaItem{{URL: "https://ok.example.com/a.jpg", Type: models.MediaImage}}, got)
}

func TestNormalize_DeduplicatesByURL(t *testing.T) {
	raw := []any{
		map[string]any{"url": "https://x.example.com/a.jpg", "filename": "first.jpg"},
		"https://x.example.com/a.jpg",
		map[string]any{"cloudinaryUrl": "https://x.example.com/a.jpg", "name": "third.jpg"},
	}

	got := Normalize(context.Background(), raw)

	require.Len(t, got, 1)
	assert.Equal(t, "first.jpg", got[0].Filename)
}

func TestNormalize_Idempotent(t *testing.T) {
	raw := decodeRaw(t, `[
		{"cloudinaryUrl":"https://res.example.com/photo.png","name":"photo.png","type":"image/png"},
		{"type":"video","content":{"fileUrl":"https://old.example.com/v.mov"}},
		"https://x.example.com/a.wav"
	]`)

	once := Normalize(context.Background(), raw)

	asAny := make([]any, len(once))
	for i, item := range once {
		asAny[i] = item
	}
	twice := Normalize(context.Background(), asAny)

	assert.Equal(t, once, twice)

	// and through a JSON round trip, which is how stored media comes back
	encoded, err := json.Marshal(once)
	require.NoError(t, err)
	assert.Equal(t, once, Normalize(context.Background(), decodeRaw(t, string(encoded))))
}

func TestNormalize_Empty(t *testing.T) {
	assert.Empty(t, Normalize(context.Background(), nil))
	assert.Empty(t, Normalize(context.Background(), []any{}))
}

// ── NormalizeItem ──

func TestNormalizeItem(t *testing.T) {
	tests := []struct {
		name   string
		in     models.MediaItem
		want   models.MediaItem
		wantOK bool
	}{
		{
			name:   "trims fields",
			in:     models.MediaItem{URL: "  https://x/a.png ", Type: "image", Filename: " a.png "},
			want:   models.MediaItem{URL: "https://x/a.png", Type: models.MediaImage, Filename: "a.png"},
			wantOK: true,
		},
		{
			name:   "type from extension",
			in:     models.MediaItem{URL: "https://x/a.webm"},
			want:   models.MediaItem{URL: "https://x/a.webm", Type: models.MediaVideo},
			wantOK: true,
		},
		{
			name:   "uppercase type",
			in:     models.MediaItem{URL: "https://x/a", Type: "AUDIO"},
			want:   models.MediaItem{URL: "https://x/a", Type: models.MediaAudio},
			wantOK: true,
		},
		{
			name:   "empty url",
			in:     models.MediaItem{Type: "image"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeItem(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ── TypeFromMIME ──

func TestTypeFromMIME(t *testing.T) {
	assert.Equal(t, models.MediaImage, TypeFromMIME("image/jpeg"))
	assert.Equal(t, models.MediaVideo, TypeFromMIME("Video/MP4"))
	assert.Equal(t, models.MediaAudio, TypeFromMIME("audio/mpeg"))
	assert.Equal(t, models.MediaNote, TypeFromMIME("text/plain"))
	assert.Equal(t, models.MediaNote, TypeFromMIME(""))
}

// ── CoverURL ──

func TestCoverURL(t *testing.T) {
	withMedia := models.Capsule{Media: []models.MediaItem{
		{URL: "https://x/first.jpg", Type: models.MediaImage},
		{URL: "https://x/second.jpg", Type: models.MediaImage},
	}}

	assert.Equal(t, "https://x/first.jpg", CoverURL(withMedia))
	assert.Equal(t, PlaceholderCoverURL, CoverURL(models.Capsule{}))
}
