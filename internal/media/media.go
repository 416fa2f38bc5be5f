// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package media turns the heterogeneous media payloads clients send into
// the canonical [models.MediaItem] list stored on a capsule.
//
// Accepted entry shapes:
//   - canonical items: {"url", "type", "filename"};
//   - upload results: {"cloudinaryUrl"|"secure_url"|"url", "name"|"original_filename",
//     "size", "type"|"mimeType"|"resource_type"};
//   - legacy memories: {"type", "content": {"fileUrl", "fileName", "text"}};
//   - bare URL strings.
//
// Entries that match none of the shapes are dropped with a warning; they
// never fail the surrounding operation.
package media

import (
	"context"
	"path"
	"strings"

	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"github.com/MKhiriev/golden-glimpses/models"
)

// PlaceholderCoverURL is served as a capsule cover when it has no media or
// its contents are not visible yet.
const PlaceholderCoverURL = "/images/capsule-placeholder.svg"

var extensionTypes = map[string]models.MediaType{
	".jpg":  models.MediaImage,
	".jpeg": models.MediaImage,
	".png":  models.MediaImage,
	".gif":  models.MediaImage,
	".webp": models.MediaImage,
	".heic": models.MediaImage,
	".svg":  models.MediaImage,
	".mp4":  models.MediaVideo,
	".mov":  models.MediaVideo,
	".webm": models.MediaVideo,
	".mkv":  models.MediaVideo,
	".mp3":  models.MediaAudio,
	".wav":  models.MediaAudio,
	".ogg":  models.MediaAudio,
	".m4a":  models.MediaAudio,
	".flac": models.MediaAudio,
}

// Normalize converts a raw media batch into canonical items.
//
// The result preserves the input order, contains each URL at most once
// (the first occurrence wins) and is idempotent: normalising a canonical
// list returns an equal list.
func Normalize(ctx context.Context, raw []any) []models.MediaItem {
	log := logger.FromContext(ctx)

	items := make([]models.MediaItem, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for i, entry := range raw {
		item, ok := normalizeEntry(entry)
		if !ok {
			log.Warn().
				Str("func", "media.Normalize").
				Int("index", i).
				Type("entry_type", entry).
				Msg("skipping unrecognised media entry")
			continue
		}

		if _, dup := seen[item.URL]; dup {
			log.Debug().
				Str("func", "media.Normalize").
				Str("url", item.URL).
				Msg("skipping duplicated media url")
			continue
		}
		seen[item.URL] = struct{}{}
		items = append(items, item)
	}

	return items
}

// NormalizeItem validates a single canonical item, trimming its fields and
// filling in a missing type. It reports false when the item has no URL.
func NormalizeItem(item models.MediaItem) (models.MediaItem, bool) {
	item.URL = strings.TrimSpace(item.URL)
	if item.URL == "" {
		return models.MediaItem{}, false
	}

	item.Filename = strings.TrimSpace(item.Filename)
	item.Type = resolveType(string(item.Type), item.URL)

	return item, true
}

// TypeFromMIME maps a MIME type to a media type. Anything that is not an
// image, video or audio MIME type is a note.
func TypeFromMIME(mime string) models.MediaType {
	mime = strings.ToLower(strings.TrimSpace(mime))
	switch {
	case strings.HasPrefix(mime, "image/"):
		return models.MediaImage
	case strings.HasPrefix(mime, "video/"):
		return models.MediaVideo
	case strings.HasPrefix(mime, "audio/"):
		return models.MediaAudio
	}
	return models.MediaNote
}

// TypeFromURL guesses a media type from the URL path extension.
func TypeFromURL(url string) (models.MediaType, bool) {
	p := url
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}

	t, ok := extensionTypes[strings.ToLower(path.Ext(p))]
	return t, ok
}

// CoverURL returns the URL of the first media item or the placeholder.
func CoverURL(capsule models.Capsule) string {
	if len(capsule.Media) == 0 || capsule.Media[0].URL == "" {
		return PlaceholderCoverURL
	}
	return capsule.Media[0].URL
}

func normalizeEntry(entry any) (models.MediaItem, bool) {
	switch v := entry.(type) {
	case models.MediaItem:
		return NormalizeItem(v)
	case *models.MediaItem:
		if v == nil {
			return models.MediaItem{}, false
		}
		return NormalizeItem(*v)
	case string:
		return NormalizeItem(models.MediaItem{URL: v, Filename: filenameFromURL(v)})
	case map[string]any:
		return normalizeObject(v)
	}
	return models.MediaItem{}, false
}

func normalizeObject(obj map[string]any) (models.MediaItem, bool) {
	// legacy memory shape
	if content, ok := obj["content"].(map[string]any); ok {
		url := firstString(content, "fileUrl", "url")
		if url == "" {
			return models.MediaItem{}, false
		}
		return NormalizeItem(models.MediaItem{
			URL:      url,
			Type:     models.MediaType(firstString(obj, "type")),
			Filename: firstString(content, "fileName", "filename"),
		})
	}

	url := firstString(obj, "cloudinaryUrl", "secure_url", "url")
	if url == "" {
		return models.MediaItem{}, false
	}

	rawType := firstString(obj, "type", "mimeType", "resource_type")
	return NormalizeItem(models.MediaItem{
		URL:      url,
		Type:     models.MediaType(rawType),
		Filename: firstString(obj, "filename", "name", "original_filename"),
	})
}

// resolveType picks the canonical type from an explicit value, a MIME
// type, the URL extension, or falls back to note.
func resolveType(raw, url string) models.MediaType {
	raw = strings.ToLower(strings.TrimSpace(raw))

	if t := models.MediaType(raw); t.IsValid() {
		return t
	}
	if strings.Contains(raw, "/") {
		return TypeFromMIME(raw)
	}
	if raw == "raw" || raw == "text" || raw == "document" {
		return models.MediaNote
	}
	if t, ok := TypeFromURL(url); ok {
		return t
	}
	return models.MediaNote
}

func firstString(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func filenameFromURL(url string) string {
	p := url
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	base := path.Base(p)
	if base == "." || base == "/" || !strings.Contains(base, ".") {
		return ""
	}
	return base
}
