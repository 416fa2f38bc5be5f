// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "io"

// MediaType classifies a media item.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
	MediaNote  MediaType = "note"
)

// IsValid reports whether t is one of the known media types.
func (t MediaType) IsValid() bool {
	switch t {
	case MediaImage, MediaVideo, MediaAudio, MediaNote:
		return true
	}
	return false
}

// MediaItem is a single entry of a capsule media list.
type MediaItem struct {
	URL      string    `json:"url" bson:"url"`
	Type     MediaType `json:"type" bson:"type"`
	Filename string    `json:"filename,omitempty" bson:"filename,omitempty"`
}

// Upload is a raw file received from a client, before it reaches a media
// host.
type Upload struct {
	Body        io.Reader
	Size        int64
	Filename    string
	ContentType string
}

// UploadedMedia is a media item stored on a media host together with the
// host identifier needed to remove it again.
type UploadedMedia struct {
	MediaItem
	PublicID string `json:"publicId"`
}
