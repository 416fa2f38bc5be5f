// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the media hosts that store uploaded capsule media
// bytes outside the capsule store.
//
// The primary abstraction is [MediaHost]. Three implementations ship with the
// package: a local-disk host served back by the HTTP server under /uploads,
// an S3-compatible host and a Cloudinary-style upload API. [NewMediaHost]
// picks one according to the files configuration.
//
// Remote failures are mapped from HTTP status codes by mapHTTPError so that
// callers can use [errors.Is] regardless of the driver (e.g. [ErrUnauthorized]
// for 401, [ErrBadGateway] for 5xx).
package adapter

import (
	"context"
	"io"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/media_host_mock.go -package=mock

// MediaHost stores and removes media objects.
type MediaHost interface {
	// Upload stores obj and returns where clients can fetch it. The body is
	// consumed but not closed.
	Upload(ctx context.Context, obj UploadObject) (StoredObject, error)

	// Delete removes the object identified by publicID. Removing an object
	// that does not exist is not an error.
	Delete(ctx context.Context, publicID string) error
}

// UploadObject is a single object to be stored.
type UploadObject struct {
	// Key is a slash separated relative path, e.g. "<owner>/<uuid>.jpg".
	Key string

	Body        io.Reader
	Size        int64
	ContentType string

	// Filename is the original client-side name, informational only.
	Filename string
}

// StoredObject describes an uploaded object.
type StoredObject struct {
	// URL is the absolute URL clients use to fetch the object.
	URL string

	// PublicID identifies the object for [MediaHost.Delete].
	PublicID string
}
