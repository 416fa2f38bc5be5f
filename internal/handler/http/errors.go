// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors used by the authentication middleware when parsing the
// "Authorization" HTTP header. Callers can match against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request carries neither an "Authorization" header nor a
	// token query parameter.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is present but is not a "Bearer <token>" pair.
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")
)

// Request decoding errors. They are answered with 400 Bad Request.
var (
	ErrInvalidJSON      = errors.New("invalid JSON was passed")
	ErrInvalidDate      = errors.New("unsealing date must be an RFC 3339 timestamp or a YYYY-MM-DD date")
	ErrInvalidQuery     = errors.New("invalid query parameter")
	ErrMissingFile      = errors.New("multipart field `file` is required")
	ErrInvalidMultipart = errors.New("invalid multipart body")
)

// errCapsuleAccess is the body shared by not-found and not-owner answers,
// so that callers cannot discover capsules they do not own.
const errCapsuleAccess = "capsule not found or access denied"
