// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators holds the input rules for capsules, media items and
// accounts. Services receive a Validator and call it before touching
// storage; the returned sentinels are short enough to show to clients.
//
// Validate accepts optional field names to check only part of a value,
// e.g. a media item's URL without its type.
package validators

import "context"

// Validator validates an arbitrary input value, optionally restricted to
// the named fields.
type Validator interface {
	Validate(context.Context, any, ...string) error
}
