// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Evaluation is the derived visibility state of a capsule at a given
// instant. It is never persisted.
type Evaluation struct {
	IsContentVisible bool

	// TimeRemaining is nil when the contents are visible and positive
	// otherwise.
	TimeRemaining *time.Duration
}

// CapsuleView is a capsule together with its evaluation for the caller.
type CapsuleView struct {
	Capsule    Capsule
	Evaluation Evaluation
}
