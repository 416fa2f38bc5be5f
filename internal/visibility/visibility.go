// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package visibility decides whether a capsule's contents may be shown and
// renders the remaining time as a human label.
//
// Everything here is pure: the current instant is always passed in, and no
// function returns an error or panics.
package visibility

import (
	"fmt"
	"time"

	"github.com/MKhiriev/golden-glimpses/models"
)

const (
	// ReadyLabel is shown once the unsealing date has been reached.
	ReadyLabel = "Ready to unlock"

	// UnlockedLabel is shown for capsules whose contents are visible.
	UnlockedLabel = "Unlocked"

	day = 24 * time.Hour
)

// Evaluate returns the visibility of capsule at now.
//
// Contents are visible when the capsule is public or now is at or after the
// unsealing date. A zero unsealing date is treated as already reached.
func Evaluate(capsule models.Capsule, now time.Time) models.Evaluation {
	if capsule.IsPublic || capsule.UnsealingDate.IsZero() || !now.Before(capsule.UnsealingDate) {
		return models.Evaluation{IsContentVisible: true}
	}

	remaining := capsule.UnsealingDate.Sub(now)
	return models.Evaluation{
		IsContentVisible: false,
		TimeRemaining:    &remaining,
	}
}

// FormatTimeRemaining renders d with the coarsest unit that fits:
// years above 365 days, months above 30 days, then days, then hours.
// Counts are floored. Non-positive durations render as [ReadyLabel].
func FormatTimeRemaining(d time.Duration) string {
	if d <= 0 {
		return ReadyLabel
	}

	days := int64(d / day)
	switch {
	case days > 365:
		return plural(days/365, "year")
	case days > 30:
		return plural(days/30, "month")
	case days > 0:
		return plural(days, "day")
	}
	return plural(int64(d/time.Hour), "hour")
}

// Label is the short status line for an evaluation.
func Label(e models.Evaluation) string {
	if e.IsContentVisible || e.TimeRemaining == nil {
		return UnlockedLabel
	}
	return FormatTimeRemaining(*e.TimeRemaining)
}

// RemainingSeconds returns the remaining time in whole seconds, or nil when
// the contents are visible.
func RemainingSeconds(e models.Evaluation) *int64 {
	if e.IsContentVisible || e.TimeRemaining == nil {
		return nil
	}
	secs := int64(e.TimeRemaining.Seconds())
	return &secs
}

// plural keeps the unit plural for every count, matching the labels
// clients already render ("1 days remaining").
func plural(n int64, unit string) string {
	return fmt.Sprintf("%d %ss remaining", n, unit)
}
