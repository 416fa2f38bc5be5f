// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// CapsuleStatus is the persisted lifecycle state of a capsule.
// Only [StatusUnsealed] and [StatusSealed] are ever stored; whether the
// contents are locked or unlocked is derived at read time from the
// unsealing date.
type CapsuleStatus string

const (
	// StatusUnsealed marks a capsule that still accepts new media.
	StatusUnsealed CapsuleStatus = "unsealed"

	// StatusSealed marks a capsule whose media list is frozen.
	StatusSealed CapsuleStatus = "sealed"
)

// IsValid reports whether s is one of the persisted statuses.
func (s CapsuleStatus) IsValid() bool {
	return s == StatusUnsealed || s == StatusSealed
}

// Capsule is the time capsule aggregate. It owns its media list; the
// list is append-only, keeps insertion order and holds unique URLs.
type Capsule struct {
	// ID is a UUIDv7 assigned at creation. Immutable.
	ID string `json:"id" bson:"_id"`

	// OwnerID is the identifier of the creating user. Immutable.
	OwnerID string `json:"ownerId" bson:"owner_id"`

	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`

	// UnsealingDate is the moment the contents become visible to everyone.
	UnsealingDate time.Time `json:"unsealingDate" bson:"unsealing_date"`

	IsPublic bool          `json:"isPublic" bson:"is_public"`
	Status   CapsuleStatus `json:"status" bson:"status"`
	Media    []MediaItem   `json:"media" bson:"media"`

	// Version is incremented on every successful write and is used for
	// optimistic concurrency on media appends.
	Version int64 `json:"-" bson:"version"`

	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// IsOwnedBy reports whether userID is the capsule owner.
func (c Capsule) IsOwnedBy(userID string) bool {
	return userID != "" && c.OwnerID == userID
}

// HasMediaURL reports whether the media list already contains url.
func (c Capsule) HasMediaURL(url string) bool {
	for _, item := range c.Media {
		if item.URL == url {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the capsule, including its media list.
func (c Capsule) Clone() Capsule {
	clone := c
	if c.Media != nil {
		clone.Media = make([]MediaItem, len(c.Media))
		copy(clone.Media, c.Media)
	}
	return clone
}

// CapsuleFilter narrows public capsule listings.
type CapsuleFilter struct {
	// Search is a case-insensitive substring matched against title and
	// description. Empty means no filtering.
	Search string

	Limit  int
	Offset int
}
