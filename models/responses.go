package models

import "time"

// CapsuleResponse is the wire representation of a capsule. It carries the
// canonical names plus the aliases older clients read (unlockDate,
// memories) and the derived visibility fields.
type CapsuleResponse struct {
	ID            string        `json:"id"`
	OwnerID       string        `json:"ownerId"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	UnsealingDate time.Time     `json:"unsealingDate"`
	UnlockDate    time.Time     `json:"unlockDate"`
	IsPublic      bool          `json:"isPublic"`
	Status        CapsuleStatus `json:"status"`

	// Media and Memories are empty while the contents are not visible.
	Media      []MediaItem `json:"media"`
	Memories   []MediaItem `json:"memories"`
	MediaCount int         `json:"mediaCount"`
	CoverURL   string      `json:"coverUrl"`

	IsContentVisible bool `json:"isContentVisible"`

	// TimeRemaining is in whole seconds, null when visible.
	TimeRemaining      *int64 `json:"timeRemaining"`
	TimeRemainingLabel string `json:"timeRemainingLabel"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CapsuleListResponse is returned by the owner listing.
type CapsuleListResponse struct {
	Capsules []CapsuleResponse `json:"capsules"`
	Count    int               `json:"count"`
}

// ExploreResponse is returned by the public listing.
type ExploreResponse struct {
	Capsules   []CapsuleResponse `json:"capsules"`
	Pagination Pagination        `json:"pagination"`
}

// CountdownMessage is pushed over the countdown websocket.
type CountdownMessage struct {
	CapsuleID          string `json:"capsuleId"`
	IsContentVisible   bool   `json:"isContentVisible"`
	TimeRemaining      *int64 `json:"timeRemaining"`
	TimeRemainingLabel string `json:"timeRemainingLabel"`
}

// AuthResponse is returned by registration.
type AuthResponse struct {
	User   User      `json:"user"`
	Tokens TokenPair `json:"tokens"`
}
