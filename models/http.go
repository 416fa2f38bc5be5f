package models

import "time"

// CreateCapsuleRequest is the body of POST /api/capsules. Clients send
// either the canonical field names or the older aliases (name, unlockDate,
// memories, mediaUrls); the HTTP layer folds them into [CreateCapsuleInput]
// in a single pass.
type CreateCapsuleRequest struct {
	Title string `json:"title"`
	Name  string `json:"name"`

	Description string `json:"description"`

	// UnsealingDate and UnlockDate accept RFC 3339 timestamps or plain
	// YYYY-MM-DD dates.
	UnsealingDate string `json:"unsealingDate"`
	UnlockDate    string `json:"unlockDate"`

	IsPublic bool `json:"isPublic"`

	Media     []any    `json:"media"`
	Memories  []any    `json:"memories"`
	MediaURLs []string `json:"mediaUrls"`
}

// CreateCapsuleInput is the canonical create command handled by the
// capsule service.
type CreateCapsuleInput struct {
	OwnerID       string
	Title         string
	Description   string
	UnsealingDate time.Time
	IsPublic      bool

	// Media is the raw, heterogeneous media batch. It is normalised by the
	// media aggregator before being stored.
	Media []any
}

// AddMediaRequest is the body of POST /api/capsules/{id}/media. Either a
// single canonical item or a batch under "media" is accepted.
type AddMediaRequest struct {
	URL      string `json:"url"`
	Type     string `json:"type"`
	Filename string `json:"filename"`

	Media []any `json:"media"`
}

// ExploreQuery holds the query parameters of the public listing.
type ExploreQuery struct {
	Page   int
	Limit  int
	Search string
}

// Pagination describes a page of a public listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
}

// CapsulePage is one page of public capsules with their evaluations.
type CapsulePage struct {
	Capsules   []CapsuleView
	Pagination Pagination
}
