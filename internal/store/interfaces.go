package store

import (
	"context"
	"time"

	"github.com/MKhiriev/golden-glimpses/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// CapsuleRepository persists capsule aggregates, media list included.
//
// Writes are optimistic: UpdateCapsule only succeeds when the stored
// Version equals the one in the argument, and returns the capsule with
// the incremented Version.
type CapsuleRepository interface {
	CreateCapsule(ctx context.Context, capsule models.Capsule) (models.Capsule, error)
	GetCapsule(ctx context.Context, capsuleID string) (models.Capsule, error)
	UpdateCapsule(ctx context.Context, capsule models.Capsule) (models.Capsule, error)
	DeleteCapsule(ctx context.Context, capsuleID string) error

	// ListByOwner returns every capsule of ownerID, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Capsule, error)

	// ListPublic returns one page of public capsules, newest first, and the
	// total number of public capsules matching the filter.
	ListPublic(ctx context.Context, filter models.CapsuleFilter) ([]models.Capsule, int64, error)
}

// UserRepository persists user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByLogin(ctx context.Context, login string) (models.User, error)
	FindUserByID(ctx context.Context, userID string) (models.User, error)
}

// TokenRepository persists hashed refresh tokens.
type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, token models.RefreshToken) error
	GetRefreshToken(ctx context.Context, tokenHash string) (models.RefreshToken, error)

	// DeleteRefreshToken reports whether this call removed the token.
	// Deleting an unknown hash is not an error.
	DeleteRefreshToken(ctx context.Context, tokenHash string) (bool, error)

	// DeleteExpiredRefreshTokens removes tokens expired at now and returns
	// how many were removed.
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
